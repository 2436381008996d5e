package testutil

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestStepClock_StartsAtEpoch(t *testing.T) {
	clock := NewStepClock()
	assert.Equal(t, DefaultEpoch, clock.Peek())
	assert.Equal(t, DefaultEpoch, clock.Now())
}

func TestStepClock_AdvancesEachReading(t *testing.T) {
	clock := NewStepClock()

	first := clock.Now()
	second := clock.Now()
	third := clock.Now()

	assert.Equal(t, time.Millisecond, second.Sub(first))
	assert.Equal(t, time.Millisecond, third.Sub(second))
}

func TestStepClock_ZeroStepIsFrozen(t *testing.T) {
	start := time.UnixMilli(42)
	clock := NewStepClockAt(start, 0)

	assert.Equal(t, start, clock.Now())
	assert.Equal(t, start, clock.Now())
}

func TestStepClock_Set(t *testing.T) {
	clock := NewStepClock()
	clock.Now()

	target := time.UnixMilli(1_800_000_000_000)
	clock.Set(target)
	assert.Equal(t, target, clock.Now())
}

func TestStepClock_ConcurrentReadingsAreUnique(t *testing.T) {
	clock := NewStepClock()

	const goroutines = 50
	var wg sync.WaitGroup
	readings := make(chan int64, goroutines)

	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			readings <- clock.Now().UnixMilli()
		}()
	}
	wg.Wait()
	close(readings)

	seen := make(map[int64]bool)
	for r := range readings {
		assert.False(t, seen[r], "duplicate reading %d", r)
		seen[r] = true
	}
	assert.Len(t, seen, goroutines)
}
