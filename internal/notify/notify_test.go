package notify

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/hush/internal/blocklist"
	"github.com/roach88/hush/internal/testutil"
)

var added = blocklist.Notification{
	Number:      "+15551234567",
	DisplayName: "Spam Corp",
	Action:      blocklist.ActionAdded,
}

func TestFunc(t *testing.T) {
	var got []blocklist.Notification
	f := Func(func(n blocklist.Notification) { got = append(got, n) })

	f.Notify(added)
	assert.Equal(t, []blocklist.Notification{added}, got)

	// A nil Func is a valid no-op observer.
	var nilFunc Func
	assert.NotPanics(t, func() { nilFunc.Notify(added) })
}

func TestFanout(t *testing.T) {
	a := &testutil.RecordingNotifier{}
	b := &testutil.RecordingNotifier{}

	Fanout{a, nil, b}.Notify(added)

	assert.Equal(t, []blocklist.Notification{added}, a.Events())
	assert.Equal(t, []blocklist.Notification{added}, b.Events())
}

func TestLog(t *testing.T) {
	buf := &bytes.Buffer{}
	logger := slog.New(slog.NewTextHandler(buf, nil))

	NewLog(logger).Notify(added)
	NewLog(logger).Notify(blocklist.Notification{Number: "+15551234567", Action: blocklist.ActionRemoved})

	out := buf.String()
	assert.Contains(t, out, "msg=onNumberAdded")
	assert.Contains(t, out, "number=+15551234567")
	assert.Contains(t, out, `display_name="Spam Corp"`)
	assert.Contains(t, out, "msg=onNumberRemoved")
}

func TestBuffered_DeliversAndDrops(t *testing.T) {
	b := NewBuffered(1)

	b.Notify(added)
	assert.False(t, b.Dropped())

	// Channel full: dropped, not blocked.
	b.Notify(added)
	assert.True(t, b.Dropped())
	assert.False(t, b.Dropped(), "Dropped clears the flag")

	select {
	case n := <-b.C():
		assert.Equal(t, added, n)
	default:
		require.Fail(t, "expected a buffered notification")
	}
}

func TestBuffered_ZeroCapacityNeverBlocks(t *testing.T) {
	b := NewBuffered(0)
	assert.NotPanics(t, func() { b.Notify(added) })
	assert.True(t, b.Dropped())
}
