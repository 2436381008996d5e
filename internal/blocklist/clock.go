package blocklist

import "time"

// Clock supplies wall time for blockedAt stamps.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the host clock.
type SystemClock struct{}

// Now returns time.Now().
func (SystemClock) Now() time.Time {
	return time.Now()
}

// NowMillis returns the clock reading in epoch milliseconds.
func NowMillis(c Clock) int64 {
	return c.Now().UnixMilli()
}
