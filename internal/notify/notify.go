// Package notify provides observers for block list membership changes.
//
// The store calls its Notifier synchronously after each committed add or
// remove. Delivery is best-effort: nothing is queued for later or retried.
package notify

import (
	"context"
	"log/slog"

	"github.com/roach88/hush/internal/blocklist"
)

// Func adapts a plain function to blocklist.Notifier.
type Func func(blocklist.Notification)

// Notify calls f(n).
func (f Func) Notify(n blocklist.Notification) {
	if f != nil {
		f(n)
	}
}

// Fanout delivers each notification to every observer in order.
// Nil observers are skipped.
type Fanout []blocklist.Notifier

// Notify implements blocklist.Notifier.
func (f Fanout) Notify(n blocklist.Notification) {
	for _, o := range f {
		if o != nil {
			o.Notify(n)
		}
	}
}

// Log writes notifications to a structured logger.
type Log struct {
	Logger *slog.Logger
	Level  slog.Level
}

// NewLog creates a Log notifier at info level. A nil logger uses slog.Default().
func NewLog(logger *slog.Logger) *Log {
	if logger == nil {
		logger = slog.Default()
	}
	return &Log{Logger: logger, Level: slog.LevelInfo}
}

// Notify implements blocklist.Notifier.
func (l *Log) Notify(n blocklist.Notification) {
	attrs := []slog.Attr{
		slog.String("number", n.Number),
		slog.String("action", string(n.Action)),
	}
	if n.DisplayName != "" {
		attrs = append(attrs, slog.String("display_name", n.DisplayName))
	}
	l.Logger.LogAttrs(context.Background(), l.Level, eventName(n.Action), attrs...)
}

func eventName(a blocklist.Action) string {
	switch a {
	case blocklist.ActionAdded:
		return "onNumberAdded"
	case blocklist.ActionRemoved:
		return "onNumberRemoved"
	}
	return "onNumberChanged"
}

// Buffered hands notifications to a consumer goroutine through a bounded
// channel. When the channel is full the notification is dropped and counted;
// Notify never blocks the store.
type Buffered struct {
	ch      chan blocklist.Notification
	dropped chan struct{}
}

// NewBuffered creates a Buffered notifier with the given capacity.
func NewBuffered(capacity int) *Buffered {
	if capacity < 0 {
		capacity = 0
	}
	return &Buffered{
		ch:      make(chan blocklist.Notification, capacity),
		dropped: make(chan struct{}, 1),
	}
}

// Notify implements blocklist.Notifier.
func (b *Buffered) Notify(n blocklist.Notification) {
	select {
	case b.ch <- n:
	default:
		select {
		case b.dropped <- struct{}{}:
		default:
		}
	}
}

// C returns the channel notifications are delivered on.
func (b *Buffered) C() <-chan blocklist.Notification {
	return b.ch
}

// Dropped reports, and clears, whether any notification was dropped since
// the last call.
func (b *Buffered) Dropped() bool {
	select {
	case <-b.dropped:
		return true
	default:
		return false
	}
}
