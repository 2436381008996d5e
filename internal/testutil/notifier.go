package testutil

import (
	"sync"

	"github.com/roach88/hush/internal/blocklist"
)

// RecordingNotifier captures every notification it receives.
//
// Thread-safety: safe for concurrent use.
type RecordingNotifier struct {
	mu     sync.Mutex
	events []blocklist.Notification
}

// Notify implements blocklist.Notifier.
func (r *RecordingNotifier) Notify(n blocklist.Notification) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, n)
}

// Events returns a copy of the notifications received so far.
func (r *RecordingNotifier) Events() []blocklist.Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]blocklist.Notification, len(r.events))
	copy(out, r.events)
	return out
}

// Count returns how many notifications with the given action were received.
func (r *RecordingNotifier) Count(action blocklist.Action) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, ev := range r.events {
		if ev.Action == action {
			n++
		}
	}
	return n
}

// Reset discards recorded notifications.
func (r *RecordingNotifier) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = nil
}
