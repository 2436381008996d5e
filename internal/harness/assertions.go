package harness

import (
	"context"
	"fmt"

	"github.com/roach88/hush/internal/blocklist"
	"github.com/roach88/hush/internal/store"
)

// evaluate runs all assertions and returns failure messages.
func (h *Harness) evaluate(ctx context.Context, assertions []Assertion) []string {
	var failures []string
	for i, a := range assertions {
		if err := h.assert(ctx, a); err != nil {
			failures = append(failures, fmt.Sprintf("assertions[%d] %s: %v", i, a.Type, err))
		}
	}
	return failures
}

func (h *Harness) assert(ctx context.Context, a Assertion) error {
	switch a.Type {
	case AssertEntry:
		return h.assertEntry(ctx, a)

	case AssertNoEntry:
		exists, err := h.store.Exists(ctx, a.Number)
		if err != nil {
			return err
		}
		if exists {
			return fmt.Errorf("%s is still on the list", a.Number)
		}
		return nil

	case AssertCallEvents:
		events, err := h.store.ListCallEvents(ctx, store.EventFilter{Number: a.Number})
		if err != nil {
			return err
		}
		return compareCount(len(events), a.Count)

	case AssertMessageEvents:
		events, err := h.store.ListMessageEvents(ctx, store.EventFilter{Number: a.Number})
		if err != nil {
			return err
		}
		return compareCount(len(events), a.Count)

	case AssertMessagePreview:
		events, err := h.store.ListMessageEvents(ctx, store.EventFilter{Number: a.Number, Limit: 1})
		if err != nil {
			return err
		}
		if len(events) == 0 {
			return fmt.Errorf("no message events for %s", a.Number)
		}
		if events[0].MessagePreview != *a.Preview {
			return fmt.Errorf("expected preview %q, got %q", *a.Preview, events[0].MessagePreview)
		}
		return nil

	case AssertNotifications:
		return compareCount(h.notifier.Count(blocklist.Action(a.Action)), a.Count)
	}

	return fmt.Errorf("unknown assertion type %q", a.Type)
}

func (h *Harness) assertEntry(ctx context.Context, a Assertion) error {
	entry, err := h.store.Get(ctx, a.Number)
	if err != nil {
		return err
	}

	if a.Status != "" && string(entry.SyncStatus) != a.Status {
		return fmt.Errorf("expected status %s, got %s", a.Status, entry.SyncStatus)
	}
	if a.RemoteID != nil && entry.RemoteID != *a.RemoteID {
		return fmt.Errorf("expected remote_id %q, got %q", *a.RemoteID, entry.RemoteID)
	}
	if a.DisplayName != nil && entry.DisplayName != *a.DisplayName {
		return fmt.Errorf("expected display_name %q, got %q", *a.DisplayName, entry.DisplayName)
	}
	return nil
}

func compareCount(got, want int) error {
	if got != want {
		return fmt.Errorf("expected %d, got %d", want, got)
	}
	return nil
}
