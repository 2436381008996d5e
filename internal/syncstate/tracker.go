// Package syncstate drives the per-entry sync lifecycle.
//
//	Pending ──MarkSynced──▶ Synced ──MarkConflict──▶ Conflict
//	   │                      ▲ │                       │
//	   └──────MarkConflict────┼─┘                       │
//	                          └── MarkSynced (new id)   │
//	Upsert (any state) ──────────────────────────▶ Pending
//
// Conflict is left only by re-adding the number. Marks against a number that
// no longer exists locally are no-ops: a local remove racing an in-flight
// sync confirmation is expected.
//
// Sync state never affects screening.
package syncstate

import (
	"context"
	"log/slog"

	"github.com/roach88/hush/internal/blocklist"
	"github.com/roach88/hush/internal/store"
)

// Store is the subset of *store.Store the tracker needs.
type Store interface {
	TransitionSync(ctx context.Context, number string, update store.SyncUpdate) (store.TransitionResult, error)
	ListByStatus(ctx context.Context, status blocklist.SyncStatus) ([]blocklist.Entry, error)
	List(ctx context.Context) ([]blocklist.Entry, error)
	Upsert(ctx context.Context, number, displayName string) (blocklist.Entry, error)
	Remove(ctx context.Context, number string) (bool, error)
}

// allowedFrom lists, per target status, the statuses a mark may start from.
var allowedFrom = map[blocklist.SyncStatus][]blocklist.SyncStatus{
	blocklist.SyncSynced:   {blocklist.SyncPending, blocklist.SyncSynced},
	blocklist.SyncConflict: {blocklist.SyncPending, blocklist.SyncSynced, blocklist.SyncConflict},
}

// Tracker applies sync transitions reported by the external sync collaborator.
type Tracker struct {
	store  Store
	logger *slog.Logger
}

// New creates a Tracker. A nil logger uses slog.Default().
func New(s Store, logger *slog.Logger) *Tracker {
	if logger == nil {
		logger = slog.Default()
	}
	return &Tracker{store: s, logger: logger}
}

// MarkSynced records that the remote service confirmed number under remoteID.
// Returns false, nil if number is not on the list. Returns an
// INVALID_TRANSITION error if the entry is in Conflict.
func (t *Tracker) MarkSynced(ctx context.Context, number, remoteID string) (bool, error) {
	if remoteID == "" {
		return false, blocklist.InvalidInputError("mark synced", "remote_id is required")
	}
	return t.transition(ctx, "mark synced", number, store.SyncUpdate{
		To:          blocklist.SyncSynced,
		From:        allowedFrom[blocklist.SyncSynced],
		RemoteID:    remoteID,
		SetRemoteID: true,
	})
}

// MarkConflict records that the remote service rejected or diverged from number.
// Returns false, nil if number is not on the list.
func (t *Tracker) MarkConflict(ctx context.Context, number string) (bool, error) {
	return t.transition(ctx, "mark conflict", number, store.SyncUpdate{
		To:   blocklist.SyncConflict,
		From: allowedFrom[blocklist.SyncConflict],
	})
}

// Pending returns entries awaiting a push, oldest first.
func (t *Tracker) Pending(ctx context.Context) ([]blocklist.Entry, error) {
	return t.store.ListByStatus(ctx, blocklist.SyncPending)
}

// Conflicts returns entries the remote service rejected, oldest first.
func (t *Tracker) Conflicts(ctx context.Context) ([]blocklist.Entry, error) {
	return t.store.ListByStatus(ctx, blocklist.SyncConflict)
}

func (t *Tracker) transition(ctx context.Context, op, number string, update store.SyncUpdate) (bool, error) {
	result, err := t.store.TransitionSync(ctx, number, update)
	if err != nil {
		return false, err
	}

	switch result.Outcome {
	case store.TransitionMissing:
		t.logger.Debug("sync mark for unknown number ignored",
			"op", op,
			"number", number,
		)
		return false, nil
	case store.TransitionRejected:
		return false, blocklist.InvalidTransitionError(op, number, result.Previous, update.To)
	}

	t.logger.Debug("sync state changed",
		"number", number,
		"from", string(result.Previous),
		"to", string(update.To),
	)
	return true, nil
}
