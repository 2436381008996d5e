package store

import (
	"context"
	"database/sql"
	"errors"
	"slices"

	"github.com/roach88/hush/internal/blocklist"
)

// TransitionOutcome reports what a conditional sync update did.
type TransitionOutcome int

const (
	// TransitionApplied means the row was updated.
	TransitionApplied TransitionOutcome = iota

	// TransitionMissing means no row exists for the number.
	TransitionMissing

	// TransitionRejected means the row's current status is not an allowed source.
	TransitionRejected
)

// SyncUpdate describes a conditional change of an entry's sync metadata.
type SyncUpdate struct {
	// To is the target status.
	To blocklist.SyncStatus

	// From lists the statuses the entry may currently be in.
	From []blocklist.SyncStatus

	// RemoteID replaces the stored remote ID when SetRemoteID is true.
	RemoteID    string
	SetRemoteID bool
}

// TransitionResult is returned by TransitionSync.
type TransitionResult struct {
	Outcome TransitionOutcome

	// Previous is the status found before the update (empty when missing).
	Previous blocklist.SyncStatus
}

// TransitionSync applies update to number in one transaction: the current
// status is read, checked against update.From, and written only if allowed.
// A missing number is reported as TransitionMissing, not as an error.
func (s *Store) TransitionSync(ctx context.Context, number string, update SyncUpdate) (TransitionResult, error) {
	const op = "transition sync"

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return TransitionResult{}, blocklist.StorageError(op, number, err)
	}
	defer tx.Rollback() // No-op if committed

	var current string
	err = tx.QueryRowContext(ctx, `
		SELECT sync_status FROM block_entries WHERE number = ?
	`, number).Scan(&current)
	if errors.Is(err, sql.ErrNoRows) {
		return TransitionResult{Outcome: TransitionMissing}, nil
	}
	if err != nil {
		return TransitionResult{}, blocklist.StorageError(op, number, err)
	}

	previous, err := blocklist.ParseSyncStatus(current)
	if err != nil {
		return TransitionResult{}, blocklist.StorageError(op, number, err)
	}

	if !slices.Contains(update.From, previous) {
		return TransitionResult{Outcome: TransitionRejected, Previous: previous}, nil
	}

	if update.SetRemoteID {
		_, err = tx.ExecContext(ctx, `
			UPDATE block_entries SET sync_status = ?, remote_id = ? WHERE number = ?
		`, string(update.To), update.RemoteID, number)
	} else {
		_, err = tx.ExecContext(ctx, `
			UPDATE block_entries SET sync_status = ? WHERE number = ?
		`, string(update.To), number)
	}
	if err != nil {
		return TransitionResult{}, blocklist.StorageError(op, number, err)
	}

	if err := tx.Commit(); err != nil {
		return TransitionResult{}, blocklist.StorageError(op, number, err)
	}

	return TransitionResult{Outcome: TransitionApplied, Previous: previous}, nil
}
