package store

import (
	"context"
	"database/sql"
	"errors"

	"github.com/roach88/hush/internal/blocklist"
)

// Upsert adds number to the block list, replacing any existing row for it.
//
// The row is reset to SyncPending with a fresh blockedAt and no remote ID,
// whether or not it existed before (last writer wins). Input is validated
// before any storage access. On success an ActionAdded notification is fired.
//
// Once started the write is not cancelled by ctx: it either commits and
// notifies or fails with no partial state.
func (s *Store) Upsert(ctx context.Context, number, displayName string) (blocklist.Entry, error) {
	req := blocklist.AddRequest{Number: number, DisplayName: displayName}
	if err := req.Validate(); err != nil {
		return blocklist.Entry{}, err
	}
	if err := ctx.Err(); err != nil {
		return blocklist.Entry{}, blocklist.StorageError("upsert", number, err)
	}

	entry := blocklist.Entry{
		Number:      number,
		DisplayName: blocklist.NormalizeName(displayName),
		BlockedAt:   blocklist.NowMillis(s.clock),
		SyncStatus:  blocklist.SyncPending,
	}

	_, err := s.db.ExecContext(context.WithoutCancel(ctx), `
		INSERT INTO block_entries
		(number, display_name, blocked_at, remote_id, sync_status)
		VALUES (?, ?, ?, NULL, ?)
		ON CONFLICT(number) DO UPDATE SET
			display_name = excluded.display_name,
			blocked_at = excluded.blocked_at,
			remote_id = NULL,
			sync_status = excluded.sync_status
	`,
		entry.Number,
		entry.DisplayName,
		entry.BlockedAt,
		string(entry.SyncStatus),
	)
	if err != nil {
		return blocklist.Entry{}, blocklist.StorageError("upsert", number, err)
	}

	s.notify(blocklist.Notification{
		Number:      entry.Number,
		DisplayName: entry.DisplayName,
		Action:      blocklist.ActionAdded,
	})

	return entry, nil
}

// Remove deletes number from the block list.
// Returns false (and no error) if the number was not present; an
// ActionRemoved notification is fired only when a row was deleted.
func (s *Store) Remove(ctx context.Context, number string) (bool, error) {
	if number == "" {
		return false, nil
	}
	if err := ctx.Err(); err != nil {
		return false, blocklist.StorageError("remove", number, err)
	}

	result, err := s.db.ExecContext(context.WithoutCancel(ctx), `
		DELETE FROM block_entries WHERE number = ?
	`, number)
	if err != nil {
		return false, blocklist.StorageError("remove", number, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, blocklist.StorageError("remove", number, err)
	}
	if rowsAffected == 0 {
		return false, nil
	}

	s.notify(blocklist.Notification{
		Number: number,
		Action: blocklist.ActionRemoved,
	})

	return true, nil
}

// Exists reports whether number is on the block list (exact match).
// Storage failures are returned as errors, never folded into the result.
func (s *Store) Exists(ctx context.Context, number string) (bool, error) {
	if number == "" {
		return false, nil
	}

	var exists bool
	err := s.db.QueryRowContext(ctx, `
		SELECT EXISTS(SELECT 1 FROM block_entries WHERE number = ?)
	`, number).Scan(&exists)
	if err != nil {
		return false, blocklist.StorageError("exists", number, err)
	}
	return exists, nil
}

// Get returns the entry for number, or a NOT_FOUND error.
func (s *Store) Get(ctx context.Context, number string) (blocklist.Entry, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT number, display_name, blocked_at, remote_id, sync_status
		FROM block_entries
		WHERE number = ?
	`, number)

	entry, err := scanEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return blocklist.Entry{}, blocklist.NotFoundError("get", number)
	}
	if err != nil {
		return blocklist.Entry{}, blocklist.StorageError("get", number, err)
	}
	return entry, nil
}

// List returns every entry, most recently blocked first.
// Ties on blockedAt are ordered by number (binary collation) so the result
// is deterministic. Returns an empty slice (not nil) when the list is empty.
func (s *Store) List(ctx context.Context) ([]blocklist.Entry, error) {
	return s.queryEntries(ctx, "list", `
		SELECT number, display_name, blocked_at, remote_id, sync_status
		FROM block_entries
		ORDER BY blocked_at DESC, number COLLATE BINARY ASC
	`)
}

// ListByStatus returns entries in the given sync status, oldest first, so a
// sync collaborator pushes them in the order they were added.
func (s *Store) ListByStatus(ctx context.Context, status blocklist.SyncStatus) ([]blocklist.Entry, error) {
	return s.queryEntries(ctx, "list by status", `
		SELECT number, display_name, blocked_at, remote_id, sync_status
		FROM block_entries
		WHERE sync_status = ?
		ORDER BY blocked_at ASC, number COLLATE BINARY ASC
	`, string(status))
}

func (s *Store) queryEntries(ctx context.Context, op, query string, args ...any) ([]blocklist.Entry, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, blocklist.StorageError(op, "", err)
	}
	defer rows.Close()

	entries := []blocklist.Entry{}
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, blocklist.StorageError(op, "", err)
		}
		entries = append(entries, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, blocklist.StorageError(op, "", err)
	}

	return entries, nil
}

// scanner is satisfied by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanEntry(row scanner) (blocklist.Entry, error) {
	var (
		entry    blocklist.Entry
		remoteID sql.NullString
		status   string
	)
	if err := row.Scan(&entry.Number, &entry.DisplayName, &entry.BlockedAt, &remoteID, &status); err != nil {
		return blocklist.Entry{}, err
	}

	syncStatus, err := blocklist.ParseSyncStatus(status)
	if err != nil {
		return blocklist.Entry{}, err
	}
	entry.SyncStatus = syncStatus
	entry.RemoteID = remoteID.String

	return entry, nil
}
