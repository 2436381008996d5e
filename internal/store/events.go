package store

import (
	"context"

	"github.com/roach88/hush/internal/blocklist"
)

// AppendCallEvent records a blocked call from number.
func (s *Store) AppendCallEvent(ctx context.Context, number string) (blocklist.CallEvent, error) {
	event := blocklist.CallEvent{
		ID:        s.newID(),
		Number:    number,
		BlockedAt: blocklist.NowMillis(s.clock),
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO blocked_calls (id, number, blocked_at)
		VALUES (?, ?, ?)
	`, event.ID, event.Number, event.BlockedAt)
	if err != nil {
		return blocklist.CallEvent{}, blocklist.StorageError("append call event", number, err)
	}

	return event, nil
}

// AppendMessageEvent records a blocked message from number.
// Only the first blocklist.PreviewLength characters of body are stored.
func (s *Store) AppendMessageEvent(ctx context.Context, number, body string) (blocklist.MessageEvent, error) {
	event := blocklist.MessageEvent{
		ID:             s.newID(),
		Number:         number,
		MessagePreview: blocklist.Preview(body),
		BlockedAt:      blocklist.NowMillis(s.clock),
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO blocked_messages (id, number, message_preview, blocked_at)
		VALUES (?, ?, ?, ?)
	`, event.ID, event.Number, event.MessagePreview, event.BlockedAt)
	if err != nil {
		return blocklist.MessageEvent{}, blocklist.StorageError("append message event", number, err)
	}

	return event, nil
}

// EventFilter narrows event listings.
type EventFilter struct {
	// Number restricts results to one originating number when non-empty.
	Number string

	// Limit caps the number of results when positive.
	Limit int
}

func (f EventFilter) limit() int {
	if f.Limit <= 0 {
		return -1 // SQLite: no limit
	}
	return f.Limit
}

// ListCallEvents returns blocked calls, newest first.
func (s *Store) ListCallEvents(ctx context.Context, filter EventFilter) ([]blocklist.CallEvent, error) {
	const op = "list call events"

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, number, blocked_at
		FROM blocked_calls
		WHERE (? = '' OR number = ?)
		ORDER BY blocked_at DESC, id COLLATE BINARY DESC
		LIMIT ?
	`, filter.Number, filter.Number, filter.limit())
	if err != nil {
		return nil, blocklist.StorageError(op, filter.Number, err)
	}
	defer rows.Close()

	events := []blocklist.CallEvent{}
	for rows.Next() {
		var ev blocklist.CallEvent
		if err := rows.Scan(&ev.ID, &ev.Number, &ev.BlockedAt); err != nil {
			return nil, blocklist.StorageError(op, filter.Number, err)
		}
		events = append(events, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, blocklist.StorageError(op, filter.Number, err)
	}

	return events, nil
}

// ListMessageEvents returns blocked messages, newest first.
func (s *Store) ListMessageEvents(ctx context.Context, filter EventFilter) ([]blocklist.MessageEvent, error) {
	const op = "list message events"

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, number, message_preview, blocked_at
		FROM blocked_messages
		WHERE (? = '' OR number = ?)
		ORDER BY blocked_at DESC, id COLLATE BINARY DESC
		LIMIT ?
	`, filter.Number, filter.Number, filter.limit())
	if err != nil {
		return nil, blocklist.StorageError(op, filter.Number, err)
	}
	defer rows.Close()

	events := []blocklist.MessageEvent{}
	for rows.Next() {
		var ev blocklist.MessageEvent
		if err := rows.Scan(&ev.ID, &ev.Number, &ev.MessagePreview, &ev.BlockedAt); err != nil {
			return nil, blocklist.StorageError(op, filter.Number, err)
		}
		events = append(events, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, blocklist.StorageError(op, filter.Number, err)
	}

	return events, nil
}
