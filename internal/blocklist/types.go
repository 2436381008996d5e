package blocklist

import (
	"fmt"
	"time"
)

// SyncStatus tracks whether an entry has been confirmed by the remote service.
type SyncStatus string

const (
	SyncPending  SyncStatus = "pending"
	SyncSynced   SyncStatus = "synced"
	SyncConflict SyncStatus = "conflict"
)

// Valid reports whether s is one of the known statuses.
func (s SyncStatus) Valid() bool {
	switch s {
	case SyncPending, SyncSynced, SyncConflict:
		return true
	}
	return false
}

// ParseSyncStatus converts a persisted column value into a SyncStatus.
// An empty value is read as Pending, matching the column default.
func ParseSyncStatus(v string) (SyncStatus, error) {
	if v == "" {
		return SyncPending, nil
	}
	s := SyncStatus(v)
	if !s.Valid() {
		return "", fmt.Errorf("unknown sync status %q", v)
	}
	return s, nil
}

// Entry is one blocked number.
type Entry struct {
	Number      string     `json:"number"`
	DisplayName string     `json:"display_name"`
	BlockedAt   int64      `json:"blocked_at"` // epoch milliseconds
	RemoteID    string     `json:"remote_id,omitempty"`
	SyncStatus  SyncStatus `json:"sync_status"`
}

// HasRemoteID reports whether the remote service has assigned an identifier.
func (e Entry) HasRemoteID() bool {
	return e.RemoteID != ""
}

// BlockedTime returns BlockedAt as a time.Time.
func (e Entry) BlockedTime() time.Time {
	return time.UnixMilli(e.BlockedAt)
}

// CallEvent records one blocked inbound call.
type CallEvent struct {
	ID        string `json:"id"`
	Number    string `json:"number"`
	BlockedAt int64  `json:"blocked_at"`
}

// MessageEvent records one blocked inbound message.
type MessageEvent struct {
	ID             string `json:"id"`
	Number         string `json:"number"`
	MessagePreview string `json:"message_preview"`
	BlockedAt      int64  `json:"blocked_at"`
}

// Action is the kind of membership change carried by a Notification.
type Action string

const (
	ActionAdded   Action = "added"
	ActionRemoved Action = "removed"
)

// Notification describes a committed add or remove.
// DisplayName is empty for removals.
type Notification struct {
	Number      string `json:"number"`
	DisplayName string `json:"display_name,omitempty"`
	Action      Action `json:"action"`
}

// Notifier observes membership changes. Notify is called synchronously after
// the change is committed; delivery is best-effort.
type Notifier interface {
	Notify(n Notification)
}
