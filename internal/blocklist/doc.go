// Package blocklist defines the shared model of the blocking agent: blocked
// number entries, the blocking events recorded when a call or message is
// rejected, membership notifications, and the typed errors every layer
// reports.
//
// # Entries
//
// An Entry is keyed by its exact number string. There is at most one live
// entry per number; re-adding a number replaces the previous row and resets
// its sync state to Pending.
//
// # Sync status
//
//   - Pending:  set on every add, not yet confirmed by the remote service
//   - Synced:   remote write confirmed, RemoteID assigned
//   - Conflict: remote rejected or diverged; left only by re-adding
//
// Sync status never influences screening decisions.
//
// # Events
//
// CallEvent and MessageEvent reference a number by value. They remain valid
// after the entry is removed and are never mutated.
package blocklist
