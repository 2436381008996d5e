// Package store provides SQLite-backed durable storage for the block list.
//
// The store owns three tables:
//   - block_entries: one row per blocked number (UNIQUE on number)
//   - blocked_calls: append-only record of rejected calls
//   - blocked_messages: append-only record of dropped messages
//
// Events reference numbers by value, so an event outlives the entry that
// caused it. There are no foreign keys between the tables.
//
// # Atomicity
//
// Every operation is a single short statement or transaction. Re-adding a
// number is one INSERT ... ON CONFLICT DO UPDATE, so concurrent adds of the
// same number leave exactly one row; the last commit wins.
//
// Notifications are fired only after a committed add or an actual delete.
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout: bounded wait for locks (default 5 seconds)
//
// # Schema Evolution
//
// The schema version lives in PRAGMA user_version. A database written by a
// different schema version has all three tables dropped and recreated; list
// contents and event history do not survive a version change.
package store
