// Package harness runs block-list scenarios end to end against a real store.
//
// # Scenario Format
//
// Scenarios are YAML files:
//
//	name: blocked_caller_is_rejected
//	description: "A number on the list is rejected and audited"
//	setup:
//	  - op: add
//	    number: "+15551234567"
//	    name: Spam Likely
//	flow:
//	  - op: screen_call
//	    number: "+15551234567"
//	    expect:
//	      decision: block
//	assertions:
//	  - type: call_events
//	    number: "+15551234567"
//	    count: 1
//
// # Operations
//
//   - add, remove: list management (add takes name)
//   - mark_synced, mark_conflict: sync transitions (mark_synced takes remote_id)
//   - decide: pure lookup, no audit record
//   - screen_call, screen_sms: OS hook entry points (screen_sms takes body)
//
// # Assertion Types
//
//   - entry: the number is on the list, optionally with status, remote_id, display_name
//   - no_entry: the number is not on the list
//   - call_events, message_events: exact event count, optionally for one number
//   - message_preview: the newest message event for number has this preview
//   - notifications: exact count of added or removed notifications
//
// # Deterministic Testing
//
// Every scenario runs in a fresh in-memory database with a step clock and
// sequential event IDs, so traces are identical across runs and can be
// compared against golden files.
package harness
