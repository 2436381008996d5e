// Package screen makes the allow/block decision for inbound calls and
// messages.
//
// The decision is an exact match of the originating number against the block
// list. Two policies keep legitimate contacts reachable:
//
//   - An empty number (caller ID withheld) is always allowed.
//   - A lookup that fails or times out is allowed (fail-open) and reported
//     through the logger and the fail-open counter.
//
// A Block outcome from ScreenCall or ScreenMessage appends exactly one event
// to the event log. The engine never modifies block list entries and is safe
// for concurrent use.
package screen
