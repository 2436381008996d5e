package testutil

import (
	"fmt"
	"sync/atomic"
)

// SequenceIDs generates predictable event IDs ("evt-000001", "evt-000002", ...).
//
// Store event IDs are UUIDv7 in production; tests that compare output
// byte-for-byte (golden files) swap in this generator.
//
// Thread-safety: safe for concurrent use.
type SequenceIDs struct {
	prefix string
	seq    atomic.Int64
}

// NewSequenceIDs creates a generator. An empty prefix defaults to "evt".
func NewSequenceIDs(prefix string) *SequenceIDs {
	if prefix == "" {
		prefix = "evt"
	}
	return &SequenceIDs{prefix: prefix}
}

// Next returns the next ID.
func (g *SequenceIDs) Next() string {
	return fmt.Sprintf("%s-%06d", g.prefix, g.seq.Add(1))
}
