package store

import (
	"path/filepath"
	"testing"

	"github.com/roach88/hush/internal/testutil"
)

// createTestStore creates a new store in a temp directory with a step clock.
func createTestStore(t *testing.T, opts ...Option) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	opts = append([]Option{WithClock(testutil.NewStepClock())}, opts...)
	s, err := Open(path, opts...)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// createClosedStore returns a store whose connection is already closed, so
// every operation fails at the storage layer.
func createClosedStore(t *testing.T, opts ...Option) *Store {
	t.Helper()
	s := createTestStore(t, opts...)
	if err := s.db.Close(); err != nil {
		t.Fatalf("close failed: %v", err)
	}
	return s
}
