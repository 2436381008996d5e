package syncstate

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/hush/internal/blocklist"
	"github.com/roach88/hush/internal/store"
	"github.com/roach88/hush/internal/testutil"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestTracker(t *testing.T) (*Tracker, *store.Store) {
	t.Helper()
	s, err := store.Open(filepath.Join(t.TempDir(), "test.db"),
		store.WithClock(testutil.NewStepClock()),
		store.WithLogger(discardLogger()),
	)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return New(s, discardLogger()), s
}

func mustGet(t *testing.T, s *store.Store, number string) blocklist.Entry {
	t.Helper()
	e, err := s.Get(context.Background(), number)
	require.NoError(t, err)
	return e
}

func TestMarkSynced_FromPending(t *testing.T) {
	tr, s := newTestTracker(t)
	ctx := context.Background()
	_, err := s.Upsert(ctx, "+15551234567", "Spam")
	require.NoError(t, err)

	applied, err := tr.MarkSynced(ctx, "+15551234567", "r-1")
	require.NoError(t, err)
	assert.True(t, applied)

	e := mustGet(t, s, "+15551234567")
	assert.Equal(t, blocklist.SyncSynced, e.SyncStatus)
	assert.Equal(t, "r-1", e.RemoteID)
}

func TestMarkSynced_ReplacesRemoteID(t *testing.T) {
	tr, s := newTestTracker(t)
	ctx := context.Background()
	_, err := s.Upsert(ctx, "+15551234567", "")
	require.NoError(t, err)

	_, err = tr.MarkSynced(ctx, "+15551234567", "r-1")
	require.NoError(t, err)
	applied, err := tr.MarkSynced(ctx, "+15551234567", "r-2")
	require.NoError(t, err)
	assert.True(t, applied)

	assert.Equal(t, "r-2", mustGet(t, s, "+15551234567").RemoteID)
}

func TestMarkSynced_EmptyRemoteID(t *testing.T) {
	tr, s := newTestTracker(t)
	ctx := context.Background()
	_, err := s.Upsert(ctx, "+15551234567", "")
	require.NoError(t, err)

	applied, err := tr.MarkSynced(ctx, "+15551234567", "")
	assert.False(t, applied)
	assert.True(t, blocklist.IsInvalidInput(err))
	assert.Equal(t, blocklist.SyncPending, mustGet(t, s, "+15551234567").SyncStatus)
}

func TestMarkSynced_FromConflictRejected(t *testing.T) {
	tr, s := newTestTracker(t)
	ctx := context.Background()
	_, err := s.Upsert(ctx, "+15551234567", "")
	require.NoError(t, err)
	_, err = tr.MarkConflict(ctx, "+15551234567")
	require.NoError(t, err)

	applied, err := tr.MarkSynced(ctx, "+15551234567", "r-1")
	assert.False(t, applied)
	require.Error(t, err)
	assert.True(t, blocklist.IsInvalidTransition(err))

	e := mustGet(t, s, "+15551234567")
	assert.Equal(t, blocklist.SyncConflict, e.SyncStatus)
	assert.Empty(t, e.RemoteID)
}

func TestMarkSynced_AfterRemoveIsNoop(t *testing.T) {
	tr, s := newTestTracker(t)
	ctx := context.Background()
	_, err := s.Upsert(ctx, "+15551234567", "")
	require.NoError(t, err)
	_, err = s.Remove(ctx, "+15551234567")
	require.NoError(t, err)

	applied, err := tr.MarkSynced(ctx, "+15551234567", "r-1")
	require.NoError(t, err)
	assert.False(t, applied)

	exists, err := s.Exists(ctx, "+15551234567")
	require.NoError(t, err)
	assert.False(t, exists, "mark must not resurrect a removed number")
}

func TestMarkConflict(t *testing.T) {
	tests := []struct {
		name  string
		setup func(t *testing.T, tr *Tracker)
	}{
		{"from pending", func(t *testing.T, tr *Tracker) {}},
		{"from synced", func(t *testing.T, tr *Tracker) {
			_, err := tr.MarkSynced(context.Background(), "+15551234567", "r-1")
			require.NoError(t, err)
		}},
		{"from conflict", func(t *testing.T, tr *Tracker) {
			_, err := tr.MarkConflict(context.Background(), "+15551234567")
			require.NoError(t, err)
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr, s := newTestTracker(t)
			_, err := s.Upsert(context.Background(), "+15551234567", "")
			require.NoError(t, err)
			tt.setup(t, tr)

			applied, err := tr.MarkConflict(context.Background(), "+15551234567")
			require.NoError(t, err)
			assert.True(t, applied)
			assert.Equal(t, blocklist.SyncConflict, mustGet(t, s, "+15551234567").SyncStatus)
		})
	}
}

func TestMarkConflict_KeepsRemoteID(t *testing.T) {
	tr, s := newTestTracker(t)
	ctx := context.Background()
	_, err := s.Upsert(ctx, "+15551234567", "")
	require.NoError(t, err)
	_, err = tr.MarkSynced(ctx, "+15551234567", "r-1")
	require.NoError(t, err)

	_, err = tr.MarkConflict(ctx, "+15551234567")
	require.NoError(t, err)
	assert.Equal(t, "r-1", mustGet(t, s, "+15551234567").RemoteID)
}

func TestMarkConflict_UnknownNumber(t *testing.T) {
	tr, _ := newTestTracker(t)

	applied, err := tr.MarkConflict(context.Background(), "+19990000000")
	require.NoError(t, err)
	assert.False(t, applied)
}

func TestUpsertAfterConflictResetsToPending(t *testing.T) {
	tr, s := newTestTracker(t)
	ctx := context.Background()
	_, err := s.Upsert(ctx, "+15551234567", "Old")
	require.NoError(t, err)
	_, err = tr.MarkConflict(ctx, "+15551234567")
	require.NoError(t, err)

	_, err = s.Upsert(ctx, "+15551234567", "New")
	require.NoError(t, err)

	e := mustGet(t, s, "+15551234567")
	assert.Equal(t, blocklist.SyncPending, e.SyncStatus)
	assert.Equal(t, "New", e.DisplayName)

	applied, err := tr.MarkSynced(ctx, "+15551234567", "r-9")
	require.NoError(t, err)
	assert.True(t, applied)
}

func TestPendingAndConflicts(t *testing.T) {
	tr, s := newTestTracker(t)
	ctx := context.Background()
	for _, n := range []string{"+1001", "+1002", "+1003"} {
		_, err := s.Upsert(ctx, n, "")
		require.NoError(t, err)
	}
	_, err := tr.MarkSynced(ctx, "+1001", "r-1")
	require.NoError(t, err)
	_, err = tr.MarkConflict(ctx, "+1002")
	require.NoError(t, err)

	pending, err := tr.Pending(ctx)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, "+1003", pending[0].Number)

	conflicts, err := tr.Conflicts(ctx)
	require.NoError(t, err)
	require.Len(t, conflicts, 1)
	assert.Equal(t, "+1002", conflicts[0].Number)
}

func TestMark_StorageErrorPropagates(t *testing.T) {
	tr, s := newTestTracker(t)
	require.NoError(t, s.Close())

	_, err := tr.MarkConflict(context.Background(), "+15551234567")
	require.Error(t, err)
	assert.True(t, blocklist.IsStorage(err))
}
