package testutil

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/roach88/hush/internal/blocklist"
)

func TestRecordingNotifier(t *testing.T) {
	rec := &RecordingNotifier{}
	rec.Notify(blocklist.Notification{Number: "+1555", Action: blocklist.ActionAdded})
	rec.Notify(blocklist.Notification{Number: "+1555", Action: blocklist.ActionRemoved})
	rec.Notify(blocklist.Notification{Number: "+1666", Action: blocklist.ActionAdded})

	assert.Len(t, rec.Events(), 3)
	assert.Equal(t, 2, rec.Count(blocklist.ActionAdded))
	assert.Equal(t, 1, rec.Count(blocklist.ActionRemoved))

	rec.Reset()
	assert.Empty(t, rec.Events())
}
