package audit

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJournalRecordAndRecent(t *testing.T) {
	journal, err := NewInMemoryJournal()
	require.NoError(t, err)
	t.Cleanup(func() { journal.Close() })

	ctx := context.Background()

	for _, action := range []string{"auto_progress_workflow", "order_created", "grn_recorded"} {
		err := journal.Record(ctx, &Entry{
			OrganizationID: "org-1",
			Action:         action,
			TargetTable:    "workflow_progress",
			Metadata:       json.RawMessage(`{"source":"test"}`),
		})
		require.NoError(t, err)
	}
	// An entry for another organization must not leak into the listing.
	require.NoError(t, journal.Record(ctx, &Entry{
		OrganizationID: "org-2",
		Action:         "order_created",
		TargetTable:    "orders",
	}))

	entries, err := journal.Recent(ctx, "org-1", 10)
	require.NoError(t, err)
	assert.Len(t, entries, 3)
	for _, entry := range entries {
		assert.Equal(t, "org-1", entry.OrganizationID)
		assert.NotZero(t, entry.ID)
		assert.False(t, entry.CreatedAt.IsZero())
	}
}

func TestJournalRecentAppliesLimit(t *testing.T) {
	journal, err := NewInMemoryJournal()
	require.NoError(t, err)
	t.Cleanup(func() { journal.Close() })

	ctx := context.Background()
	for i := 0; i < 5; i++ {
		require.NoError(t, journal.Record(ctx, &Entry{
			OrganizationID: "org-1",
			Action:         "stage_activated",
			TargetTable:    "workflow_progress",
		}))
	}

	entries, err := journal.Recent(ctx, "org-1", 2)
	require.NoError(t, err)
	assert.Len(t, entries, 2)
}

func TestJournalRejectsNilEntry(t *testing.T) {
	journal, err := NewInMemoryJournal()
	require.NoError(t, err)
	t.Cleanup(func() { journal.Close() })

	assert.Error(t, journal.Record(context.Background(), nil))
}
