package jobqueue

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "jobs", "queue.db"), "")
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestStore_OrdersByPriorityThenAge(t *testing.T) {
	store := openStore(t)
	base := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)

	require.NoError(t, store.Enqueue(Job{ID: "late", Priority: 3, EnqueuedAt: base.Add(time.Minute)}))
	require.NoError(t, store.Enqueue(Job{ID: "early", Priority: 3, EnqueuedAt: base}))
	require.NoError(t, store.Enqueue(Job{ID: "urgent", Priority: 1, EnqueuedAt: base.Add(time.Hour)}))

	jobs, err := store.Pending(10)
	require.NoError(t, err)
	ids := make([]string, len(jobs))
	for i, j := range jobs {
		ids[i] = j.ID
	}
	assert.Equal(t, []string{"urgent", "early", "late"}, ids)

	limited, err := store.Pending(2)
	require.NoError(t, err)
	assert.Len(t, limited, 2)
}

func TestStore_EnqueueDeduplicatesByID(t *testing.T) {
	store := openStore(t)

	require.NoError(t, store.Enqueue(CampaignJob("i-1")))
	require.NoError(t, store.Enqueue(CampaignJob("i-1")))
	require.NoError(t, store.Enqueue(CampaignJob("i-2")))

	size, err := store.Size()
	require.NoError(t, err)
	assert.Equal(t, 2, size)

	has, err := store.Has(CampaignJob("i-1").ID)
	require.NoError(t, err)
	assert.True(t, has)
}

func TestStore_RetryAndAck(t *testing.T) {
	store := openStore(t)
	require.NoError(t, store.Enqueue(CampaignJob("i-1")))

	jobs, err := store.Pending(1)
	require.NoError(t, err)
	require.Len(t, jobs, 1)
	assert.Equal(t, KindSocialMediaCampaigns, jobs[0].Kind)
	assert.Equal(t, "i-1", jobs[0].AggregateID)
	assert.Equal(t, defaultPriority, jobs[0].Priority)

	require.NoError(t, store.Retry(jobs[0], errors.New("model overloaded")))
	jobs, err = store.Pending(10)
	require.NoError(t, err)
	require.Len(t, jobs, 1)
	assert.Equal(t, 1, jobs[0].Attempts)
	assert.Equal(t, "model overloaded", jobs[0].LastError)

	require.NoError(t, store.Ack(jobs[0]))
	size, err := store.Size()
	require.NoError(t, err)
	assert.Zero(t, size)

	has, err := store.Has(jobs[0].ID)
	require.NoError(t, err)
	assert.False(t, has)
}

func TestStore_Cleanup(t *testing.T) {
	store := openStore(t)
	now := time.Now().UTC()
	require.NoError(t, store.Enqueue(Job{ID: "old", EnqueuedAt: now.Add(-48 * time.Hour)}))
	require.NoError(t, store.Enqueue(Job{ID: "fresh", EnqueuedAt: now}))

	removed, err := store.Cleanup(now.Add(-24 * time.Hour))
	require.NoError(t, err)
	assert.Equal(t, 1, removed)

	has, err := store.Has("old")
	require.NoError(t, err)
	assert.False(t, has)
	has, err = store.Has("fresh")
	require.NoError(t, err)
	assert.True(t, has)
}

func TestStore_NilStore(t *testing.T) {
	var store *Store
	assert.Error(t, store.Enqueue(Job{}))
	assert.NoError(t, store.Close())
}
