package utils

import (
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestTipsStore(t *testing.T) *TipsStore {
	t.Helper()
	store, err := NewTipsStore(filepath.Join(t.TempDir(), "tips.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestTipsStoreAddAndList(t *testing.T) {
	store := newTestTipsStore(t)

	predicted := 212.5
	added, err := store.Add("Keep tires inflated", &predicted)
	require.NoError(t, err)
	assert.NotEmpty(t, added.ID)
	assert.Equal(t, "Keep tires inflated", added.Tip)
	require.NotNil(t, added.Predicted)
	assert.Equal(t, 212.5, *added.Predicted)

	_, err = store.Add("Plan routes to avoid idling", nil)
	require.NoError(t, err)

	tips, err := store.List(10)
	require.NoError(t, err)
	require.Len(t, tips, 2)

	// Newest first.
	assert.Equal(t, "Plan routes to avoid idling", tips[0].Tip)
	assert.Nil(t, tips[0].Predicted)
	assert.Equal(t, "Keep tires inflated", tips[1].Tip)
	require.NotNil(t, tips[1].Predicted)
	assert.Equal(t, 212.5, *tips[1].Predicted)
}

func TestTipsStoreRejectsEmptyTip(t *testing.T) {
	store := newTestTipsStore(t)

	_, err := store.Add("", nil)
	assert.Error(t, err)
}

func TestTipsStoreTruncatesLongTips(t *testing.T) {
	store := newTestTipsStore(t)

	long := strings.Repeat("a", 500)
	added, err := store.Add(long, nil)
	require.NoError(t, err)
	assert.Len(t, added.Tip, 160)

	tips, err := store.List(1)
	require.NoError(t, err)
	require.Len(t, tips, 1)
	assert.Len(t, tips[0].Tip, 160)
}

func TestTipsStoreListLimit(t *testing.T) {
	store := newTestTipsStore(t)

	for i := 0; i < 5; i++ {
		_, err := store.Add("tip", nil)
		require.NoError(t, err)
		// Keep created_at ordering unambiguous.
		time.Sleep(2 * time.Millisecond)
	}

	tips, err := store.List(3)
	require.NoError(t, err)
	assert.Len(t, tips, 3)

	// A non-positive limit falls back to the default.
	all, err := store.List(0)
	require.NoError(t, err)
	assert.Len(t, all, 5)
}

func TestTipsStoreReopens(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tips.db")

	store, err := NewTipsStore(path)
	require.NoError(t, err)
	_, err = store.Add("persisted tip", nil)
	require.NoError(t, err)
	require.NoError(t, store.Close())

	reopened, err := NewTipsStore(path)
	require.NoError(t, err)
	defer reopened.Close()

	tips, err := reopened.List(10)
	require.NoError(t, err)
	require.Len(t, tips, 1)
	assert.Equal(t, "persisted tip", tips[0].Tip)
}
