package courses

import (
	"context"
	"fmt"
	"testing"

	"github.com/2beens/fitcourses/internal/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShadow(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryStore()
	shadow := NewShadow(store, 0)

	ids, found, err := shadow.List(ctx)
	require.NoError(t, err)
	assert.False(t, found)
	assert.Empty(t, ids)

	require.NoError(t, shadow.Add(ctx, "c1"))
	require.NoError(t, shadow.Add(ctx, "c2"))
	require.NoError(t, shadow.Add(ctx, "c1"))

	raw, _, err := store.Get(ctx, KeyShadow)
	require.NoError(t, err)
	assert.Equal(t, `["c1","c2"]`, raw)

	require.NoError(t, shadow.Remove(ctx, "c1"))
	require.NoError(t, shadow.Remove(ctx, "missing"))
	ids, found, err = shadow.List(ctx)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, []string{"c2"}, ids)

	require.NoError(t, shadow.Replace(ctx, []string{"a", "", "b", "a"}))
	ids, _, err = shadow.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, ids)

	// empty but present
	require.NoError(t, shadow.Replace(ctx, nil))
	ids, found, err = shadow.List(ctx)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Empty(t, ids)
}

func TestShadow_Bounded(t *testing.T) {
	ctx := context.Background()
	shadow := NewShadow(storage.NewMemoryStore(), 3)

	for i := 0; i < 5; i++ {
		require.NoError(t, shadow.Add(ctx, fmt.Sprintf("c%d", i)))
	}
	ids, _, err := shadow.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"c2", "c3", "c4"}, ids)
}

func TestShadow_Corrupted(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryStore()
	require.NoError(t, store.Set(ctx, KeyShadow, "{oops"))

	shadow := NewShadow(store, 0)
	_, found, err := shadow.List(ctx)
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, shadow.Add(ctx, "c1"))
	ids, found, err := shadow.List(ctx)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, []string{"c1"}, ids)
}
