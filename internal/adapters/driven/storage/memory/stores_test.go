package memory

import (
	"context"
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/ragbot/internal/core/domain"
)

func TestCorpusStore(t *testing.T) {
	ctx := context.Background()
	store := NewCorpusStore()

	_, err := store.Read(ctx)
	require.ErrorIs(t, err, fs.ErrNotExist)

	require.NoError(t, store.Write(ctx, "first"))
	require.NoError(t, store.Write(ctx, ""))

	got, err := store.Read(ctx)
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.Equal(t, 2, store.Writes())
}

func TestIndexStore(t *testing.T) {
	ctx := context.Background()
	store := NewIndexStore()
	assert.False(t, store.Exists())

	_, err := store.Load(ctx)
	require.ErrorIs(t, err, fs.ErrNotExist)

	snap, err := domain.NewIndexSnapshot("m", []domain.TextBlock{{ID: "1", Text: "x"}}, [][]float32{{1}})
	require.NoError(t, err)
	require.NoError(t, store.Save(ctx, snap))
	assert.True(t, store.Exists())
	assert.Equal(t, 1, store.Saves())

	loaded, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Same(t, snap, loaded)

	store.Put(&domain.IndexSnapshot{})
	_, err = store.Load(ctx)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
