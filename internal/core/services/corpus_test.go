package services

import (
	"context"
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/ragbot/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/ragbot/internal/core/domain"
)

func TestCorpusCache_Build(t *testing.T) {
	tests := []struct {
		name   string
		blocks []domain.TextBlock
		want   string
	}{
		{"single block", []domain.TextBlock{{Text: "one"}}, "one"},
		{"blank line between blocks", []domain.TextBlock{{Text: "one"}, {Text: "two"}, {Text: "three"}}, "one\n\ntwo\n\nthree"},
		{"no blocks", nil, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := memory.NewCorpusStore()
			corpus, err := NewCorpusCache(store).Build(context.Background(), tt.blocks)
			require.NoError(t, err)
			assert.Equal(t, tt.want, corpus)

			stored, err := store.Read(context.Background())
			require.NoError(t, err)
			assert.Equal(t, tt.want, stored)
		})
	}
}

func TestCorpusCache_RewritesEveryBuild(t *testing.T) {
	ctx := context.Background()
	store := memory.NewCorpusStore()
	cache := NewCorpusCache(store)

	_, err := cache.Build(ctx, []domain.TextBlock{{Text: "first"}, {Text: "run"}})
	require.NoError(t, err)
	_, err = cache.Build(ctx, []domain.TextBlock{{Text: "second"}})
	require.NoError(t, err)

	stored, err := store.Read(ctx)
	require.NoError(t, err)
	assert.Equal(t, "second", stored)
	assert.Equal(t, 2, store.Writes())
}

func TestCorpusCache_WriteError(t *testing.T) {
	_, err := NewCorpusCache(failingCorpusStore{}).Build(context.Background(), []domain.TextBlock{{Text: "x"}})
	assert.ErrorIs(t, err, fs.ErrPermission)
}
