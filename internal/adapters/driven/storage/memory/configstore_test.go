package memory

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfigStore_Seeded(t *testing.T) {
	seed := map[string]any{"paths.documents": "docs"}
	store := NewConfigStore(seed)

	seed["paths.documents"] = "changed"
	assert.Equal(t, "docs", store.GetString("paths.documents"))
	assert.Equal(t, ":memory:", store.Path())
	assert.NoError(t, store.Load())
}

func TestConfigStore_Set_Update(t *testing.T) {
	store := NewConfigStore(nil)

	require.NoError(t, store.Set("key1", "original"))
	require.NoError(t, store.Set("key1", "updated"))

	val, ok := store.Get("key1")
	assert.True(t, ok)
	assert.Equal(t, "updated", val)
}

func TestConfigStore_TypedGetters(t *testing.T) {
	store := NewConfigStore(map[string]any{
		"string_key": "value",
		"int_key":    42,
		"int64_key":  int64(7),
		"float_key":  2.5,
		"bool_key":   true,
	})

	tests := []struct {
		key       string
		wantStr   string
		wantInt   int
		wantFloat float64
	}{
		{"string_key", "value", 0, 0},
		{"int_key", "", 42, 42},
		{"int64_key", "", 7, 7},
		{"float_key", "", 2, 2.5},
		{"bool_key", "", 0, 0},
		{"missing", "", 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			assert.Equal(t, tt.wantStr, store.GetString(tt.key))
			assert.Equal(t, tt.wantInt, store.GetInt(tt.key))
			assert.InDelta(t, tt.wantFloat, store.GetFloat(tt.key), 1e-9)
		})
	}
}

func TestConfigStore_ConcurrentAccess(t *testing.T) {
	store := NewConfigStore(nil)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(2)
		go func(n int) {
			defer wg.Done()
			_ = store.Set("counter", n)
		}(i)
		go func() {
			defer wg.Done()
			_ = store.GetInt("counter")
		}()
	}
	wg.Wait()

	_, ok := store.Get("counter")
	assert.True(t, ok)
}
