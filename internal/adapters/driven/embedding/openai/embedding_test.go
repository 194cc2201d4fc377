package openai

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// embeddingsHandler answers /embeddings with one vector per input.
// Each vector is [index, len(input)] and data is returned in reverse order.
func embeddingsHandler(t *testing.T, seen *[]map[string]any) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/embeddings", r.URL.Path)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		if seen != nil {
			*seen = append(*seen, body)
		}

		inputs := body["input"].([]any)
		data := make([]map[string]any, 0, len(inputs))
		for i := len(inputs) - 1; i >= 0; i-- {
			data = append(data, map[string]any{
				"object":    "embedding",
				"index":     i,
				"embedding": []float64{float64(i), float64(len(inputs[i].(string)))},
			})
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"object": "list",
			"model":  body["model"],
			"data":   data,
		})
	}
}

func newTestService(t *testing.T, url string, cfg Config) *EmbeddingService {
	t.Helper()
	cfg.APIKey = "sk-test"
	cfg.BaseURL = url
	svc, err := NewEmbeddingService(cfg)
	require.NoError(t, err)
	return svc
}

func TestNewEmbeddingService_RequiresAPIKey(t *testing.T) {
	_, err := NewEmbeddingService(Config{})
	assert.Error(t, err)
}

func TestNewEmbeddingService_Defaults(t *testing.T) {
	tests := []struct {
		name     string
		cfg      Config
		wantDims int
		wantSend bool
	}{
		{"large default", Config{APIKey: "k"}, 3072, false},
		{"small", Config{APIKey: "k", Model: "text-embedding-3-small"}, 1536, false},
		{"override", Config{APIKey: "k", Dimensions: 256}, 256, true},
		{"ada ignores override in request", Config{APIKey: "k", Model: "text-embedding-ada-002", Dimensions: 1536}, 1536, false},
		{"unknown model", Config{APIKey: "k", Model: "custom"}, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, err := NewEmbeddingService(tt.cfg)
			require.NoError(t, err)
			assert.Equal(t, tt.wantDims, svc.Dimensions())
			assert.Equal(t, tt.wantSend, svc.sendDimensions)
		})
	}
}

func TestEmbeddingService_EmbedBatchOrdersByIndex(t *testing.T) {
	var seen []map[string]any
	server := httptest.NewServer(embeddingsHandler(t, &seen))
	defer server.Close()

	svc := newTestService(t, server.URL, Config{Dimensions: 2})

	got, err := svc.EmbedBatch(context.Background(), []string{"a", "bbb", "cc"})
	require.NoError(t, err)

	assert.Equal(t, [][]float32{{0, 1}, {1, 3}, {2, 2}}, got)
	require.Len(t, seen, 1)
	assert.Equal(t, "text-embedding-3-large", seen[0]["model"])
	assert.EqualValues(t, 2, seen[0]["dimensions"])
}

func TestEmbeddingService_EmbedBatchSplitsLargeInput(t *testing.T) {
	var seen []map[string]any
	server := httptest.NewServer(embeddingsHandler(t, &seen))
	defer server.Close()

	svc := newTestService(t, server.URL, Config{})

	texts := make([]string, MaxBatchSize+3)
	for i := range texts {
		texts[i] = fmt.Sprintf("t%d", i)
	}

	got, err := svc.EmbedBatch(context.Background(), texts)
	require.NoError(t, err)
	assert.Len(t, got, len(texts))
	assert.Len(t, seen, 2)
	assert.NotContains(t, seen[0], "dimensions")
}

func TestEmbeddingService_Embed(t *testing.T) {
	server := httptest.NewServer(embeddingsHandler(t, nil))
	defer server.Close()

	svc := newTestService(t, server.URL, Config{})

	got, err := svc.Embed(context.Background(), "hello")
	require.NoError(t, err)
	assert.Equal(t, []float32{0, 5}, got)
}

func TestEmbeddingService_EmbedBatchEmpty(t *testing.T) {
	svc := newTestService(t, "http://127.0.0.1:0", Config{})

	got, err := svc.EmbedBatch(context.Background(), nil)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestEmbeddingService_APIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":{"message":"maximum context length exceeded","type":"invalid_request_error"}}`))
	}))
	defer server.Close()

	svc := newTestService(t, server.URL, Config{})

	_, err := svc.Embed(context.Background(), "too long")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 400")
	assert.Contains(t, err.Error(), "maximum context length")
}

func TestEmbeddingService_CountMismatch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"object":"list","data":[]}`))
	}))
	defer server.Close()

	svc := newTestService(t, server.URL, Config{})

	_, err := svc.EmbedBatch(context.Background(), []string{"a", "b"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "0 embeddings returned for 2 inputs")
}

func TestEmbeddingService_Ping(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		wantErr bool
	}{
		{"ok", http.StatusOK, false},
		{"unauthorised", http.StatusUnauthorized, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "/models", r.URL.Path)
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(tt.status)
				if tt.status == http.StatusOK {
					_, _ = w.Write([]byte(`{"object":"list","data":[]}`))
					return
				}
				_, _ = w.Write([]byte(`{"error":{"message":"invalid api key"}}`))
			}))
			defer server.Close()

			err := newTestService(t, server.URL, Config{}).Ping(context.Background())
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestEmbeddingService_ModelNameAndClose(t *testing.T) {
	svc := newTestService(t, "http://localhost", Config{Model: "text-embedding-3-small"})
	assert.Equal(t, "text-embedding-3-small", svc.ModelName())
	assert.NoError(t, svc.Close())
}
