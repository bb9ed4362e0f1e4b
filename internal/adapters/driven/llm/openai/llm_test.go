package openai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/memolab/vaultscribe/internal/core/domain"
)

func newTestService(t *testing.T, handler http.HandlerFunc, cfg Config) *AnalysisService {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	cfg.BaseURL = server.URL
	if cfg.RequestsPerSecond == 0 {
		cfg.RequestsPerSecond = 1000
		cfg.BurstSize = 1000
	}
	svc, err := New(cfg)
	require.NoError(t, err)
	return svc
}

func completionResponse(content string) string {
	resp := map[string]any{
		"choices": []map[string]any{
			{
				"message":       map[string]string{"content": content},
				"finish_reason": "stop",
			},
		},
	}
	data, _ := json.Marshal(resp)
	return string(data)
}

func TestAnalysisService_Analyse(t *testing.T) {
	t.Run("returns the trimmed completion", func(t *testing.T) {
		var captured chatCompletionRequest
		svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/chat/completions", r.URL.Path)
			assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
			require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))
			w.Write([]byte(completionResponse("  the analysis  \n")))
		}, Config{Model: "test-model"})

		out, err := svc.Analyse(context.Background(), "be helpful", "note content")

		require.NoError(t, err)
		assert.Equal(t, "the analysis", out)
		assert.Equal(t, "test-model", captured.Model)
		require.Len(t, captured.Messages, 2)
		assert.Equal(t, "system", captured.Messages[0].Role)
		assert.Equal(t, "be helpful", captured.Messages[0].Content)
		assert.Equal(t, "user", captured.Messages[1].Role)
		assert.Equal(t, "note content", captured.Messages[1].Content)
		assert.False(t, captured.Stream)
	})

	t.Run("content over the input limit is truncated", func(t *testing.T) {
		var captured chatCompletionRequest
		svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
			require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))
			w.Write([]byte(completionResponse("ok")))
		}, Config{MaxInputChars: 10})

		long := strings.Repeat("abcde", 10)
		_, err := svc.Analyse(context.Background(), "sys", long)

		require.NoError(t, err)
		assert.Equal(t, "abcdeabcde", captured.Messages[1].Content)
	})

	t.Run("api key is sent as a bearer token", func(t *testing.T) {
		var auth string
		svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
			auth = r.Header.Get("Authorization")
			w.Write([]byte(completionResponse("ok")))
		}, Config{APIKey: "sk-test"})

		_, err := svc.Analyse(context.Background(), "sys", "content")

		require.NoError(t, err)
		assert.Equal(t, "Bearer sk-test", auth)
	})

	t.Run("malformed JSON body", func(t *testing.T) {
		svc := newTestService(t, func(w http.ResponseWriter, _ *http.Request) {
			w.Write([]byte("not json at all"))
		}, Config{})

		_, err := svc.Analyse(context.Background(), "sys", "content")

		assert.ErrorIs(t, err, domain.ErrMalformedResponse)
	})

	t.Run("empty choices", func(t *testing.T) {
		svc := newTestService(t, func(w http.ResponseWriter, _ *http.Request) {
			w.Write([]byte(`{"choices":[]}`))
		}, Config{})

		_, err := svc.Analyse(context.Background(), "sys", "content")

		assert.ErrorIs(t, err, domain.ErrMalformedResponse)
	})

	t.Run("endpoint error payload", func(t *testing.T) {
		svc := newTestService(t, func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte(`{"error":{"message":"model not loaded","type":"invalid_request_error"}}`))
		}, Config{})

		_, err := svc.Analyse(context.Background(), "sys", "content")

		require.Error(t, err)
		assert.Contains(t, err.Error(), "model not loaded")
	})

	t.Run("non-200 status without error payload", func(t *testing.T) {
		svc := newTestService(t, func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte(`{}`))
		}, Config{})

		_, err := svc.Analyse(context.Background(), "sys", "content")

		require.Error(t, err)
		assert.Contains(t, err.Error(), "500")
	})

	t.Run("context deadline maps to the timeout error", func(t *testing.T) {
		svc := newTestService(t, func(w http.ResponseWriter, _ *http.Request) {
			time.Sleep(200 * time.Millisecond)
			w.Write([]byte(completionResponse("too late")))
		}, Config{})

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
		defer cancel()
		_, err := svc.Analyse(ctx, "sys", "content")

		assert.ErrorIs(t, err, domain.ErrAnalysisTimeout)
	})

	t.Run("unreachable endpoint maps to the network error", func(t *testing.T) {
		svc, err := New(Config{BaseURL: "http://127.0.0.1:1", RequestsPerSecond: 1000, BurstSize: 10})
		require.NoError(t, err)

		_, err = svc.Analyse(context.Background(), "sys", "content")

		assert.ErrorIs(t, err, domain.ErrAnalysisNetwork)
	})
}

func TestAnalysisService_Ping(t *testing.T) {
	t.Run("reachable endpoint", func(t *testing.T) {
		svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/models", r.URL.Path)
			w.Write([]byte(`{"data":[{"id":"local-model"}]}`))
		}, Config{})

		assert.NoError(t, svc.Ping(context.Background()))
	})

	t.Run("error status", func(t *testing.T) {
		svc := newTestService(t, func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		}, Config{})

		assert.Error(t, svc.Ping(context.Background()))
	})

	t.Run("unreachable endpoint", func(t *testing.T) {
		svc, err := New(Config{BaseURL: "http://127.0.0.1:1"})
		require.NoError(t, err)

		assert.ErrorIs(t, svc.Ping(context.Background()), domain.ErrAnalysisNetwork)
	})
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		name  string
		in    string
		limit int
		want  string
	}{
		{name: "under the limit", in: "short", limit: 10, want: "short"},
		{name: "exactly at the limit", in: "exact", limit: 5, want: "exact"},
		{name: "over the limit", in: "truncate me", limit: 8, want: "truncate"},
		{name: "zero disables truncation", in: "anything goes", limit: 0, want: "anything goes"},
		{name: "multibyte runes are not split", in: "héllo wörld", limit: 6, want: "héllo "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Truncate(tt.in, tt.limit))
		})
	}
}

func TestAnalysisService_Defaults(t *testing.T) {
	svc, err := New(Config{})
	require.NoError(t, err)

	assert.Equal(t, DefaultModel, svc.ModelName())
	assert.NoError(t, svc.Close())
}
