package services

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func newStubGemini(t *testing.T, handler http.HandlerFunc, timeout time.Duration) *GeminiService {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	service, err := NewGeminiService(context.Background(), GeminiOptions{
		APIKey:      "test",
		Model:       "test-model",
		EmbedModel:  "test-embed",
		Temperature: 0.3,
		Timeout:     timeout,
		BaseURL:     server.URL,
	}, zaptest.NewLogger(t))
	require.NoError(t, err)
	return service
}

func writeCandidates(w http.ResponseWriter, text string) {
	resp := map[string]any{
		"candidates": []map[string]any{
			{
				"content": map[string]any{
					"parts": []map[string]any{
						{"text": text},
					},
				},
			},
		},
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

func TestNewGeminiService_RequiresAPIKey(t *testing.T) {
	_, err := NewGeminiService(context.Background(), GeminiOptions{Model: "m"}, zaptest.NewLogger(t))
	assert.Error(t, err)
}

func TestGeminiEvaluate_ReturnsRawText(t *testing.T) {
	var gotPath string
	service := newStubGemini(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		writeCandidates(w, `{"feedback": "ok", "score": 7}`)
	}, time.Minute)

	text, err := service.Evaluate(context.Background(), "prompt")
	require.NoError(t, err)
	assert.Equal(t, `{"feedback": "ok", "score": 7}`, text)
	assert.Equal(t, "/v1beta/models/test-model:generateContent", gotPath)
}

func TestGeminiEvaluate_FailuresAreUpstreamErrors(t *testing.T) {
	t.Run("server error", func(t *testing.T) {
		service := newStubGemini(t, func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "boom", http.StatusInternalServerError)
		}, time.Minute)

		_, err := service.Evaluate(context.Background(), "prompt")
		assert.ErrorIs(t, err, ErrUpstream)
	})

	t.Run("empty candidates", func(t *testing.T) {
		service := newStubGemini(t, func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"candidates": []}`))
		}, time.Minute)

		_, err := service.Evaluate(context.Background(), "prompt")
		assert.ErrorIs(t, err, ErrUpstream)
	})

	t.Run("timeout", func(t *testing.T) {
		release := make(chan struct{})
		service := newStubGemini(t, func(w http.ResponseWriter, r *http.Request) {
			select {
			case <-release:
			case <-r.Context().Done():
			}
		}, 50*time.Millisecond)
		defer close(release)

		_, err := service.Evaluate(context.Background(), "prompt")
		require.ErrorIs(t, err, ErrUpstream)
	})
}

func TestCallOracle_PassesThrough(t *testing.T) {
	text, err := callOracle(context.Background(), staticOracle("reply", nil), "test", "prompt")
	require.NoError(t, err)
	assert.Equal(t, "reply", text)

	boom := errors.New("boom")
	_, err = callOracle(context.Background(), staticOracle("", boom), "test", "prompt")
	assert.ErrorIs(t, err, boom)
	assert.ErrorIs(t, asUpstream(err), ErrUpstream)
}

func TestTruncateUTF8(t *testing.T) {
	assert.Equal(t, "short", truncateUTF8("short", 10))
	assert.Equal(t, "Educaci", truncateUTF8("Educación", 8), "never splits the two-byte ó")
	assert.Equal(t, "Educació", truncateUTF8("Educación", 9))

	long := strings.Repeat("a", maxEmbeddingInputBytes-1) + "ñandú"
	cut := truncateUTF8(long, maxEmbeddingInputBytes)
	assert.True(t, utf8.ValidString(cut))
	assert.Len(t, cut, maxEmbeddingInputBytes-1)
}
