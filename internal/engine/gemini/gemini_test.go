package gemini

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jywlabs/listing/internal/engine"
)

func fakeGemini(t *testing.T, status int, reply any, gotBody *string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.True(t, strings.HasSuffix(r.URL.Path, ":generateContent"), "path = %s", r.URL.Path)
		if gotBody != nil {
			b, _ := io.ReadAll(r.Body)
			*gotBody = string(b)
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(reply)
	}))
}

func TestNew_RequiresAPIKey(t *testing.T) {
	_, err := New(context.Background(), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "API key is required")

	_, err = engine.New("gemini")
	require.Error(t, err)
}

func TestPrompt_Success(t *testing.T) {
	var body string
	srv := fakeGemini(t, http.StatusOK, map[string]any{
		"candidates": []any{
			map[string]any{
				"content": map[string]any{
					"role":  "model",
					"parts": []any{map[string]any{"text": "<title>Lisbon T3</title>"}},
				},
			},
		},
	}, &body)
	defer srv.Close()

	eng, err := New(context.Background(), &engine.Config{APIKey: "test-key", Endpoint: srv.URL})
	require.NoError(t, err)
	assert.Equal(t, "gemini", eng.Name())
	assert.Equal(t, DefaultModel, eng.Model())

	out, err := eng.Prompt(context.Background(), "write a listing")
	require.NoError(t, err)
	assert.Equal(t, "<title>Lisbon T3</title>", out)
	assert.Contains(t, body, "write a listing")
	assert.Contains(t, body, "temperature")
}

func TestPrompt_NoCandidates(t *testing.T) {
	srv := fakeGemini(t, http.StatusOK, map[string]any{"candidates": []any{}}, nil)
	defer srv.Close()

	eng, err := New(context.Background(), &engine.Config{APIKey: "k", Endpoint: srv.URL})
	require.NoError(t, err)

	_, err = eng.Prompt(context.Background(), "p")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no candidates")
}

func TestPrompt_APIError(t *testing.T) {
	srv := fakeGemini(t, http.StatusTooManyRequests, map[string]any{
		"error": map[string]any{"code": 429, "message": "quota exhausted", "status": "RESOURCE_EXHAUSTED"},
	}, nil)
	defer srv.Close()

	eng, err := New(context.Background(), &engine.Config{APIKey: "k", Endpoint: srv.URL, Model: "gemini-2.5-pro"})
	require.NoError(t, err)
	assert.Equal(t, "gemini-2.5-pro", eng.Model())

	_, err = eng.Prompt(context.Background(), "p")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "GenAI generate failed")
}
