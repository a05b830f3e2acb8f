package ollama

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jywlabs/listing/internal/engine"
)

func TestPrompt_Success(t *testing.T) {
	var got generateRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/generate", r.URL.Path)
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		_ = json.NewEncoder(w).Encode(generateResponse{Model: got.Model, Response: "<title>x</title>", Done: true})
	}))
	defer srv.Close()

	eng := New(&engine.Config{Endpoint: srv.URL + "/"})
	out, err := eng.Prompt(context.Background(), "write a listing")

	require.NoError(t, err)
	assert.Equal(t, "<title>x</title>", out)
	assert.Equal(t, DefaultModel, got.Model)
	assert.Equal(t, "write a listing", got.Prompt)
	assert.False(t, got.Stream)
	assert.InDelta(t, 0.4, got.Options.Temperature, 1e-9)
}

func TestPrompt_UsesConfiguredModelAndTemperature(t *testing.T) {
	var got generateRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_ = json.NewEncoder(w).Encode(generateResponse{Response: "ok", Done: true})
	}))
	defer srv.Close()

	temp := 0.9
	eng := New(&engine.Config{Endpoint: srv.URL, Model: "mistral", Temperature: &temp})
	_, err := eng.Prompt(context.Background(), "p")

	require.NoError(t, err)
	assert.Equal(t, "mistral", got.Model)
	assert.Equal(t, "mistral", eng.Model())
	assert.InDelta(t, 0.9, got.Options.Temperature, 1e-9)
}

func TestPrompt_HTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model not loaded", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	_, err := New(&engine.Config{Endpoint: srv.URL}).Prompt(context.Background(), "p")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 503")
	assert.Contains(t, err.Error(), "model not loaded")
}

func TestPrompt_ErrorField(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(generateResponse{Error: "model 'x' not found"})
	}))
	defer srv.Close()

	_, err := New(&engine.Config{Endpoint: srv.URL}).Prompt(context.Background(), "p")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "model 'x' not found")
}

func TestPrompt_BadJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("not json"))
	}))
	defer srv.Close()

	_, err := New(&engine.Config{Endpoint: srv.URL}).Prompt(context.Background(), "p")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to decode response")
}

func TestPrompt_ContextCanceled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := New(&engine.Config{Endpoint: srv.URL}).Prompt(ctx, "p")
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestRegistered(t *testing.T) {
	eng, err := engine.NewWithConfig("ollama", &engine.Config{Model: "llama3.2"})
	require.NoError(t, err)
	assert.Equal(t, "ollama", eng.Name())
	assert.Equal(t, "llama3.2", eng.(*Engine).Model())
}
