package analysis

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGeminiClient_Generate_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1beta/models/gemini-2.5-flash:generateContent", r.URL.Path)
		assert.Equal(t, "secret", r.URL.Query().Get("key"))

		var req generateContentRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Len(t, req.Contents, 1)
		assert.Equal(t, "analise", req.Contents[0].Parts[0].Text)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"candidates":[{"content":{"role":"model","parts":[{"text":"Bom "},{"text":"negócio."}]},"finishReason":"STOP"}]}`))
	}))
	defer server.Close()

	c := NewGeminiClient(server.URL+"/", "gemini-2.5-flash", "secret", server.Client())
	text, err := c.Generate(context.Background(), "analise")

	require.NoError(t, err)
	assert.Equal(t, "Bom negócio.", text)
}

func TestGeminiClient_Generate_APIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":{"code":400,"message":"API key not valid","status":"INVALID_ARGUMENT"}}`))
	}))
	defer server.Close()

	c := NewGeminiClient(server.URL, "gemini-2.5-flash", "bad", server.Client())
	_, err := c.Generate(context.Background(), "analise")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "API key not valid")
}

func TestGeminiClient_Generate_NoCandidates(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"candidates":[]}`))
	}))
	defer server.Close()

	c := NewGeminiClient(server.URL, "gemini-2.5-flash", "k", server.Client())
	_, err := c.Generate(context.Background(), "analise")

	assert.True(t, errors.Is(err, ErrEmptyResponse))
}

func TestGeminiClient_Generate_NotJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte("<html>bad gateway</html>"))
	}))
	defer server.Close()

	c := NewGeminiClient(server.URL, "gemini-2.5-flash", "k", server.Client())
	_, err := c.Generate(context.Background(), "analise")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "502")
}

func TestGeminiClient_Generate_ContextTimeout(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.Copy(io.Discard, r.Body)
		select {
		case <-r.Context().Done():
		case <-release:
		}
	}))
	defer server.Close()
	defer close(release)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	c := NewGeminiClient(server.URL, "gemini-2.5-flash", "k", server.Client())
	_, err := c.Generate(ctx, "analise")

	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
