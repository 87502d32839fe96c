package generation

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"companion/config"
	domainerrors "companion/internal/domain/errors"
	"companion/internal/domain/service"
)

func newTextTestConfig(baseURL string) *config.Config {
	return &config.Config{
		Generation: &config.GenerationConfig{
			TextBaseURL: baseURL,
			TextAPIKey:  "test-key",
			TextModel:   "test-model",
			Timeout:     5 * time.Second,
		},
	}
}

func sseChunk(content string) string {
	payload, _ := json.Marshal(map[string]any{
		"choices": []map[string]any{
			{"delta": map[string]string{"content": content}},
		},
	})

	return fmt.Sprintf("data: %s\n\n", payload)
}

func TestTextClient_Stream(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, chatCompletionsPath, r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		var req chatCompletionRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.True(t, req.Stream)
		require.Len(t, req.Messages, 2)
		assert.Equal(t, "system", req.Messages[0].Role)
		assert.Equal(t, "user", req.Messages[1].Role)

		w.Header().Set("Content-Type", "text/event-stream")
		fmt.Fprint(w, sseChunk("Hello"))
		fmt.Fprint(w, sseChunk(", "))
		fmt.Fprint(w, sseChunk("world"))
		fmt.Fprint(w, "data: [DONE]\n\n")
	}))
	defer server.Close()

	client := NewTextGenerator(newTextTestConfig(server.URL), slog.New(slog.DiscardHandler))

	var chunks []string
	full, err := client.Stream(context.Background(), service.TextPrompt{
		SystemPrompt: "You are a companion.",
		UserMessage:  "hi",
	}, func(chunk string) error {
		chunks = append(chunks, chunk)

		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, "Hello, world", full)
	assert.Equal(t, []string{"Hello", ", ", "world"}, chunks)
}

func TestTextClient_SkipsSystemMessageWhenEmpty(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req chatCompletionRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Len(t, req.Messages, 1)
		assert.Equal(t, "user", req.Messages[0].Role)

		fmt.Fprint(w, "data: [DONE]\n\n")
	}))
	defer server.Close()

	client := NewTextGenerator(newTextTestConfig(server.URL), slog.New(slog.DiscardHandler))

	_, err := client.Stream(context.Background(), service.TextPrompt{UserMessage: "hi"}, func(string) error {
		return nil
	})
	require.NoError(t, err)
}

func TestTextClient_CallbackErrorStopsStream(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, sseChunk("first"))
		fmt.Fprint(w, sseChunk("second"))
		fmt.Fprint(w, "data: [DONE]\n\n")
	}))
	defer server.Close()

	client := NewTextGenerator(newTextTestConfig(server.URL), slog.New(slog.DiscardHandler))

	sentinel := fmt.Errorf("consumer gone")
	full, err := client.Stream(context.Background(), service.TextPrompt{UserMessage: "hi"}, func(string) error {
		return sentinel
	})
	require.ErrorIs(t, err, sentinel)
	assert.Equal(t, "first", full)
}

func TestTextClient_UpstreamHTTPError(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota exceeded", http.StatusTooManyRequests)
	}))
	defer server.Close()

	client := NewTextGenerator(newTextTestConfig(server.URL), slog.New(slog.DiscardHandler))

	_, err := client.Stream(context.Background(), service.TextPrompt{UserMessage: "hi"}, func(string) error {
		return nil
	})
	require.Error(t, err)

	var upstream *domainerrors.UpstreamError
	require.ErrorAs(t, err, &upstream)
	assert.Equal(t, http.StatusTooManyRequests, upstream.HTTPCode())
}

func TestTextClient_Unreachable(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	client := NewTextGenerator(newTextTestConfig(server.URL), slog.New(slog.DiscardHandler))

	_, err := client.Stream(context.Background(), service.TextPrompt{UserMessage: "hi"}, func(string) error {
		return nil
	})
	require.Error(t, err)

	var upstream *domainerrors.UpstreamError
	require.ErrorAs(t, err, &upstream)
	assert.Equal(t, http.StatusBadGateway, upstream.HTTPCode())
}

func TestNewTextGenerator_FallsBackToEcho(t *testing.T) {
	t.Parallel()

	cfg := &config.Config{Generation: &config.GenerationConfig{Timeout: time.Second}}

	gen := NewTextGenerator(cfg, slog.New(slog.DiscardHandler))
	_, ok := gen.(*echoGenerator)
	assert.True(t, ok)
}

func TestEchoGenerator_Stream(t *testing.T) {
	t.Parallel()

	gen := &echoGenerator{chunkDelay: time.Millisecond}

	var chunks int
	full, err := gen.Stream(context.Background(), service.TextPrompt{UserMessage: "hello"}, func(string) error {
		chunks++

		return nil
	})
	require.NoError(t, err)
	assert.Contains(t, full, "hello")
	assert.Greater(t, chunks, 1)
}
