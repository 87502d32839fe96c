// Package generation contains the HTTP clients for the external text and
// image generation services.
package generation

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/pkg/errors"

	"companion/config"
	domainerrors "companion/internal/domain/errors"
	"companion/internal/domain/service"
)

const chatCompletionsPath = "/v1/chat/completions"

// textClient streams chat completions from the upstream text service over
// SSE. The wire format is the OpenAI-compatible one the service exposes.
type textClient struct {
	baseURL string
	apiKey  string
	model   string
	client  *http.Client
	logger  *slog.Logger
}

// NewTextGenerator returns the upstream-backed generator when an API key is
// configured, and the canned echo generator otherwise. The echo fallback
// keeps local development working with no upstream account.
func NewTextGenerator(cfg *config.Config, logger *slog.Logger) service.TextGenerator {
	if cfg.Generation == nil || cfg.Generation.TextAPIKey == "" {
		logger.Info("No text generation API key configured, using echo generator")

		return NewEchoGenerator()
	}

	return &textClient{
		baseURL: strings.TrimRight(cfg.Generation.TextBaseURL, "/"),
		apiKey:  cfg.Generation.TextAPIKey,
		model:   cfg.Generation.TextModel,
		client:  &http.Client{Timeout: cfg.Generation.Timeout},
		logger:  logger,
	}
}

type chatCompletionRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
	Stream   bool          `json:"stream"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatCompletionChunk struct {
	Choices []struct {
		Delta struct {
			Content string `json:"content"`
		} `json:"delta"`
	} `json:"choices"`
}

// Stream posts the prompt and forwards SSE delta chunks to fn as they
// arrive, returning the accumulated reply.
func (c *textClient) Stream(ctx context.Context, prompt service.TextPrompt, fn func(chunk string) error) (string, error) {
	messages := make([]chatMessage, 0, 2)
	if prompt.SystemPrompt != "" {
		messages = append(messages, chatMessage{Role: "system", Content: prompt.SystemPrompt})
	}
	messages = append(messages, chatMessage{Role: "user", Content: prompt.UserMessage})

	body, err := json.Marshal(chatCompletionRequest{
		Model:    c.model,
		Messages: messages,
		Stream:   true,
	})
	if err != nil {
		return "", errors.Wrap(err, "failed to marshal completion request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+chatCompletionsPath, bytes.NewReader(body))
	if err != nil {
		return "", errors.Wrap(err, "failed to build completion request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "text/event-stream")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return "", domainerrors.NewUpstreamError(0, "text generation service unreachable", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))

		return "", domainerrors.NewUpstreamError(resp.StatusCode, "text generation service error: "+strings.TrimSpace(string(payload)), nil)
	}

	return c.consumeStream(resp.Body, fn)
}

// consumeStream reads "data:" lines until the [DONE] marker, feeding each
// non-empty delta to fn.
func (c *textClient) consumeStream(body io.Reader, fn func(chunk string) error) (string, error) {
	var full strings.Builder
	scanner := bufio.NewScanner(body)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		data, found := strings.CutPrefix(line, "data:")
		if !found {
			continue
		}
		data = strings.TrimSpace(data)
		if data == "[DONE]" {
			break
		}

		var chunk chatCompletionChunk
		if err := json.Unmarshal([]byte(data), &chunk); err != nil {
			c.logger.Warn("Skipping malformed stream chunk", "error", err)

			continue
		}
		if len(chunk.Choices) == 0 {
			continue
		}

		delta := chunk.Choices[0].Delta.Content
		if delta == "" {
			continue
		}

		full.WriteString(delta)
		if err := fn(delta); err != nil {
			return full.String(), err
		}
	}
	if err := scanner.Err(); err != nil {
		return full.String(), domainerrors.NewUpstreamError(0, "text generation stream interrupted", err)
	}

	return full.String(), nil
}

// echoGenerator is the development stand-in for the real text service. It
// chunks a canned reply with a small delay per chunk to imitate streaming.
type echoGenerator struct {
	chunkDelay time.Duration
}

// NewEchoGenerator returns the canned echo generator.
func NewEchoGenerator() service.TextGenerator {
	return &echoGenerator{chunkDelay: 100 * time.Millisecond}
}

// Stream emits a fixed set of chunks echoing the user message.
func (g *echoGenerator) Stream(ctx context.Context, prompt service.TextPrompt, fn func(chunk string) error) (string, error) {
	chunks := []string{
		"This ", "is ", "a ", "streamed ", "placeholder ", "reply ",
		"to '" + prompt.UserMessage + "'.",
	}

	var full strings.Builder
	for _, chunk := range chunks {
		select {
		case <-ctx.Done():
			return full.String(), ctx.Err()
		case <-time.After(g.chunkDelay):
		}

		full.WriteString(chunk)
		if err := fn(chunk); err != nil {
			return full.String(), err
		}
	}

	return full.String(), nil
}
