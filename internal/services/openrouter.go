package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"iter"
	"log/slog"
	"net/http"
	"strings"

	"github.com/tmaxmax/go-sse"
)

// OpenRouter provides a chat session on OpenRouter's language models.
type OpenRouter struct {
	apiKey       string
	model        string
	systemPrompt string
	endpoint     string

	client  *http.Client
	history *history

	logger *slog.Logger
}

type openRouterChatRequest struct {
	Model    string              `json:"model"`
	Messages []openRouterMessage `json:"messages"`
	Stream   bool                `json:"stream"`
}

type openRouterMessage struct {
	Role    string `json:"role"`
	Content string `json:"content,omitempty"`
}

type openRouterStreamingResponse struct {
	Choices []openRouterStreamingChoice `json:"choices"`
}

type openRouterStreamingChoice struct {
	Delta openRouterMessage `json:"delta"`
}

const (
	openRouterAPIEndpoint = "https://openrouter.ai/api/v1"
)

// NewOpenRouter creates a new OpenRouter session with the specified API key, model name, and system
// prompt. An empty endpoint selects the public API.
func NewOpenRouter(apiKey, model, systemPrompt, endpoint string, logger *slog.Logger) OpenRouter {
	if endpoint == "" {
		endpoint = openRouterAPIEndpoint
	}
	return OpenRouter{
		apiKey:       apiKey,
		model:        model,
		systemPrompt: systemPrompt,
		endpoint:     strings.TrimSuffix(endpoint, "/"),
		client:       &http.Client{},
		history:      &history{},
		logger:       logger.With(slog.String("module", "openrouter")),
	}
}

// SendMessageStream streams the reply of the model to message. The context can be used to cancel
// the request.
func (o OpenRouter) SendMessageStream(ctx context.Context, message string) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		resp, err := o.doRequest(ctx, message)
		if err != nil {
			yield("", fmt.Errorf("error sending request: %w", err))
			return
		}
		defer resp.Body.Close()

		var sb strings.Builder
		for ev, err := range sse.Read(resp.Body, nil) {
			if err != nil {
				if errors.Is(err, context.Canceled) {
					return
				}
				yield("", fmt.Errorf("error reading response: %w", err))
				return
			}

			o.logger.Debug("Received event",
				slog.String("event", ev.Data),
			)

			if ev.Data == "[DONE]" {
				o.history.commit(message, sb.String())
				return
			}

			var res openRouterStreamingResponse
			if err := json.Unmarshal([]byte(ev.Data), &res); err != nil {
				yield("", fmt.Errorf("error unmarshaling response: %w", err))
				return
			}

			if len(res.Choices) == 0 {
				continue
			}

			content := res.Choices[0].Delta.Content
			if content == "" {
				continue
			}
			sb.WriteString(content)
			if !yield(content, nil) {
				return
			}
		}

		yield("", errors.New("stream ended before [DONE]"))
	}
}

func (o OpenRouter) doRequest(ctx context.Context, message string) (*http.Response, error) {
	messages := o.history.with(message)
	msgs := make([]openRouterMessage, 0, len(messages)+1)
	msgs = append(msgs, openRouterMessage{
		Role:    "system",
		Content: o.systemPrompt,
	})
	for _, msg := range messages {
		msgs = append(msgs, openRouterMessage{
			Role:    string(msg.Role),
			Content: msg.Text,
		})
	}

	reqBody := openRouterChatRequest{
		Model:    o.model,
		Messages: msgs,
		Stream:   true,
	}

	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("error marshaling request: %w", err)
	}

	o.logger.Debug("Request Body", slog.String("body", string(jsonBody)))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		o.endpoint+"/chat/completions", bytes.NewBuffer(jsonBody))
	if err != nil {
		return nil, fmt.Errorf("error creating request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+o.apiKey)
	req.Header.Set("HTTP-Referer", "https://github.com/MegaGrindStone/quickthought/")
	req.Header.Set("X-Title", "quickthought")

	resp, err := o.client.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		resp.Body.Close()
		return nil, fmt.Errorf("unexpected status code: %d, body: %s", resp.StatusCode, string(body))
	}

	return resp, nil
}
