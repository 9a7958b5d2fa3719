package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"iter"
	"log/slog"
	"strings"

	goopenai "github.com/sashabaranov/go-openai"
)

// OpenAI provides a chat session on OpenAI's chat completion API, or any server compatible with it.
type OpenAI struct {
	model        string
	systemPrompt string

	params LLMParameters

	client  *goopenai.Client
	history *history

	logger *slog.Logger
}

// NewOpenAI creates a new OpenAI session with the specified API key, base URL, model name, and system
// prompt. An empty base URL selects the public API.
func NewOpenAI(apiKey, baseURL, model, systemPrompt string, params LLMParameters, logger *slog.Logger) OpenAI {
	cfg := goopenai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	return OpenAI{
		model:        model,
		systemPrompt: systemPrompt,
		params:       params,
		client:       goopenai.NewClientWithConfig(cfg),
		history:      &history{},
		logger:       logger.With(slog.String("module", "openai")),
	}
}

// SendMessageStream is a wrapper around the streaming chat completion API.
func (o OpenAI) SendMessageStream(ctx context.Context, message string) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		messages := o.history.with(message)
		msgs := make([]goopenai.ChatCompletionMessage, 0, len(messages)+1)
		msgs = append(msgs, goopenai.ChatCompletionMessage{
			Role:    goopenai.ChatMessageRoleSystem,
			Content: o.systemPrompt,
		})
		for _, msg := range messages {
			msgs = append(msgs, goopenai.ChatCompletionMessage{
				Role:    string(msg.Role),
				Content: msg.Text,
			})
		}

		ctx, cancel := context.WithCancel(ctx)
		defer cancel()

		stream, err := o.client.CreateChatCompletionStream(ctx, o.chatRequest(msgs))
		if err != nil {
			yield("", fmt.Errorf("error sending request: %w", err))
			return
		}
		defer stream.Close()

		var sb strings.Builder
		for {
			response, err := stream.Recv()
			if err != nil {
				if errors.Is(err, io.EOF) {
					break
				}
				if errors.Is(err, context.Canceled) {
					return
				}
				yield("", fmt.Errorf("error receiving response: %w", err))
				return
			}

			if len(response.Choices) == 0 {
				continue
			}

			content := response.Choices[0].Delta.Content
			if content == "" {
				continue
			}
			sb.WriteString(content)
			if !yield(content, nil) {
				return
			}
		}

		o.history.commit(message, sb.String())
	}
}

func (o OpenAI) chatRequest(messages []goopenai.ChatCompletionMessage) goopenai.ChatCompletionRequest {
	req := goopenai.ChatCompletionRequest{
		Model:    o.model,
		Messages: messages,
		Stream:   true,
	}

	if o.params.Temperature != nil {
		req.Temperature = *o.params.Temperature
	}
	if o.params.TopP != nil {
		req.TopP = *o.params.TopP
	}
	if o.params.Stop != nil {
		req.Stop = o.params.Stop
	}
	if o.params.PresencePenalty != nil {
		req.PresencePenalty = *o.params.PresencePenalty
	}
	if o.params.Seed != nil {
		req.Seed = o.params.Seed
	}
	if o.params.FrequencyPenalty != nil {
		req.FrequencyPenalty = *o.params.FrequencyPenalty
	}

	return req
}
