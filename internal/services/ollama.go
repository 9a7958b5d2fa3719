package services

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/ollama/ollama/api"
)

// Ollama provides a chat session on an Ollama server. The server is stateless, so the session keeps
// the conversation history itself.
type Ollama struct {
	host         string
	model        string
	systemPrompt string

	client  *api.Client
	history *history

	logger *slog.Logger
}

// NewOllama creates a new Ollama session with the specified host URL and model name. The host
// parameter should be a valid URL pointing to an Ollama server. If the provided host URL is invalid,
// the function will panic.
func NewOllama(host, model, systemPrompt string, logger *slog.Logger) Ollama {
	u, err := url.Parse(host)
	if err != nil {
		panic(err)
	}

	return Ollama{
		host:         host,
		model:        model,
		systemPrompt: systemPrompt,
		client:       api.NewClient(u, &http.Client{}),
		history:      &history{},
		logger:       logger.With(slog.String("module", "ollama")),
	}
}

// SendMessageStream streams the reply of the Ollama model to message, prefixed by the system prompt
// and the previous turns. The turn is added to the history once the stream completed.
func (o Ollama) SendMessageStream(ctx context.Context, message string) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		messages := o.history.with(message)
		msgs := make([]api.Message, 0, len(messages)+1)
		msgs = append(msgs, api.Message{
			Role:    "system",
			Content: o.systemPrompt,
		})
		for _, msg := range messages {
			msgs = append(msgs, api.Message{
				Role:    string(msg.Role),
				Content: msg.Text,
			})
		}

		t := true
		req := api.ChatRequest{
			Model:    o.model,
			Messages: msgs,
			Stream:   &t,
		}

		ctx, cancel := context.WithCancel(ctx)
		defer cancel()

		var sb strings.Builder
		stopped := false
		if err := o.client.Chat(ctx, &req, func(res api.ChatResponse) error {
			if stopped {
				return nil
			}
			sb.WriteString(res.Message.Content)
			if !yield(res.Message.Content, nil) {
				stopped = true
				cancel()
			}
			return nil
		}); err != nil {
			if stopped && errors.Is(err, context.Canceled) {
				return
			}
			yield("", fmt.Errorf("error sending request: %w", err))
			return
		}
		if stopped {
			return
		}

		o.history.commit(message, sb.String())
		o.logger.Debug("Turn recorded", slog.Int("historyLength", o.history.len()))
	}
}
