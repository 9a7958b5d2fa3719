package services

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"log/slog"

	"google.golang.org/genai"
)

// Gemini is a chat session on Google's Gemini API. The SDK chat keeps the conversation history,
// and only records a turn once its stream completed.
type Gemini struct {
	model string

	chat *genai.Chat
	// err is the reason the chat could not be created, reported on every request.
	err error

	logger *slog.Logger
}

// DefaultGeminiModel is the model used when none is configured.
const DefaultGeminiModel = "gemini-2.5-flash-lite"

// NewGemini creates the chat session once. A missing or invalid API key is not treated as fatal here:
// the failure is kept and surfaces as an error on each request, like any other API failure.
func NewGemini(ctx context.Context, apiKey, model, systemPrompt string, logger *slog.Logger) Gemini {
	if model == "" {
		model = DefaultGeminiModel
	}
	g := Gemini{
		model:  model,
		logger: logger.With(slog.String("module", "gemini")),
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		g.err = fmt.Errorf("error creating client: %w", err)
		g.logger.Warn("Gemini client unavailable", slog.String("err", err.Error()))
		return g
	}

	chat, err := client.Chats.Create(ctx, model, &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(systemPrompt, genai.RoleUser),
		ThinkingConfig: &genai.ThinkingConfig{
			ThinkingBudget: genai.Ptr[int32](0),
		},
	}, nil)
	if err != nil {
		g.err = fmt.Errorf("error creating chat: %w", err)
		g.logger.Warn("Gemini chat unavailable", slog.String("err", err.Error()))
		return g
	}
	g.chat = chat

	return g
}

// SendMessageStream sends one message on the chat and yields the text of every streamed chunk.
func (g Gemini) SendMessageStream(ctx context.Context, message string) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		if g.err != nil {
			yield("", g.err)
			return
		}
		if g.chat == nil {
			yield("", errors.New("chat is not initialized"))
			return
		}

		for res, err := range g.chat.SendMessageStream(ctx, genai.Part{Text: message}) {
			if err != nil {
				yield("", fmt.Errorf("error receiving response: %w", err))
				return
			}
			if res == nil {
				continue
			}
			if !yield(res.Text(), nil) {
				return
			}
		}
	}
}
