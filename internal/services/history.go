package services

import (
	"strings"
	"sync"

	"github.com/MegaGrindStone/quickthought/internal/models"
)

// history is the client-side conversation kept by backends whose API is stateless. A turn is only
// recorded once its reply streamed to the end, so a failed request leaves no trace.
type history struct {
	mu       sync.Mutex
	messages []models.Message
}

// with returns a copy of the recorded turns followed by the pending user message.
func (h *history) with(message string) []models.Message {
	h.mu.Lock()
	defer h.mu.Unlock()

	msgs := make([]models.Message, len(h.messages), len(h.messages)+1)
	copy(msgs, h.messages)
	return append(msgs, models.Message{Role: models.RoleUser, Text: message})
}

// commit records a finished turn. A blank reply is not recorded: APIs reject empty assistant
// messages, so replaying it would fail every later request.
func (h *history) commit(message, reply string) {
	if strings.TrimSpace(reply) == "" {
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	h.messages = append(h.messages,
		models.Message{Role: models.RoleUser, Text: message},
		models.Message{Role: models.RoleAssistant, Text: reply},
	)
}

func (h *history) len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.messages)
}
