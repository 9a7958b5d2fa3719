package tui

import (
	"context"
	"sync"

	"github.com/MegaGrindStone/quickthought/internal/models"
	tea "github.com/charmbracelet/bubbletea"
)

type inputMsg struct {
	text        string
	placeholder bool
}

type exchangeMsg models.Exchange

type timerMsg string

// programDisplay queues relay updates as tea messages. The relay renders synchronously while the
// model is handling a key press, so sending straight to the program would block its event loop;
// forward delivers the queue from its own goroutine instead.
type programDisplay struct {
	mu     sync.Mutex
	queue  []tea.Msg
	notify chan struct{}
}

func newProgramDisplay() *programDisplay {
	return &programDisplay{notify: make(chan struct{}, 1)}
}

func (d *programDisplay) RenderInput(text string, placeholder bool) {
	d.push(inputMsg{text: text, placeholder: placeholder})
}

func (d *programDisplay) RenderMessage(exchange models.Exchange) {
	d.push(exchangeMsg(exchange))
}

func (d *programDisplay) RenderTimer(elapsed string) {
	d.push(timerMsg(elapsed))
}

func (d *programDisplay) push(msg tea.Msg) {
	d.mu.Lock()
	d.queue = append(d.queue, msg)
	d.mu.Unlock()

	select {
	case d.notify <- struct{}{}:
	default:
	}
}

func (d *programDisplay) drain() []tea.Msg {
	d.mu.Lock()
	defer d.mu.Unlock()
	q := d.queue
	d.queue = nil
	return q
}

// forward sends queued messages, in order, until ctx is done.
func (d *programDisplay) forward(ctx context.Context, send func(tea.Msg)) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-d.notify:
		}
		for _, msg := range d.drain() {
			send(msg)
		}
	}
}
