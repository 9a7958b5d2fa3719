package relay

import (
	"context"
	"io"
	"iter"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/MegaGrindStone/quickthought/internal/models"
	"github.com/google/uuid"
)

// Session is a server-side streaming chat context. SendMessageStream returns a lazy, finite sequence
// of text fragments that is consumed exactly once; an error ends the sequence.
type Session interface {
	SendMessageStream(ctx context.Context, message string) iter.Seq2[string, error]
}

// Display is the surface the relay renders into. Calls are serialized by the relay, so an
// implementation does not need to be safe for concurrent use. Implementations must not call back
// into the relay.
type Display interface {
	RenderInput(text string, placeholder bool)
	RenderMessage(exchange models.Exchange)
	RenderTimer(elapsed string)
}

// Relay forwards what the user typed to a Session and streams the reply into a Display, while a
// timer shows how long the request has been running. At most one request is in flight at a time.
type Relay struct {
	session Session
	display Display

	clock    Clock
	interval time.Duration
	logger   *slog.Logger

	ctx    context.Context
	cancel context.CancelFunc

	mu       sync.Mutex
	editor   editor
	inFlight bool

	renderMu sync.Mutex
	wg       sync.WaitGroup
}

// Option configures a Relay.
type Option func(*Relay)

const (
	// Placeholder is shown in the input while it is empty.
	Placeholder = "Begin your thought"
	// PromptSuffix is appended verbatim to every submitted query.
	PromptSuffix = " ..."
	// TickInterval is how often the timer display is refreshed.
	TickInterval = 50 * time.Millisecond

	// LoadingText is the body shown until the first fragment arrives.
	LoadingText = "..."
	// NoResponseText is shown when the stream ended without any text.
	NoResponseText = "No response received"
	// ErrorText is shown when the stream failed, whatever the reason.
	ErrorText = "An error occurred. Please try again."

	errLoggerKey = "err"
)

// WithClock replaces the wall clock used by the timer.
func WithClock(clock Clock) Option {
	return func(r *Relay) {
		r.clock = clock
	}
}

// WithLogger sets the logger used to report request failures.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Relay) {
		r.logger = logger
	}
}

// WithTickInterval changes how often the timer display is refreshed.
func WithTickInterval(d time.Duration) Option {
	return func(r *Relay) {
		r.interval = d
	}
}

// New creates the relay. It is meant to be constructed once at startup and lives as long as the
// process; Close releases the in-flight request, if any, on shutdown.
func New(session Session, display Display, opts ...Option) *Relay {
	r := &Relay{
		session:  session,
		display:  display,
		clock:    realClock{},
		interval: TickInterval,
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		editor:   newEditor(),
	}
	for _, opt := range opts {
		opt(r)
	}
	r.logger = r.logger.With(slog.String("module", "relay"))
	r.ctx, r.cancel = context.WithCancel(context.Background())

	return r
}

// Dispatch feeds an input event into the relay. An Enter key press without modifiers submits.
func (r *Relay) Dispatch(ev Event) {
	r.mu.Lock()
	changed, submit := false, false
	switch ev := ev.(type) {
	case KeyDown:
		changed, submit = r.editor.keyDown(ev)
	case Blur:
		changed = r.editor.restorePlaceholder()
	}
	if changed {
		r.renderInputLocked()
	}
	r.mu.Unlock()

	if submit {
		r.Submit()
	}
}

// Submit sends the current input, unless a request is already in flight or there is nothing to
// send. The input is cleared and the placeholder restored before Submit returns. It reports whether
// a request was started.
func (r *Relay) Submit() bool {
	r.mu.Lock()
	if r.inFlight || r.editor.placeholder {
		r.mu.Unlock()
		return false
	}
	if strings.TrimSpace(r.editor.text) == "" {
		r.mu.Unlock()
		return false
	}
	query := r.editor.take()
	r.renderInputLocked()
	r.inFlight = true
	r.wg.Add(1)
	r.mu.Unlock()

	r.renderExchange(query, LoadingText, models.StreamingStateLoading)

	t := startTimer(r.clock, r.interval, func(elapsed string) {
		r.render(func(d Display) { d.RenderTimer(elapsed) })
	})

	go r.stream(query, t)

	return true
}

func (r *Relay) stream(query string, t *requestTimer) {
	logger := r.logger.With(slog.String("requestID", uuid.New().String()))

	defer func() {
		t.stop()

		r.mu.Lock()
		r.inFlight = false
		r.mu.Unlock()

		r.wg.Done()
	}()

	logger.Debug("Sending message", slog.String("query", query))

	var sb strings.Builder
	for fragment, err := range r.session.SendMessageStream(r.ctx, query+PromptSuffix) {
		if err != nil {
			logger.Error("API error", slog.String(errLoggerKey, err.Error()))
			r.renderExchange(query, ErrorText, models.StreamingStateEnded)
			return
		}
		sb.WriteString(fragment)
		r.renderExchange(query, sb.String(), models.StreamingStateStreaming)
	}

	if strings.TrimSpace(sb.String()) == "" {
		r.renderExchange(query, NoResponseText, models.StreamingStateEnded)
		return
	}

	r.renderExchange(query, sb.String(), models.StreamingStateEnded)
	logger.Debug("Message completed", slog.Int("length", sb.Len()))
}

func (r *Relay) renderExchange(query, body string, state models.StreamingState) {
	r.render(func(d Display) {
		d.RenderMessage(models.Exchange{
			Query:          query,
			Body:           body,
			StreamingState: state,
		})
	})
}

// renderInputLocked renders the input. r.mu must be held, so input renders reach the display in
// the order the events were applied.
func (r *Relay) renderInputLocked() {
	r.renderMu.Lock()
	defer r.renderMu.Unlock()
	r.display.RenderInput(r.editor.text, r.editor.placeholder)
}

func (r *Relay) render(fn func(Display)) {
	r.renderMu.Lock()
	defer r.renderMu.Unlock()
	fn(r.display)
}

// InFlight reports whether a request is running.
func (r *Relay) InFlight() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.inFlight
}

// Input returns the current content of the input and whether it is the placeholder.
func (r *Relay) Input() (string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.editor.text, r.editor.placeholder
}

// Wait blocks until the request in flight, if any, has finished.
func (r *Relay) Wait() {
	r.wg.Wait()
}

// Close cancels the request in flight and waits for it to finish. Sessions see the cancellation
// through the context passed to SendMessageStream.
func (r *Relay) Close() error {
	r.cancel()
	r.wg.Wait()
	return nil
}
