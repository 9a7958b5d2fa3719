package handlers

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"log/slog"
	"sync"
	"time"

	"github.com/MegaGrindStone/quickthought"
	"github.com/MegaGrindStone/quickthought/internal/models"
	"github.com/MegaGrindStone/quickthought/internal/relay"
	"github.com/tmaxmax/go-sse"
)

// Main serves the chat widget. It owns the relay, forwards input events posted by the page to it,
// and pushes everything the relay renders to the page through server-sent events.
type Main struct {
	sseSrv    *sse.Server
	templates *template.Template

	relay  *relay.Relay
	widget *widget

	logger *slog.Logger
}

// widget is the last state rendered by the relay, used to render the page for new visitors.
type widget struct {
	mu       sync.Mutex
	input    inputData
	exchange models.Exchange
	timer    string
}

type inputData struct {
	Text        string
	Placeholder bool
}

type homePageData struct {
	Title    string
	Input    inputData
	Exchange models.Exchange
	Timer    string
}

const (
	pageTitle    = "quickthought"
	errLoggerKey = "err"
)

// SSE event types for real-time updates. Message updates use the streaming state as their type.
var (
	inputSSEType = sse.Type("input")
	timerSSEType = sse.Type("timer")
	closeSSEType = sse.Type("close")
)

// NewMain creates a new Main around the given session. It parses the required HTML templates from the
// embedded filesystem and checks that the widget page contains every element the page script and the
// relay depend on; a missing element is reported as ErrMissingElement and must abort startup.
func NewMain(session relay.Session, logger *slog.Logger, opts ...relay.Option) (Main, error) {
	// We parse templates from three distinct directories to separate layout, pages, and partial views
	tmpl, err := template.ParseFS(
		quickthought.TemplateFS,
		"templates/layout/*.html",
		"templates/pages/*.html",
		"templates/partials/*.html",
	)
	if err != nil {
		return Main{}, fmt.Errorf("failed to parse templates: %w", err)
	}

	w := &widget{}
	w.input.Text, w.input.Placeholder = relay.Placeholder, true

	var page bytes.Buffer
	if err := tmpl.ExecuteTemplate(&page, "home.html", w.pageData()); err != nil {
		return Main{}, fmt.Errorf("failed to render widget: %w", err)
	}
	if err := verifyWidget(&page); err != nil {
		return Main{}, err
	}

	m := Main{
		sseSrv:    &sse.Server{},
		templates: tmpl,
		widget:    w,
		logger:    logger.With(slog.String("module", "handlers")),
	}

	opts = append([]relay.Option{relay.WithLogger(logger)}, opts...)
	m.relay = relay.New(session, display{m}, opts...)

	return m, nil
}

// Shutdown gracefully terminates the Main instance. It waits for the request in flight, broadcasts a
// close message to all connected clients and waits up to 5 seconds for connections to terminate.
// After the timeout, any remaining connections are forcefully closed.
func (m Main) Shutdown(ctx context.Context) error {
	if err := m.relay.Close(); err != nil {
		m.logger.Error("Failed to close relay", slog.String(errLoggerKey, err.Error()))
	}

	e := &sse.Message{Type: closeSSEType}
	// We create a close event that carries data, as the SSE format requires
	e.AppendData("bye")

	// We ignore the error here since we're shutting down anyway
	_ = m.sseSrv.Publish(e)

	ctx, cancel := context.WithTimeout(ctx, time.Second*5)
	defer cancel()

	return m.sseSrv.Shutdown(ctx)
}

func (w *widget) pageData() homePageData {
	w.mu.Lock()
	defer w.mu.Unlock()
	return homePageData{
		Title:    pageTitle,
		Input:    w.input,
		Exchange: w.exchange,
		Timer:    w.timer,
	}
}
