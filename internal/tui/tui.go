package tui

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/MegaGrindStone/quickthought/internal/relay"
	tea "github.com/charmbracelet/bubbletea"
)

// Run starts the terminal widget on session and blocks until the user quits or ctx is done.
func Run(ctx context.Context, session relay.Session, logger *slog.Logger, opts ...relay.Option) error {
	d := newProgramDisplay()
	opts = append([]relay.Option{relay.WithLogger(logger)}, opts...)
	r := relay.New(session, d, opts...)

	p := tea.NewProgram(newModel(r),
		tea.WithContext(ctx),
		tea.WithAltScreen(),
		tea.WithReportFocus(),
	)

	fctx, cancel := context.WithCancel(ctx)
	defer cancel()
	go d.forward(fctx, p.Send)

	_, err := p.Run()
	if cerr := r.Close(); cerr != nil {
		logger.Error("Failed to close relay", slog.String("err", cerr.Error()))
	}
	if err != nil {
		return fmt.Errorf("error running program: %w", err)
	}

	return nil
}
