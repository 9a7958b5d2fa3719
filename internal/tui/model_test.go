package tui

import (
	"context"
	"iter"
	"testing"

	"github.com/MegaGrindStone/quickthought/internal/relay"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockSession struct {
	responses []string
}

func TestKeyEvents(t *testing.T) {
	tests := []struct {
		name string
		msg  tea.KeyMsg
		want []relay.Event
	}{
		{
			name: "Runes",
			msg:  tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("ab")},
			want: []relay.Event{relay.KeyDown{Key: "a"}, relay.KeyDown{Key: "b"}},
		},
		{
			name: "Space",
			msg:  tea.KeyMsg{Type: tea.KeySpace, Runes: []rune(" ")},
			want: []relay.Event{relay.KeyDown{Key: " "}},
		},
		{
			name: "Backspace",
			msg:  tea.KeyMsg{Type: tea.KeyBackspace},
			want: []relay.Event{relay.KeyDown{Key: relay.KeyBackspace}},
		},
		{
			name: "Enter",
			msg:  tea.KeyMsg{Type: tea.KeyEnter},
			want: []relay.Event{relay.KeyDown{Key: relay.KeyEnter}},
		},
		{
			name: "Alt enter inserts newline",
			msg:  tea.KeyMsg{Type: tea.KeyEnter, Alt: true},
			want: []relay.Event{relay.KeyDown{Key: relay.KeyEnter, Shift: true}},
		},
		{
			name: "Arrow ignored",
			msg:  tea.KeyMsg{Type: tea.KeyLeft},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, keyEvents(tt.msg))
		})
	}
}

func TestModelRoundTrip(t *testing.T) {
	d := newProgramDisplay()
	r := relay.New(&mockSession{responses: []string{"Hel", "lo"}}, d)
	defer r.Close()

	var m tea.Model = newModel(r)
	assert.Contains(t, m.View(), relay.Placeholder)

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("hi")})
	assert.Contains(t, m.View(), "hi")
	assert.NotContains(t, m.View(), relay.Placeholder)

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	r.Wait()

	for _, msg := range d.drain() {
		m, _ = m.Update(msg)
	}

	view := m.View()
	assert.Contains(t, view, "Hello")
	assert.Contains(t, view, relay.Placeholder)
	assert.Regexp(t, `\d+\.\d{2}s`, view)
	assert.False(t, r.InFlight())
}

func TestModelQuit(t *testing.T) {
	r := relay.New(&mockSession{}, newProgramDisplay())
	defer r.Close()

	_, cmd := newModel(r).Update(tea.KeyMsg{Type: tea.KeyEsc})
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}

func TestForwardKeepsOrder(t *testing.T) {
	d := newProgramDisplay()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	got := make(chan tea.Msg, 3)
	go d.forward(ctx, func(msg tea.Msg) { got <- msg })

	d.RenderTimer("0.05s")
	d.RenderTimer("0.10s")
	d.RenderTimer("0.15s")

	assert.Equal(t, timerMsg("0.05s"), <-got)
	assert.Equal(t, timerMsg("0.10s"), <-got)
	assert.Equal(t, timerMsg("0.15s"), <-got)
}

func (m *mockSession) SendMessageStream(context.Context, string) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		for _, resp := range m.responses {
			if !yield(resp, nil) {
				return
			}
		}
	}
}
