package tui

import (
	"strings"

	"github.com/MegaGrindStone/quickthought/internal/models"
	"github.com/MegaGrindStone/quickthought/internal/relay"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var (
	queryStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	bodyStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	loadingStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Italic(true)
	timerStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	placeholderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	inputStyle       = lipgloss.NewStyle().
				Border(lipgloss.NormalBorder(), false, false, true, false).
				BorderForeground(lipgloss.Color("238")).
				PaddingTop(1)
	helpStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("238"))
)

// Model renders the relay in a terminal. Key presses and terminal focus changes are dispatched to
// the relay; what the relay renders comes back as messages from programDisplay.
type Model struct {
	relay *relay.Relay

	input    inputMsg
	exchange models.Exchange
	timer    string
	width    int
}

func newModel(r *relay.Relay) Model {
	text, placeholder := r.Input()
	return Model{
		relay: r,
		input: inputMsg{text: text, placeholder: placeholder},
		width: 80,
	}
}

func (m Model) Init() tea.Cmd { return nil }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return m, tea.Quit
		}
		for _, ev := range keyEvents(msg) {
			m.relay.Dispatch(ev)
		}
		// The relay updates the input synchronously; read it back so the keystroke shows at once.
		m.input.text, m.input.placeholder = m.relay.Input()
	case tea.FocusMsg:
		m.relay.Dispatch(relay.Focus{})
	case tea.BlurMsg:
		m.relay.Dispatch(relay.Blur{})
		m.input.text, m.input.placeholder = m.relay.Input()
	case tea.WindowSizeMsg:
		if msg.Width > 0 {
			m.width = msg.Width
		}
	case inputMsg:
		m.input = msg
	case exchangeMsg:
		m.exchange = models.Exchange(msg)
	case timerMsg:
		m.timer = string(msg)
	}
	return m, nil
}

func (m Model) View() string {
	var sb strings.Builder

	if m.exchange.Query != "" {
		sb.WriteString(queryStyle.Width(m.width).Render(m.exchange.Query))
		sb.WriteString("\n")
		if m.exchange.Loading() {
			sb.WriteString(loadingStyle.Width(m.width).Render(m.exchange.Body))
		} else {
			sb.WriteString(bodyStyle.Width(m.width).Render(m.exchange.Body))
		}
		sb.WriteString("\n")
	}
	if m.timer != "" {
		sb.WriteString(timerStyle.Render(m.timer))
		sb.WriteString("\n")
	}

	text := m.input.text
	if m.input.placeholder {
		text = placeholderStyle.Render(text)
	}
	sb.WriteString(inputStyle.Width(m.width).Render(text))
	sb.WriteString("\n")
	sb.WriteString(helpStyle.Render("enter: send • alt+enter: newline • esc: quit"))

	return sb.String()
}

// keyEvents translates a terminal key press into relay events. Alt+Enter stands in for Shift+Enter,
// which most terminals cannot report. A paste arrives as one message with many runes.
func keyEvents(msg tea.KeyMsg) []relay.Event {
	switch msg.Type {
	case tea.KeyRunes:
		events := make([]relay.Event, 0, len(msg.Runes))
		for _, r := range msg.Runes {
			events = append(events, relay.KeyDown{Key: string(r), Alt: msg.Alt && !msg.Paste})
		}
		return events
	case tea.KeySpace:
		return []relay.Event{relay.KeyDown{Key: " "}}
	case tea.KeyBackspace:
		return []relay.Event{relay.KeyDown{Key: relay.KeyBackspace}}
	case tea.KeyDelete:
		return []relay.Event{relay.KeyDown{Key: relay.KeyDelete}}
	case tea.KeyEnter:
		return []relay.Event{relay.KeyDown{Key: relay.KeyEnter, Shift: msg.Alt}}
	}
	return nil
}
