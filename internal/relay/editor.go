package relay

import (
	"strings"
	"unicode/utf8"
)

// editor is the editable input region. It is either showing the placeholder or holding what the
// user typed; it never holds both.
type editor struct {
	text        string
	placeholder bool
}

func newEditor() editor {
	e := editor{}
	e.restorePlaceholder()
	return e
}

// restorePlaceholder shows the placeholder if the input is blank.
func (e *editor) restorePlaceholder() bool {
	if strings.TrimSpace(e.text) != "" || e.placeholder {
		return false
	}
	e.text = Placeholder
	e.placeholder = true
	return true
}

// keyDown applies a key press. It reports whether the input changed and whether the key asks for
// a submission.
func (e *editor) keyDown(ev KeyDown) (changed, submit bool) {
	if e.placeholder && (isCharacter(ev.Key) || ev.Key == KeyBackspace || ev.Key == KeyDelete) {
		e.text = ""
		e.placeholder = false
		changed = true
	}

	switch {
	case ev.Key == KeyEnter:
		if ev.Shift {
			if e.placeholder {
				return changed, false
			}
			e.text += "\n"
			return true, false
		}
		if ev.Ctrl || ev.Alt {
			return changed, false
		}
		return changed, true
	case ev.Key == KeyBackspace:
		if e.text == "" {
			return changed, false
		}
		_, size := utf8.DecodeLastRuneInString(e.text)
		e.text = e.text[:len(e.text)-size]
		return true, false
	case isCharacter(ev.Key):
		if ev.Ctrl || ev.Alt {
			return changed, false
		}
		e.text += ev.Key
		return true, false
	}

	return changed, false
}

// take returns the trimmed input and clears it. The placeholder is restored right away.
func (e *editor) take() string {
	q := strings.TrimSpace(e.text)
	e.text = ""
	e.placeholder = false
	e.restorePlaceholder()
	return q
}

func isCharacter(key string) bool {
	return utf8.RuneCountInString(key) == 1
}
