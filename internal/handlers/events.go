package handlers

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/MegaGrindStone/quickthought/internal/relay"
)

// HandleEvents receives input events captured by the page and dispatches them to the relay.
//
// The handler expects a "type" form field, one of "keydown", "blur" or "focus". Key presses also carry
// "key" and the optional modifier flags "shift", "ctrl" and "alt". An Enter key press without
// modifiers submits the input; the reply then arrives through the SSE stream, not in the response.
func (m Main) HandleEvents(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		m.logger.Error("Method not allowed", slog.String("method", r.Method))
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	ev, err := parseEvent(r)
	if err != nil {
		m.logger.Error("Invalid event", slog.String(errLoggerKey, err.Error()))
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	m.relay.Dispatch(ev)

	w.WriteHeader(http.StatusNoContent)
}

func parseEvent(r *http.Request) (relay.Event, error) {
	switch typ := r.FormValue("type"); typ {
	case "keydown":
		key := r.FormValue("key")
		if key == "" {
			return nil, fmt.Errorf("key is required")
		}
		ev := relay.KeyDown{Key: key}
		var err error
		if ev.Shift, err = formBool(r, "shift"); err != nil {
			return nil, err
		}
		if ev.Ctrl, err = formBool(r, "ctrl"); err != nil {
			return nil, err
		}
		if ev.Alt, err = formBool(r, "alt"); err != nil {
			return nil, err
		}
		return ev, nil
	case "blur":
		return relay.Blur{}, nil
	case "focus":
		return relay.Focus{}, nil
	case "":
		return nil, fmt.Errorf("type is required")
	default:
		return nil, fmt.Errorf("unknown event type: %s", typ)
	}
}

func formBool(r *http.Request, name string) (bool, error) {
	v := r.FormValue(name)
	if v == "" {
		return false, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("invalid %s: %w", name, err)
	}
	return b, nil
}
