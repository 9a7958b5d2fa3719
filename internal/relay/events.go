package relay

// Event is an input event a surface feeds into the relay. Surfaces translate their own callbacks
// (DOM events, terminal key messages) into these values.
type Event interface {
	event()
}

// KeyDown is a key press on the input. Key is either a single character or one of the named keys.
type KeyDown struct {
	Key   string
	Shift bool
	Ctrl  bool
	Alt   bool
}

// Blur is sent when the input loses focus.
type Blur struct{}

// Focus is sent when the input gains focus, including a click anywhere on the input area. It leaves
// the input unchanged: only typing clears the placeholder.
type Focus struct{}

// Named keys understood by the relay.
const (
	KeyEnter     = "Enter"
	KeyBackspace = "Backspace"
	KeyDelete    = "Delete"
)

func (KeyDown) event() {}
func (Blur) event()    {}
func (Focus) event()   {}
