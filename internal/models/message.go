package models

// Exchange is what a display shows in the main message area: the query that was submitted and the
// body received so far. Body holds a fixed status text while loading, or when the request ended
// without a usable reply.
type Exchange struct {
	Query string
	Body  string

	StreamingState StreamingState
}

// StreamingState tracks where an Exchange is in its lifecycle.
type StreamingState string

const (
	StreamingStateLoading   StreamingState = "loading"
	StreamingStateStreaming StreamingState = "streaming"
	StreamingStateEnded     StreamingState = "ended"
)

// Loading reports whether the exchange should still be shown with a loading indicator.
func (e Exchange) Loading() bool {
	return e.StreamingState != StreamingStateEnded && e.StreamingState != ""
}
