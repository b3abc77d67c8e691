package listener

import "github.com/dshills/trialkey/internal/response"

// Priority selects which listener mode a request joins.
type Priority uint8

const (
	// PriorityNormal joins the normal fan-out set.
	PriorityNormal Priority = iota
	// PriorityHigh joins the exclusive FIFO queue.
	PriorityHigh
)

// String returns the priority's configuration name.
func (p Priority) String() string {
	switch p {
	case PriorityHigh:
		return "high"
	default:
		return "normal"
	}
}

// ParsePriority maps a configuration string to a Priority. Anything other
// than "high" is normal.
func ParsePriority(s string) Priority {
	if s == "high" {
		return PriorityHigh
	}
	return PriorityNormal
}

// Response is delivered to a listener's callback on a valid key press.
type Response struct {
	// Key is the normalized identifier of the pressed key.
	Key string

	// RT is the reaction time in milliseconds, measured from the
	// listener's registration against its timing source. Whole
	// milliseconds for the performance clock.
	RT float64
}

// Request describes one pending response request.
//
// The zero value of every optional field is the documented default, so a
// minimal request is just a callback:
//
//	handle, err := reg.RequestResponse(listener.Request{Callback: got})
type Request struct {
	// Callback receives the scored response. Required.
	Callback func(Response)

	// Valid specifies which keys count. The zero value accepts any key;
	// use response.NoKeys or response.Keys to restrict.
	Valid response.Spec

	// TimingMethod is "performance" (default) or "audio". Unknown values
	// fall back to performance with a logged diagnostic.
	TimingMethod string

	// Persist keeps the listener registered after a valid response.
	// Default is one-shot.
	Persist bool

	// AudioStart is the audio-context reading in seconds taken at
	// stimulus onset. Only consulted by the audio timing method.
	AudioStart float64

	// AllowHeldKey accepts keys that are already in the down state.
	AllowHeldKey bool

	// MinimumRT overrides the session-wide reaction-time floor, in
	// milliseconds. Nil means use the session floor.
	MinimumRT *float64

	// Priority selects normal fan-out (default) or the exclusive
	// high-priority queue. High-priority listeners are always one-shot;
	// Persist is ignored for them.
	Priority Priority
}
