package key

import "time"

// Kind distinguishes key-down from key-up events.
type Kind uint8

const (
	// KindDown is a key press.
	KindDown Kind = iota
	// KindUp is a key release.
	KindUp
)

// String returns a human-readable kind name.
func (k Kind) String() string {
	switch k {
	case KindDown:
		return "down"
	case KindUp:
		return "up"
	default:
		return "unknown"
	}
}

// Event is a single key-down or key-up delivered by the display root.
type Event struct {
	// Kind is down or up.
	Kind Kind

	// Key is the raw (un-normalized) key name as reported by the root.
	Key string

	// Timestamp is when the root observed the event.
	Timestamp time.Time

	consumed bool
}

// NewDown creates a key-down event with the current timestamp.
func NewDown(name string) *Event {
	return &Event{Kind: KindDown, Key: name, Timestamp: time.Now()}
}

// NewUp creates a key-up event with the current timestamp.
func NewUp(name string) *Event {
	return &Event{Kind: KindUp, Key: name, Timestamp: time.Now()}
}

// Consume marks the event as handled so the host suppresses its default
// action. Consuming is sticky; there is no way to un-consume.
func (e *Event) Consume() {
	e.consumed = true
}

// IsConsumed reports whether a listener accepted this event.
func (e *Event) IsConsumed() bool {
	return e.consumed
}
