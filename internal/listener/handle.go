package listener

import "github.com/google/uuid"

// HandleKind distinguishes the two listener representations behind a Handle.
type HandleKind uint8

const (
	// HandleNone is the zero, invalid handle kind.
	HandleNone HandleKind = iota
	// HandleNormal identifies a listener in the normal set.
	HandleNormal
	// HandlePriority identifies a ticket in the high-priority queue.
	HandlePriority
)

// String returns a human-readable kind name.
func (k HandleKind) String() string {
	switch k {
	case HandleNormal:
		return "normal"
	case HandlePriority:
		return "priority"
	default:
		return "none"
	}
}

// Handle is the opaque capability returned by RequestResponse. It is the
// only way to cancel a specific listener. Handles are comparable and safe
// to copy; the zero Handle refers to nothing and cancels nothing.
type Handle struct {
	kind HandleKind
	id   uuid.UUID
}

// Kind reports which listener representation the handle refers to.
func (h Handle) Kind() HandleKind {
	return h.kind
}

// IsZero reports whether the handle refers to nothing.
func (h Handle) IsZero() bool {
	return h.kind == HandleNone
}

// String returns a short diagnostic form, e.g. "priority:1a2b3c4d".
func (h Handle) String() string {
	if h.IsZero() {
		return "none"
	}
	return h.kind.String() + ":" + h.id.String()[:8]
}

func newNormalHandle() Handle {
	return Handle{kind: HandleNormal, id: uuid.New()}
}

func newPriorityHandle() Handle {
	return Handle{kind: HandlePriority, id: uuid.New()}
}
