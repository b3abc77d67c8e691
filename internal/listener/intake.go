package listener

import "github.com/dshills/trialkey/internal/key"

// Root is a source of key events, typically the experiment's display
// element. Attaching twice is the root's problem to reject; the registry
// guarantees it attaches at most once.
type Root interface {
	// AttachKeyHandlers registers the key-down and key-up callbacks.
	AttachKeyHandlers(down, up func(ev *key.Event))
}

// RootProvider returns the current display root, or nil while none exists.
// The registry calls it at construction and again on every registration
// until a root appears.
type RootProvider func() Root

// bind attaches the registry's dispatch entry points to the display root.
// Safe to call repeatedly; attachment happens at most once.
func (r *Registry) bind() {
	r.mu.Lock()
	if r.bound || r.rootProvider == nil {
		r.mu.Unlock()
		return
	}
	provider := r.rootProvider
	r.mu.Unlock()

	root := provider()
	if root == nil {
		return
	}

	r.mu.Lock()
	if r.bound {
		r.mu.Unlock()
		return
	}
	r.bound = true
	r.mu.Unlock()

	root.AttachKeyHandlers(r.KeyDown, r.KeyUp)
}
