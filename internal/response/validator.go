package response

import "github.com/dshills/trialkey/internal/key"

// HeldFunc reports whether a key is currently in the down state.
type HeldFunc func(id key.ID) bool

// IsValid decides whether a normalized key satisfies the spec under the
// held-key policy.
//
// The held check runs first: a key that is already down never scores as a
// fresh response unless the listener opted in with allowHeld. The spec is
// consulted only after the key clears that gate.
func IsValid(spec Spec, allowHeld bool, id key.ID, held HeldFunc) bool {
	if !allowHeld && held != nil && held(id) {
		return false
	}
	if spec.IsAll() {
		return true
	}
	if spec.IsNone() {
		return false
	}
	return spec.Contains(id)
}
