// Package response defines response specifications and the validation rule
// that decides whether a key press satisfies one.
package response

import (
	"strings"

	"github.com/dshills/trialkey/internal/key"
)

type mode uint8

const (
	modeAll mode = iota
	modeNone
	modeSet
)

// Spec describes which keys count as a valid response: every key, no key,
// or an explicit set.
//
// A Spec built by Keys holds raw names; Normalized fixes the set into IDs
// under the session case mode. Registration normalizes once so dispatch
// never pays a per-event normalization cost.
type Spec struct {
	mode mode
	raw  []string
	set  map[key.ID]struct{}
}

// AllKeys accepts any key.
func AllKeys() Spec {
	return Spec{mode: modeAll}
}

// NoKeys accepts no key at all. Useful for trials that record nothing but
// still want held-key bookkeeping to run.
func NoKeys() Spec {
	return Spec{mode: modeNone}
}

// Keys accepts exactly the listed key names.
func Keys(names ...string) Spec {
	return Spec{mode: modeSet, raw: names}
}

// IsAll reports whether the spec accepts any key.
func (s Spec) IsAll() bool { return s.mode == modeAll }

// IsNone reports whether the spec rejects every key.
func (s Spec) IsNone() bool { return s.mode == modeNone }

// Normalized returns a copy with the explicit set normalized under the given
// case mode. All/None specs are returned unchanged.
func (s Spec) Normalized(caseSensitive bool) Spec {
	if s.mode != modeSet {
		return s
	}
	set := make(map[key.ID]struct{}, len(s.raw))
	for _, name := range s.raw {
		set[key.Normalize(name, caseSensitive)] = struct{}{}
	}
	return Spec{mode: modeSet, set: set}
}

// Contains reports membership of a normalized key in the explicit set.
// Only meaningful on a normalized set spec.
func (s Spec) Contains(id key.ID) bool {
	_, ok := s.set[id]
	return ok
}

// String returns a short description for diagnostics.
func (s Spec) String() string {
	switch s.mode {
	case modeAll:
		return "all-keys"
	case modeNone:
		return "no-keys"
	default:
		if s.raw != nil {
			return "[" + strings.Join(s.raw, " ") + "]"
		}
		names := make([]string, 0, len(s.set))
		for id := range s.set {
			names = append(names, string(id))
		}
		return "[" + strings.Join(names, " ") + "]"
	}
}
