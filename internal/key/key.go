package key

import "strings"

// ID is a normalized key identifier.
//
// Normalization is session-wide: in the default case-insensitive mode "A"
// and "a" map to the same ID. Special keys ("enter", "arrowup") are already
// lowercase and pass through unchanged in either mode.
type ID string

// Normalize converts a raw key name to an ID under the given case mode.
func Normalize(s string, caseSensitive bool) ID {
	if caseSensitive {
		return ID(s)
	}
	return ID(strings.ToLower(s))
}

// Comparer compares raw key names under a fixed case mode.
// The zero value compares case-sensitively; use NewComparer for the
// session-configured mode.
type Comparer struct {
	caseSensitive bool
}

// NewComparer creates a comparer for the given case mode.
func NewComparer(caseSensitive bool) Comparer {
	return Comparer{caseSensitive: caseSensitive}
}

// CaseSensitive reports the comparer's case mode.
func (c Comparer) CaseSensitive() bool {
	return c.caseSensitive
}

// Compare reports whether two key values denote the same key.
//
// Both arguments nil means "no key" on both sides and compares equal.
// Exactly one nil is never equal. Two strings compare under the configured
// case mode. Any other argument type is a caller bug: Compare returns
// ErrInvalidArgument and the boolean result is indeterminate - callers must
// treat it as "cannot determine", not as false.
func (c Comparer) Compare(a, b any) (bool, error) {
	if a == nil && b == nil {
		return true, nil
	}
	if a == nil || b == nil {
		return false, nil
	}

	as, aok := a.(string)
	bs, bok := b.(string)
	if !aok || !bok {
		return false, ErrInvalidArgument
	}

	if c.caseSensitive {
		return as == bs, nil
	}
	return strings.EqualFold(as, bs), nil
}
