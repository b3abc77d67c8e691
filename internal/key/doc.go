// Package key provides key identifiers, normalization, and comparison for
// trial response capture.
//
// Keys are identified by browser-style names: single characters ("a", "J",
// " ") and lowercase special-key names ("enter", "escape", "arrowleft",
// "f1"). Whether two identifiers match depends on the session's
// case-sensitivity setting, so all comparison goes through Normalize and
// Comparer rather than raw string equality.
package key
