package key

import "errors"

// ErrInvalidArgument is returned by Comparer.Compare when an argument is
// neither a string nor nil. The comparison result is indeterminate.
var ErrInvalidArgument = errors.New("key comparison argument must be a string or nil")
