package signals

import "errors"

// ErrTypeMismatch reports a partial update or watched field that does not
// fit the state type.
var ErrTypeMismatch = errors.New("partial update does not match state type")
