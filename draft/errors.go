package draft

import "errors"

// ErrConflictingUpdate is returned when a recipe modified its draft and also
// returned a replacement value. It signals a programming error in the recipe
// and is never retried.
var ErrConflictingUpdate = errors.New("[draft] a recipe returned a new value *and* modified its draft. Either return a new value *or* modify the draft")
