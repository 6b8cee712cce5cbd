package reducer

import "errors"

// Sentinel errors for reducers and the dispatcher.
var (
	ErrPayloadMismatch = errors.New("action payload does not match binding")
	ErrAlreadyExists   = errors.New("store already registered")
	ErrEmptyName       = errors.New("store name is empty")
	ErrNotFound        = errors.New("store not found")
)
