package checkpoint

import "errors"

// Sentinel errors for checkpoint stores.
var (
	ErrNotFound     = errors.New("checkpoint not found")
	ErrLoadFailed   = errors.New("checkpoint load failed")
	ErrSaveFailed   = errors.New("checkpoint save failed")
	ErrEmptyID      = errors.New("checkpoint id is empty")
	ErrUnknownStore = errors.New("unknown checkpoint store")
	ErrUnknownCodec = errors.New("unknown checkpoint codec")
)
