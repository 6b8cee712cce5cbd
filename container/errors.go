package container

import "errors"

var ErrCheckpointDisabled = errors.New("checkpointing not enabled for this container")
