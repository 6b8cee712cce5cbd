package container

import "github.com/tailored-agentic-units/drafts/observability"

const (
	EventCreate     observability.EventType = "container.create"
	EventCommit     observability.EventType = "container.commit"
	EventNoop       observability.EventType = "container.noop"
	EventConflict   observability.EventType = "container.conflict"
	EventCheckpoint observability.EventType = "container.checkpoint"
	EventRestore    observability.EventType = "container.restore"
)
