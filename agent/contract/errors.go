package contract

import "errors"

var (
	ErrModelInvoke       = errors.New("model invoke failed")
	ErrPromptMissing     = errors.New("required prompt is missing")
	ErrValidation        = errors.New("validation failed")
	ErrNoCandidate       = errors.New("no candidate workers to route to")
	ErrUnknownAgent      = errors.New("routing returned an unknown agent")
	ErrDuplicateWorkerID = errors.New("duplicate worker id")
	ErrWorkerNotFound    = errors.New("worker not found")
	ErrNotConnected      = errors.New("tool session is not connected")
	ErrConnection        = errors.New("tool session connection failed")
	ErrToolCall          = errors.New("tool call failed")
)
