package port

import "errors"

// Sentinel errors used across ports.
var (
	ErrEmptyConversation = errors.New("conversation is empty")
	ErrInvalidMessage    = errors.New("invalid conversation message")
)
