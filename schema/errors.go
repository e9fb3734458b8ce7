package schema

import "errors"

var (
	// ErrEngineClosed indicates the engine has stopped accepting messages.
	ErrEngineClosed = errors.New("engine closed")
	// ErrInvalidConfig indicates an engine config value is out of range.
	ErrInvalidConfig = errors.New("invalid engine config")
	// ErrSessionCorrupt indicates a session snapshot failed to decode.
	ErrSessionCorrupt = errors.New("session snapshot corrupt")
)
