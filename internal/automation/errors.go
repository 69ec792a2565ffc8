package automation

import "errors"

var (
	// ErrSessionNotFound is returned for tool calls naming an unknown session.
	ErrSessionNotFound = errors.New("session not found")
	// ErrUnknownAction is returned when an action name resolves to nothing.
	ErrUnknownAction = errors.New("unsupported action")
	// ErrUnknownTool is returned by tools/call for names outside the catalogue.
	ErrUnknownTool = errors.New("unsupported tool")
)
