/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package impostor

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound      = errors.New("not found")
	ErrInvalidState  = errors.New("action not allowed right now")
	ErrForbidden     = errors.New("not allowed")
	ErrNameTaken     = errors.New("name already taken in this lobby")
	ErrInvalidTarget = errors.New("invalid target")
	ErrInvalidName   = errors.New("invalid name")
	ErrExhausted     = errors.New("no lobby codes available")

	// ErrLobbyGone is returned by a rejoin against a lobby that no longer
	// exists. Clients receiving it drop their cached session.
	ErrLobbyGone = fmt.Errorf("%w: lobby no longer exists", ErrNotFound)
)

// Error kinds as they appear on the wire.
const (
	KindNotFound      = "not_found"
	KindInvalidState  = "invalid_state"
	KindForbidden     = "forbidden"
	KindNameTaken     = "name_taken"
	KindInvalidTarget = "invalid_target"
	KindInvalidName   = "invalid_name"
	KindInternal      = "internal"
)

// ErrorKind maps an engine error onto its wire kind.
func ErrorKind(err error) string {
	switch {
	case errors.Is(err, ErrNotFound):
		return KindNotFound
	case errors.Is(err, ErrInvalidState):
		return KindInvalidState
	case errors.Is(err, ErrForbidden):
		return KindForbidden
	case errors.Is(err, ErrNameTaken):
		return KindNameTaken
	case errors.Is(err, ErrInvalidTarget):
		return KindInvalidTarget
	case errors.Is(err, ErrInvalidName):
		return KindInvalidName
	default:
		return KindInternal
	}
}

func errorf(kind error, format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{kind}, args...)...)
}

// NewErrorMessage builds the targeted message reporting a rejected action.
func NewErrorMessage(err error) ErrorMessage {
	kind := ErrorKind(err)

	text := err.Error()
	if kind == KindInternal {
		text = "Something went wrong. Please try again."
	}

	return ErrorMessage{
		Type:         TypeError,
		Kind:         kind,
		Message:      text,
		ResetSession: errors.Is(err, ErrLobbyGone),
	}
}
