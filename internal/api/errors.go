package api

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrUnauthorized indicates the server rejected the bearer token.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrUnexpectedStatus indicates any other non-2xx response.
	ErrUnexpectedStatus = errors.New("unexpected status")

	// ErrNoList indicates a time-entries body held no recognizable entry list.
	ErrNoList = errors.New("response has no entry list")
)

// StatusError carries a non-2xx response. Its message is "<code> <body>".
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%d %s", e.Code, e.Body)
}

func (e *StatusError) Unwrap() error {
	if e.Code == http.StatusUnauthorized || e.Code == http.StatusForbidden {
		return ErrUnauthorized
	}
	return ErrUnexpectedStatus
}

func errorCode(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrUnauthorized):
		return "UNAUTHORIZED"
	case errors.Is(err, ErrUnexpectedStatus):
		return "STATUS"
	case errors.Is(err, ErrNoList):
		return "NO_LIST"
	default:
		return "TRANSPORT"
	}
}
