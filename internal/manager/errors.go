package manager

import (
	"errors"
	"fmt"
	"strings"

	"github.com/alexanderramin/bizdesk/internal/gateway"
)

var (
	// ErrBusy is returned when a submit or delete starts while another one
	// is still running on the same manager.
	ErrBusy = errors.New("another change is still in progress")

	// ErrInvalidState is returned for actions the current state does not allow.
	ErrInvalidState = errors.New("action not allowed in the current state")

	// ErrRecordNotFound is returned when an id is not in the current snapshot.
	ErrRecordNotFound = errors.New("record not in the current list")
)

// ErrorKind classifies manager failures.
type ErrorKind string

const (
	KindFetch      ErrorKind = "fetch"
	KindMutation   ErrorKind = "mutation"
	KindValidation ErrorKind = "validation"
	KindBusy       ErrorKind = "busy"
	KindState      ErrorKind = "state"
)

// Error is returned by every Manager operation that fails.
type Error struct {
	Kind ErrorKind
	Op   string
	Noun string
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Noun, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// KindOf returns the ErrorKind of err, or "" if err is not a *Error.
func KindOf(err error) ErrorKind {
	var mErr *Error
	if errors.As(err, &mErr) {
		return mErr.Kind
	}
	return ""
}

// FieldProblem is one failed field check.
type FieldProblem struct {
	Field   string
	Message string
}

// ValidationError lists every field that failed presence or format checks.
type ValidationError struct {
	Problems []FieldProblem
}

func (e *ValidationError) Error() string {
	msgs := make([]string, len(e.Problems))
	for i, p := range e.Problems {
		msgs[i] = p.Message
	}
	return strings.Join(msgs, "; ")
}

// UserMessage renders err for display. Gateway failures use their
// human-readable message rather than the full wrapped chain.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	var vErr *ValidationError
	if errors.As(err, &vErr) {
		return vErr.Error()
	}
	if gateway.CodeOf(err) != "" {
		return gateway.MessageOf(err)
	}
	var mErr *Error
	if errors.As(err, &mErr) {
		return mErr.Err.Error()
	}
	return err.Error()
}
