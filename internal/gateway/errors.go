package gateway

import (
	"errors"
	"fmt"
	"strings"
)

// Code classifies a gateway failure.
type Code string

const (
	CodeInvalid          Code = "invalid"
	CodeNotFound         Code = "not_found"
	CodeConflict         Code = "conflict"
	CodeConstraint       Code = "constraint"
	CodePermissionDenied Code = "permission_denied"
	CodeInternal         Code = "internal"
)

var (
	// ErrNotFound is wrapped by errors for update/delete of a missing id.
	ErrNotFound = errors.New("record not found")

	// ErrPermissionDenied is wrapped by errors the Authorizer rejects.
	ErrPermissionDenied = errors.New("permission denied")
)

// Error is the uniform failure shape of every gateway call. Message is meant
// for people; Err carries the underlying cause.
type Error struct {
	Op       Op
	Relation string
	Code     Code
	Message  string
	Err      error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s %s: %s", e.Op, e.Relation, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

// CodeOf returns the Code of the first *Error in err's chain, or "" when err
// did not come from the gateway.
func CodeOf(err error) Code {
	var gwErr *Error
	if errors.As(err, &gwErr) {
		return gwErr.Code
	}
	return ""
}

// MessageOf returns the human-readable message of a gateway error, falling
// back to err.Error().
func MessageOf(err error) string {
	var gwErr *Error
	if errors.As(err, &gwErr) {
		return gwErr.Message
	}
	return err.Error()
}

func invalidf(op Op, relation, format string, args ...any) *Error {
	return &Error{Op: op, Relation: relation, Code: CodeInvalid, Message: fmt.Sprintf(format, args...)}
}

func notFound(op Op, relation, id string) *Error {
	return &Error{
		Op:       op,
		Relation: relation,
		Code:     CodeNotFound,
		Message:  fmt.Sprintf("no record with id %q", id),
		Err:      ErrNotFound,
	}
}

// classify maps a driver error to an *Error. SQLite reports constraint
// failures only through the message text.
func classify(op Op, relation string, err error) *Error {
	var gwErr *Error
	if errors.As(err, &gwErr) {
		return gwErr
	}
	msg := err.Error()
	e := &Error{Op: op, Relation: relation, Code: CodeInternal, Message: msg, Err: err}
	switch {
	case strings.Contains(msg, "UNIQUE constraint failed"):
		e.Code = CodeConflict
		e.Message = fmt.Sprintf("%s must be unique", constraintSubject(msg, "UNIQUE constraint failed:"))
	case strings.Contains(msg, "FOREIGN KEY constraint failed"):
		e.Code = CodeConstraint
		if op == OpDelete {
			e.Message = "record is still referenced by other records"
		} else {
			e.Message = "referenced record does not exist"
		}
	case strings.Contains(msg, "NOT NULL constraint failed"):
		e.Code = CodeConstraint
		e.Message = fmt.Sprintf("%s is required", constraintSubject(msg, "NOT NULL constraint failed:"))
	case strings.Contains(msg, "CHECK constraint failed"):
		e.Code = CodeConstraint
		e.Message = "value is not allowed"
	}
	return e
}

// constraintSubject extracts "table.column" from a SQLite constraint message.
func constraintSubject(msg, marker string) string {
	i := strings.Index(msg, marker)
	if i < 0 {
		return "value"
	}
	rest := strings.TrimSpace(msg[i+len(marker):])
	if j := strings.IndexAny(rest, " )"); j >= 0 {
		rest = rest[:j]
	}
	if rest == "" {
		return "value"
	}
	return rest
}
