package gateway

import (
	"context"
	"fmt"
)

// Authorizer decides whether an operation on a relation may proceed.
type Authorizer interface {
	Authorize(ctx context.Context, op Op, relation string) error
}

// AllowAll permits every operation.
type AllowAll struct{}

func (AllowAll) Authorize(context.Context, Op, string) error { return nil }

// ReadOnly permits selects and rejects every mutation.
type ReadOnly struct{}

func (ReadOnly) Authorize(_ context.Context, op Op, relation string) error {
	if op.IsMutation() {
		return &Error{
			Op:       op,
			Relation: relation,
			Code:     CodePermissionDenied,
			Message:  "the console is in read-only mode",
			Err:      ErrPermissionDenied,
		}
	}
	return nil
}

// AuthorizerFunc adapts a function to Authorizer.
type AuthorizerFunc func(ctx context.Context, op Op, relation string) error

func (f AuthorizerFunc) Authorize(ctx context.Context, op Op, relation string) error {
	if err := f(ctx, op, relation); err != nil {
		return &Error{
			Op:       op,
			Relation: relation,
			Code:     CodePermissionDenied,
			Message:  err.Error(),
			Err:      fmt.Errorf("%w: %w", ErrPermissionDenied, err),
		}
	}
	return nil
}
