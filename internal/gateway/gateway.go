// Package gateway is the relation-name based data client shared by every
// manager. It exposes select/insert/update/delete against the relations
// registered in a Schema and reports every failure as *Error.
package gateway

import "context"

// Row is one record keyed by column name. Joined columns are keyed
// "<alias>.<column>". SQL NULL is represented by a nil value.
type Row map[string]any

// Op names a gateway operation.
type Op string

const (
	OpSelect Op = "select"
	OpInsert Op = "insert"
	OpUpdate Op = "update"
	OpDelete Op = "delete"
)

// IsMutation reports whether op writes to the store.
func (op Op) IsMutation() bool {
	return op == OpInsert || op == OpUpdate || op == OpDelete
}

// Client is the data gateway contract.
type Client interface {
	Select(ctx context.Context, relation string, q Query) ([]Row, error)
	Insert(ctx context.Context, relation string, rows ...Row) ([]Row, error)
	Update(ctx context.Context, relation string, id string, patch Row) ([]Row, error)
	Delete(ctx context.Context, relation string, id string) error

	// WithinTx runs fn against a transaction-scoped client. Mutations made
	// through tx commit or roll back together.
	WithinTx(ctx context.Context, fn func(ctx context.Context, tx Client) error) error
}
