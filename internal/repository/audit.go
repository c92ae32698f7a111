package repository

import (
	"context"
	"fmt"

	"github.com/alexanderramin/bizdesk/internal/domain"
	"github.com/alexanderramin/bizdesk/internal/gateway"
)

// DefaultAuditLimit caps audit listings when no limit is given.
const DefaultAuditLimit = 50

type AuditRepo struct {
	gw gateway.Client
}

func NewAuditRepo(gw gateway.Client) *AuditRepo {
	return &AuditRepo{gw: gw}
}

// List returns the newest audit entries first, optionally for one relation.
func (r *AuditRepo) List(ctx context.Context, relation string, limit int) ([]domain.AuditEntry, error) {
	if limit <= 0 {
		limit = DefaultAuditLimit
	}
	q := gateway.Query{Limit: limit}
	if relation != "" {
		q.Filters = []gateway.Filter{gateway.Eq("relation", relation)}
	}
	rows, err := r.gw.Select(ctx, gateway.AuditRelation, q)
	if err != nil {
		return nil, fmt.Errorf("listing audit log: %w", err)
	}
	return scanAll(rows, scanAuditEntry), nil
}

func scanAuditEntry(row gateway.Row) domain.AuditEntry {
	return domain.AuditEntry{
		ID:       text(row, "id"),
		Relation: text(row, "relation"),
		RecordID: text(row, "record_id"),
		Action:   text(row, "action"),
		At:       timestamp(row, "at"),
		Detail:   optText(row, "detail"),
	}
}
