package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/alexanderramin/bizdesk/internal/domain"
	"github.com/alexanderramin/bizdesk/internal/gateway"
)

const clientsRelation = "clients"

type ClientRepo struct {
	gw gateway.Client
}

func NewClientRepo(gw gateway.Client) *ClientRepo {
	return &ClientRepo{gw: gw}
}

func (r *ClientRepo) List(ctx context.Context) ([]domain.Client, error) {
	rows, err := r.gw.Select(ctx, clientsRelation, gateway.Query{})
	if err != nil {
		return nil, fmt.Errorf("listing clients: %w", err)
	}
	return scanAll(rows, scanClient), nil
}

// ListActive returns the clients offered by pickers.
func (r *ClientRepo) ListActive(ctx context.Context) ([]domain.Client, error) {
	rows, err := r.gw.Select(ctx, clientsRelation, gateway.Query{
		Filters: []gateway.Filter{gateway.Eq("status", string(domain.StatusActive))},
	})
	if err != nil {
		return nil, fmt.Errorf("listing active clients: %w", err)
	}
	return scanAll(rows, scanClient), nil
}

func (r *ClientRepo) Insert(ctx context.Context, d domain.ClientDraft) (domain.Client, error) {
	rows, err := r.gw.Insert(ctx, clientsRelation, clientRow(d))
	if err != nil {
		return domain.Client{}, fmt.Errorf("inserting client: %w", err)
	}
	row, err := single(rows)
	if err != nil {
		return domain.Client{}, fmt.Errorf("inserting client: %w", err)
	}
	return scanClient(row), nil
}

func (r *ClientRepo) Update(ctx context.Context, id string, d domain.ClientDraft) (domain.Client, error) {
	rows, err := r.gw.Update(ctx, clientsRelation, id, clientRow(d))
	if err != nil {
		return domain.Client{}, fmt.Errorf("updating client: %w", err)
	}
	row, err := single(rows)
	if err != nil {
		return domain.Client{}, fmt.Errorf("updating client: %w", err)
	}
	return scanClient(row), nil
}

func (r *ClientRepo) Delete(ctx context.Context, id string) error {
	if err := r.gw.Delete(ctx, clientsRelation, id); err != nil {
		return fmt.Errorf("deleting client: %w", err)
	}
	return nil
}

func clientRow(d domain.ClientDraft) gateway.Row {
	return gateway.Row{
		"code":   strings.TrimSpace(d.Code),
		"name":   strings.TrimSpace(d.Name),
		"email":  nullable(d.Email),
		"status": d.Status,
	}
}

func scanClient(row gateway.Row) domain.Client {
	return domain.Client{
		ID:        text(row, "id"),
		Code:      text(row, "code"),
		Name:      text(row, "name"),
		Email:     optText(row, "email"),
		Status:    domain.RecordStatus(text(row, "status")),
		CreatedAt: timestamp(row, "created_at"),
		UpdatedAt: timestamp(row, "updated_at"),
	}
}
