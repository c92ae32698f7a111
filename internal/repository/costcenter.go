package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/alexanderramin/bizdesk/internal/domain"
	"github.com/alexanderramin/bizdesk/internal/gateway"
)

const costCentersRelation = "cost_centers"

var costCenterParentJoin = &gateway.Join{
	Relation: costCentersRelation,
	On:       "parent_id",
	Columns:  []string{"code", "name"},
	As:       "parent",
}

type CostCenterRepo struct {
	gw gateway.Client
}

func NewCostCenterRepo(gw gateway.Client) *CostCenterRepo {
	return &CostCenterRepo{gw: gw}
}

func (r *CostCenterRepo) List(ctx context.Context) ([]domain.CostCenter, error) {
	rows, err := r.gw.Select(ctx, costCentersRelation, gateway.Query{Join: costCenterParentJoin})
	if err != nil {
		return nil, fmt.Errorf("listing cost centers: %w", err)
	}
	return scanAll(rows, scanCostCenter), nil
}

func (r *CostCenterRepo) ListActive(ctx context.Context) ([]domain.CostCenter, error) {
	rows, err := r.gw.Select(ctx, costCentersRelation, gateway.Query{
		Join:    costCenterParentJoin,
		Filters: []gateway.Filter{gateway.Eq("status", string(domain.StatusActive))},
	})
	if err != nil {
		return nil, fmt.Errorf("listing active cost centers: %w", err)
	}
	return scanAll(rows, scanCostCenter), nil
}

func (r *CostCenterRepo) Insert(ctx context.Context, d domain.CostCenterDraft) (domain.CostCenter, error) {
	rows, err := r.gw.Insert(ctx, costCentersRelation, costCenterRow(d))
	if err != nil {
		return domain.CostCenter{}, fmt.Errorf("inserting cost center: %w", err)
	}
	row, err := single(rows)
	if err != nil {
		return domain.CostCenter{}, fmt.Errorf("inserting cost center: %w", err)
	}
	return scanCostCenter(row), nil
}

func (r *CostCenterRepo) Update(ctx context.Context, id string, d domain.CostCenterDraft) (domain.CostCenter, error) {
	rows, err := r.gw.Update(ctx, costCentersRelation, id, costCenterRow(d))
	if err != nil {
		return domain.CostCenter{}, fmt.Errorf("updating cost center: %w", err)
	}
	row, err := single(rows)
	if err != nil {
		return domain.CostCenter{}, fmt.Errorf("updating cost center: %w", err)
	}
	return scanCostCenter(row), nil
}

func (r *CostCenterRepo) Delete(ctx context.Context, id string) error {
	if err := r.gw.Delete(ctx, costCentersRelation, id); err != nil {
		return fmt.Errorf("deleting cost center: %w", err)
	}
	return nil
}

func costCenterRow(d domain.CostCenterDraft) gateway.Row {
	return gateway.Row{
		"code":        strings.TrimSpace(d.Code),
		"name":        strings.TrimSpace(d.Name),
		"description": nullable(d.Description),
		"parent_id":   nullable(d.ParentID),
		"status":      d.Status,
	}
}

func scanCostCenter(row gateway.Row) domain.CostCenter {
	return domain.CostCenter{
		ID:          text(row, "id"),
		Code:        text(row, "code"),
		Name:        text(row, "name"),
		Description: optText(row, "description"),
		ParentID:    optText(row, "parent_id"),
		Status:      domain.RecordStatus(text(row, "status")),
		CreatedAt:   timestamp(row, "created_at"),
		UpdatedAt:   timestamp(row, "updated_at"),
		ParentCode:  text(row, "parent.code"),
		ParentName:  text(row, "parent.name"),
	}
}
