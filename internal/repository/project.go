package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/alexanderramin/bizdesk/internal/domain"
	"github.com/alexanderramin/bizdesk/internal/gateway"
)

const projectsRelation = "projects"

var projectClientJoin = &gateway.Join{
	Relation: clientsRelation,
	On:       "client_id",
	Columns:  []string{"name"},
	As:       "client",
}

type ProjectRepo struct {
	gw gateway.Client
}

func NewProjectRepo(gw gateway.Client) *ProjectRepo {
	return &ProjectRepo{gw: gw}
}

func (r *ProjectRepo) List(ctx context.Context) ([]domain.Project, error) {
	rows, err := r.gw.Select(ctx, projectsRelation, gateway.Query{Join: projectClientJoin})
	if err != nil {
		return nil, fmt.Errorf("listing projects: %w", err)
	}
	return scanAll(rows, scanProject), nil
}

// ListOpen returns projects that can still take rates: anything not
// completed or cancelled.
func (r *ProjectRepo) ListOpen(ctx context.Context) ([]domain.Project, error) {
	rows, err := r.gw.Select(ctx, projectsRelation, gateway.Query{
		Join: projectClientJoin,
		Filters: []gateway.Filter{gateway.In("status", []string{
			string(domain.ProjectPlanning), string(domain.ProjectActive), string(domain.ProjectOnHold),
		})},
		Order: []gateway.Order{gateway.Asc("code")},
	})
	if err != nil {
		return nil, fmt.Errorf("listing open projects: %w", err)
	}
	return scanAll(rows, scanProject), nil
}

func (r *ProjectRepo) Insert(ctx context.Context, d domain.ProjectDraft) (domain.Project, error) {
	values, err := projectRow(d)
	if err != nil {
		return domain.Project{}, fmt.Errorf("inserting project: %w", err)
	}
	rows, err := r.gw.Insert(ctx, projectsRelation, values)
	if err != nil {
		return domain.Project{}, fmt.Errorf("inserting project: %w", err)
	}
	row, err := single(rows)
	if err != nil {
		return domain.Project{}, fmt.Errorf("inserting project: %w", err)
	}
	return scanProject(row), nil
}

func (r *ProjectRepo) Update(ctx context.Context, id string, d domain.ProjectDraft) (domain.Project, error) {
	values, err := projectRow(d)
	if err != nil {
		return domain.Project{}, fmt.Errorf("updating project: %w", err)
	}
	rows, err := r.gw.Update(ctx, projectsRelation, id, values)
	if err != nil {
		return domain.Project{}, fmt.Errorf("updating project: %w", err)
	}
	row, err := single(rows)
	if err != nil {
		return domain.Project{}, fmt.Errorf("updating project: %w", err)
	}
	return scanProject(row), nil
}

func (r *ProjectRepo) Delete(ctx context.Context, id string) error {
	if err := r.gw.Delete(ctx, projectsRelation, id); err != nil {
		return fmt.Errorf("deleting project: %w", err)
	}
	return nil
}

func projectRow(d domain.ProjectDraft) (gateway.Row, error) {
	start, err := nullableDate(d.StartDate)
	if err != nil {
		return nil, err
	}
	end, err := nullableDate(d.EndDate)
	if err != nil {
		return nil, err
	}
	budget, err := nullableDecimal(d.Budget)
	if err != nil {
		return nil, err
	}
	return gateway.Row{
		"code":           strings.TrimSpace(d.Code),
		"name":           strings.TrimSpace(d.Name),
		"client_id":      strings.TrimSpace(d.ClientID),
		"cost_center_id": nullable(d.CostCenterID),
		"status":         d.Status,
		"start_date":     start,
		"end_date":       end,
		"budget":         budget,
	}, nil
}

func scanProject(row gateway.Row) domain.Project {
	return domain.Project{
		ID:           text(row, "id"),
		Code:         text(row, "code"),
		Name:         text(row, "name"),
		ClientID:     text(row, "client_id"),
		CostCenterID: optText(row, "cost_center_id"),
		Status:       domain.ProjectStatus(text(row, "status")),
		StartDate:    optDate(row, "start_date"),
		EndDate:      optDate(row, "end_date"),
		Budget:       optDecimal(row, "budget"),
		CreatedAt:    timestamp(row, "created_at"),
		UpdatedAt:    timestamp(row, "updated_at"),
		ClientName:   text(row, "client.name"),
	}
}
