package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/alexanderramin/bizdesk/internal/domain"
	"github.com/alexanderramin/bizdesk/internal/gateway"
)

const ratesRelation = "rates"

var rateProjectJoin = &gateway.Join{
	Relation: projectsRelation,
	On:       "project_id",
	Columns:  []string{"code", "name"},
	As:       "project",
}

type RateRepo struct {
	gw gateway.Client
}

func NewRateRepo(gw gateway.Client) *RateRepo {
	return &RateRepo{gw: gw}
}

func (r *RateRepo) List(ctx context.Context) ([]domain.Rate, error) {
	rows, err := r.gw.Select(ctx, ratesRelation, gateway.Query{Join: rateProjectJoin})
	if err != nil {
		return nil, fmt.Errorf("listing rates: %w", err)
	}
	return scanAll(rows, scanRate), nil
}

// ListForProject returns the rates scoped to one project.
func (r *RateRepo) ListForProject(ctx context.Context, projectID string) ([]domain.Rate, error) {
	rows, err := r.gw.Select(ctx, ratesRelation, gateway.Query{
		Join:    rateProjectJoin,
		Filters: []gateway.Filter{gateway.Eq("project_id", projectID)},
	})
	if err != nil {
		return nil, fmt.Errorf("listing rates for project: %w", err)
	}
	return scanAll(rows, scanRate), nil
}

func (r *RateRepo) Insert(ctx context.Context, d domain.RateDraft) (domain.Rate, error) {
	values, err := rateRow(d)
	if err != nil {
		return domain.Rate{}, fmt.Errorf("inserting rate: %w", err)
	}
	rows, err := r.gw.Insert(ctx, ratesRelation, values)
	if err != nil {
		return domain.Rate{}, fmt.Errorf("inserting rate: %w", err)
	}
	row, err := single(rows)
	if err != nil {
		return domain.Rate{}, fmt.Errorf("inserting rate: %w", err)
	}
	return scanRate(row), nil
}

func (r *RateRepo) Update(ctx context.Context, id string, d domain.RateDraft) (domain.Rate, error) {
	values, err := rateRow(d)
	if err != nil {
		return domain.Rate{}, fmt.Errorf("updating rate: %w", err)
	}
	rows, err := r.gw.Update(ctx, ratesRelation, id, values)
	if err != nil {
		return domain.Rate{}, fmt.Errorf("updating rate: %w", err)
	}
	row, err := single(rows)
	if err != nil {
		return domain.Rate{}, fmt.Errorf("updating rate: %w", err)
	}
	return scanRate(row), nil
}

func (r *RateRepo) Delete(ctx context.Context, id string) error {
	if err := r.gw.Delete(ctx, ratesRelation, id); err != nil {
		return fmt.Errorf("deleting rate: %w", err)
	}
	return nil
}

func rateRow(d domain.RateDraft) (gateway.Row, error) {
	amount, err := domain.ParseAmount(d.Amount)
	if err != nil {
		return nil, err
	}
	validFrom, err := domain.ParseDate(d.ValidFrom)
	if err != nil {
		return nil, err
	}
	validTo, err := nullableDate(d.ValidTo)
	if err != nil {
		return nil, err
	}
	return gateway.Row{
		"name":       strings.TrimSpace(d.Name),
		"amount":     amount.String(),
		"currency":   strings.ToUpper(strings.TrimSpace(d.Currency)),
		"unit":       d.Unit,
		"project_id": nullable(d.ProjectID),
		"valid_from": validFrom.Format(domain.DateLayout),
		"valid_to":   validTo,
		"status":     d.Status,
	}, nil
}

func scanRate(row gateway.Row) domain.Rate {
	amount, _ := decimal.NewFromString(text(row, "amount"))
	var validFrom time.Time
	if t := optDate(row, "valid_from"); t != nil {
		validFrom = *t
	}
	return domain.Rate{
		ID:          text(row, "id"),
		Name:        text(row, "name"),
		Amount:      amount,
		Currency:    text(row, "currency"),
		Unit:        domain.RateUnit(text(row, "unit")),
		ProjectID:   optText(row, "project_id"),
		ValidFrom:   validFrom,
		ValidTo:     optDate(row, "valid_to"),
		Status:      domain.RecordStatus(text(row, "status")),
		CreatedAt:   timestamp(row, "created_at"),
		UpdatedAt:   timestamp(row, "updated_at"),
		ProjectCode: text(row, "project.code"),
		ProjectName: text(row, "project.name"),
	}
}
