package service

import (
	"context"
	"fmt"

	"github.com/alexanderramin/bizdesk/internal/domain"
	"github.com/alexanderramin/bizdesk/internal/manager"
)

// ProjectChoices returns projects that are not completed or cancelled.
func (c *Console) ProjectChoices(ctx context.Context, _ string) []manager.Choice {
	return manager.LoadChoices(ctx, c.observer, "projects.picker", c.Projects.ListOpen, func(p domain.Project) manager.Choice {
		return manager.Choice{Label: choiceLabel(p.Code, p.Name), Value: p.ID, Key: p.Code}
	})
}

func formatRate(r domain.Rate) string {
	return fmt.Sprintf("%s %s/%s", r.Amount.StringFixed(2), r.Currency, r.Unit)
}

func (c *Console) RateSpec() manager.Spec[domain.Rate, domain.RateDraft] {
	return manager.Spec[domain.Rate, domain.RateDraft]{
		Relation: "rates",
		Noun:     "rate",
		ID:       func(r domain.Rate) string { return r.ID },
		Key:      func(r domain.Rate) string { return r.Name },
		Label:    formatRate,
		SearchFields: func(r domain.Rate) []string {
			return []string{r.Name, r.Currency, r.ProjectName}
		},
		Status:   func(r domain.Rate) string { return string(r.Status) },
		Statuses: domain.RecordStatuses,
		NewDraft: domain.NewRateDraft,
		DraftOf:  domain.Rate.Draft,
		Fields: []manager.Field[domain.RateDraft]{
			{Key: "name", Title: "Name", Required: true, Placeholder: "Senior consultant",
				Bind: func(d *domain.RateDraft) *string { return &d.Name }},
			{Key: "amount", Title: "Amount", Kind: manager.KindDecimal, Required: true, Placeholder: "0.00",
				Bind: func(d *domain.RateDraft) *string { return &d.Amount }},
			{Key: "currency", Title: "Currency", Required: true, Placeholder: "USD",
				Bind: func(d *domain.RateDraft) *string { return &d.Currency }},
			{Key: "unit", Title: "Unit", Kind: manager.KindEnum, Required: true, Options: domain.RateUnits,
				Bind: func(d *domain.RateDraft) *string { return &d.Unit }},
			{Key: "project", Title: "Project", Kind: manager.KindRef, Choices: c.ProjectChoices,
				Bind: func(d *domain.RateDraft) *string { return &d.ProjectID }},
			{Key: "valid-from", Title: "Valid from", Kind: manager.KindDate, Required: true, Placeholder: "YYYY-MM-DD",
				Bind: func(d *domain.RateDraft) *string { return &d.ValidFrom }},
			{Key: "valid-to", Title: "Valid to", Kind: manager.KindDate, Placeholder: "YYYY-MM-DD",
				Bind: func(d *domain.RateDraft) *string { return &d.ValidTo }},
			{Key: "status", Title: "Status", Kind: manager.KindEnum, Required: true, Options: domain.RecordStatuses,
				Bind: func(d *domain.RateDraft) *string { return &d.Status }},
		},
		Columns: []manager.Column[domain.Rate]{
			{Title: "NAME", Width: 22, Value: func(r domain.Rate) string { return r.Name }},
			{Title: "RATE", Width: 18, Value: formatRate},
			{Title: "PROJECT", Width: 10, Value: func(r domain.Rate) string { return r.ProjectCode }},
			{Title: "FROM", Width: 10, Value: func(r domain.Rate) string { return r.ValidFrom.Format(domain.DateLayout) }},
			{Title: "TO", Width: 10, Value: func(r domain.Rate) string { return domain.FormatDate(r.ValidTo) }},
			{Title: "STATUS", Width: 9, Value: func(r domain.Rate) string { return string(r.Status) }},
		},
	}
}
