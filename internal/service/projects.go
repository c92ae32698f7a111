package service

import (
	"context"

	"github.com/alexanderramin/bizdesk/internal/domain"
	"github.com/alexanderramin/bizdesk/internal/manager"
)

// ClientChoices returns the active clients for the project form.
func (c *Console) ClientChoices(ctx context.Context, _ string) []manager.Choice {
	return manager.LoadChoices(ctx, c.observer, "clients.picker", c.Clients.ListActive, func(cl domain.Client) manager.Choice {
		return manager.Choice{Label: choiceLabel(cl.Code, cl.Name), Value: cl.ID, Key: cl.Code}
	})
}

// ProjectCostCenterChoices returns every active cost center.
func (c *Console) ProjectCostCenterChoices(ctx context.Context, _ string) []manager.Choice {
	return c.CostCenterChoices(ctx, "")
}

func (c *Console) ProjectSpec() manager.Spec[domain.Project, domain.ProjectDraft] {
	return manager.Spec[domain.Project, domain.ProjectDraft]{
		Relation: "projects",
		Noun:     "project",
		ID:       func(p domain.Project) string { return p.ID },
		Key:      func(p domain.Project) string { return p.Code },
		Label:    func(p domain.Project) string { return p.Name },
		SearchFields: func(p domain.Project) []string {
			return []string{p.Code, p.Name, p.ClientName}
		},
		Status:   func(p domain.Project) string { return string(p.Status) },
		Statuses: domain.ProjectStatuses,
		NewDraft: domain.NewProjectDraft,
		DraftOf:  domain.Project.Draft,
		Fields: []manager.Field[domain.ProjectDraft]{
			{Key: "code", Title: "Code", Required: true, Placeholder: "PRJ001",
				Bind: func(d *domain.ProjectDraft) *string { return &d.Code }},
			{Key: "name", Title: "Name", Required: true,
				Bind: func(d *domain.ProjectDraft) *string { return &d.Name }},
			{Key: "client", Title: "Client", Kind: manager.KindRef, Required: true, Choices: c.ClientChoices,
				Bind: func(d *domain.ProjectDraft) *string { return &d.ClientID }},
			{Key: "cost-center", Title: "Cost center", Kind: manager.KindRef, Choices: c.ProjectCostCenterChoices,
				Bind: func(d *domain.ProjectDraft) *string { return &d.CostCenterID }},
			{Key: "status", Title: "Status", Kind: manager.KindEnum, Required: true, Options: domain.ProjectStatuses,
				Bind: func(d *domain.ProjectDraft) *string { return &d.Status }},
			{Key: "start", Title: "Start date", Kind: manager.KindDate, Placeholder: "YYYY-MM-DD",
				Bind: func(d *domain.ProjectDraft) *string { return &d.StartDate }},
			{Key: "end", Title: "End date", Kind: manager.KindDate, Placeholder: "YYYY-MM-DD",
				Bind: func(d *domain.ProjectDraft) *string { return &d.EndDate }},
			{Key: "budget", Title: "Budget", Kind: manager.KindDecimal, Placeholder: "0.00",
				Bind: func(d *domain.ProjectDraft) *string { return &d.Budget }},
		},
		Columns: []manager.Column[domain.Project]{
			{Title: "CODE", Width: 10, Value: func(p domain.Project) string { return p.Code }},
			{Title: "NAME", Width: 24, Value: func(p domain.Project) string { return p.Name }},
			{Title: "CLIENT", Width: 20, Value: func(p domain.Project) string { return p.ClientName }},
			{Title: "STATUS", Width: 10, Value: func(p domain.Project) string { return string(p.Status) }},
			{Title: "START", Width: 10, Value: func(p domain.Project) string { return domain.FormatDate(p.StartDate) }},
			{Title: "END", Width: 10, Value: func(p domain.Project) string { return domain.FormatDate(p.EndDate) }},
			{Title: "BUDGET", Width: 12, Value: func(p domain.Project) string { return domain.FormatAmount(p.Budget) }},
		},
	}
}
