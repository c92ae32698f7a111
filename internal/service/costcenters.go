package service

import (
	"context"

	"github.com/alexanderramin/bizdesk/internal/domain"
	"github.com/alexanderramin/bizdesk/internal/manager"
)

func costCenterID(cc domain.CostCenter) string { return cc.ID }

// CostCenterChoices returns the active cost centers. When editingID is set,
// that cost center and its descendants are left out so no cycle can be
// formed by choosing a parent.
func (c *Console) CostCenterChoices(ctx context.Context, editingID string) []manager.Choice {
	list := func(ctx context.Context) ([]domain.CostCenter, error) {
		items, err := c.CostCenters.List(ctx)
		if err != nil {
			return nil, err
		}
		valid := manager.ValidReferences(items, costCenterID, domain.ParentIDOf, editingID, true)
		active := valid[:0]
		for _, cc := range valid {
			if cc.Status == domain.StatusActive {
				active = append(active, cc)
			}
		}
		return active, nil
	}
	return manager.LoadChoices(ctx, c.observer, "cost_centers.picker", list, func(cc domain.CostCenter) manager.Choice {
		return manager.Choice{Label: choiceLabel(cc.Code, cc.Name), Value: cc.ID, Key: cc.Code}
	})
}

func (c *Console) CostCenterSpec() manager.Spec[domain.CostCenter, domain.CostCenterDraft] {
	return manager.Spec[domain.CostCenter, domain.CostCenterDraft]{
		Relation: "cost_centers",
		Noun:     "cost center",
		ID:       costCenterID,
		Key:      func(cc domain.CostCenter) string { return cc.Code },
		Label:    func(cc domain.CostCenter) string { return cc.Name },
		SearchFields: func(cc domain.CostCenter) []string {
			return []string{cc.Code, cc.Name, domain.StringOrEmpty(cc.Description)}
		},
		Status:   func(cc domain.CostCenter) string { return string(cc.Status) },
		Statuses: domain.RecordStatuses,
		NewDraft: domain.NewCostCenterDraft,
		DraftOf:  domain.CostCenter.Draft,
		Fields: []manager.Field[domain.CostCenterDraft]{
			{Key: "code", Title: "Code", Required: true, Placeholder: "CC100",
				Bind: func(d *domain.CostCenterDraft) *string { return &d.Code }},
			{Key: "name", Title: "Name", Required: true,
				Bind: func(d *domain.CostCenterDraft) *string { return &d.Name }},
			{Key: "description", Title: "Description",
				Bind: func(d *domain.CostCenterDraft) *string { return &d.Description }},
			{Key: "parent", Title: "Parent", Kind: manager.KindRef, Choices: c.CostCenterChoices,
				Bind: func(d *domain.CostCenterDraft) *string { return &d.ParentID }},
			{Key: "status", Title: "Status", Kind: manager.KindEnum, Required: true, Options: domain.RecordStatuses,
				Bind: func(d *domain.CostCenterDraft) *string { return &d.Status }},
		},
		Columns: []manager.Column[domain.CostCenter]{
			{Title: "CODE", Width: 10, Value: func(cc domain.CostCenter) string { return cc.Code }},
			{Title: "NAME", Width: 26, Value: func(cc domain.CostCenter) string { return cc.Name }},
			{Title: "PARENT", Width: 10, Value: func(cc domain.CostCenter) string { return cc.ParentCode }},
			{Title: "DESCRIPTION", Width: 28, Value: func(cc domain.CostCenter) string { return domain.StringOrEmpty(cc.Description) }},
			{Title: "STATUS", Width: 9, Value: func(cc domain.CostCenter) string { return string(cc.Status) }},
		},
	}
}
