package service

import (
	"github.com/alexanderramin/bizdesk/internal/domain"
	"github.com/alexanderramin/bizdesk/internal/manager"
)

func (c *Console) ClientSpec() manager.Spec[domain.Client, domain.ClientDraft] {
	return manager.Spec[domain.Client, domain.ClientDraft]{
		Relation: "clients",
		Noun:     "client",
		ID:       func(cl domain.Client) string { return cl.ID },
		Key:      func(cl domain.Client) string { return cl.Code },
		Label:    func(cl domain.Client) string { return cl.Name },
		SearchFields: func(cl domain.Client) []string {
			return []string{cl.Code, cl.Name, domain.StringOrEmpty(cl.Email)}
		},
		Status:   func(cl domain.Client) string { return string(cl.Status) },
		Statuses: domain.RecordStatuses,
		NewDraft: domain.NewClientDraft,
		DraftOf:  domain.Client.Draft,
		Fields: []manager.Field[domain.ClientDraft]{
			{Key: "code", Title: "Code", Required: true, Placeholder: "ACME",
				Bind: func(d *domain.ClientDraft) *string { return &d.Code }},
			{Key: "name", Title: "Name", Required: true,
				Bind: func(d *domain.ClientDraft) *string { return &d.Name }},
			{Key: "email", Title: "Email", Kind: manager.KindEmail,
				Bind: func(d *domain.ClientDraft) *string { return &d.Email }},
			{Key: "status", Title: "Status", Kind: manager.KindEnum, Required: true, Options: domain.RecordStatuses,
				Bind: func(d *domain.ClientDraft) *string { return &d.Status }},
		},
		Columns: []manager.Column[domain.Client]{
			{Title: "CODE", Width: 10, Value: func(cl domain.Client) string { return cl.Code }},
			{Title: "NAME", Width: 28, Value: func(cl domain.Client) string { return cl.Name }},
			{Title: "EMAIL", Width: 26, Value: func(cl domain.Client) string { return domain.StringOrEmpty(cl.Email) }},
			{Title: "STATUS", Width: 9, Value: func(cl domain.Client) string { return string(cl.Status) }},
		},
	}
}
