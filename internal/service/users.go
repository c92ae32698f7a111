package service

import (
	"github.com/alexanderramin/bizdesk/internal/domain"
	"github.com/alexanderramin/bizdesk/internal/manager"
)

func (c *Console) UserSpec() manager.Spec[domain.User, domain.UserDraft] {
	return manager.Spec[domain.User, domain.UserDraft]{
		Relation:     "users",
		Noun:         "user",
		ID:           func(u domain.User) string { return u.ID },
		Key:          func(u domain.User) string { return u.Email },
		Label:        func(u domain.User) string { return u.FullName },
		SearchFields: func(u domain.User) []string { return []string{u.FullName, u.Email} },
		Status:       func(u domain.User) string { return string(u.Status) },
		Statuses:     domain.UserStatuses,
		NewDraft:     domain.NewUserDraft,
		DraftOf:      domain.User.Draft,
		Fields: []manager.Field[domain.UserDraft]{
			{Key: "email", Title: "Email", Kind: manager.KindEmail, Required: true,
				Bind: func(d *domain.UserDraft) *string { return &d.Email }},
			{Key: "name", Title: "Full name", Required: true,
				Bind: func(d *domain.UserDraft) *string { return &d.FullName }},
			{Key: "title", Title: "Title",
				Bind: func(d *domain.UserDraft) *string { return &d.Title }},
			{Key: "status", Title: "Status", Kind: manager.KindEnum, Required: true, Options: domain.UserStatuses,
				Bind: func(d *domain.UserDraft) *string { return &d.Status }},
		},
		Columns: []manager.Column[domain.User]{
			{Title: "NAME", Width: 24, Value: func(u domain.User) string { return u.FullName }},
			{Title: "EMAIL", Width: 28, Value: func(u domain.User) string { return u.Email }},
			{Title: "TITLE", Width: 18, Value: func(u domain.User) string { return domain.StringOrEmpty(u.Title) }},
			{Title: "STATUS", Width: 9, Value: func(u domain.User) string { return string(u.Status) }},
		},
	}
}

// RoleSpec has no status field, so the status filter is disabled.
func (c *Console) RoleSpec() manager.Spec[domain.Role, domain.RoleDraft] {
	return manager.Spec[domain.Role, domain.RoleDraft]{
		Relation: "roles",
		Noun:     "role",
		ID:       func(r domain.Role) string { return r.ID },
		Key:      func(r domain.Role) string { return r.Name },
		Label:    func(r domain.Role) string { return r.Name },
		SearchFields: func(r domain.Role) []string {
			return []string{r.Name, domain.StringOrEmpty(r.Description)}
		},
		NewDraft: domain.NewRoleDraft,
		DraftOf:  domain.Role.Draft,
		Fields: []manager.Field[domain.RoleDraft]{
			{Key: "name", Title: "Name", Required: true,
				Bind: func(d *domain.RoleDraft) *string { return &d.Name }},
			{Key: "description", Title: "Description",
				Bind: func(d *domain.RoleDraft) *string { return &d.Description }},
		},
		Columns: []manager.Column[domain.Role]{
			{Title: "NAME", Width: 20, Value: func(r domain.Role) string { return r.Name }},
			{Title: "DESCRIPTION", Width: 40, Value: func(r domain.Role) string { return domain.StringOrEmpty(r.Description) }},
		},
	}
}
