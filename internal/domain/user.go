package domain

import "time"

type User struct {
	ID        string
	Email     string
	FullName  string
	Title     *string
	Status    UserStatus
	CreatedAt time.Time
	UpdatedAt time.Time
}

type UserDraft struct {
	Email    string
	FullName string
	Title    string
	Status   string
}

func NewUserDraft() UserDraft {
	return UserDraft{Status: string(UserInvited)}
}

func (u User) Draft() UserDraft {
	return UserDraft{
		Email:    u.Email,
		FullName: u.FullName,
		Title:    StringOrEmpty(u.Title),
		Status:   string(u.Status),
	}
}

type Role struct {
	ID          string
	Name        string
	Description *string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type RoleDraft struct {
	Name        string
	Description string
}

func NewRoleDraft() RoleDraft { return RoleDraft{} }

func (r Role) Draft() RoleDraft {
	return RoleDraft{Name: r.Name, Description: StringOrEmpty(r.Description)}
}

// UserRole links a user to a role.
type UserRole struct {
	ID       string
	UserID   string
	RoleID   string
	RoleName string
}

// AuditEntry is one row of the mutation trail.
type AuditEntry struct {
	ID       string
	Relation string
	RecordID string
	Action   string
	At       time.Time
	Detail   *string
}
