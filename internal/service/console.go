// Package service binds each entity to a manager.Spec and builds managers,
// reference pickers and the role/audit use cases on top of one gateway.
package service

import (
	"context"
	"fmt"

	"github.com/alexanderramin/bizdesk/internal/domain"
	"github.com/alexanderramin/bizdesk/internal/gateway"
	"github.com/alexanderramin/bizdesk/internal/manager"
	"github.com/alexanderramin/bizdesk/internal/observe"
	"github.com/alexanderramin/bizdesk/internal/repository"
)

type (
	ClientManager     = manager.Manager[domain.Client, domain.ClientDraft]
	CostCenterManager = manager.Manager[domain.CostCenter, domain.CostCenterDraft]
	ProjectManager    = manager.Manager[domain.Project, domain.ProjectDraft]
	RateManager       = manager.Manager[domain.Rate, domain.RateDraft]
	UserManager       = manager.Manager[domain.User, domain.UserDraft]
	RoleManager       = manager.Manager[domain.Role, domain.RoleDraft]
)

// Console is the entry point used by the CLI and the interactive console.
// Every New*Manager call returns a fresh manager in the Loading state.
type Console struct {
	gw       gateway.Client
	observer observe.UseCaseObserver

	Clients     *repository.ClientRepo
	CostCenters *repository.CostCenterRepo
	Projects    *repository.ProjectRepo
	Rates       *repository.RateRepo
	Users       *repository.UserRepo
	Roles       *repository.RoleRepo
	Audit       *repository.AuditRepo
}

func NewConsole(gw gateway.Client, observers ...observe.UseCaseObserver) *Console {
	return &Console{
		gw:          gw,
		observer:    observe.OrNoop(observers...),
		Clients:     repository.NewClientRepo(gw),
		CostCenters: repository.NewCostCenterRepo(gw),
		Projects:    repository.NewProjectRepo(gw),
		Rates:       repository.NewRateRepo(gw),
		Users:       repository.NewUserRepo(gw),
		Roles:       repository.NewRoleRepo(gw),
		Audit:       repository.NewAuditRepo(gw),
	}
}

// Gateway returns the client the console was built on.
func (c *Console) Gateway() gateway.Client { return c.gw }

// Observer returns the use-case observer shared by every manager.
func (c *Console) Observer() observe.UseCaseObserver { return c.observer }

func (c *Console) managerOpts() []manager.Option {
	return []manager.Option{manager.WithObserver(c.observer)}
}

func (c *Console) NewClientManager() *ClientManager {
	return manager.New(c.ClientSpec(), c.Clients, c.managerOpts()...)
}

func (c *Console) NewCostCenterManager() *CostCenterManager {
	return manager.New(c.CostCenterSpec(), c.CostCenters, c.managerOpts()...)
}

func (c *Console) NewProjectManager() *ProjectManager {
	return manager.New(c.ProjectSpec(), c.Projects, c.managerOpts()...)
}

func (c *Console) NewRateManager() *RateManager {
	return manager.New(c.RateSpec(), c.Rates, c.managerOpts()...)
}

func (c *Console) NewUserManager() *UserManager {
	return manager.New(c.UserSpec(), c.Users, c.managerOpts()...)
}

func (c *Console) NewRoleManager() *RoleManager {
	return manager.New(c.RoleSpec(), c.Roles, c.managerOpts()...)
}

// UserRoles lists the roles assigned to a user.
func (c *Console) UserRoles(ctx context.Context, userID string) (roles []domain.UserRole, err error) {
	done := observe.Track(ctx, c.observer, "user_roles.list", map[string]any{"user_id": userID})
	defer func() { done(err) }()
	return c.Users.Roles(ctx, userID)
}

func (c *Console) AssignRole(ctx context.Context, userID, roleID string) (err error) {
	done := observe.Track(ctx, c.observer, "user_roles.assign", map[string]any{"user_id": userID, "role_id": roleID})
	defer func() { done(err) }()
	return c.Users.Assign(ctx, userID, roleID)
}

func (c *Console) RevokeRole(ctx context.Context, userID, roleID string) (err error) {
	done := observe.Track(ctx, c.observer, "user_roles.revoke", map[string]any{"user_id": userID, "role_id": roleID})
	defer func() { done(err) }()
	return c.Users.Revoke(ctx, userID, roleID)
}

// SetUserRoles replaces the role set of a user atomically.
func (c *Console) SetUserRoles(ctx context.Context, userID string, roleIDs []string) (err error) {
	done := observe.Track(ctx, c.observer, "user_roles.set", map[string]any{"user_id": userID, "roles": len(roleIDs)})
	defer func() { done(err) }()
	return c.Users.SetRoles(ctx, userID, roleIDs)
}

// AuditLog returns recent audit entries, newest first.
func (c *Console) AuditLog(ctx context.Context, relation string, limit int) (entries []domain.AuditEntry, err error) {
	done := observe.Track(ctx, c.observer, "audit_log.list", map[string]any{"relation": relation})
	defer func() { done(err) }()
	return c.Audit.List(ctx, relation, limit)
}

// RoleChoices loads every role for the assignment picker.
func (c *Console) RoleChoices(ctx context.Context) []manager.Choice {
	return manager.LoadChoices(ctx, c.observer, "roles.picker", c.Roles.List, func(r domain.Role) manager.Choice {
		return manager.Choice{Label: r.Name, Value: r.ID, Key: r.Name}
	})
}

func choiceLabel(key, name string) string {
	return fmt.Sprintf("%s  %s", key, name)
}
