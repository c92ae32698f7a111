package repository

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/alexanderramin/bizdesk/internal/domain"
	"github.com/alexanderramin/bizdesk/internal/gateway"
)

const (
	usersRelation     = "users"
	userRolesRelation = "user_roles"
)

type UserRepo struct {
	gw gateway.Client
}

func NewUserRepo(gw gateway.Client) *UserRepo {
	return &UserRepo{gw: gw}
}

func (r *UserRepo) List(ctx context.Context) ([]domain.User, error) {
	rows, err := r.gw.Select(ctx, usersRelation, gateway.Query{})
	if err != nil {
		return nil, fmt.Errorf("listing users: %w", err)
	}
	return scanAll(rows, scanUser), nil
}

func (r *UserRepo) Insert(ctx context.Context, d domain.UserDraft) (domain.User, error) {
	rows, err := r.gw.Insert(ctx, usersRelation, userRow(d))
	if err != nil {
		return domain.User{}, fmt.Errorf("inserting user: %w", err)
	}
	row, err := single(rows)
	if err != nil {
		return domain.User{}, fmt.Errorf("inserting user: %w", err)
	}
	return scanUser(row), nil
}

func (r *UserRepo) Update(ctx context.Context, id string, d domain.UserDraft) (domain.User, error) {
	rows, err := r.gw.Update(ctx, usersRelation, id, userRow(d))
	if err != nil {
		return domain.User{}, fmt.Errorf("updating user: %w", err)
	}
	row, err := single(rows)
	if err != nil {
		return domain.User{}, fmt.Errorf("updating user: %w", err)
	}
	return scanUser(row), nil
}

func (r *UserRepo) Delete(ctx context.Context, id string) error {
	if err := r.gw.Delete(ctx, usersRelation, id); err != nil {
		return fmt.Errorf("deleting user: %w", err)
	}
	return nil
}

// Roles returns the role assignments of a user, ordered by role name.
func (r *UserRepo) Roles(ctx context.Context, userID string) ([]domain.UserRole, error) {
	rows, err := r.gw.Select(ctx, userRolesRelation, gateway.Query{
		Join:    &gateway.Join{Relation: rolesRelation, On: "role_id", Columns: []string{"name"}, As: "role"},
		Filters: []gateway.Filter{gateway.Eq("user_id", userID)},
		Order:   []gateway.Order{gateway.Asc("role.name")},
	})
	if err != nil {
		return nil, fmt.Errorf("listing user roles: %w", err)
	}
	return scanAll(rows, scanUserRole), nil
}

func (r *UserRepo) Assign(ctx context.Context, userID, roleID string) error {
	_, err := r.gw.Insert(ctx, userRolesRelation, gateway.Row{"user_id": userID, "role_id": roleID})
	if err != nil {
		return fmt.Errorf("assigning role: %w", err)
	}
	return nil
}

func (r *UserRepo) Revoke(ctx context.Context, userID, roleID string) error {
	rows, err := r.gw.Select(ctx, userRolesRelation, gateway.Query{
		Columns: []string{"id"},
		Filters: []gateway.Filter{gateway.Eq("user_id", userID), gateway.Eq("role_id", roleID)},
	})
	if err != nil {
		return fmt.Errorf("revoking role: %w", err)
	}
	if len(rows) == 0 {
		return fmt.Errorf("revoking role: %w", gateway.ErrNotFound)
	}
	if err := r.gw.Delete(ctx, userRolesRelation, text(rows[0], "id")); err != nil {
		return fmt.Errorf("revoking role: %w", err)
	}
	return nil
}

// SetRoles makes roleIDs the exact role set of a user in one transaction.
func (r *UserRepo) SetRoles(ctx context.Context, userID string, roleIDs []string) error {
	return r.gw.WithinTx(ctx, func(ctx context.Context, tx gateway.Client) error {
		repo := NewUserRepo(tx)
		current, err := repo.Roles(ctx, userID)
		if err != nil {
			return err
		}
		have := make([]string, len(current))
		for i, ur := range current {
			have[i] = ur.RoleID
			if !slices.Contains(roleIDs, ur.RoleID) {
				if err := tx.Delete(ctx, userRolesRelation, ur.ID); err != nil {
					return fmt.Errorf("revoking role: %w", err)
				}
			}
		}
		for _, id := range roleIDs {
			if !slices.Contains(have, id) {
				if err := repo.Assign(ctx, userID, id); err != nil {
					return err
				}
			}
		}
		return nil
	})
}

func userRow(d domain.UserDraft) gateway.Row {
	return gateway.Row{
		"email":     strings.ToLower(strings.TrimSpace(d.Email)),
		"full_name": strings.TrimSpace(d.FullName),
		"title":     nullable(d.Title),
		"status":    d.Status,
	}
}

func scanUser(row gateway.Row) domain.User {
	return domain.User{
		ID:        text(row, "id"),
		Email:     text(row, "email"),
		FullName:  text(row, "full_name"),
		Title:     optText(row, "title"),
		Status:    domain.UserStatus(text(row, "status")),
		CreatedAt: timestamp(row, "created_at"),
		UpdatedAt: timestamp(row, "updated_at"),
	}
}

func scanUserRole(row gateway.Row) domain.UserRole {
	return domain.UserRole{
		ID:       text(row, "id"),
		UserID:   text(row, "user_id"),
		RoleID:   text(row, "role_id"),
		RoleName: text(row, "role.name"),
	}
}
