package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/alexanderramin/bizdesk/internal/domain"
	"github.com/alexanderramin/bizdesk/internal/gateway"
)

const rolesRelation = "roles"

type RoleRepo struct {
	gw gateway.Client
}

func NewRoleRepo(gw gateway.Client) *RoleRepo {
	return &RoleRepo{gw: gw}
}

func (r *RoleRepo) List(ctx context.Context) ([]domain.Role, error) {
	rows, err := r.gw.Select(ctx, rolesRelation, gateway.Query{})
	if err != nil {
		return nil, fmt.Errorf("listing roles: %w", err)
	}
	return scanAll(rows, scanRole), nil
}

func (r *RoleRepo) Insert(ctx context.Context, d domain.RoleDraft) (domain.Role, error) {
	rows, err := r.gw.Insert(ctx, rolesRelation, roleRow(d))
	if err != nil {
		return domain.Role{}, fmt.Errorf("inserting role: %w", err)
	}
	row, err := single(rows)
	if err != nil {
		return domain.Role{}, fmt.Errorf("inserting role: %w", err)
	}
	return scanRole(row), nil
}

func (r *RoleRepo) Update(ctx context.Context, id string, d domain.RoleDraft) (domain.Role, error) {
	rows, err := r.gw.Update(ctx, rolesRelation, id, roleRow(d))
	if err != nil {
		return domain.Role{}, fmt.Errorf("updating role: %w", err)
	}
	row, err := single(rows)
	if err != nil {
		return domain.Role{}, fmt.Errorf("updating role: %w", err)
	}
	return scanRole(row), nil
}

func (r *RoleRepo) Delete(ctx context.Context, id string) error {
	if err := r.gw.Delete(ctx, rolesRelation, id); err != nil {
		return fmt.Errorf("deleting role: %w", err)
	}
	return nil
}

func roleRow(d domain.RoleDraft) gateway.Row {
	return gateway.Row{
		"name":        strings.TrimSpace(d.Name),
		"description": nullable(d.Description),
	}
}

func scanRole(row gateway.Row) domain.Role {
	return domain.Role{
		ID:          text(row, "id"),
		Name:        text(row, "name"),
		Description: optText(row, "description"),
		CreatedAt:   timestamp(row, "created_at"),
		UpdatedAt:   timestamp(row, "updated_at"),
	}
}
