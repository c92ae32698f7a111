package testutil

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/alexanderramin/bizdesk/internal/domain"
	"github.com/alexanderramin/bizdesk/internal/gateway"
)

var testCodeCounter atomic.Int64

// UniqueCode returns prefix followed by a process-unique number.
func UniqueCode(prefix string) string {
	return fmt.Sprintf("%s%03d", prefix, testCodeCounter.Add(1))
}

// Client options
type ClientOption func(*domain.ClientDraft)

func WithClientEmail(email string) ClientOption {
	return func(d *domain.ClientDraft) { d.Email = email }
}

func WithClientStatus(s domain.RecordStatus) ClientOption {
	return func(d *domain.ClientDraft) { d.Status = string(s) }
}

func NewClientDraft(code, name string, opts ...ClientOption) domain.ClientDraft {
	d := domain.NewClientDraft()
	d.Code, d.Name = code, name
	for _, opt := range opts {
		opt(&d)
	}
	return d
}

// CostCenter options
type CostCenterOption func(*domain.CostCenterDraft)

func WithParent(id string) CostCenterOption {
	return func(d *domain.CostCenterDraft) { d.ParentID = id }
}

func WithDescription(s string) CostCenterOption {
	return func(d *domain.CostCenterDraft) { d.Description = s }
}

func WithCostCenterStatus(s domain.RecordStatus) CostCenterOption {
	return func(d *domain.CostCenterDraft) { d.Status = string(s) }
}

func NewCostCenterDraft(code, name string, opts ...CostCenterOption) domain.CostCenterDraft {
	d := domain.NewCostCenterDraft()
	d.Code, d.Name = code, name
	for _, opt := range opts {
		opt(&d)
	}
	return d
}

// Project options
type ProjectOption func(*domain.ProjectDraft)

func WithCostCenter(id string) ProjectOption {
	return func(d *domain.ProjectDraft) { d.CostCenterID = id }
}

func WithBudget(amount string) ProjectOption {
	return func(d *domain.ProjectDraft) { d.Budget = amount }
}

func WithProjectStatus(s domain.ProjectStatus) ProjectOption {
	return func(d *domain.ProjectDraft) { d.Status = string(s) }
}

func WithDates(start, end string) ProjectOption {
	return func(d *domain.ProjectDraft) { d.StartDate, d.EndDate = start, end }
}

func NewProjectDraft(code, name, clientID string, opts ...ProjectOption) domain.ProjectDraft {
	d := domain.NewProjectDraft()
	d.Code, d.Name, d.ClientID = code, name, clientID
	for _, opt := range opts {
		opt(&d)
	}
	return d
}

// Rate options
type RateOption func(*domain.RateDraft)

func WithRateProject(id string) RateOption {
	return func(d *domain.RateDraft) { d.ProjectID = id }
}

func WithValidTo(date string) RateOption {
	return func(d *domain.RateDraft) { d.ValidTo = date }
}

func WithUnit(u domain.RateUnit) RateOption {
	return func(d *domain.RateDraft) { d.Unit = string(u) }
}

func NewRateDraft(name, amount, validFrom string, opts ...RateOption) domain.RateDraft {
	d := domain.NewRateDraft()
	d.Name, d.Amount, d.ValidFrom = name, amount, validFrom
	for _, opt := range opts {
		opt(&d)
	}
	return d
}

// User options
type UserOption func(*domain.UserDraft)

func WithTitle(title string) UserOption {
	return func(d *domain.UserDraft) { d.Title = title }
}

func WithUserStatus(s domain.UserStatus) UserOption {
	return func(d *domain.UserDraft) { d.Status = string(s) }
}

func NewUserDraft(email, fullName string, opts ...UserOption) domain.UserDraft {
	d := domain.NewUserDraft()
	d.Email, d.FullName = email, fullName
	for _, opt := range opts {
		opt(&d)
	}
	return d
}

// MustInsert inserts one row through gw and returns it.
func MustInsert(t *testing.T, gw gateway.Client, relation string, row gateway.Row) gateway.Row {
	t.Helper()
	rows, err := gw.Insert(context.Background(), relation, row)
	if err != nil {
		t.Fatalf("inserting into %s: %v", relation, err)
	}
	return rows[0]
}
