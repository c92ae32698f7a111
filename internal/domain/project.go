package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type Project struct {
	ID           string
	Code         string
	Name         string
	ClientID     string
	CostCenterID *string
	Status       ProjectStatus
	StartDate    *time.Time
	EndDate      *time.Time
	Budget       *decimal.Decimal
	CreatedAt    time.Time
	UpdatedAt    time.Time

	// ClientName is joined from the client record for display.
	ClientName string
}

type ProjectDraft struct {
	Code         string
	Name         string
	ClientID     string
	CostCenterID string
	Status       string
	StartDate    string
	EndDate      string
	Budget       string
}

func NewProjectDraft() ProjectDraft {
	return ProjectDraft{Status: string(ProjectPlanning)}
}

func (p Project) Draft() ProjectDraft {
	return ProjectDraft{
		Code:         p.Code,
		Name:         p.Name,
		ClientID:     p.ClientID,
		CostCenterID: StringOrEmpty(p.CostCenterID),
		Status:       string(p.Status),
		StartDate:    FormatDate(p.StartDate),
		EndDate:      FormatDate(p.EndDate),
		Budget:       AmountString(p.Budget),
	}
}
