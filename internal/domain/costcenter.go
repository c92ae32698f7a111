package domain

import "time"

// CostCenter is a node in the cost center hierarchy. ParentCode and ParentName
// are display values joined from the parent record.
type CostCenter struct {
	ID          string
	Code        string
	Name        string
	Description *string
	ParentID    *string
	Status      RecordStatus
	CreatedAt   time.Time
	UpdatedAt   time.Time

	ParentCode string
	ParentName string
}

type CostCenterDraft struct {
	Code        string
	Name        string
	Description string
	ParentID    string
	Status      string
}

func NewCostCenterDraft() CostCenterDraft {
	return CostCenterDraft{Status: string(StatusActive)}
}

func (c CostCenter) Draft() CostCenterDraft {
	return CostCenterDraft{
		Code:        c.Code,
		Name:        c.Name,
		Description: StringOrEmpty(c.Description),
		ParentID:    StringOrEmpty(c.ParentID),
		Status:      string(c.Status),
	}
}

// ParentIDOf returns the parent id or "" for a root cost center.
func ParentIDOf(c CostCenter) string {
	return StringOrEmpty(c.ParentID)
}
