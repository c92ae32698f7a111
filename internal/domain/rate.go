package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Rate is a billing rate, optionally scoped to one project.
type Rate struct {
	ID        string
	Name      string
	Amount    decimal.Decimal
	Currency  string
	Unit      RateUnit
	ProjectID *string
	ValidFrom time.Time
	ValidTo   *time.Time
	Status    RecordStatus
	CreatedAt time.Time
	UpdatedAt time.Time

	ProjectCode string
	ProjectName string
}

type RateDraft struct {
	Name      string
	Amount    string
	Currency  string
	Unit      string
	ProjectID string
	ValidFrom string
	ValidTo   string
	Status    string
}

func NewRateDraft() RateDraft {
	return RateDraft{
		Currency: "USD",
		Unit:     string(UnitHour),
		Status:   string(StatusActive),
	}
}

func (r Rate) Draft() RateDraft {
	return RateDraft{
		Name:      r.Name,
		Amount:    r.Amount.String(),
		Currency:  r.Currency,
		Unit:      string(r.Unit),
		ProjectID: StringOrEmpty(r.ProjectID),
		ValidFrom: r.ValidFrom.Format(DateLayout),
		ValidTo:   FormatDate(r.ValidTo),
		Status:    string(r.Status),
	}
}
