package repository

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/alexanderramin/bizdesk/internal/domain"
	"github.com/alexanderramin/bizdesk/internal/gateway"
)

// text returns a string column, or "" when NULL.
func text(row gateway.Row, col string) string {
	switch v := row[col].(type) {
	case string:
		return v
	case nil:
		return ""
	default:
		return fmt.Sprint(v)
	}
}

// optText returns a nullable string column as *string.
func optText(row gateway.Row, col string) *string {
	if row[col] == nil {
		return nil
	}
	s := text(row, col)
	return &s
}

// timestamp parses a created_at/updated_at column. Unparseable values yield
// the zero time.
func timestamp(row gateway.Row, col string) time.Time {
	s := text(row, col)
	if t, err := time.Parse(gateway.TimestampLayout, s); err == nil {
		return t
	}
	t, _ := time.Parse(time.RFC3339, s)
	return t
}

// optDate parses a nullable YYYY-MM-DD column. Returns nil if the value is
// NULL, empty, or fails to parse.
func optDate(row gateway.Row, col string) *time.Time {
	s := text(row, col)
	if s == "" {
		return nil
	}
	t, err := time.Parse(domain.DateLayout, s)
	if err != nil {
		return nil
	}
	return &t
}

func optDecimal(row gateway.Row, col string) *decimal.Decimal {
	s := text(row, col)
	if s == "" {
		return nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return nil
	}
	return &d
}

// nullable normalizes an optional draft string: blank becomes SQL NULL.
func nullable(s string) any {
	if p := domain.OptionalString(s); p != nil {
		return *p
	}
	return nil
}

// nullableDecimal stores an optional amount in canonical decimal form.
func nullableDecimal(s string) (any, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	d, err := domain.ParseAmount(s)
	if err != nil {
		return nil, err
	}
	return d.String(), nil
}

// nullableDate stores an optional date in YYYY-MM-DD form.
func nullableDate(s string) (any, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	d, err := domain.ParseDate(s)
	if err != nil {
		return nil, err
	}
	return d.Format(domain.DateLayout), nil
}

// single returns the only row of a mutation result.
func single(rows []gateway.Row) (gateway.Row, error) {
	if len(rows) != 1 {
		return nil, fmt.Errorf("expected one row, got %d", len(rows))
	}
	return rows[0], nil
}

func scanAll[T any](rows []gateway.Row, scan func(gateway.Row) T) []T {
	out := make([]T, len(rows))
	for i, r := range rows {
		out[i] = scan(r)
	}
	return out
}
