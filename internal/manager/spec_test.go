package manager

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type formatDraft struct {
	Email, Date, Amount, Unit, Ref string
}

func formatSpec() Spec[item, formatDraft] {
	return Spec[item, formatDraft]{
		Fields: []Field[formatDraft]{
			{Key: "email", Title: "Email", Kind: KindEmail, Bind: func(d *formatDraft) *string { return &d.Email }},
			{Key: "date", Title: "Valid from", Kind: KindDate, Required: true, Bind: func(d *formatDraft) *string { return &d.Date }},
			{Key: "amount", Title: "Amount", Kind: KindDecimal, Bind: func(d *formatDraft) *string { return &d.Amount }},
			{Key: "unit", Title: "Unit", Kind: KindEnum, Options: []string{"hour", "day"}, Bind: func(d *formatDraft) *string { return &d.Unit }},
			{Key: "ref", Title: "Project", Kind: KindRef, Bind: func(d *formatDraft) *string { return &d.Ref }},
		},
	}
}

func TestSpecValidate_Formats(t *testing.T) {
	spec := formatSpec()

	require.NoError(t, spec.Validate(formatDraft{Date: "2026-01-01"}))
	require.NoError(t, spec.Validate(formatDraft{
		Email: "ops@example.com", Date: "2026-01-01", Amount: "99.5", Unit: "day", Ref: "anything",
	}))

	err := spec.Validate(formatDraft{Email: "nope", Date: "01/01/2026", Amount: "ten", Unit: "week"})
	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, []string{"email", "date", "amount", "unit"}, problemFields(vErr))
	assert.Contains(t, err.Error(), "Unit: \"week\" must be one of hour, day")
}

func TestSpecValidate_NoCrossFieldChecks(t *testing.T) {
	type span struct{ From, To string }
	spec := Spec[item, span]{Fields: []Field[span]{
		{Key: "from", Title: "From", Kind: KindDate, Bind: func(d *span) *string { return &d.From }},
		{Key: "to", Title: "To", Kind: KindDate, Bind: func(d *span) *string { return &d.To }},
	}}
	assert.NoError(t, spec.Validate(span{From: "2026-12-31", To: "2026-01-01"}))
}

func TestSpecField(t *testing.T) {
	f, ok := formatSpec().Field("unit")
	require.True(t, ok)
	assert.Equal(t, KindEnum, f.Kind)
	_, ok = formatSpec().Field("missing")
	assert.False(t, ok)
}
