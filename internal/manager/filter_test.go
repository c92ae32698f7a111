package manager

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func sampleItems() []item {
	return []item{
		{ID: "1", Code: "CC100", Name: "Operations", Status: "active"},
		{ID: "2", Code: "CC200", Name: "Marketing", Status: "inactive"},
		{ID: "3", Code: "MK300", Name: "Ops Support", Status: "active"},
	}
}

func codes(items []item) []string {
	out := []string{}
	for _, it := range items {
		out = append(out, it.Code)
	}
	return out
}

func TestFilterRecords(t *testing.T) {
	spec := itemSpec()
	tests := []struct {
		name   string
		filter Filter
		want   []string
	}{
		{"empty filter keeps all in order", Filter{}, []string{"CC100", "CC200", "MK300"}},
		{"status all sentinel", Filter{Status: StatusAll}, []string{"CC100", "CC200", "MK300"}},
		{"whitespace text matches literally", Filter{Text: "   "}, []string{}},
		{"leading space is part of the text", Filter{Text: " cc100"}, []string{}},
		{"inner space matches across words", Filter{Text: "s s"}, []string{"MK300"}},
		{"case-insensitive substring of name", Filter{Text: "OPS"}, []string{"MK300"}},
		{"matches any search field", Filter{Text: "cc"}, []string{"CC100", "CC200"}},
		{"substring inside word", Filter{Text: "era"}, []string{"CC100"}},
		{"status equality", Filter{Status: "inactive"}, []string{"CC200"}},
		{"text and status combine", Filter{Text: "o", Status: "active"}, []string{"CC100", "MK300"}},
		{"no match", Filter{Text: "zzz"}, []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FilterRecords(sampleItems(), tt.filter, spec.SearchFields, spec.Status)
			assert.Equal(t, tt.want, codes(got))
		})
	}
}

func TestFilterRecords_NilStatusIgnoresStatusFilter(t *testing.T) {
	spec := itemSpec()
	got := FilterRecords(sampleItems(), Filter{Status: "inactive"}, spec.SearchFields, nil)
	assert.Len(t, got, 3)
}

func TestFilterRecords_DoesNotModifyInput(t *testing.T) {
	spec := itemSpec()
	in := sampleItems()
	_ = FilterRecords(in, Filter{Text: "ops"}, spec.SearchFields, spec.Status)
	assert.Equal(t, sampleItems(), in)
}
