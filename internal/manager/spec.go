package manager

import (
	"context"
	"fmt"
	"net/mail"
	"slices"
	"strings"

	"github.com/alexanderramin/bizdesk/internal/domain"
)

// FieldKind selects the format check and the form widget for a field.
type FieldKind int

const (
	KindText FieldKind = iota
	KindEmail
	KindDate
	KindDecimal
	KindEnum
	KindRef
)

// Field describes one editable field of draft type D.
type Field[D any] struct {
	// Key is the stable machine name, also used as the CLI flag name.
	Key         string
	Title       string
	Kind        FieldKind
	Required    bool
	Placeholder string

	// Options lists the allowed values of a KindEnum field.
	Options []string

	// Choices loads the picker entries of a KindRef field. editingID is the
	// id of the record being edited, or "" on create.
	Choices func(ctx context.Context, editingID string) []Choice

	// Bind returns a pointer to the draft string backing this field.
	Bind func(*D) *string
}

// Column is one column of the list table.
type Column[T any] struct {
	Title string
	Width int
	Value func(T) string
}

// Spec binds a record type T and its draft type D to a relation.
type Spec[T any, D any] struct {
	Relation string
	Noun     string

	ID    func(T) string
	Key   func(T) string
	Label func(T) string

	SearchFields func(T) []string

	// Status is nil when the entity has no status filter.
	Status   func(T) string
	Statuses []string

	NewDraft func() D
	DraftOf  func(T) D

	Fields  []Field[D]
	Columns []Column[T]
}

// Field returns the field named key.
func (s Spec[T, D]) Field(key string) (Field[D], bool) {
	for _, f := range s.Fields {
		if f.Key == key {
			return f, true
		}
	}
	return Field[D]{}, false
}

// Validate checks required presence and field format. It performs no
// cross-field checks.
func (s Spec[T, D]) Validate(draft D) error {
	var problems []FieldProblem
	for _, f := range s.Fields {
		v := strings.TrimSpace(*f.Bind(&draft))
		if v == "" {
			if f.Required {
				problems = append(problems, FieldProblem{Field: f.Key, Message: f.Title + " is required"})
			}
			continue
		}
		if msg := checkFormat(f.Kind, f.Options, v); msg != "" {
			problems = append(problems, FieldProblem{Field: f.Key, Message: f.Title + ": " + msg})
		}
	}
	if len(problems) > 0 {
		return &ValidationError{Problems: problems}
	}
	return nil
}

func checkFormat(kind FieldKind, options []string, v string) string {
	switch kind {
	case KindEmail:
		if _, err := mail.ParseAddress(v); err != nil {
			return fmt.Sprintf("%q is not an email address", v)
		}
	case KindDate:
		if _, err := domain.ParseDate(v); err != nil {
			return err.Error()
		}
	case KindDecimal:
		if _, err := domain.ParseAmount(v); err != nil {
			return err.Error()
		}
	case KindEnum:
		if !slices.Contains(options, v) {
			return fmt.Sprintf("%q must be one of %s", v, strings.Join(options, ", "))
		}
	}
	return ""
}
