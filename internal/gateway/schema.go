package gateway

import (
	"fmt"
	"slices"
)

// Relation describes one table the gateway may touch.
type Relation struct {
	Name    string
	Key     string
	Columns []string

	// Timestamps marks relations carrying created_at/updated_at, which the
	// gateway fills on insert and refreshes on update.
	Timestamps bool

	// Audited relations append an audit_log row for every mutation.
	Audited bool

	DefaultOrder []Order
}

// HasColumn reports whether name is a column of r.
func (r Relation) HasColumn(name string) bool {
	return slices.Contains(r.Columns, name)
}

// Schema is the registry of relations known to a gateway.
type Schema struct {
	relations map[string]Relation
}

func NewSchema(relations ...Relation) *Schema {
	s := &Schema{relations: make(map[string]Relation, len(relations))}
	for _, r := range relations {
		s.relations[r.Name] = r
	}
	return s
}

// Relation looks up a relation by name.
func (s *Schema) Relation(name string) (Relation, error) {
	r, ok := s.relations[name]
	if !ok {
		return Relation{}, fmt.Errorf("unknown relation %q", name)
	}
	return r, nil
}

// AuditRelation is the relation the gateway appends audit rows to.
const AuditRelation = "audit_log"

// DefaultSchema returns the relations created by db.Migrate.
func DefaultSchema() *Schema {
	return NewSchema(
		Relation{
			Name:         "clients",
			Key:          "id",
			Columns:      []string{"id", "code", "name", "email", "status", "created_at", "updated_at"},
			Timestamps:   true,
			Audited:      true,
			DefaultOrder: []Order{Asc("code")},
		},
		Relation{
			Name:         "cost_centers",
			Key:          "id",
			Columns:      []string{"id", "code", "name", "description", "parent_id", "status", "created_at", "updated_at"},
			Timestamps:   true,
			Audited:      true,
			DefaultOrder: []Order{Asc("code")},
		},
		Relation{
			Name: "projects",
			Key:  "id",
			Columns: []string{"id", "code", "name", "client_id", "cost_center_id", "status",
				"start_date", "end_date", "budget", "created_at", "updated_at"},
			Timestamps:   true,
			Audited:      true,
			DefaultOrder: []Order{Desc("created_at")},
		},
		Relation{
			Name: "rates",
			Key:  "id",
			Columns: []string{"id", "name", "amount", "currency", "unit", "project_id",
				"valid_from", "valid_to", "status", "created_at", "updated_at"},
			Timestamps:   true,
			Audited:      true,
			DefaultOrder: []Order{Desc("valid_from"), Asc("name")},
		},
		Relation{
			Name:         "users",
			Key:          "id",
			Columns:      []string{"id", "email", "full_name", "title", "status", "created_at", "updated_at"},
			Timestamps:   true,
			Audited:      true,
			DefaultOrder: []Order{Asc("full_name")},
		},
		Relation{
			Name:         "roles",
			Key:          "id",
			Columns:      []string{"id", "name", "description", "created_at", "updated_at"},
			Timestamps:   true,
			Audited:      true,
			DefaultOrder: []Order{Asc("name")},
		},
		Relation{
			Name:    "user_roles",
			Key:     "id",
			Columns: []string{"id", "user_id", "role_id"},
			Audited: true,
		},
		Relation{
			Name:         AuditRelation,
			Key:          "id",
			Columns:      []string{"id", "relation", "record_id", "action", "at", "detail"},
			DefaultOrder: []Order{Desc("at")},
		},
	)
}
