package gateway

import (
	"context"
	"database/sql"
	"fmt"
	"maps"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/alexanderramin/bizdesk/internal/db"
)

// TimestampLayout is the fixed-width UTC layout used for created_at,
// updated_at and audit timestamps so they sort lexically.
const TimestampLayout = "2006-01-02T15:04:05.000000Z07:00"

const (
	baseAlias = "m"
	joinAlias = "j"
)

// SQLiteGateway implements Client over a SQLite database. A gateway built by
// NewSQLiteGateway opens a transaction per mutation; the gateway handed to a
// WithinTx callback runs everything on that transaction.
type SQLiteGateway struct {
	conn   db.DBTX
	uow    db.UnitOfWork
	schema *Schema
	authz  Authorizer
	now    func() time.Time
	newID  func() string
}

// Option configures a SQLiteGateway.
type Option func(*SQLiteGateway)

func WithAuthorizer(a Authorizer) Option {
	return func(g *SQLiteGateway) { g.authz = a }
}

func WithClock(now func() time.Time) Option {
	return func(g *SQLiteGateway) { g.now = now }
}

func WithIDGenerator(newID func() string) Option {
	return func(g *SQLiteGateway) { g.newID = newID }
}

// WithUnitOfWork replaces the transaction runner used for mutations.
func WithUnitOfWork(uow db.UnitOfWork) Option {
	return func(g *SQLiteGateway) { g.uow = uow }
}

func WithSchema(s *Schema) Option {
	return func(g *SQLiteGateway) { g.schema = s }
}

func NewSQLiteGateway(conn *sql.DB, opts ...Option) *SQLiteGateway {
	g := &SQLiteGateway{
		conn:   conn,
		uow:    db.NewSQLiteUnitOfWork(conn),
		schema: DefaultSchema(),
		authz:  AllowAll{},
		now:    time.Now,
		newID:  uuid.NewString,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

var _ Client = (*SQLiteGateway)(nil)

func (g *SQLiteGateway) withConn(tx db.DBTX) *SQLiteGateway {
	scoped := *g
	scoped.conn = tx
	scoped.uow = nil
	return &scoped
}

func (g *SQLiteGateway) WithinTx(ctx context.Context, fn func(ctx context.Context, tx Client) error) error {
	if g.uow == nil {
		return fn(ctx, g)
	}
	return g.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		return fn(ctx, g.withConn(tx))
	})
}

// mutate runs fn on a transaction so the audit row commits with the change.
func (g *SQLiteGateway) mutate(ctx context.Context, fn func(ctx context.Context, tx *SQLiteGateway) error) error {
	if g.uow == nil {
		return fn(ctx, g)
	}
	return g.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		return fn(ctx, g.withConn(tx))
	})
}

func (g *SQLiteGateway) prepare(ctx context.Context, op Op, relation string) (Relation, error) {
	rel, err := g.schema.Relation(relation)
	if err != nil {
		return Relation{}, invalidf(op, relation, "%v", err)
	}
	if err := g.authz.Authorize(ctx, op, relation); err != nil {
		return Relation{}, classify(op, relation, err)
	}
	return rel, nil
}

func (g *SQLiteGateway) timestamp() string {
	return g.now().UTC().Format(TimestampLayout)
}

func (g *SQLiteGateway) Select(ctx context.Context, relation string, q Query) ([]Row, error) {
	rel, err := g.prepare(ctx, OpSelect, relation)
	if err != nil {
		return nil, err
	}
	query, args, err := g.buildSelect(rel, q)
	if err != nil {
		return nil, err
	}

	rows, err := g.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, classify(OpSelect, relation, err)
	}
	defer rows.Close()

	out, err := scanRows(rows)
	if err != nil {
		return nil, classify(OpSelect, relation, err)
	}
	return out, nil
}

func (g *SQLiteGateway) buildSelect(rel Relation, q Query) (string, []any, error) {
	invalid := func(format string, args ...any) error {
		return invalidf(OpSelect, rel.Name, format, args...)
	}

	columns := q.Columns
	if len(columns) == 0 {
		columns = rel.Columns
	}
	var sel []string
	for _, c := range columns {
		if !rel.HasColumn(c) {
			return "", nil, invalid("unknown column %q", c)
		}
		sel = append(sel, fmt.Sprintf("%s.%s AS %s", baseAlias, quoteIdent(c), quoteIdent(c)))
	}

	var from strings.Builder
	fmt.Fprintf(&from, "%s AS %s", quoteIdent(rel.Name), baseAlias)

	var joined *Relation
	if q.Join != nil {
		j := *q.Join
		foreign, err := g.schema.Relation(j.Relation)
		if err != nil {
			return "", nil, invalid("join: %v", err)
		}
		if !rel.HasColumn(j.On) {
			return "", nil, invalid("join: unknown column %q", j.On)
		}
		for _, c := range j.Columns {
			if !foreign.HasColumn(c) {
				return "", nil, invalid("join %s: unknown column %q", foreign.Name, c)
			}
			sel = append(sel, fmt.Sprintf("%s.%s AS %s", joinAlias, quoteIdent(c), quoteIdent(j.alias()+"."+c)))
		}
		fmt.Fprintf(&from, " LEFT JOIN %s AS %s ON %s.%s = %s.%s",
			quoteIdent(foreign.Name), joinAlias,
			joinAlias, quoteIdent(foreign.Key),
			baseAlias, quoteIdent(j.On))
		joined = &foreign
	}

	resolve := func(column string) (string, error) {
		if q.Join != nil && joined != nil {
			if prefix, c, ok := strings.Cut(column, "."); ok && prefix == q.Join.alias() {
				if !joined.HasColumn(c) {
					return "", invalid("unknown column %q", column)
				}
				return joinAlias + "." + quoteIdent(c), nil
			}
		}
		if !rel.HasColumn(column) {
			return "", invalid("unknown column %q", column)
		}
		return baseAlias + "." + quoteIdent(column), nil
	}

	var (
		where []string
		args  []any
	)
	for _, f := range q.Filters {
		col, err := resolve(f.Column)
		if err != nil {
			return "", nil, err
		}
		switch f.Op {
		case FilterEq:
			where = append(where, col+" = ?")
			args = append(args, argValue(f.Value))
		case FilterNeq:
			where = append(where, "("+col+" IS NULL OR "+col+" <> ?)")
			args = append(args, argValue(f.Value))
		case FilterILike:
			where = append(where, "LOWER("+col+") LIKE LOWER(?)")
			args = append(args, argValue(f.Value))
		case FilterIsNull:
			where = append(where, col+" IS NULL")
		case FilterNotNull:
			where = append(where, col+" IS NOT NULL")
		case FilterIn:
			values, ok := f.Value.([]string)
			if !ok {
				return "", nil, invalid("filter %s on %q needs a []string", f.Op, f.Column)
			}
			if len(values) == 0 {
				where = append(where, "0 = 1")
				continue
			}
			where = append(where, col+" IN ("+placeholders(len(values))+")")
			for _, v := range values {
				args = append(args, v)
			}
		default:
			return "", nil, invalid("unknown filter operator %q", f.Op)
		}
	}

	order := q.Order
	if len(order) == 0 {
		order = rel.DefaultOrder
	}
	var orderBy []string
	for _, o := range order {
		col, err := resolve(o.Column)
		if err != nil {
			return "", nil, err
		}
		if o.Desc {
			col += " DESC"
		}
		orderBy = append(orderBy, col)
	}
	// Insertion order breaks ties, in the direction of the last sort key.
	tie := baseAlias + ".rowid"
	if len(order) > 0 && order[len(order)-1].Desc {
		tie += " DESC"
	}
	orderBy = append(orderBy, tie)

	var sb strings.Builder
	fmt.Fprintf(&sb, "SELECT %s FROM %s", strings.Join(sel, ", "), from.String())
	if len(where) > 0 {
		sb.WriteString(" WHERE " + strings.Join(where, " AND "))
	}
	sb.WriteString(" ORDER BY " + strings.Join(orderBy, ", "))
	if q.Limit > 0 {
		sb.WriteString(" LIMIT ?")
		args = append(args, q.Limit)
	}
	return sb.String(), args, nil
}

func (g *SQLiteGateway) Insert(ctx context.Context, relation string, rows ...Row) ([]Row, error) {
	rel, err := g.prepare(ctx, OpInsert, relation)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, invalidf(OpInsert, relation, "no rows to insert")
	}

	var out []Row
	err = g.mutate(ctx, func(ctx context.Context, tx *SQLiteGateway) error {
		for _, row := range rows {
			inserted, err := tx.insertOne(ctx, rel, row)
			if err != nil {
				return err
			}
			out = append(out, inserted)
		}
		return nil
	})
	if err != nil {
		return nil, classify(OpInsert, relation, err)
	}
	return out, nil
}

func (g *SQLiteGateway) insertOne(ctx context.Context, rel Relation, row Row) (Row, error) {
	values := make(Row, len(row)+3)
	for k, v := range row {
		if !rel.HasColumn(k) {
			return nil, invalidf(OpInsert, rel.Name, "unknown column %q", k)
		}
		values[k] = v
	}
	if id, _ := values[rel.Key].(string); id == "" {
		values[rel.Key] = g.newID()
	}
	if rel.Timestamps {
		ts := g.timestamp()
		values["created_at"] = ts
		values["updated_at"] = ts
	}

	cols := sortedKeys(values)
	quoted := make([]string, len(cols))
	args := make([]any, len(cols))
	for i, c := range cols {
		quoted[i] = quoteIdent(c)
		args[i] = argValue(values[c])
	}
	query := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s) RETURNING %s",
		quoteIdent(rel.Name), strings.Join(quoted, ", "), placeholders(len(cols)), returning(rel))

	inserted, err := g.queryOne(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	if inserted == nil {
		return nil, &Error{Op: OpInsert, Relation: rel.Name, Code: CodeInternal, Message: "insert returned no row"}
	}
	id, _ := inserted[rel.Key].(string)
	if err := g.audit(ctx, rel, id, OpInsert, ""); err != nil {
		return nil, err
	}
	return inserted, nil
}

func (g *SQLiteGateway) Update(ctx context.Context, relation string, id string, patch Row) ([]Row, error) {
	rel, err := g.prepare(ctx, OpUpdate, relation)
	if err != nil {
		return nil, err
	}
	if len(patch) == 0 {
		return nil, invalidf(OpUpdate, relation, "empty patch")
	}
	for k := range patch {
		if !rel.HasColumn(k) {
			return nil, invalidf(OpUpdate, relation, "unknown column %q", k)
		}
		if k == rel.Key || k == "created_at" {
			return nil, invalidf(OpUpdate, relation, "column %q cannot be updated", k)
		}
	}

	values := make(Row, len(patch)+1)
	for k, v := range patch {
		values[k] = v
	}
	if rel.Timestamps {
		values["updated_at"] = g.timestamp()
	}

	cols := sortedKeys(values)
	sets := make([]string, len(cols))
	args := make([]any, 0, len(cols)+1)
	for i, c := range cols {
		sets[i] = quoteIdent(c) + " = ?"
		args = append(args, argValue(values[c]))
	}
	args = append(args, id)
	query := fmt.Sprintf("UPDATE %s SET %s WHERE %s = ? RETURNING %s",
		quoteIdent(rel.Name), strings.Join(sets, ", "), quoteIdent(rel.Key), returning(rel))

	var out []Row
	err = g.mutate(ctx, func(ctx context.Context, tx *SQLiteGateway) error {
		updated, err := tx.queryOne(ctx, query, args...)
		if err != nil {
			return err
		}
		if updated == nil {
			return notFound(OpUpdate, relation, id)
		}
		changed := sortedKeys(patch)
		if err := tx.audit(ctx, rel, id, OpUpdate, strings.Join(changed, ",")); err != nil {
			return err
		}
		out = []Row{updated}
		return nil
	})
	if err != nil {
		return nil, classify(OpUpdate, relation, err)
	}
	return out, nil
}

func (g *SQLiteGateway) Delete(ctx context.Context, relation string, id string) error {
	rel, err := g.prepare(ctx, OpDelete, relation)
	if err != nil {
		return err
	}
	query := fmt.Sprintf("DELETE FROM %s WHERE %s = ?", quoteIdent(rel.Name), quoteIdent(rel.Key))

	err = g.mutate(ctx, func(ctx context.Context, tx *SQLiteGateway) error {
		res, err := tx.conn.ExecContext(ctx, query, id)
		if err != nil {
			return err
		}
		n, err := res.RowsAffected()
		if err != nil {
			return err
		}
		if n == 0 {
			return notFound(OpDelete, relation, id)
		}
		return tx.audit(ctx, rel, id, OpDelete, "")
	})
	if err != nil {
		return classify(OpDelete, relation, err)
	}
	return nil
}

func (g *SQLiteGateway) audit(ctx context.Context, rel Relation, recordID string, op Op, detail string) error {
	if !rel.Audited {
		return nil
	}
	var d any
	if detail != "" {
		d = detail
	}
	_, err := g.conn.ExecContext(ctx,
		`INSERT INTO audit_log (id, relation, record_id, action, at, detail) VALUES (?, ?, ?, ?, ?, ?)`,
		g.newID(), rel.Name, recordID, string(op), g.timestamp(), d)
	if err != nil {
		return fmt.Errorf("writing audit row: %w", err)
	}
	return nil
}

// queryOne returns the first row of a RETURNING statement, or nil when the
// statement matched nothing.
func (g *SQLiteGateway) queryOne(ctx context.Context, query string, args ...any) (Row, error) {
	rows, err := g.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out, err := scanRows(rows)
	if err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, nil
	}
	return out[0], nil
}

func scanRows(rows *sql.Rows) ([]Row, error) {
	cols, err := rows.Columns()
	if err != nil {
		return nil, err
	}
	var out []Row
	for rows.Next() {
		values := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, err
		}
		row := make(Row, len(cols))
		for i, c := range cols {
			if b, ok := values[i].([]byte); ok {
				row[c] = string(b)
				continue
			}
			row[c] = values[i]
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

// argValue normalizes a Row value into something the driver stores as TEXT
// or NULL.
func argValue(v any) any {
	switch x := v.(type) {
	case nil:
		return nil
	case *string:
		if x == nil {
			return nil
		}
		return *x
	case time.Time:
		return x.UTC().Format(TimestampLayout)
	case fmt.Stringer:
		return x.String()
	default:
		return v
	}
}

func returning(rel Relation) string {
	quoted := make([]string, len(rel.Columns))
	for i, c := range rel.Columns {
		quoted[i] = quoteIdent(c)
	}
	return strings.Join(quoted, ", ")
}

func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}

func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

func sortedKeys(r Row) []string {
	return slices.Sorted(maps.Keys(r))
}
