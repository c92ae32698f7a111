package gateway

// FilterOp is a comparison supported in a Query filter.
type FilterOp string

const (
	FilterEq      FilterOp = "eq"
	FilterNeq     FilterOp = "neq"
	FilterILike   FilterOp = "ilike"
	FilterIn      FilterOp = "in"
	FilterIsNull  FilterOp = "is_null"
	FilterNotNull FilterOp = "not_null"
)

// Filter restricts a select to rows where Column satisfies Op against Value.
// FilterIn expects Value to be a []string.
type Filter struct {
	Column string
	Op     FilterOp
	Value  any
}

func Eq(column string, value any) Filter { return Filter{Column: column, Op: FilterEq, Value: value} }
func Neq(column string, value any) Filter {
	return Filter{Column: column, Op: FilterNeq, Value: value}
}

// ILike matches pattern case-insensitively using SQL LIKE wildcards.
func ILike(column, pattern string) Filter {
	return Filter{Column: column, Op: FilterILike, Value: pattern}
}

func In(column string, values []string) Filter {
	return Filter{Column: column, Op: FilterIn, Value: values}
}

func IsNull(column string) Filter  { return Filter{Column: column, Op: FilterIsNull} }
func NotNull(column string) Filter { return Filter{Column: column, Op: FilterNotNull} }

// Order sorts select results by Column.
type Order struct {
	Column string
	Desc   bool
}

func Asc(column string) Order  { return Order{Column: column} }
func Desc(column string) Order { return Order{Column: column, Desc: true} }

// Join left-joins a foreign relation on the local column On, which must hold
// the foreign relation's key. Columns of the foreign relation are returned as
// "<As>.<column>"; As defaults to the foreign relation name.
type Join struct {
	Relation string
	On       string
	Columns  []string
	As       string
}

func (j Join) alias() string {
	if j.As != "" {
		return j.As
	}
	return j.Relation
}

// Query describes a select. Empty Columns selects every column of the
// relation. Empty Order falls back to the relation's default order.
type Query struct {
	Columns []string
	Join    *Join
	Filters []Filter
	Order   []Order
	Limit   int
}
