package sql

import (
	"strconv"
	"strings"

	"github.com/relstore/relstore/dialect"
)

// Builder is the base query builder. It holds the SQL buffer, the collected
// arguments, and the dialect used for identifier quoting and placeholders.
type Builder struct {
	dialect string
	sb      strings.Builder
	args    []any
}

// Quote quotes the given identifier according to the configured dialect.
func (b *Builder) Quote(ident string) string {
	quote := `"`
	if b.dialect == dialect.MySQL {
		quote = "`"
	}
	return quote + ident + quote
}

// Ident writes the given dotted identifier, quoting each path segment.
// The special identifier "*" is written as-is.
func (b *Builder) Ident(s string) *Builder {
	if s == "*" {
		b.sb.WriteString(s)
		return b
	}
	for i, part := range strings.Split(s, ".") {
		if i > 0 {
			b.sb.WriteByte('.')
		}
		b.sb.WriteString(b.Quote(part))
	}
	return b
}

// WriteString appends the given raw string to the query buffer.
func (b *Builder) WriteString(s string) *Builder {
	b.sb.WriteString(s)
	return b
}

// Arg binds the given value as a query argument and writes its placeholder.
// PostgreSQL uses positional placeholders ($1, $2, ...); other dialects use "?".
func (b *Builder) Arg(v any) *Builder {
	b.args = append(b.args, v)
	if b.dialect == dialect.Postgres {
		b.sb.WriteByte('$')
		b.sb.WriteString(strconv.Itoa(len(b.args)))
	} else {
		b.sb.WriteByte('?')
	}
	return b
}

// Comma writes a column separator.
func (b *Builder) Comma() *Builder {
	b.sb.WriteString(", ")
	return b
}

// String returns the accumulated SQL string.
func (b *Builder) String() string {
	return b.sb.String()
}

// Querier is any type that can be evaluated to a SQL string with bound arguments.
type Querier interface {
	// Query returns the query representation of the element
	// and its arguments (if any).
	Query() (string, []any)
}

// Predicate is a where-clause builder. Predicates are composed with And and
// applied to selectors, updates and deletes through their Where methods.
type Predicate struct {
	fns []func(*Builder)
}

// P creates a new predicate from the given builder functions.
func P(fns ...func(*Builder)) *Predicate {
	return &Predicate{fns: fns}
}

func (p *Predicate) build(b *Builder) {
	for i, f := range p.fns {
		if i > 0 {
			b.WriteString(" AND ")
		}
		f(b)
	}
}

// And combines the given predicates into a single conjunctive predicate.
func And(preds ...*Predicate) *Predicate {
	return P(func(b *Builder) {
		for i, p := range preds {
			if i > 0 {
				b.WriteString(" AND ")
			}
			p.build(b)
		}
	})
}

// Op is a comparison constructor: it builds a predicate comparing a column
// against a bound argument. The package-level comparisons (EQ, NEQ, GT, GTE,
// LT, LTE) all satisfy it, so mapping configuration can name them directly.
type Op func(col string, arg any) *Predicate

func binary(col, op string, arg any) *Predicate {
	return P(func(b *Builder) {
		b.Ident(col).WriteString(" " + op + " ").Arg(arg)
	})
}

// EQ returns a column = arg predicate.
func EQ(col string, arg any) *Predicate { return binary(col, "=", arg) }

// NEQ returns a column <> arg predicate.
func NEQ(col string, arg any) *Predicate { return binary(col, "<>", arg) }

// GT returns a column > arg predicate.
func GT(col string, arg any) *Predicate { return binary(col, ">", arg) }

// GTE returns a column >= arg predicate.
func GTE(col string, arg any) *Predicate { return binary(col, ">=", arg) }

// LT returns a column < arg predicate.
func LT(col string, arg any) *Predicate { return binary(col, "<", arg) }

// LTE returns a column <= arg predicate.
func LTE(col string, arg any) *Predicate { return binary(col, "<=", arg) }

// In returns a column IN (args...) predicate. An empty argument list yields
// a predicate that matches no rows.
func In(col string, args ...any) *Predicate {
	return P(func(b *Builder) {
		if len(args) == 0 {
			b.WriteString("FALSE")
			return
		}
		b.Ident(col).WriteString(" IN (")
		for i, a := range args {
			if i > 0 {
				b.Comma()
			}
			b.Arg(a)
		}
		b.WriteString(")")
	})
}

// IsNull returns a column IS NULL predicate.
func IsNull(col string) *Predicate {
	return P(func(b *Builder) {
		b.Ident(col).WriteString(" IS NULL")
	})
}

// NotNull returns a column IS NOT NULL predicate.
func NotNull(col string) *Predicate {
	return P(func(b *Builder) {
		b.Ident(col).WriteString(" IS NOT NULL")
	})
}

// OrderExpr is a single ORDER BY expression.
type OrderExpr struct {
	column string
	desc   bool
}

// Asc returns an ascending order expression over the given column.
func Asc(col string) OrderExpr { return OrderExpr{column: col} }

// Desc returns a descending order expression over the given column.
func Desc(col string) OrderExpr { return OrderExpr{column: col, desc: true} }

// Column returns the column the expression sorts by.
func (o OrderExpr) Column() string { return o.column }

// Descending reports whether the expression sorts in descending order.
func (o OrderExpr) Descending() bool { return o.desc }

// SelectTable is a table reference in a FROM or JOIN clause.
type SelectTable struct {
	name string
	as   string
}

// Table returns a new table reference with the given name.
func Table(name string) *SelectTable {
	return &SelectTable{name: name}
}

// As sets the table alias.
func (t *SelectTable) As(alias string) *SelectTable {
	t.as = alias
	return t
}

// Name returns the table name.
func (t *SelectTable) Name() string { return t.name }

type joinClause struct {
	table *SelectTable
	kind  string
	on    [2]string
}

// Selector is a SELECT statement builder. Each mutating method returns the
// receiver for chaining; Clone produces an independent copy so that statement
// visitors can add clauses without touching the caller's value.
type Selector struct {
	dialect string
	columns []string
	count   string
	from    *SelectTable
	joins   []joinClause
	where   *Predicate
	orders  []OrderExpr
	limit   *int
	offset  *int
}

// Select returns a new selector for the given columns using the default
// ("?" placeholder, double-quote) dialect.
func Select(columns ...string) *Selector {
	return (&DialectBuilder{}).Select(columns...)
}

// SelectCount returns a new SELECT COUNT(column) selector using the default dialect.
func SelectCount(column string) *Selector {
	return (&DialectBuilder{}).SelectCount(column)
}

// DialectBuilder prefixes all root builders with the given dialect.
type DialectBuilder struct {
	dialect string
}

// Dialect creates a builder factory for the given dialect.
//
//	sql.Dialect(dialect.Postgres).Select("id", "name").From(sql.Table("users"))
func Dialect(name string) *DialectBuilder {
	return &DialectBuilder{dialect: name}
}

// Select returns a selector for the given columns.
func (d *DialectBuilder) Select(columns ...string) *Selector {
	return &Selector{dialect: d.dialect, columns: columns}
}

// SelectCount returns a SELECT COUNT(column) selector.
func (d *DialectBuilder) SelectCount(column string) *Selector {
	return &Selector{dialect: d.dialect, count: column}
}

// Insert returns an insert builder for the given table.
func (d *DialectBuilder) Insert(table string) *InsertBuilder {
	return &InsertBuilder{dialect: d.dialect, table: table}
}

// Update returns an update builder for the given table.
func (d *DialectBuilder) Update(table string) *UpdateBuilder {
	return &UpdateBuilder{dialect: d.dialect, table: table}
}

// Delete returns a delete builder for the given table.
func (d *DialectBuilder) Delete(table string) *DeleteBuilder {
	return &DeleteBuilder{dialect: d.dialect, table: table}
}

// From sets the source table of the selector.
func (s *Selector) From(t *SelectTable) *Selector {
	s.from = t
	return s
}

// Where adds the given predicate, conjoined with any existing ones.
func (s *Selector) Where(p *Predicate) *Selector {
	if s.where != nil {
		s.where = And(s.where, p)
	} else {
		s.where = p
	}
	return s
}

// Join adds an INNER JOIN of the given table. The join condition is set by
// the following On call.
func (s *Selector) Join(t *SelectTable) *Selector {
	s.joins = append(s.joins, joinClause{table: t, kind: "JOIN"})
	return s
}

// LeftJoin adds a LEFT JOIN of the given table.
func (s *Selector) LeftJoin(t *SelectTable) *Selector {
	s.joins = append(s.joins, joinClause{table: t, kind: "LEFT JOIN"})
	return s
}

// On sets the join condition of the most recently added join.
func (s *Selector) On(left, right string) *Selector {
	if len(s.joins) > 0 {
		s.joins[len(s.joins)-1].on = [2]string{left, right}
	}
	return s
}

// OrderBy appends the given order expressions, preserving their order as
// primary, secondary, and so on.
func (s *Selector) OrderBy(exprs ...OrderExpr) *Selector {
	s.orders = append(s.orders, exprs...)
	return s
}

// Limit sets the LIMIT clause.
func (s *Selector) Limit(n int) *Selector {
	s.limit = &n
	return s
}

// Offset sets the OFFSET clause.
func (s *Selector) Offset(n int) *Selector {
	s.offset = &n
	return s
}

// Clone returns an independent copy of the selector. Visitors clone before
// adding clauses, so the caller's selector is never modified in place.
func (s *Selector) Clone() *Selector {
	if s == nil {
		return nil
	}
	c := *s
	c.columns = append([]string(nil), s.columns...)
	c.joins = append([]joinClause(nil), s.joins...)
	c.orders = append([]OrderExpr(nil), s.orders...)
	if s.limit != nil {
		n := *s.limit
		c.limit = &n
	}
	if s.offset != nil {
		n := *s.offset
		c.offset = &n
	}
	return &c
}

// Query returns query representation of a SELECT statement.
func (s *Selector) Query() (string, []any) {
	b := &Builder{dialect: s.dialect}
	b.WriteString("SELECT ")
	switch {
	case s.count != "":
		b.WriteString("COUNT(").Ident(s.count).WriteString(")")
	case len(s.columns) == 0:
		b.WriteString("*")
	default:
		for i, c := range s.columns {
			if i > 0 {
				b.Comma()
			}
			b.Ident(c)
		}
	}
	if s.from != nil {
		b.WriteString(" FROM ").Ident(s.from.name)
		if s.from.as != "" {
			b.WriteString(" AS ").Ident(s.from.as)
		}
	}
	for _, j := range s.joins {
		b.WriteString(" " + j.kind + " ").Ident(j.table.name)
		if j.table.as != "" {
			b.WriteString(" AS ").Ident(j.table.as)
		}
		if j.on[0] != "" {
			b.WriteString(" ON ").Ident(j.on[0]).WriteString(" = ").Ident(j.on[1])
		}
	}
	if s.where != nil {
		b.WriteString(" WHERE ")
		s.where.build(b)
	}
	if len(s.orders) > 0 {
		b.WriteString(" ORDER BY ")
		for i, o := range s.orders {
			if i > 0 {
				b.Comma()
			}
			b.Ident(o.column)
			if o.desc {
				b.WriteString(" DESC")
			}
		}
	}
	if s.limit != nil {
		b.WriteString(" LIMIT ").WriteString(strconv.Itoa(*s.limit))
	}
	if s.offset != nil {
		b.WriteString(" OFFSET ").WriteString(strconv.Itoa(*s.offset))
	}
	return b.String(), b.args
}

// InsertBuilder is an INSERT statement builder.
type InsertBuilder struct {
	dialect string
	table   string
	columns []string
	values  []any
}

// Insert returns an insert builder for the given table using the default dialect.
func Insert(table string) *InsertBuilder {
	return &InsertBuilder{table: table}
}

// Set assigns a value to the given column.
func (i *InsertBuilder) Set(column string, v any) *InsertBuilder {
	i.columns = append(i.columns, column)
	i.values = append(i.values, v)
	return i
}

// Columns sets the insert column list.
func (i *InsertBuilder) Columns(columns ...string) *InsertBuilder {
	i.columns = append(i.columns, columns...)
	return i
}

// Values appends the values for the configured columns.
func (i *InsertBuilder) Values(values ...any) *InsertBuilder {
	i.values = append(i.values, values...)
	return i
}

// Query returns query representation of an INSERT statement.
func (i *InsertBuilder) Query() (string, []any) {
	b := &Builder{dialect: i.dialect}
	b.WriteString("INSERT INTO ").Ident(i.table).WriteString(" (")
	for n, c := range i.columns {
		if n > 0 {
			b.Comma()
		}
		b.Ident(c)
	}
	b.WriteString(") VALUES (")
	for n, v := range i.values {
		if n > 0 {
			b.Comma()
		}
		b.Arg(v)
	}
	b.WriteString(")")
	return b.String(), b.args
}

// UpdateBuilder is an UPDATE statement builder.
type UpdateBuilder struct {
	dialect string
	table   string
	columns []string
	values  []any
	where   *Predicate
}

// Update returns an update builder for the given table using the default dialect.
func Update(table string) *UpdateBuilder {
	return &UpdateBuilder{table: table}
}

// Set assigns a new value to the given column.
func (u *UpdateBuilder) Set(column string, v any) *UpdateBuilder {
	u.columns = append(u.columns, column)
	u.values = append(u.values, v)
	return u
}

// Where adds the given predicate, conjoined with any existing ones.
func (u *UpdateBuilder) Where(p *Predicate) *UpdateBuilder {
	if u.where != nil {
		u.where = And(u.where, p)
	} else {
		u.where = p
	}
	return u
}

// Empty reports whether the update has no column assignments.
func (u *UpdateBuilder) Empty() bool {
	return len(u.columns) == 0
}

// Query returns query representation of an UPDATE statement.
func (u *UpdateBuilder) Query() (string, []any) {
	b := &Builder{dialect: u.dialect}
	b.WriteString("UPDATE ").Ident(u.table).WriteString(" SET ")
	for n, c := range u.columns {
		if n > 0 {
			b.Comma()
		}
		b.Ident(c).WriteString(" = ").Arg(u.values[n])
	}
	if u.where != nil {
		b.WriteString(" WHERE ")
		u.where.build(b)
	}
	return b.String(), b.args
}

// DeleteBuilder is a DELETE statement builder.
type DeleteBuilder struct {
	dialect string
	table   string
	where   *Predicate
}

// Delete returns a delete builder for the given table using the default dialect.
func Delete(table string) *DeleteBuilder {
	return &DeleteBuilder{table: table}
}

// Where adds the given predicate, conjoined with any existing ones.
func (d *DeleteBuilder) Where(p *Predicate) *DeleteBuilder {
	if d.where != nil {
		d.where = And(d.where, p)
	} else {
		d.where = p
	}
	return d
}

// Query returns query representation of a DELETE statement.
func (d *DeleteBuilder) Query() (string, []any) {
	b := &Builder{dialect: d.dialect}
	b.WriteString("DELETE FROM ").Ident(d.table)
	if d.where != nil {
		b.WriteString(" WHERE ")
		d.where.build(b)
	}
	return b.String(), b.args
}
