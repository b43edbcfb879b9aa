package storage

import (
	"context"
	"fmt"

	"github.com/relstore/relstore/dialect"
	"github.com/relstore/relstore/dialect/sql"
	"github.com/relstore/relstore/schema"
	"github.com/relstore/relstore/visitor"
)

// Index lists and counts resources. It applies the configured visitor chain
// to a base SELECT of the entity's columns and decodes the resulting rows.
type Index[T any] struct {
	drv      dialect.Driver
	table    string
	columns  []string // table-qualified, in selection order
	countCol string   // table-qualified counting column
	decode   func(map[string]any) (T, error)
	visitors []visitor.StatementVisitor
}

// NewIndex returns an index over the given model. The first primary-key
// column is used as the counting column.
func NewIndex[T any](drv dialect.Driver, model *schema.Model, codec *schema.Codec[T], visitors ...visitor.StatementVisitor) *Index[T] {
	table := model.TableName()
	cols := model.ColumnNames()
	qualified := make([]string, len(cols))
	for i, c := range cols {
		qualified[i] = table + "." + c
	}
	return &Index[T]{
		drv:      drv,
		table:    table,
		columns:  qualified,
		countCol: table + "." + model.PrimaryKeyColumns()[0],
		decode:   codec.Load,
		visitors: visitors,
	}
}

// NewColumnIndex returns an index over an explicit column tuple rather than
// a whole entity. Rows are returned as column maps. The FROM table is taken
// from the first path; further tables are reached through join visitors.
func NewColumnIndex(drv dialect.Driver, ns *schema.Namespace, paths []string, countPath string, visitors ...visitor.StatementVisitor) (*Index[map[string]any], error) {
	if len(paths) == 0 {
		return nil, fmt.Errorf("storage: column index needs at least one column")
	}
	qualified := make([]string, len(paths))
	var table string
	for i, p := range paths {
		ref, err := ns.Resolve(p)
		if err != nil {
			return nil, err
		}
		if i == 0 {
			table = ref.Table
		}
		qualified[i] = ref.String()
	}
	count, err := ns.Resolve(countPath)
	if err != nil {
		return nil, err
	}
	return &Index[map[string]any]{
		drv:      drv,
		table:    table,
		columns:  qualified,
		countCol: count.String(),
		decode:   func(m map[string]any) (map[string]any, error) { return m, nil },
		visitors: visitors,
	}, nil
}

func (ix *Index[T]) baseSelect() *sql.Selector {
	return sql.Dialect(ix.drv.Dialect()).
		Select(ix.columns...).
		From(sql.Table(ix.table))
}

// List returns the resources matching the given parameters, with all
// configured visitors applied in order.
func (ix *Index[T]) List(ctx context.Context, params visitor.Params) ([]T, error) {
	s, err := visitor.Apply(ix.baseSelect(), params, ix.visitors...)
	if err != nil {
		return nil, err
	}
	records, err := ix.queryMaps(ctx, s)
	if err != nil {
		return nil, err
	}
	out := make([]T, 0, len(records))
	for _, rec := range records {
		v, err := ix.decode(rec)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

// Count returns the number of resources matching the given parameters.
func (ix *Index[T]) Count(ctx context.Context, params visitor.Params) (int, error) {
	s := sql.Dialect(ix.drv.Dialect()).
		SelectCount(ix.countCol).
		From(sql.Table(ix.table))
	s, err := visitor.Apply(s, params, ix.visitors...)
	if err != nil {
		return 0, err
	}
	query, args := s.Query()
	var rows sql.Rows
	if err := ix.drv.Query(ctx, query, args, &rows); err != nil {
		return 0, err
	}
	defer rows.Close()
	var n int
	if rows.Next() {
		if err := rows.Scan(&n); err != nil {
			return 0, err
		}
	}
	return n, rows.Err()
}

// queryMaps executes the selector and scans every row into a column map
// keyed by the bare (unqualified) column names.
func (ix *Index[T]) queryMaps(ctx context.Context, s *sql.Selector) ([]map[string]any, error) {
	query, args := s.Query()
	var rows sql.Rows
	if err := ix.drv.Query(ctx, query, args, &rows); err != nil {
		return nil, err
	}
	defer rows.Close()
	columns, err := rows.Columns()
	if err != nil {
		return nil, err
	}
	var records []map[string]any
	for rows.Next() {
		values := make([]any, len(columns))
		dest := make([]any, len(columns))
		for i := range values {
			dest[i] = &values[i]
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, err
		}
		rec := make(map[string]any, len(columns))
		for i, c := range columns {
			rec[c] = values[i]
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}
