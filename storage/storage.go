// Package storage composes statement visitors around CRUD and index access
// to a relational store.
//
// A Storage pairs an entity model with a codec and a visitor chain. List and
// Count thread every request's parameter bag through the visitors; Get, Put,
// Patch and Delete address a single entity by its identity, normalized so
// single- and composite-key entities behave uniformly.
package storage

import (
	"context"
	"fmt"
	"sort"

	"github.com/relstore/relstore"
	"github.com/relstore/relstore/dialect"
	"github.com/relstore/relstore/dialect/sql"
	"github.com/relstore/relstore/schema"
	"github.com/relstore/relstore/visitor"
)

// Storage wraps create/read/update/delete access to a backing table behind a
// uniform interface, with the configured visitor chain applied to every
// query-shaped operation.
type Storage[T any] struct {
	*Index[T]
	model *schema.Model
	codec *schema.Codec[T]
	label string
	pk    []string
}

// New returns a storage facade for the given model and codec. The visitors
// are applied, in order, to every Get, List and Count.
func New[T any](drv dialect.Driver, model *schema.Model, codec *schema.Codec[T], visitors ...visitor.StatementVisitor) *Storage[T] {
	return &Storage[T]{
		Index: NewIndex(drv, model, codec, visitors...),
		model: model,
		codec: codec,
		label: model.Name(),
		pk:    model.PrimaryKeyColumns(),
	}
}

// pkPredicates zips the normalized identity against the primary-key columns.
func (s *Storage[T]) pkPredicates(id relstore.Identity) ([]*sql.Predicate, error) {
	if len(id) != len(s.pk) {
		return nil, fmt.Errorf("storage: %s identity has %d components, want %d", s.label, len(id), len(s.pk))
	}
	preds := make([]*sql.Predicate, len(id))
	for i, col := range s.pk {
		preds[i] = sql.EQ(s.table+"."+col, id[i])
	}
	return preds, nil
}

// Get returns the entity with the given identity. The identity may be a
// scalar (single-column key) or a sequence (composite key). Extra parameters
// are passed to the visitor chain. A missing entity returns a NotFoundError.
func (s *Storage[T]) Get(ctx context.Context, identity any, params visitor.Params) (T, error) {
	var zero T
	id := relstore.NormalizeIdentity(identity)
	preds, err := s.pkPredicates(id)
	if err != nil {
		return zero, err
	}
	sel := s.baseSelect().Where(sql.And(preds...))
	sel, err = visitor.Apply(sel, params, s.visitors...)
	if err != nil {
		return zero, err
	}
	records, err := s.queryMaps(ctx, sel)
	if err != nil {
		return zero, err
	}
	if len(records) == 0 {
		return zero, relstore.NewNotFoundErrorWithID(s.label, id)
	}
	return s.decode(records[0])
}

// Contains reports whether an entity with the given identity exists.
func (s *Storage[T]) Contains(ctx context.Context, identity any) (bool, error) {
	id := relstore.NormalizeIdentity(identity)
	preds, err := s.pkPredicates(id)
	if err != nil {
		return false, err
	}
	sel := sql.Dialect(s.drv.Dialect()).
		SelectCount(s.countCol).
		From(sql.Table(s.table)).
		Where(sql.And(preds...))
	query, args := sel.Query()
	var rows sql.Rows
	if err := s.drv.Query(ctx, query, args, &rows); err != nil {
		return false, err
	}
	defer rows.Close()
	var n int
	if rows.Next() {
		if err := rows.Scan(&n); err != nil {
			return false, err
		}
	}
	return n > 0, rows.Err()
}

// Put creates a new entity from the given data. The identity components are
// merged into the data under the primary-key columns. An existing identity
// returns a ConflictError, including when a concurrent Put wins the race
// between the existence check and the insert.
func (s *Storage[T]) Put(ctx context.Context, identity any, data map[string]any) (T, error) {
	var zero T
	id := relstore.NormalizeIdentity(identity)
	if len(id) != len(s.pk) {
		return zero, fmt.Errorf("storage: %s identity has %d components, want %d", s.label, len(id), len(s.pk))
	}
	exists, err := s.Contains(ctx, id)
	if err != nil {
		return zero, err
	}
	if exists {
		return zero, relstore.NewConflictErrorWithID(s.label, id)
	}
	merged := make(map[string]any, len(data)+len(id))
	for k, v := range data {
		merged[k] = v
	}
	for i, col := range s.pk {
		merged[col] = id[i]
	}
	columns, err := s.columnOrder(merged)
	if err != nil {
		return zero, err
	}
	entity, err := s.codec.Load(merged)
	if err != nil {
		return zero, err
	}
	ins := sql.Dialect(s.drv.Dialect()).Insert(s.table)
	for _, col := range columns {
		ins.Set(col, merged[col])
	}
	query, args := ins.Query()
	if err := s.drv.Exec(ctx, query, args, nil); err != nil {
		if sql.IsUniqueViolation(err) {
			return zero, relstore.NewConflictErrorWithID(s.label, id)
		}
		if sql.IsConstraintViolation(err) {
			return zero, relstore.NewConstraintError(s.label, err)
		}
		return zero, err
	}
	return entity, nil
}

// Patch partially updates the entity with the given identity: only the
// columns present in data are written, then the entity is re-fetched. A
// missing identity returns a NotFoundError.
func (s *Storage[T]) Patch(ctx context.Context, identity any, data map[string]any) (T, error) {
	var zero T
	id := relstore.NormalizeIdentity(identity)
	exists, err := s.Contains(ctx, id)
	if err != nil {
		return zero, err
	}
	if !exists {
		return zero, relstore.NewNotFoundErrorWithID(s.label, id)
	}
	if len(data) > 0 {
		columns, err := s.columnOrder(data)
		if err != nil {
			return zero, err
		}
		preds, err := s.pkPredicates(id)
		if err != nil {
			return zero, err
		}
		upd := sql.Dialect(s.drv.Dialect()).Update(s.table)
		for _, col := range columns {
			upd.Set(col, data[col])
		}
		upd.Where(sql.And(preds...))
		query, args := upd.Query()
		if err := s.drv.Exec(ctx, query, args, nil); err != nil {
			if sql.IsConstraintViolation(err) {
				return zero, relstore.NewConstraintError(s.label, err)
			}
			return zero, err
		}
	}
	return s.Get(ctx, id, nil)
}

// Delete removes the entity with the given identity and returns it. A
// missing identity returns a NotFoundError.
func (s *Storage[T]) Delete(ctx context.Context, identity any) (T, error) {
	var zero T
	id := relstore.NormalizeIdentity(identity)
	entity, err := s.Get(ctx, id, nil)
	if err != nil {
		return zero, err
	}
	preds, err := s.pkPredicates(id)
	if err != nil {
		return zero, err
	}
	del := sql.Dialect(s.drv.Dialect()).Delete(s.table).Where(sql.And(preds...))
	query, args := del.Query()
	if err := s.drv.Exec(ctx, query, args, nil); err != nil {
		return zero, err
	}
	return entity, nil
}

// columnOrder validates that every key in data is a declared column and
// returns the keys in a deterministic order.
func (s *Storage[T]) columnOrder(data map[string]any) ([]string, error) {
	columns := make([]string, 0, len(data))
	for col := range data {
		if !s.model.HasColumn(col) {
			return nil, fmt.Errorf("storage: %s has no column %q", s.label, col)
		}
		columns = append(columns, col)
	}
	sort.Strings(columns)
	return columns, nil
}
