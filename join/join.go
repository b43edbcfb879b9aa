// Package join conditionally adds JOIN clauses to a selector when any of a
// configured trigger parameter is present in the request.
package join

import (
	"fmt"

	"github.com/relstore/relstore/dialect/sql"
	"github.com/relstore/relstore/schema"
	"github.com/relstore/relstore/visitor"
)

// Spec configures a single conditional join: the parameter names that
// trigger it, the target model, and the explicit join-on column paths.
//
//	join.Spec{
//		Triggers: []string{"player_name"},
//		Target:   "Player",
//		On:       [2]string{"Game.player_id", "Player.id"},
//	}
//
// The on-clause is mandatory: unlike a reflective ORM, the mapping cannot
// infer the relationship between two tables.
type Spec struct {
	Triggers []string
	Target   string
	On       [2]string
	Left     bool // use LEFT JOIN instead of INNER JOIN
}

type resolved struct {
	triggers map[string]struct{}
	table    string
	on       [2]string
	left     bool
}

// Map applies joins in configuration order. A join fires at most once per
// visit, when the parameter bag's key set intersects its trigger set;
// multiple independent joins may fire for a single call.
type Map struct {
	joins []resolved
}

// NewMap resolves the join specifications against the namespace. Every
// target model and on-clause column must resolve, and every spec must carry
// at least one trigger and an explicit on-clause; anything else is a
// configuration error surfaced here.
func NewMap(ns *schema.Namespace, specs []Spec) (*Map, error) {
	m := &Map{joins: make([]resolved, 0, len(specs))}
	for _, spec := range specs {
		if len(spec.Triggers) == 0 {
			return nil, fmt.Errorf("join: spec for %q has no trigger parameters", spec.Target)
		}
		if spec.On[0] == "" || spec.On[1] == "" {
			return nil, fmt.Errorf("join: spec for %q has no on-clause", spec.Target)
		}
		model, err := ns.ResolveModel(spec.Target)
		if err != nil {
			return nil, err
		}
		left, err := ns.Resolve(spec.On[0])
		if err != nil {
			return nil, err
		}
		right, err := ns.Resolve(spec.On[1])
		if err != nil {
			return nil, err
		}
		r := resolved{
			triggers: make(map[string]struct{}, len(spec.Triggers)),
			table:    model.TableName(),
			on:       [2]string{left.String(), right.String()},
			left:     spec.Left,
		}
		for _, t := range spec.Triggers {
			r.triggers[t] = struct{}{}
		}
		m.joins = append(m.joins, r)
	}
	return m, nil
}

// Visit adds the joins whose trigger sets intersect the parameter bag, in
// configuration order. The selector passes through unchanged when no join
// fires.
func (m *Map) Visit(s *sql.Selector, params visitor.Params) (*sql.Selector, error) {
	var fired []resolved
	for _, j := range m.joins {
		for key := range params {
			if _, ok := j.triggers[key]; ok {
				fired = append(fired, j)
				break
			}
		}
	}
	if len(fired) == 0 {
		return s, nil
	}
	s = s.Clone()
	for _, j := range fired {
		t := sql.Table(j.table)
		if j.left {
			s.LeftJoin(t)
		} else {
			s.Join(t)
		}
		s.On(j.on[0], j.on[1])
	}
	return s, nil
}
