// Package mapping builds a visitor chain from a declarative YAML document,
// so an application can describe its parameter-to-column mapping in
// configuration rather than code:
//
//	filters:
//	  game_type: Game.type
//	  starting_at: {column: Game.played_on, op: gte}
//	order_by:
//	  game_type: Game.type
//	null_filters:
//	  deleted_at: Game.deleted_at
//	joins:
//	  - triggers: [player_name]
//	    target: Player
//	    on: [Game.player_id, Player.id]
//	page_param: page
package mapping

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/relstore/relstore/dialect/sql"
	"github.com/relstore/relstore/filter"
	"github.com/relstore/relstore/join"
	"github.com/relstore/relstore/pagination"
	"github.com/relstore/relstore/schema"
	"github.com/relstore/relstore/visitor"
)

// Expr is a filter entry: either a bare column path (scalar YAML node) or a
// mapping with an explicit comparison operator.
type Expr struct {
	Column string
	Op     string
}

// UnmarshalYAML accepts both the scalar and the mapping form.
func (e *Expr) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		return node.Decode(&e.Column)
	}
	var aux struct {
		Column string `yaml:"column"`
		Op     string `yaml:"op"`
	}
	if err := node.Decode(&aux); err != nil {
		return err
	}
	e.Column, e.Op = aux.Column, aux.Op
	return nil
}

// JoinSpec is a conditional join entry.
type JoinSpec struct {
	Triggers []string `yaml:"triggers"`
	Target   string   `yaml:"target"`
	On       []string `yaml:"on"`
	Left     bool     `yaml:"left"`
}

// Config is the parsed mapping document.
type Config struct {
	Filters     map[string]Expr   `yaml:"filters"`
	OrderBy     map[string]string `yaml:"order_by"`
	NullFilters map[string]string `yaml:"null_filters"`
	Joins       []JoinSpec        `yaml:"joins"`
	PageParam   string            `yaml:"page_param"`
}

// Parse decodes a mapping document.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("mapping: parse: %w", err)
	}
	return &cfg, nil
}

var ops = map[string]sql.Op{
	"":    sql.EQ,
	"eq":  sql.EQ,
	"neq": sql.NEQ,
	"gt":  sql.GT,
	"gte": sql.GTE,
	"lt":  sql.LT,
	"lte": sql.LTE,
}

// Build resolves the configuration against the namespace and returns the
// visitor chain, in a fixed order: joins, filters, null filters, order_by,
// pagination. Joins come first so that filters may reference joined tables.
// Any unresolvable path or unknown operator fails here.
func (c *Config) Build(ns *schema.Namespace) ([]visitor.StatementVisitor, error) {
	var visitors []visitor.StatementVisitor
	if len(c.Joins) > 0 {
		specs := make([]join.Spec, len(c.Joins))
		for i, js := range c.Joins {
			spec := join.Spec{Triggers: js.Triggers, Target: js.Target, Left: js.Left}
			if len(js.On) == 2 {
				spec.On = [2]string{js.On[0], js.On[1]}
			} else if len(js.On) != 0 {
				return nil, fmt.Errorf("mapping: join %q: on must name two columns", js.Target)
			}
			specs[i] = spec
		}
		jm, err := join.NewMap(ns, specs)
		if err != nil {
			return nil, err
		}
		visitors = append(visitors, jm)
	}
	if len(c.Filters) > 0 {
		exprs := make(map[string]filter.Expr, len(c.Filters))
		for param, e := range c.Filters {
			op, ok := ops[e.Op]
			if !ok {
				return nil, fmt.Errorf("mapping: filter %q: unknown operator %q", param, e.Op)
			}
			exprs[param] = filter.Expr{Path: e.Column, Op: op}
		}
		fm, err := filter.NewMap(ns, exprs)
		if err != nil {
			return nil, err
		}
		visitors = append(visitors, fm)
	}
	if len(c.NullFilters) > 0 {
		nm, err := filter.NewNullMap(ns, c.NullFilters)
		if err != nil {
			return nil, err
		}
		visitors = append(visitors, nm)
	}
	if len(c.OrderBy) > 0 {
		ob, err := filter.NewOrderBy(ns, c.OrderBy)
		if err != nil {
			return nil, err
		}
		visitors = append(visitors, ob)
	}
	if c.PageParam != "" {
		visitors = append(visitors, pagination.NewMap(c.PageParam))
	}
	return visitors, nil
}

// Load parses a mapping document and builds its visitor chain.
func Load(ns *schema.Namespace, data []byte) ([]visitor.StatementVisitor, error) {
	cfg, err := Parse(data)
	if err != nil {
		return nil, err
	}
	return cfg.Build(ns)
}
