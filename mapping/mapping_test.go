package mapping_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/relstore/relstore/dialect/sql"
	"github.com/relstore/relstore/mapping"
	"github.com/relstore/relstore/pagination"
	"github.com/relstore/relstore/schema"
	"github.com/relstore/relstore/visitor"
)

const testDocument = `
filters:
  game_type: Game.type
  starting_at: {column: Game.played_on, op: gte}
order_by:
  played_on: Game.played_on
null_filters:
  deleted_at: Game.deleted_at
joins:
  - triggers: [player_name]
    target: Player
    on: [Game.player_id, Player.id]
page_param: page
`

func newTestNamespace(t *testing.T) *schema.Namespace {
	t.Helper()
	ns := schema.NewNamespace()
	require.NoError(t, ns.Register(
		schema.NewModel("Game",
			schema.Columns("id", "type", "played_on", "deleted_at", "player_id"),
			schema.PrimaryKey("id"),
		),
		schema.NewModel("Player",
			schema.Table("players"),
			schema.Columns("id", "name"),
			schema.PrimaryKey("id"),
		),
	))
	return ns
}

func TestParse(t *testing.T) {
	cfg, err := mapping.Parse([]byte(testDocument))
	require.NoError(t, err)

	assert.Equal(t, mapping.Expr{Column: "Game.type"}, cfg.Filters["game_type"])
	assert.Equal(t, mapping.Expr{Column: "Game.played_on", Op: "gte"}, cfg.Filters["starting_at"])
	assert.Equal(t, "Game.played_on", cfg.OrderBy["played_on"])
	assert.Equal(t, "Game.deleted_at", cfg.NullFilters["deleted_at"])
	require.Len(t, cfg.Joins, 1)
	assert.Equal(t, []string{"player_name"}, cfg.Joins[0].Triggers)
	assert.Equal(t, "page", cfg.PageParam)
}

func TestLoad(t *testing.T) {
	ns := newTestNamespace(t)
	visitors, err := mapping.Load(ns, []byte(testDocument))
	require.NoError(t, err)
	// joins, filters, null filters, order_by, pagination
	require.Len(t, visitors, 5)

	base := sql.Select("games.id").From(sql.Table("games"))
	out, err := visitor.Apply(base, visitor.Params{
		"player_name": "alice",
		"game_type":   "ranked",
		"order_by":    "-played_on",
		"page":        pagination.Page{PageSize: 10, FirstItem: 20},
	}, visitors...)
	require.NoError(t, err)

	query, args := out.Query()
	assert.Equal(t,
		`SELECT "games"."id" FROM "games"`+
			` JOIN "players" ON "games"."player_id" = "players"."id"`+
			` WHERE "games"."type" = ?`+
			` ORDER BY "games"."played_on" DESC`+
			` LIMIT 10 OFFSET 20`,
		query,
	)
	assert.Equal(t, []any{"ranked"}, args)
}

func TestLoadErrors(t *testing.T) {
	ns := newTestNamespace(t)

	t.Run("invalid_yaml", func(t *testing.T) {
		_, err := mapping.Load(ns, []byte("filters: ["))
		assert.Error(t, err)
	})

	t.Run("unknown_operator", func(t *testing.T) {
		_, err := mapping.Load(ns, []byte("filters:\n  x: {column: Game.type, op: like}\n"))
		assert.ErrorContains(t, err, "unknown operator")
	})

	t.Run("unresolvable_path", func(t *testing.T) {
		_, err := mapping.Load(ns, []byte("filters:\n  x: Game.nope\n"))
		assert.Error(t, err)
	})

	t.Run("bad_on_clause", func(t *testing.T) {
		_, err := mapping.Load(ns, []byte("joins:\n  - triggers: [x]\n    target: Player\n    on: [Game.player_id]\n"))
		assert.ErrorContains(t, err, "on must name two columns")
	})
}
