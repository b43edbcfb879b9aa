package pagination_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/relstore/relstore/dialect/sql"
	"github.com/relstore/relstore/pagination"
	"github.com/relstore/relstore/visitor"
)

func baseSelect() *sql.Selector {
	return sql.Select("games.id").From(sql.Table("games"))
}

func TestMap(t *testing.T) {
	pages := pagination.NewMap("page")

	t.Run("page_struct", func(t *testing.T) {
		out, err := pages.Visit(baseSelect(), visitor.Params{
			"page": pagination.Page{PageSize: 5, FirstItem: 10},
		})
		require.NoError(t, err)

		query, _ := out.Query()
		assert.Equal(t, `SELECT "games"."id" FROM "games" LIMIT 5 OFFSET 10`, query)
	})

	t.Run("page_struct_pointer", func(t *testing.T) {
		out, err := pages.Visit(baseSelect(), visitor.Params{
			"page": &pagination.Page{PageSize: 3, FirstItem: 0},
		})
		require.NoError(t, err)

		query, _ := out.Query()
		assert.Equal(t, `SELECT "games"."id" FROM "games" LIMIT 3 OFFSET 0`, query)
	})

	t.Run("map_descriptor", func(t *testing.T) {
		out, err := pages.Visit(baseSelect(), visitor.Params{
			"page": map[string]any{"PageSize": 20, "FirstItem": 40},
		})
		require.NoError(t, err)

		query, _ := out.Query()
		assert.Equal(t, `SELECT "games"."id" FROM "games" LIMIT 20 OFFSET 40`, query)
	})

	t.Run("absent_param_passes_through", func(t *testing.T) {
		base := baseSelect()
		out, err := pages.Visit(base, visitor.Params{"game_type": "ranked"})
		require.NoError(t, err)
		assert.Same(t, base, out)
	})

	t.Run("missing_field", func(t *testing.T) {
		_, err := pages.Visit(baseSelect(), visitor.Params{
			"page": map[string]any{"PageSize": 20},
		})
		assert.Error(t, err)
	})

	t.Run("unsupported_descriptor", func(t *testing.T) {
		_, err := pages.Visit(baseSelect(), visitor.Params{"page": "nope"})
		assert.Error(t, err)
	})
}

func TestMapCustomFields(t *testing.T) {
	type cursor struct {
		Limit  int
		Offset int
	}
	pages := pagination.NewMap("cursor",
		pagination.WithSizeField("Limit"),
		pagination.WithFirstItemField("Offset"),
	)

	out, err := pages.Visit(baseSelect(), visitor.Params{
		"cursor": cursor{Limit: 25, Offset: 50},
	})
	require.NoError(t, err)

	query, _ := out.Query()
	assert.Equal(t, `SELECT "games"."id" FROM "games" LIMIT 25 OFFSET 50`, query)
}

func TestMapCustomAccessor(t *testing.T) {
	pages := pagination.NewMap("page", pagination.WithAccessor(
		func(page any, field string) (int, error) {
			n := page.(int)
			if field == "PageSize" {
				return n, nil
			}
			return 0, nil
		},
	))

	out, err := pages.Visit(baseSelect(), visitor.Params{"page": 15})
	require.NoError(t, err)

	query, _ := out.Query()
	assert.Equal(t, `SELECT "games"."id" FROM "games" LIMIT 15 OFFSET 0`, query)
}
