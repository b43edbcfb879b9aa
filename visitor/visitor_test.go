package visitor_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/relstore/relstore/dialect/sql"
	"github.com/relstore/relstore/visitor"
)

func TestApply(t *testing.T) {
	base := sql.Select("games.id").From(sql.Table("games"))

	t.Run("threads_in_order", func(t *testing.T) {
		var seen []string
		first := visitor.VisitFunc(func(s *sql.Selector, _ visitor.Params) (*sql.Selector, error) {
			seen = append(seen, "first")
			return s.Clone().Limit(10), nil
		})
		second := visitor.VisitFunc(func(s *sql.Selector, _ visitor.Params) (*sql.Selector, error) {
			seen = append(seen, "second")
			return s.Clone().Offset(5), nil
		})

		out, err := visitor.Apply(base, visitor.Params{}, first, second)
		require.NoError(t, err)
		assert.Equal(t, []string{"first", "second"}, seen)

		query, _ := out.Query()
		assert.Equal(t, `SELECT "games"."id" FROM "games" LIMIT 10 OFFSET 5`, query)
	})

	t.Run("stops_on_error", func(t *testing.T) {
		boom := errors.New("boom")
		failing := visitor.VisitFunc(func(s *sql.Selector, _ visitor.Params) (*sql.Selector, error) {
			return nil, boom
		})
		var called bool
		after := visitor.VisitFunc(func(s *sql.Selector, _ visitor.Params) (*sql.Selector, error) {
			called = true
			return s, nil
		})

		_, err := visitor.Apply(base, visitor.Params{}, failing, after)
		assert.ErrorIs(t, err, boom)
		assert.False(t, called)
	})

	t.Run("no_visitors", func(t *testing.T) {
		out, err := visitor.Apply(base, visitor.Params{})
		require.NoError(t, err)
		assert.Same(t, base, out)
	})
}
