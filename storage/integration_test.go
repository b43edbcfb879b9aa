package storage_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
	_ "modernc.org/sqlite"

	"github.com/relstore/relstore"
	"github.com/relstore/relstore/dialect"
	rsql "github.com/relstore/relstore/dialect/sql"
	"github.com/relstore/relstore/mapping"
	"github.com/relstore/relstore/pagination"
	"github.com/relstore/relstore/schema"
	"github.com/relstore/relstore/storage"
	"github.com/relstore/relstore/visitor"
)

type match struct {
	ID       string `msgpack:"id"`
	Type     string `msgpack:"type"`
	PlayedOn string `msgpack:"played_on"`
}

const matchMapping = `
filters:
  game_type: Match.type
  starting_at: {column: Match.played_on, op: gte}
order_by:
  played_on: Match.played_on
page_param: page
`

func openSQLite(t *testing.T) *rsql.Driver {
	t.Helper()
	drv, err := rsql.Open(dialect.SQLite, fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString()))
	require.NoError(t, err)
	drv.DB().SetMaxOpenConns(1)
	t.Cleanup(func() { drv.Close() })

	err = drv.Exec(context.Background(), `
		CREATE TABLE matches (
			id TEXT PRIMARY KEY,
			type TEXT NOT NULL,
			played_on TEXT NOT NULL
		)`, []any{}, nil)
	require.NoError(t, err)
	return drv
}

func newMatchStorage(t *testing.T, drv *rsql.Driver) *storage.Storage[match] {
	t.Helper()
	ns := schema.NewNamespace()
	require.NoError(t, ns.Register(
		schema.NewModel("Match",
			schema.Columns("id", "type", "played_on"),
			schema.PrimaryKey("id"),
		),
	))
	visitors, err := mapping.Load(ns, []byte(matchMapping))
	require.NoError(t, err)

	model, err := ns.ResolveModel("Match")
	require.NoError(t, err)
	return storage.New(drv, model, schema.NewCodec[match](), visitors...)
}

func TestStorageSQLite(t *testing.T) {
	ctx := context.Background()
	drv := openSQLite(t)
	store := newMatchStorage(t, drv)

	ids := make([]string, 3)
	for i, m := range []match{
		{Type: "ranked", PlayedOn: "2023-05-01"},
		{Type: "ranked", PlayedOn: "2023-05-03"},
		{Type: "casual", PlayedOn: "2023-05-02"},
	} {
		ids[i] = uuid.NewString()
		_, err := store.Put(ctx, ids[i], map[string]any{
			"type":      m.Type,
			"played_on": m.PlayedOn,
		})
		require.NoError(t, err)
	}

	t.Run("get", func(t *testing.T) {
		m, err := store.Get(ctx, ids[0], nil)
		require.NoError(t, err)
		assert.Equal(t, match{ID: ids[0], Type: "ranked", PlayedOn: "2023-05-01"}, m)
	})

	t.Run("get_missing", func(t *testing.T) {
		_, err := store.Get(ctx, uuid.NewString(), nil)
		assert.True(t, relstore.IsNotFound(err))
	})

	t.Run("contains", func(t *testing.T) {
		ok, err := store.Contains(ctx, ids[1])
		require.NoError(t, err)
		assert.True(t, ok)

		ok, err = store.Contains(ctx, uuid.NewString())
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("put_conflict", func(t *testing.T) {
		_, err := store.Put(ctx, ids[0], map[string]any{
			"type":      "ranked",
			"played_on": "2023-06-01",
		})
		assert.True(t, relstore.IsConflict(err))
	})

	t.Run("list_filtered", func(t *testing.T) {
		matches, err := store.List(ctx, visitor.Params{"game_type": "ranked"})
		require.NoError(t, err)
		assert.Len(t, matches, 2)
		for _, m := range matches {
			assert.Equal(t, "ranked", m.Type)
		}
	})

	t.Run("list_ordered", func(t *testing.T) {
		matches, err := store.List(ctx, visitor.Params{"order_by": "-played_on"})
		require.NoError(t, err)
		require.Len(t, matches, 3)
		assert.Equal(t, "2023-05-03", matches[0].PlayedOn)
		assert.Equal(t, "2023-05-01", matches[2].PlayedOn)
	})

	t.Run("list_paginated", func(t *testing.T) {
		matches, err := store.List(ctx, visitor.Params{
			"order_by": "played_on",
			"page":     pagination.Page{PageSize: 2, FirstItem: 1},
		})
		require.NoError(t, err)
		require.Len(t, matches, 2)
		assert.Equal(t, "2023-05-02", matches[0].PlayedOn)
	})

	t.Run("count", func(t *testing.T) {
		n, err := store.Count(ctx, visitor.Params{})
		require.NoError(t, err)
		assert.Equal(t, 3, n)

		n, err = store.Count(ctx, visitor.Params{"starting_at": "2023-05-02"})
		require.NoError(t, err)
		assert.Equal(t, 2, n)
	})

	t.Run("patch", func(t *testing.T) {
		m, err := store.Patch(ctx, ids[2], map[string]any{"type": "ranked"})
		require.NoError(t, err)
		assert.Equal(t, "ranked", m.Type)
		assert.Equal(t, "2023-05-02", m.PlayedOn)

		_, err = store.Patch(ctx, uuid.NewString(), map[string]any{"type": "casual"})
		assert.True(t, relstore.IsNotFound(err))
	})

	t.Run("delete", func(t *testing.T) {
		id := uuid.NewString()
		_, err := store.Put(ctx, id, map[string]any{"type": "casual", "played_on": "2023-07-01"})
		require.NoError(t, err)

		m, err := store.Delete(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, id, m.ID)

		_, err = store.Delete(ctx, id)
		assert.True(t, relstore.IsNotFound(err))
	})
}

// Mapping configuration is immutable after construction, so a single visitor
// chain must serve overlapping requests.
func TestStorageConcurrentReads(t *testing.T) {
	ctx := context.Background()
	drv := openSQLite(t)
	store := newMatchStorage(t, drv)

	for i := 0; i < 10; i++ {
		_, err := store.Put(ctx, uuid.NewString(), map[string]any{
			"type":      "ranked",
			"played_on": fmt.Sprintf("2023-05-%02d", i+1),
		})
		require.NoError(t, err)
	}

	var g errgroup.Group
	for i := 0; i < 8; i++ {
		g.Go(func() error {
			matches, err := store.List(ctx, visitor.Params{"game_type": "ranked"})
			if err != nil {
				return err
			}
			if len(matches) != 10 {
				return fmt.Errorf("got %d matches, want 10", len(matches))
			}
			n, err := store.Count(ctx, visitor.Params{"game_type": "ranked"})
			if err != nil {
				return err
			}
			if n != 10 {
				return fmt.Errorf("got count %d, want 10", n)
			}
			return nil
		})
	}
	require.NoError(t, g.Wait())
}
