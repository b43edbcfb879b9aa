package schema_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/relstore/relstore/schema"
)

type game struct {
	ID       int64  `msgpack:"id"`
	Type     string `msgpack:"type"`
	PlayedOn string `msgpack:"played_on"`
}

func TestCodecLoad(t *testing.T) {
	codec := schema.NewCodec[game]()

	g, err := codec.Load(map[string]any{
		"id":        int64(1),
		"type":      "ranked",
		"played_on": "2023-05-01",
	})
	require.NoError(t, err)
	assert.Equal(t, game{ID: 1, Type: "ranked", PlayedOn: "2023-05-01"}, g)
}

func TestCodecLoadPartial(t *testing.T) {
	codec := schema.NewCodec[game]()

	g := game{ID: 1, Type: "ranked", PlayedOn: "2023-05-01"}
	err := codec.LoadPartial(map[string]any{"type": "casual"}, &g)
	require.NoError(t, err)

	// Only the supplied key is overlaid; other fields keep their values.
	assert.Equal(t, game{ID: 1, Type: "casual", PlayedOn: "2023-05-01"}, g)
}

func TestCodecDump(t *testing.T) {
	codec := schema.NewCodec[game]()

	data, err := codec.Dump(game{ID: 2, Type: "ranked", PlayedOn: "2023-05-02"})
	require.NoError(t, err)
	assert.EqualValues(t, 2, data["id"])
	assert.Equal(t, "ranked", data["type"])
	assert.Equal(t, "2023-05-02", data["played_on"])
}

func TestCodecRoundTrip(t *testing.T) {
	codec := schema.NewCodec[game]()

	in := game{ID: 3, Type: "casual", PlayedOn: "2023-06-01"}
	data, err := codec.Dump(in)
	require.NoError(t, err)

	out, err := codec.Load(data)
	require.NoError(t, err)
	assert.Equal(t, in, out)
}
