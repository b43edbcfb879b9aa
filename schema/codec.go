package schema

import (
	"bytes"
	"fmt"

	"github.com/vmihailenco/msgpack/v5"
)

// Codec converts between flat column maps and entity values of type T. It is
// the (de)serialization collaborator of the storage facade: Load constructs a
// new entity from request data, LoadPartial overlays a patch onto an existing
// entity, and Dump flattens an entity into the column map an insert needs.
//
// Field-to-column mapping follows msgpack struct tags:
//
//	type Game struct {
//	    ID       int64  `msgpack:"id"`
//	    Type     string `msgpack:"type"`
//	    PlayedOn string `msgpack:"played_on"`
//	}
type Codec[T any] struct{}

// NewCodec returns a codec for T.
func NewCodec[T any]() *Codec[T] {
	return &Codec[T]{}
}

// Load builds a new entity from the given column map. Columns absent from the
// map leave the corresponding field at its zero value.
func (c *Codec[T]) Load(data map[string]any) (T, error) {
	var v T
	if err := c.LoadPartial(data, &v); err != nil {
		return v, err
	}
	return v, nil
}

// LoadPartial overlays the given column map onto an existing entity. Only the
// keys present in data are touched; every other field keeps its current
// value. This is the patch-semantics counterpart of Load.
func (c *Codec[T]) LoadPartial(data map[string]any, into *T) error {
	raw, err := msgpack.Marshal(data)
	if err != nil {
		return fmt.Errorf("schema: encode data: %w", err)
	}
	if err := msgpack.Unmarshal(raw, into); err != nil {
		return fmt.Errorf("schema: load data: %w", err)
	}
	return nil
}

// Dump flattens an entity into its column map.
func (c *Codec[T]) Dump(v T) (map[string]any, error) {
	raw, err := msgpack.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("schema: encode entity: %w", err)
	}
	// Loose decoding widens integers to int64 instead of the smallest
	// fitting type, which is what SQL drivers expect as bind values.
	dec := msgpack.NewDecoder(bytes.NewReader(raw))
	dec.UseLooseInterfaceDecoding(true)
	var data map[string]any
	if err := dec.Decode(&data); err != nil {
		return nil, fmt.Errorf("schema: dump entity: %w", err)
	}
	return data, nil
}
