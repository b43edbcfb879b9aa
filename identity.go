package relstore

import "reflect"

// Identity is an entity's primary-key value, normalized to an ordered tuple of
// components so that single- and composite-key entities are handled uniformly.
type Identity []any

// NormalizeIdentity converts an identity value into its tuple form. Scalars are
// wrapped into a 1-tuple; slices and arrays pass through element-wise. Strings
// and byte slices are treated as scalars, not as sequences.
func NormalizeIdentity(v any) Identity {
	switch x := v.(type) {
	case nil:
		return nil
	case Identity:
		return x
	case []any:
		return Identity(x)
	case string, []byte:
		return Identity{x}
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		id := make(Identity, rv.Len())
		for i := range id {
			id[i] = rv.Index(i).Interface()
		}
		return id
	default:
		return Identity{v}
	}
}
