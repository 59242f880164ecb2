// Package diff implements the pure state comparison engine. It compares
// two project states and produces a structured diff usable for both a
// one-line summary and a field-level expanded view. It has no storage
// dependency.
package diff

import (
	"bytes"
	"encoding/json"
)

// structuralEqual reports whether two values are equal under their JSON
// form, with object key order ignored and array element order respected.
// Serialization failures fail open: the values report as different.
func structuralEqual(a, b any) bool {
	ta, ok := toTree(a)
	if !ok {
		return false
	}
	tb, ok := toTree(b)
	if !ok {
		return false
	}
	return treeEqual(ta, tb)
}

// toTree normalizes a value into the generic JSON tree form.
func toTree(v any) (any, bool) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, false
	}
	var tree any
	if err := json.Unmarshal(data, &tree); err != nil {
		return nil, false
	}
	return tree, true
}

func treeEqual(a, b any) bool {
	switch va := a.(type) {
	case map[string]any:
		vb, ok := b.(map[string]any)
		if !ok || len(va) != len(vb) {
			return false
		}
		for k, av := range va {
			bv, ok := vb[k]
			if !ok || !treeEqual(av, bv) {
				return false
			}
		}
		return true
	case []any:
		vb, ok := b.([]any)
		if !ok || len(va) != len(vb) {
			return false
		}
		for i := range va {
			if !treeEqual(va[i], vb[i]) {
				return false
			}
		}
		return true
	default:
		return a == b
	}
}

// rawEqual compares two values by their serialized JSON bytes. Used for
// opaque values where there is no schema to normalize against; a marshal
// failure fails open to unequal.
func rawEqual(a, b any) bool {
	da, err := json.Marshal(a)
	if err != nil {
		return false
	}
	db, err := json.Marshal(b)
	if err != nil {
		return false
	}
	return bytes.Equal(da, db)
}
