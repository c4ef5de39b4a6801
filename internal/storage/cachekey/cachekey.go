// Package cachekey derives stable cache keys from query parameters.
//
// A key is the MD5 digest of "namespace:scopeID:params" where params is the
// canonical JSON form of the parameter map. Two maps that are equal as sets
// of key/value pairs always canonicalize to the same string, so the derived
// key is deterministic across processes. The digest is an identifier, not a
// security boundary.
package cachekey

import (
	"crypto/md5"
	"encoding/json"
	"fmt"
)

// Derive computes the cache key for a namespaced, scoped parameter set.
// A nil params map derives the same key as an empty one.
func Derive(namespace, scopeID string, params map[string]any) string {
	sum := md5.Sum([]byte(namespace + ":" + scopeID + ":" + Canonical(params)))
	return fmt.Sprintf("%x", sum)
}

// Canonical returns the canonical JSON form of params: object keys sorted
// lexicographically at every nesting level. encoding/json already emits map
// keys in sorted order, so a marshal round-trip through generic values yields
// a stable string regardless of how the map was built.
func Canonical(params map[string]any) string {
	if params == nil {
		params = map[string]any{}
	}
	data, err := json.Marshal(params)
	if err != nil {
		// Parameter maps are built from scalars, slices, and nested maps;
		// anything unmarshalable is a programming error worth surfacing in
		// the key rather than silently colliding.
		return fmt.Sprintf("unmarshalable:%v", err)
	}
	return string(data)
}
