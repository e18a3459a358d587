package shoper

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// DotGet walks a nested document along a dotted path ("stock.price",
// "images.0.url"). Map segments are looked up by key, list segments are
// interpreted as integer indexes. Any type mismatch, missing key or
// out-of-range index yields (nil, false); it never panics. Empty paths and
// empty segments are not found.
func DotGet(doc interface{}, path string) (interface{}, bool) {
	trimmed := strings.Trim(path, ".")
	if trimmed == "" {
		return nil, false
	}

	current := doc
	for _, segment := range strings.Split(trimmed, ".") {
		if segment == "" {
			continue
		}
		switch v := current.(type) {
		case map[string]interface{}:
			next, ok := v[segment]
			if !ok {
				return nil, false
			}
			current = next
		case []interface{}:
			idx, err := strconv.Atoi(segment)
			if err != nil || idx < 0 || idx >= len(v) {
				return nil, false
			}
			current = v[idx]
		default:
			return nil, false
		}
	}
	return current, true
}

// listPreviewLimit caps how many list elements the flattened preview joins.
const listPreviewLimit = 5

// Flatten projects a nested document onto dotted keys. Maps recurse into
// parent.child keys; lists are rendered as a comma-joined preview of their
// first few elements under the list's own key rather than exploded into
// indexed keys. That projection is display-oriented and intentionally lossy
// for lists; map/scalar documents round-trip through Unflatten.
func Flatten(doc interface{}) map[string]interface{} {
	out := make(map[string]interface{})
	flattenInto("", doc, out)
	return out
}

func flattenInto(prefix string, v interface{}, out map[string]interface{}) {
	switch val := v.(type) {
	case map[string]interface{}:
		for k, child := range val {
			key := k
			if prefix != "" {
				key = prefix + "." + k
			}
			flattenInto(key, child, out)
		}
	case []interface{}:
		out[prefix] = joinPreview(val)
	default:
		out[prefix] = v
	}
}

func joinPreview(list []interface{}) string {
	n := len(list)
	if n > listPreviewLimit {
		n = listPreviewLimit
	}
	parts := make([]string, n)
	for i := 0; i < n; i++ {
		parts[i] = fmt.Sprint(list[i])
	}
	return strings.Join(parts, ",")
}

// Unflatten rebuilds a nested document from dotted keys, creating
// intermediate maps as needed. When a flat map implies a path is both a
// leaf and an intermediate node, the conflicting key is silently dropped
// (last write wins); callers producing such maps get no error. Keys are
// applied in sorted order so the result is deterministic.
func Unflatten(flat map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{})
	for _, key := range sortedKeys(flat) {
		segments := strings.Split(strings.Trim(key, "."), ".")
		if len(segments) == 0 || segments[0] == "" {
			continue
		}
		node := out
		ok := true
		for _, segment := range segments[:len(segments)-1] {
			child, exists := node[segment]
			if !exists {
				next := make(map[string]interface{})
				node[segment] = next
				node = next
				continue
			}
			next, isMap := child.(map[string]interface{})
			if !isMap {
				ok = false
				break
			}
			node = next
		}
		if ok {
			node[segments[len(segments)-1]] = flat[key]
		}
	}
	return out
}

func sortedKeys(m map[string]interface{}) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
