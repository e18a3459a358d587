package shoper

import "sort"

// envelopeKeys are the wrapper keys commonly used by remote deployments to
// hold the actual record collection, in priority order.
var envelopeKeys = []string{
	"list", "items", "results", "data",
	"products", "orders", "redirects", "records",
}

// ExtractItems locates a list of record documents inside a payload of
// unknown shape. Lists are filtered to their map elements; maps are probed
// for common envelope keys first, then nested maps and lists one level
// down. Returns an empty slice when nothing resembles a record collection,
// never an error.
func ExtractItems(payload interface{}) []map[string]interface{} {
	switch v := payload.(type) {
	case []interface{}:
		return onlyMaps(v)
	case map[string]interface{}:
		for _, key := range envelopeKeys {
			if got := mapsIn(v[key]); len(got) > 0 {
				return got
			}
		}
		// Recurse into nested values for the first list of maps. Go maps
		// iterate in random order, so scan keys sorted to stay deterministic.
		keys := make([]string, 0, len(v))
		for k := range v {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			switch nested := v[k].(type) {
			case map[string]interface{}:
				if got := ExtractItems(nested); len(got) > 0 {
					return got
				}
			case []interface{}:
				if got := mapsIn(nested); len(got) > 0 {
					return got
				}
			}
		}
	}
	return []map[string]interface{}{}
}

// mapsIn returns the list's map elements when v is a non-empty list whose
// first element is a map, else nil.
func mapsIn(v interface{}) []map[string]interface{} {
	list, ok := v.([]interface{})
	if !ok || len(list) == 0 {
		return nil
	}
	if _, ok := list[0].(map[string]interface{}); !ok {
		return nil
	}
	return onlyMaps(list)
}

func onlyMaps(list []interface{}) []map[string]interface{} {
	out := make([]map[string]interface{}, 0, len(list))
	for _, el := range list {
		if m, ok := el.(map[string]interface{}); ok {
			out = append(out, m)
		}
	}
	return out
}
