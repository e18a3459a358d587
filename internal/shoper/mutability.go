package shoper

import "strings"

// FieldPolicy decides which dotted field paths are safe to send back to the
// remote API. The rule tables are fixed at construction so the policy is a
// pure function of the path string and can be swapped per platform version.
//
// Rule order: explicit block lists win over explicit allow lists, which win
// over pattern rules and the heuristic default.
type FieldPolicy struct {
	readOnlyExact    map[string]struct{}
	readOnlyPrefixes []string
	editableExact    map[string]struct{}
	editablePrefixes []string
	editableMarkers  []string
	systemTokens     []string
}

// DefaultFieldPolicy carries the rule tables for a stock Shoper-style
// product schema: identifiers and audit timestamps never go back, nested
// media/variant/review collections are managed by the platform, stock and
// translation subtrees are writable.
func DefaultFieldPolicy() *FieldPolicy {
	return &FieldPolicy{
		readOnlyExact: stringSet(
			// Identifiers and audit fields.
			"id", "product_id", "order_id", "redirect_id",
			"date_add", "add_date", "date_modified", "edit_date",
			// Computed / statistical fields.
			"average", "votes", "rating", "promo_price",
		),
		readOnlyPrefixes: []string{
			"main_image.", "images.", "image.",
			"attachments.", "variants.", "reviews.",
		},
		editableExact: stringSet(
			"code", "ean", "pkwiu", "vol_weight",
			"tax_id", "producer_id", "unit_id", "category_id",
			"stock.price", "stock.stock", "stock.weight", "stock.active",
		),
		editablePrefixes: []string{
			"translations.", "stock.", "attributes.",
			"safety.", "special_offer.",
		},
		editableMarkers: []string{
			".additional_code",
		},
		systemTokens: []string{
			"_id", "calculated_", "system_", "auto_", "comp_",
		},
	}
}

// IsEditable classifies a dotted path. The path is compared
// case-insensitively with leading/trailing dots trimmed.
func (p *FieldPolicy) IsEditable(path string) bool {
	key := strings.Trim(strings.ToLower(strings.TrimSpace(path)), ".")
	if key == "" {
		return false
	}

	if _, blocked := p.readOnlyExact[key]; blocked {
		return false
	}
	for _, prefix := range p.readOnlyPrefixes {
		if strings.HasPrefix(key, prefix) {
			return false
		}
	}

	if _, allowed := p.editableExact[key]; allowed {
		return true
	}
	for _, prefix := range p.editablePrefixes {
		if strings.HasPrefix(key, prefix) {
			return true
		}
	}
	for _, marker := range p.editableMarkers {
		if strings.Contains(key, marker) {
			return true
		}
	}

	// System-ish paths that nothing whitelisted are assumed read-only.
	for _, token := range p.systemTokens {
		if strings.Contains(key, token) {
			return false
		}
	}

	// Optimistic default: the remote system is the final authority and the
	// write-verify step catches anything it silently ignores.
	return true
}

// FilterEditable splits a flat change set into the fields that may be sent
// and the paths that were dropped by policy.
func (p *FieldPolicy) FilterEditable(changes map[string]interface{}) (map[string]interface{}, []string) {
	allowed := make(map[string]interface{}, len(changes))
	var dropped []string
	for _, key := range sortedKeys(changes) {
		if p.IsEditable(key) {
			allowed[key] = changes[key]
		} else {
			dropped = append(dropped, key)
		}
	}
	return allowed, dropped
}

func stringSet(keys ...string) map[string]struct{} {
	set := make(map[string]struct{}, len(keys))
	for _, k := range keys {
		set[k] = struct{}{}
	}
	return set
}
