package shoper

import (
	"fmt"
	"strconv"
	"strings"
)

// ResolveTaxID maps a human VAT value ("23", "23%", "23.00") to the remote
// tax id by listing the taxes resource. Returns "" when no rate matches.
func (c *Client) ResolveTaxID(vatValue string) string {
	want := normalizeVAT(vatValue)
	if want == "" {
		return ""
	}

	for _, tax := range c.FetchRows("taxes", 0) {
		if !taxMatches(tax, want) {
			continue
		}
		for _, idKey := range []string{"tax_id", "id"} {
			if id, ok := DotGet(tax, idKey); ok {
				return fmt.Sprint(id)
			}
		}
	}
	return ""
}

func taxMatches(tax map[string]interface{}, want string) bool {
	for _, key := range []string{"value", "rate", "tax", "name"} {
		raw, ok := DotGet(tax, key)
		if !ok {
			continue
		}
		if normalizeVAT(fmt.Sprint(raw)) == want {
			return true
		}
	}
	return false
}

// normalizeVAT strips percent signs and trailing zero decimals so "23",
// "23%", "23.0" and "23.00" all compare equal.
func normalizeVAT(v string) string {
	s := strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(v), "%"))
	if s == "" {
		return ""
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return strconv.FormatFloat(f, 'f', -1, 64)
	}
	return strings.ToLower(s)
}
