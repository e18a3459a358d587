package redirects

import (
	"fmt"
	"sort"
	"strings"

	"shopsync/internal/shoper"
)

// directPathKeys are checked first on the record itself; translationKeys
// are checked inside each localized translation block.
var directPathKeys = []string{"seo_url", "seo", "url", "slug"}
var translationKeys = []string{"seo", "seo_url", "url", "slug", "name"}

// GuessProductPath returns the best-guess public storefront path for a
// product id by inspecting its remote representation, falling back to the
// conventional /product/{id} pattern.
func GuessProductPath(c *shoper.Client, productID int64) string {
	return guessPath(c, "products", "product", productID)
}

// GuessCategoryPath is the category counterpart of GuessProductPath.
func GuessCategoryPath(c *shoper.Client, categoryID int64) string {
	return guessPath(c, "categories", "category", categoryID)
}

func guessPath(c *shoper.Client, resource, kind string, id int64) string {
	record, ok := c.FetchRecord(resource, fmt.Sprintf("%d", id))
	if ok {
		if path := pathFromRecord(record); path != "" {
			return path
		}
	}
	return fmt.Sprintf("/%s/%d", kind, id)
}

func pathFromRecord(record map[string]interface{}) string {
	for _, key := range directPathKeys {
		if path := ensurePath(stringAt(record, key)); path != "" {
			return path
		}
	}

	translations, ok := record["translations"].(map[string]interface{})
	if !ok {
		return ""
	}
	for _, locale := range localesOf(translations) {
		block, ok := translations[locale].(map[string]interface{})
		if !ok {
			continue
		}
		for _, key := range translationKeys {
			if path := ensurePath(stringAt(block, key)); path != "" {
				return path
			}
		}
	}
	return ""
}

// localesOf orders translation locales: "pl" variants first (the platform's
// home market), then the rest sorted for determinism.
func localesOf(translations map[string]interface{}) []string {
	var preferred, rest []string
	for locale := range translations {
		if locale == "pl" || strings.HasPrefix(locale, "pl_") {
			preferred = append(preferred, locale)
		} else {
			rest = append(rest, locale)
		}
	}
	sort.Strings(preferred)
	sort.Strings(rest)
	return append(preferred, rest...)
}

func stringAt(m map[string]interface{}, key string) string {
	if s, ok := m[key].(string); ok {
		return s
	}
	return ""
}

// ensurePath forces API-provided paths to start with a single slash and
// strips duplicate trailing slashes. Empty input stays empty.
func ensurePath(value string) string {
	s := strings.TrimSpace(value)
	if s == "" {
		return ""
	}
	if !strings.HasPrefix(s, "/") {
		s = "/" + s
	}
	for strings.HasSuffix(s, "//") {
		s = s[:len(s)-1]
	}
	return s
}
