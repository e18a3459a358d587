package redirects

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"shopsync/internal/models"
	"shopsync/internal/shoper"
)

// createSubPaths are the endpoint sub-paths tried when creating a redirect.
var createSubPaths = []string{"redirects", "seo/redirects"}

// listSubPaths are the candidates tried when listing existing redirects.
var listSubPaths = []string{"redirects", "seo/redirects", "redirects/list"}

// listLimit bounds how many remote entries a verification listing pulls.
const listLimit = 500

// CreateResult reports one creation attempt sweep: whether any
// (root, sub-path, payload shape) combination was accepted, the remote id
// when one was discoverable in the response, the URL that accepted the
// write, and the last failure diagnostic otherwise.
type CreateResult struct {
	OK       bool
	RemoteID string
	URL      string
	Message  string
}

// PostRedirect tries the candidate payloads against every endpoint root and
// creation sub-path, in order, stopping at the first success. A client
// error on one combination is not fatal here: the whole point of the sweep
// is that most combinations are wrong for any given deployment.
func PostRedirect(c *shoper.Client, payloads []map[string]interface{}) CreateResult {
	last := "no endpoint roots produced a response"
	for _, root := range c.Roots() {
		for _, sub := range createSubPaths {
			endpoint := root + sub
			for _, payload := range payloads {
				status, body, err := c.PostJSON(endpoint, payload)
				if err != nil {
					last = fmt.Sprintf("%v @ %s", err, endpoint)
					continue
				}
				if status >= 200 && status < 300 {
					return CreateResult{
						OK:       true,
						RemoteID: remoteIDFrom(body),
						URL:      endpoint,
						Message:  fmt.Sprintf("OK %d", status),
					}
				}
				last = fmt.Sprintf("HTTP %d: %.300v @ %s", status, body, endpoint)
			}
		}
	}
	return CreateResult{Message: last}
}

// remoteIDFrom digs an identifier out of a creation response: common
// id-like keys, or a bare integer/string body.
func remoteIDFrom(body interface{}) string {
	switch v := body.(type) {
	case map[string]interface{}:
		for _, key := range []string{"id", "redirect_id", "uuid"} {
			if raw, ok := v[key]; ok && raw != nil {
				return fmt.Sprint(raw)
			}
		}
	case float64:
		return strconv.FormatInt(int64(v), 10)
	case string:
		if strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	return ""
}

// ListRedirects fetches existing remote redirects, trying roots and
// sub-path variants until one yields entries.
func ListRedirects(c *shoper.Client, limit int) []map[string]interface{} {
	for _, root := range c.Roots() {
		for _, sub := range listSubPaths {
			candidates := []string{
				fmt.Sprintf("%s%s?limit=%d", root, sub, limit),
				root + sub,
			}
			for _, u := range candidates {
				payload, err := c.GetJSON(u)
				if err != nil {
					continue
				}
				if items := shoper.ExtractItems(payload); len(items) > 0 {
					return items
				}
			}
		}
	}
	return nil
}

// RemoteRedirect is the best-effort parse of one remote entry. Remote
// schemas vary, so every field is inferred independently from several
// candidate key names; TargetType is -1 when the entry carries no usable
// type information and ObjectID is 0 when absent.
type RemoteRedirect struct {
	Source     string
	Target     string
	Code       int
	RemoteID   string
	TargetType int
	ObjectID   int64
}

var sourceKeys = []string{
	"source", "old_url", "from", "url", "source_url",
	"prev_url", "from_url", "previous_url", "route",
}

var targetKeys = []string{
	"target", "new_url", "to", "target_url", "redirect_url",
}

// ParseRemoteRedirect extracts (source, target, code, id, type, object id)
// from one remote entry. When the remote omits a literal target but names
// a product/category, a synthetic /product/{id} or /category/{id} target
// path is derived so matching can still work.
func ParseRemoteRedirect(item map[string]interface{}) RemoteRedirect {
	parsed := RemoteRedirect{TargetType: -1}

	parsed.Source = firstString(item, sourceKeys)
	parsed.Target = firstString(item, targetKeys)

	prodID := firstInt(item, []string{"product_id", "productId", "target_product_id"})
	catID := firstInt(item, []string{"category_id", "categoryId", "target_category_id"})
	objID := firstInt(item, []string{"object_id", "objectId"})

	if rawType, ok := item["type"]; ok {
		if n, isNum := asInt64(rawType); isNum {
			parsed.TargetType = int(n)
		}
	}
	objType := strings.ToLower(firstString(item, []string{"type", "object_type"}))
	if parsed.TargetType < 0 {
		switch {
		case strings.Contains(objType, "product"):
			parsed.TargetType = int(models.TargetProduct)
		case strings.Contains(objType, "category"):
			parsed.TargetType = int(models.TargetCategory)
		}
	}

	switch {
	case prodID != 0:
		parsed.ObjectID = prodID
		if parsed.TargetType < 0 {
			parsed.TargetType = int(models.TargetProduct)
		}
	case catID != 0:
		parsed.ObjectID = catID
		if parsed.TargetType < 0 {
			parsed.TargetType = int(models.TargetCategory)
		}
	case objID != 0:
		parsed.ObjectID = objID
	}

	if parsed.Target == "" && parsed.ObjectID != 0 {
		switch parsed.TargetType {
		case int(models.TargetProduct):
			parsed.Target = fmt.Sprintf("/product/%d", parsed.ObjectID)
		case int(models.TargetCategory):
			parsed.Target = fmt.Sprintf("/category/%d", parsed.ObjectID)
		}
	}

	if code, ok := firstIntOK(item, []string{"http_code", "code", "status"}); ok {
		parsed.Code = int(code)
	}
	for _, key := range []string{"id", "redirect_id", "uuid"} {
		if raw, ok := item[key]; ok && raw != nil {
			parsed.RemoteID = fmt.Sprint(raw)
			break
		}
	}
	return parsed
}

// NormPath normalizes a path or full URL for comparison: strip scheme and
// host, force a single leading slash, drop duplicate trailing slashes.
func NormPath(urlLike string) string {
	s := strings.TrimSpace(urlLike)
	if s == "" {
		return ""
	}
	if strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://") {
		if parsed, err := url.Parse(s); err == nil {
			s = parsed.Path
			if s == "" {
				s = "/"
			}
		}
	}
	if !strings.HasPrefix(s, "/") {
		s = "/" + s
	}
	for len(s) > 1 && strings.HasSuffix(s, "//") {
		s = s[:len(s)-1]
	}
	return s
}

// MatchSpec describes what a remote entry must look like to count as the
// same redirect as a local intent.
type MatchSpec struct {
	Source     string
	Target     string
	TargetType models.RedirectTargetType
	ObjectID   *int64
	RemoteID   string
}

// WasRedirectCreated verifies by listing whether a redirect matching the
// intent exists remotely. An entry matches on source path plus either a
// literal target match, a type+object-id match, or the tracked remote id.
func WasRedirectCreated(c *shoper.Client, spec MatchSpec) (bool, *RemoteRedirect) {
	wantSrc := NormPath(spec.Source)
	wantTgt := NormPath(spec.Target)

	for _, item := range ListRedirects(c, listLimit) {
		parsed := ParseRemoteRedirect(item)
		if spec.RemoteID != "" && parsed.RemoteID == spec.RemoteID {
			return true, &parsed
		}
		if NormPath(parsed.Source) != wantSrc {
			continue
		}
		if wantTgt != "" && NormPath(parsed.Target) == wantTgt {
			return true, &parsed
		}
		if spec.ObjectID != nil && parsed.ObjectID == *spec.ObjectID &&
			parsed.TargetType == int(spec.TargetType) {
			return true, &parsed
		}
	}
	return false, nil
}

func firstString(item map[string]interface{}, keys []string) string {
	for _, key := range keys {
		if raw, ok := item[key]; ok {
			if s, isStr := raw.(string); isStr && strings.TrimSpace(s) != "" {
				return strings.TrimSpace(s)
			}
		}
	}
	return ""
}

func firstInt(item map[string]interface{}, keys []string) int64 {
	n, _ := firstIntOK(item, keys)
	return n
}

func firstIntOK(item map[string]interface{}, keys []string) (int64, bool) {
	for _, key := range keys {
		if raw, ok := item[key]; ok {
			if n, isNum := asInt64(raw); isNum {
				return n, true
			}
		}
	}
	return 0, false
}

func asInt64(v interface{}) (int64, bool) {
	switch n := v.(type) {
	case float64:
		return int64(n), true
	case int:
		return int64(n), true
	case int64:
		return n, true
	case string:
		parsed, err := strconv.ParseInt(strings.TrimSpace(n), 10, 64)
		if err != nil {
			return 0, false
		}
		return parsed, true
	}
	return 0, false
}
