package shoper

import "strings"

// resourceToPath maps logical resource names to their REST sub-paths.
// Callers can override the path per integration (see ResolvePath).
var resourceToPath = map[string]string{
	"products":    "products",
	"orders":      "orders",
	"categories":  "categories",
	"users":       "users",
	"producers":   "producers",
	"shippings":   "shippings",
	"payments":    "payments",
	"subscribers": "subscribers",
	"taxes":       "taxes",
	"units":       "units",
}

// ResolvePath returns the REST sub-path for a logical resource name,
// preferring an explicit override. Empty string means unknown.
func ResolvePath(resource, override string) string {
	if override != "" {
		return override
	}
	return resourceToPath[resource]
}

// Resources lists the known logical resource names.
func Resources() []string {
	out := make([]string, 0, len(resourceToPath))
	for name := range resourceToPath {
		out = append(out, name)
	}
	return out
}

// BuildRestRoots generates likely REST roots for a base URL, most likely
// first. Every root ends with '/'. The list is de-duplicated and
// deterministic for a given base URL; callers try roots in order until one
// answers.
func BuildRestRoots(baseURL string) []string {
	u := strings.TrimRight(baseURL, "/")
	lowered := strings.ToLower(u)

	seen := make(map[string]struct{})
	var roots []string
	add := func(candidate string) {
		if _, ok := seen[candidate]; !ok {
			roots = append(roots, candidate)
			seen[candidate] = struct{}{}
		}
	}

	normalizedBase := u + "/"

	// Prefer explicit API roots first.
	switch {
	case strings.HasSuffix(lowered, "/webapi/rest"):
		add(normalizedBase)
		add(parentOf(u) + "/") // .../webapi/
	case strings.HasSuffix(lowered, "/webapi"):
		add(u + "/rest/")
		add(u + "/")
	case strings.HasSuffix(lowered, "/api/rest"):
		add(normalizedBase)
		add(parentOf(u) + "/") // .../api/
	case strings.HasSuffix(lowered, "/api"):
		add(u + "/rest/")
		add(u + "/")
	case strings.HasSuffix(lowered, "/rest"):
		add(normalizedBase)
	}

	// Generic guesses when the base URL does not already include an API segment.
	if !strings.Contains(lowered, "/webapi/") && !strings.HasSuffix(lowered, "/webapi") {
		add(u + "/webapi/rest/")
		add(u + "/webapi/")
	}
	if !strings.Contains(lowered, "/api/") && !strings.HasSuffix(lowered, "/api") {
		add(u + "/api/rest/")
		add(u + "/api/")
	}
	if !strings.HasSuffix(lowered, "/rest") && !strings.Contains(lowered, "/rest/") {
		add(u + "/rest/")
	}

	// Finally, fall back to the provided base itself.
	add(normalizedBase)

	return roots
}

// BuildRestURL joins the preferred root with a resource path.
func BuildRestURL(baseURL, path string) string {
	return BuildRestRoots(baseURL)[0] + strings.TrimLeft(path, "/")
}

func parentOf(u string) string {
	if idx := strings.LastIndex(u, "/"); idx > 0 {
		return u[:idx]
	}
	return u
}
