package redirects

import "shopsync/internal/models"

// BuildPayloads returns the candidate creation payload shapes for the
// remote redirects endpoint, most likely first. Public docs for these
// deployments vary, so the documented route/type/object_id shape is
// followed by an HTTP-code variant and legacy key-name fallbacks.
func BuildPayloads(source string, code int, targetURL string, targetType models.RedirectTargetType, objectID *int64, langID int) []map[string]interface{} {
	documented := map[string]interface{}{
		"route":   source,
		"type":    int(targetType),
		"lang_id": langID,
	}
	if objectID != nil {
		documented["object_id"] = *objectID
	}
	if targetURL != "" && targetType == models.TargetOwnURL {
		documented["url"] = targetURL
	}

	withCode := make(map[string]interface{}, len(documented)+1)
	for k, v := range documented {
		withCode[k] = v
	}
	withCode["http_code"] = code

	return []map[string]interface{}{
		documented,
		withCode,
		{"source": source, "target": targetURL, "http_code": code},
		{"old_url": source, "new_url": targetURL, "code": code},
		{"from": source, "to": targetURL, "code": code},
	}
}
