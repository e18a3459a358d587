package shoper

import (
	"fmt"
	"sort"
	"strings"
)

const (
	// maxPages bounds the pagination loop per root so a remote that keeps
	// echoing full pages cannot spin the engine forever.
	maxPages = 100

	// pageSize is the per-page limit requested from the remote.
	pageSize = 50

	// fieldSampleSize caps how many records FetchFields inspects.
	fieldSampleSize = 20
)

// FetchRows fetches records for a resource path, walking pages across the
// candidate REST roots until one of them yields data. limit > 0 truncates
// the result to exactly that many records; limit <= 0 fetches everything
// the remote will page out. Failures are per-attempt: a root that answers
// nothing is skipped, and exhausting every root returns an empty slice,
// never an error.
func (c *Client) FetchRows(resourcePath string, limit int) []map[string]interface{} {
	p := strings.Trim(resourcePath, "/")
	var rows []map[string]interface{}

	for _, root := range BuildRestRoots(c.conn.BaseURL) {
		rootRows, ok := c.fetchRowsFromRoot(root, p, limit)
		if !ok {
			continue
		}
		rows = rootRows
		// A root that produced data is authoritative; later roots would
		// only duplicate or contradict it.
		break
	}

	if limit > 0 && len(rows) > limit {
		rows = rows[:limit]
	}
	return rows
}

// fetchRowsFromRoot pages through one root. ok reports whether this root
// produced any data at all; a first-page failure moves the engine to the
// next root.
func (c *Client) fetchRowsFromRoot(root, path string, limit int) ([]map[string]interface{}, bool) {
	var rows []map[string]interface{}

	for page := 1; page <= maxPages; page++ {
		url := fmt.Sprintf("%s%s?page=%d&limit=%d", root, path, page, pageSize)
		payload, err := c.getJSON(url)
		if err != nil {
			c.logger.Debug("fetch %s: %v", url, err)
			break
		}

		items := ExtractItems(payload)
		if len(items) == 0 {
			break
		}
		rows = append(rows, items...)

		if limit > 0 && len(rows) >= limit {
			break
		}
		if len(items) < pageSize {
			// Short page: heuristic last-page signal.
			break
		}
		if isLastPage(payload, page) {
			break
		}
	}

	return rows, len(rows) > 0
}

// isLastPage inspects pagination metadata ("page"/"pages") when the remote
// provides it.
func isLastPage(payload interface{}, currentPage int) bool {
	env, ok := payload.(map[string]interface{})
	if !ok {
		return false
	}
	pages, ok := asInt(env["pages"])
	if !ok {
		return false
	}
	page, ok := asInt(env["page"])
	if !ok {
		page = currentPage
	}
	return page >= pages
}

func asInt(v interface{}) (int, bool) {
	switch n := v.(type) {
	case float64:
		return int(n), true
	case int:
		return n, true
	case string:
		var parsed int
		if _, err := fmt.Sscanf(n, "%d", &parsed); err == nil {
			return parsed, true
		}
	}
	return 0, false
}

// FetchRecord fetches a single record by id. Roots are tried in order;
// the first one answering with a JSON object wins.
func (c *Client) FetchRecord(resourcePath, id string) (map[string]interface{}, bool) {
	p := strings.Trim(resourcePath, "/")
	for _, root := range BuildRestRoots(c.conn.BaseURL) {
		payload, err := c.getJSON(root + p + "/" + id)
		if err != nil {
			c.logger.Debug("fetch record %s/%s: %v", p, id, err)
			continue
		}
		if record, ok := payload.(map[string]interface{}); ok {
			return record, true
		}
	}
	return nil, false
}

// FetchFields returns the sorted union of flattened attribute keys across a
// sample of the resource's records. Used to discover what a deployment's
// schema actually looks like before configuring a module's columns.
func (c *Client) FetchFields(resourcePath string) []string {
	rows := c.FetchRows(resourcePath, fieldSampleSize)
	if len(rows) == 0 {
		return nil
	}

	seen := make(map[string]struct{})
	for _, row := range rows {
		for key := range Flatten(row) {
			seen[key] = struct{}{}
		}
	}

	fields := make([]string, 0, len(seen))
	for key := range seen {
		fields = append(fields, key)
	}
	sort.Strings(fields)
	return fields
}
