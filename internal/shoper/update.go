package shoper

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"
)

type UpdateStatus string

const (
	// UpdateConfirmed: every requested field read back with the new value.
	UpdateConfirmed UpdateStatus = "confirmed"
	// UpdatePartial: the remote accepted the write but re-reading shows it
	// ignored part (or all) of it. Never collapsed into plain success.
	UpdatePartial UpdateStatus = "partial"
	// UpdateRejected: no attempt was accepted, or a client error made
	// further attempts pointless.
	UpdateRejected UpdateStatus = "rejected"
)

// UpdateOutcome reports what actually happened to a partial update, field
// by field. Dropped lists paths the mutability policy refused to send.
type UpdateOutcome struct {
	Status    UpdateStatus `json:"status"`
	Confirmed []string     `json:"confirmed"`
	Rejected  []string     `json:"rejected"`
	Dropped   []string     `json:"dropped"`
	Message   string       `json:"message"`
}

// updateAttempt is one (method, payload shape) pair, tried in order.
type updateAttempt struct {
	method    string
	enveloped bool
}

// updateAttempts is the fixed attempt ladder: plain PUT, plain PATCH, then
// PUT with the document wrapped in a resource envelope key.
var updateAttempts = []updateAttempt{
	{method: http.MethodPut},
	{method: http.MethodPatch},
	{method: http.MethodPut, enveloped: true},
}

// fatalStatuses are client errors that no alternative payload shape can
// fix; retrying them would only hammer a guaranteed failure.
var fatalStatuses = map[int]struct{}{
	http.StatusBadRequest:          {},
	http.StatusUnauthorized:        {},
	http.StatusForbidden:           {},
	http.StatusNotFound:            {},
	http.StatusUnprocessableEntity: {},
}

// UpdateRecord sends a flat change set to one remote record and verifies
// what the remote actually applied by re-reading it. The change keys are
// dotted paths; values are the desired new values.
func (c *Client) UpdateRecord(resourcePath, id string, changes map[string]interface{}) UpdateOutcome {
	path := strings.Trim(resourcePath, "/")

	allowed, dropped := c.policy.FilterEditable(changes)
	if len(allowed) == 0 {
		return UpdateOutcome{
			Status:  UpdateRejected,
			Dropped: dropped,
			Message: "no editable fields in change set",
		}
	}

	doc := Unflatten(allowed)

	root, ok := c.resolveRecordRoot(path, id)
	if !ok {
		return UpdateOutcome{
			Status:  UpdateRejected,
			Dropped: dropped,
			Message: fmt.Sprintf("record %s/%s not reachable on any endpoint root", path, id),
		}
	}
	url := root + path + "/" + id

	accepted := false
	var lastDiag string
	for _, attempt := range updateAttempts {
		payload := interface{}(doc)
		if attempt.enveloped {
			payload = map[string]interface{}{envelopeKeyFor(path): doc}
		}

		status, body, err := c.sendJSON(attempt.method, url, payload)
		if err != nil {
			// Transport failure aborts only this attempt.
			lastDiag = fmt.Sprintf("%s %s: %v", attempt.method, url, err)
			c.logger.Debug("update attempt failed: %s", lastDiag)
			continue
		}
		if status >= 200 && status < 300 {
			accepted = true
			lastDiag = fmt.Sprintf("%s %s accepted with HTTP %d", attempt.method, url, status)
			break
		}
		lastDiag = fmt.Sprintf("%s %s: HTTP %d: %v", attempt.method, url, status, body)
		if _, fatal := fatalStatuses[status]; fatal {
			return UpdateOutcome{
				Status:   UpdateRejected,
				Rejected: sortedKeys(allowed),
				Dropped:  dropped,
				Message:  lastDiag,
			}
		}
	}

	if !accepted {
		return UpdateOutcome{
			Status:   UpdateRejected,
			Rejected: sortedKeys(allowed),
			Dropped:  dropped,
			Message:  "all update attempts exhausted: " + lastDiag,
		}
	}

	return c.verifyUpdate(url, allowed, dropped, lastDiag)
}

// verifyUpdate re-reads the record after a settle delay and classifies each
// requested field as confirmed or rejected.
func (c *Client) verifyUpdate(url string, requested map[string]interface{}, dropped []string, diag string) UpdateOutcome {
	if c.settleDelay > 0 {
		time.Sleep(c.settleDelay)
	}

	payload, err := c.getJSON(url)
	record, isMap := payload.(map[string]interface{})
	if err != nil || !isMap {
		return UpdateOutcome{
			Status:   UpdatePartial,
			Rejected: sortedKeys(requested),
			Dropped:  dropped,
			Message:  diag + "; verification read failed, applied state unknown",
		}
	}

	var confirmed, rejected []string
	for _, key := range sortedKeys(requested) {
		actual, _ := DotGet(record, key)
		if valuesEquivalent(actual, requested[key]) {
			confirmed = append(confirmed, key)
		} else {
			rejected = append(rejected, key)
		}
	}

	if len(rejected) == 0 {
		return UpdateOutcome{
			Status:    UpdateConfirmed,
			Confirmed: confirmed,
			Dropped:   dropped,
			Message:   diag + "; all fields confirmed",
		}
	}

	msg := fmt.Sprintf("%s; unconfirmed fields: %s", diag, strings.Join(rejected, ", "))
	if anyPriceField(rejected) {
		msg += " (price fields are often permission-gated on the remote side; check the token's API scopes)"
	}
	return UpdateOutcome{
		Status:    UpdatePartial,
		Confirmed: confirmed,
		Rejected:  rejected,
		Dropped:   dropped,
		Message:   msg,
	}
}

// resolveRecordRoot finds the endpoint root that actually serves this
// record, so the update attempts (where a 4xx is fatal) never run against
// a guessed-wrong root.
func (c *Client) resolveRecordRoot(path, id string) (string, bool) {
	for _, root := range BuildRestRoots(c.conn.BaseURL) {
		payload, err := c.getJSON(root + path + "/" + id)
		if err != nil {
			continue
		}
		if _, ok := payload.(map[string]interface{}); ok {
			return root, true
		}
	}
	return "", false
}

// envelopeKeyFor guesses the wrapper key for the enveloped payload shape.
var envelopeSingulars = map[string]string{
	"products":   "product",
	"orders":     "order",
	"categories": "category",
	"producers":  "producer",
	"taxes":      "tax",
}

func envelopeKeyFor(path string) string {
	last := path
	if idx := strings.LastIndex(path, "/"); idx >= 0 {
		last = path[idx+1:]
	}
	if singular, ok := envelopeSingulars[last]; ok {
		return singular
	}
	return strings.TrimSuffix(last, "s")
}

// valuesEquivalent compares a desired value against what the remote stores,
// coercing across the usual representation drift: numeric strings vs
// numbers, empty string vs null.
func valuesEquivalent(actual, expected interface{}) bool {
	if isEmpty(actual) && isEmpty(expected) {
		return true
	}
	if af, aok := asFloat(actual); aok {
		if ef, eok := asFloat(expected); eok {
			return af == ef
		}
	}
	if ab, aok := actual.(bool); aok {
		if eb, eok := expected.(bool); eok {
			return ab == eb
		}
	}
	return fmt.Sprint(actual) == fmt.Sprint(expected)
}

func isEmpty(v interface{}) bool {
	if v == nil {
		return true
	}
	s, ok := v.(string)
	return ok && s == ""
}

func asFloat(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		return parsed, err == nil
	}
	return 0, false
}

func anyPriceField(paths []string) bool {
	for _, p := range paths {
		if strings.Contains(strings.ToLower(p), "price") {
			return true
		}
	}
	return false
}
