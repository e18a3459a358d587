package shoper

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func taxesServer(t *testing.T, taxes []interface{}) *Client {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/taxes") {
			http.NotFound(w, r)
			return
		}
		json.NewEncoder(w).Encode(map[string]interface{}{"list": taxes})
	}))
	t.Cleanup(server.Close)
	return testClient(server.URL)
}

func TestResolveTaxID(t *testing.T) {
	client := taxesServer(t, []interface{}{
		map[string]interface{}{"tax_id": 1.0, "value": "23.00"},
		map[string]interface{}{"tax_id": 2.0, "value": "8.00"},
		map[string]interface{}{"id": 3.0, "name": "5%"},
	})

	// Percent signs and trailing zero decimals compare equal.
	assert.Equal(t, "1", client.ResolveTaxID("23"))
	assert.Equal(t, "1", client.ResolveTaxID("23%"))
	assert.Equal(t, "1", client.ResolveTaxID("23.0"))
	assert.Equal(t, "2", client.ResolveTaxID("8"))
	// Rate hidden in the name, id under the generic key.
	assert.Equal(t, "3", client.ResolveTaxID("5"))
	// No match.
	assert.Equal(t, "", client.ResolveTaxID("19"))
	assert.Equal(t, "", client.ResolveTaxID(""))
}

func TestNormalizeVAT(t *testing.T) {
	assert.Equal(t, "23", normalizeVAT("23.00"))
	assert.Equal(t, "23", normalizeVAT(" 23% "))
	assert.Equal(t, "7.5", normalizeVAT("7.50"))
	assert.Equal(t, "zw", normalizeVAT("ZW")) // non-numeric rate labels
	assert.Equal(t, "", normalizeVAT("  "))
}

func TestRecordID(t *testing.T) {
	assert.Equal(t, "7", recordID(map[string]interface{}{"product_id": 7.0}))
	assert.Equal(t, "9", recordID(map[string]interface{}{"product": map[string]interface{}{"id": 9.0}}))
	assert.Equal(t, "abc", recordID(map[string]interface{}{"id": "abc"}))
	assert.Equal(t, "", recordID(map[string]interface{}{"id": 0.0}))
	assert.Equal(t, "", recordID(map[string]interface{}{"name": "x"}))
}
