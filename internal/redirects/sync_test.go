package redirects

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"shopsync/internal/logger"
	"shopsync/internal/models"
	"shopsync/internal/shoper"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeRedirectRemote mimics one Shoper-style deployment: it accepts the
// documented payload shape on /redirects, stores entries in its own listing
// schema, and serves product records for storefront path guessing.
type fakeRedirectRemote struct {
	mu           sync.Mutex
	entries      []map[string]interface{}
	payloads     []map[string]interface{}
	products     map[string]map[string]interface{}
	nextID       int
	failCreates  bool
	bareResponse bool // creation response carries no id-like key
	emptyListing bool
}

func (f *fakeRedirectRemote) handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()

		switch {
		case r.Method == http.MethodPost && strings.HasSuffix(r.URL.Path, "/redirects"):
			if f.failCreates {
				w.WriteHeader(http.StatusInternalServerError)
				return
			}
			var payload map[string]interface{}
			if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
				w.WriteHeader(http.StatusBadRequest)
				return
			}
			f.payloads = append(f.payloads, payload)
			f.nextID++
			entry := map[string]interface{}{
				"id":     f.nextID,
				"source": payload["route"],
			}
			for _, key := range []string{"url", "type", "object_id", "http_code"} {
				if v, ok := payload[key]; ok {
					name := key
					if key == "url" {
						name = "target"
					}
					entry[name] = v
				}
			}
			f.entries = append(f.entries, entry)
			if f.bareResponse {
				json.NewEncoder(w).Encode(map[string]interface{}{"success": true})
				return
			}
			json.NewEncoder(w).Encode(map[string]interface{}{"redirect_id": f.nextID})

		case r.Method == http.MethodGet && strings.Contains(r.URL.Path, "/redirects"):
			entries := f.entries
			if f.emptyListing {
				entries = nil
			}
			json.NewEncoder(w).Encode(map[string]interface{}{"list": entries})

		case r.Method == http.MethodGet:
			for id, record := range f.products {
				if strings.HasSuffix(r.URL.Path, "/products/"+id) ||
					strings.HasSuffix(r.URL.Path, "/categories/"+id) {
					json.NewEncoder(w).Encode(record)
					return
				}
			}
			http.NotFound(w, r)

		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		}
	}
}

func newFakeRemote(t *testing.T) (*fakeRedirectRemote, *shoper.Client) {
	t.Helper()
	fake := &fakeRedirectRemote{products: make(map[string]map[string]interface{})}
	server := httptest.NewServer(fake.handler())
	t.Cleanup(server.Close)
	client := shoper.NewClient(
		shoper.Connection{BaseURL: server.URL, BearerToken: "t"},
		logger.New("error"),
		shoper.WithSettleDelay(0),
	)
	return fake, client
}

func TestSyncRuleURLToURL(t *testing.T) {
	fake, client := newFakeRemote(t)
	rule := &models.RedirectRule{
		RuleType:   models.RuleURLToURL,
		SourceURL:  "https://shop.example.com/old",
		TargetURL:  "new",
		StatusCode: 301,
	}

	result := SyncRule(client, rule)

	require.True(t, result.OK)
	assert.Equal(t, LevelSynced, result.Level)
	assert.Equal(t, "/old", rule.SourceURL)
	assert.Equal(t, "/new", rule.TargetURL)
	assert.Equal(t, "1", rule.RemoteID)
	assert.NotNil(t, rule.LastSyncAt)
	assert.NotEmpty(t, rule.LastSyncStatus)

	// The documented payload shape was accepted on the first attempt.
	require.NotEmpty(t, fake.payloads)
	assert.Equal(t, "/old", fake.payloads[0]["route"])
	assert.Equal(t, "/new", fake.payloads[0]["url"])
}

func TestSyncRuleProductTarget(t *testing.T) {
	fake, client := newFakeRemote(t)
	fake.products["7"] = map[string]interface{}{
		"translations": map[string]interface{}{
			"pl_PL": map[string]interface{}{"seo": "gadzet"},
		},
	}
	productID := int64(7)
	rule := &models.RedirectRule{
		RuleType:   models.RuleProductToURL,
		SourceURL:  "/old-product",
		ProductID:  &productID,
		StatusCode: 301,
	}

	result := SyncRule(client, rule)

	require.True(t, result.OK)
	assert.Equal(t, LevelSynced, result.Level)
	assert.Equal(t, models.TargetProduct, rule.TargetType)
	require.NotNil(t, rule.TargetObjectID)
	assert.Equal(t, int64(7), *rule.TargetObjectID)
	// Display target is the storefront path, not the /product/7 placeholder.
	assert.Equal(t, "/gadzet", rule.TargetURL)

	// Typed rules go out with an object id, never a literal url.
	require.NotEmpty(t, fake.payloads)
	assert.Equal(t, float64(7), fake.payloads[0]["object_id"])
	_, hasURL := fake.payloads[0]["url"]
	assert.False(t, hasURL)
}

func TestSyncRuleProductSourceDerivedFromStorefront(t *testing.T) {
	fake, client := newFakeRemote(t)
	fake.products["7"] = map[string]interface{}{"seo_url": "gadzet"}
	productID := int64(7)
	rule := &models.RedirectRule{
		RuleType:   models.RuleProductToURL,
		ProductID:  &productID,
		StatusCode: 301,
	}

	result := SyncRule(client, rule)

	require.True(t, result.OK)
	assert.Equal(t, "/gadzet", rule.SourceURL)
}

func TestSyncRuleAcceptedButAbsentIsWarning(t *testing.T) {
	fake, client := newFakeRemote(t)
	fake.bareResponse = true
	fake.emptyListing = true
	rule := &models.RedirectRule{
		RuleType:   models.RuleURLToURL,
		SourceURL:  "/old",
		TargetURL:  "/new",
		StatusCode: 301,
	}

	result := SyncRule(client, rule)

	assert.False(t, result.OK)
	assert.Equal(t, LevelWarning, result.Level)
	assert.Contains(t, result.Message, "absent from the listing")
	// Tracking state still persisted for the retry.
	assert.NotNil(t, rule.LastSyncAt)
	assert.NotEmpty(t, rule.LastSyncStatus)
}

func TestSyncRuleMissingSourceIsError(t *testing.T) {
	_, client := newFakeRemote(t)
	rule := &models.RedirectRule{RuleType: models.RuleURLToURL, TargetURL: "/new", StatusCode: 301}

	result := SyncRule(client, rule)

	assert.Equal(t, LevelError, result.Level)
	assert.Contains(t, result.Message, "cannot determine source")
}

func TestSyncRuleProductRuleRequiresID(t *testing.T) {
	_, client := newFakeRemote(t)
	rule := &models.RedirectRule{
		RuleType:   models.RuleProductToURL,
		SourceURL:  "/old",
		StatusCode: 301,
	}

	result := SyncRule(client, rule)

	assert.Equal(t, LevelError, result.Level)
	assert.Contains(t, result.Message, "product rules require a product id")
}

func TestSyncRuleCreateFailureKeepsTracking(t *testing.T) {
	fake, client := newFakeRemote(t)
	fake.failCreates = true
	rule := &models.RedirectRule{
		RuleType:   models.RuleURLToURL,
		SourceURL:  "/old",
		TargetURL:  "/new",
		StatusCode: 301,
	}

	result := SyncRule(client, rule)

	assert.Equal(t, LevelError, result.Level)
	assert.Contains(t, result.Message, "sync failed")
	assert.NotNil(t, rule.LastSyncAt)
	assert.NotEmpty(t, rule.LastSyncStatus)
}

func TestSyncRuleResyncIsIdempotent(t *testing.T) {
	_, client := newFakeRemote(t)
	rule := &models.RedirectRule{
		RuleType:   models.RuleURLToURL,
		SourceURL:  "/old",
		TargetURL:  "/new",
		StatusCode: 301,
	}

	first := SyncRule(client, rule)
	second := SyncRule(client, rule)

	assert.Equal(t, LevelSynced, first.Level)
	assert.Equal(t, LevelSynced, second.Level)
	assert.NotEmpty(t, rule.RemoteID)
}
