package redirects

import (
	"testing"

	"shopsync/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestNormPath(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"  ", ""},
		{"/promo", "/promo"},
		{"promo", "/promo"},
		{"https://shop.example.com/promo/old", "/promo/old"},
		{"http://shop.example.com", "/"},
		{"/promo//", "/promo/"},
		{"/promo////", "/promo/"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, NormPath(tc.in), "input %q", tc.in)
	}
}

func TestParseRemoteRedirectDocumentedShape(t *testing.T) {
	parsed := ParseRemoteRedirect(map[string]interface{}{
		"redirect_id": 12.0,
		"route":       "/old",
		"type":        1.0,
		"object_id":   7.0,
		"http_code":   301.0,
	})

	assert.Equal(t, "/old", parsed.Source)
	assert.Equal(t, "12", parsed.RemoteID)
	assert.Equal(t, int(models.TargetProduct), parsed.TargetType)
	assert.Equal(t, int64(7), parsed.ObjectID)
	assert.Equal(t, 301, parsed.Code)
	// No literal target: synthesized from the typed object.
	assert.Equal(t, "/product/7", parsed.Target)
}

func TestParseRemoteRedirectLegacyKeys(t *testing.T) {
	parsed := ParseRemoteRedirect(map[string]interface{}{
		"id":      "34",
		"old_url": "/was",
		"new_url": "/is",
		"code":    "302",
	})

	assert.Equal(t, "/was", parsed.Source)
	assert.Equal(t, "/is", parsed.Target)
	assert.Equal(t, 302, parsed.Code)
	assert.Equal(t, "34", parsed.RemoteID)
	assert.Equal(t, -1, parsed.TargetType)
}

func TestParseRemoteRedirectInfersTypeFromObjectIDKey(t *testing.T) {
	parsed := ParseRemoteRedirect(map[string]interface{}{
		"source":      "/old-cat",
		"category_id": "19",
	})

	assert.Equal(t, int(models.TargetCategory), parsed.TargetType)
	assert.Equal(t, int64(19), parsed.ObjectID)
	assert.Equal(t, "/category/19", parsed.Target)
}

func TestParseRemoteRedirectStringObjectType(t *testing.T) {
	parsed := ParseRemoteRedirect(map[string]interface{}{
		"source":    "/p",
		"type":      "product",
		"object_id": 3.0,
	})

	assert.Equal(t, int(models.TargetProduct), parsed.TargetType)
	assert.Equal(t, int64(3), parsed.ObjectID)
}

func TestRemoteIDFrom(t *testing.T) {
	assert.Equal(t, "5", remoteIDFrom(map[string]interface{}{"id": 5.0}))
	assert.Equal(t, "8", remoteIDFrom(map[string]interface{}{"redirect_id": "8"}))
	assert.Equal(t, "9", remoteIDFrom(9.0))
	assert.Equal(t, "abc", remoteIDFrom(" abc "))
	assert.Equal(t, "", remoteIDFrom(map[string]interface{}{"ok": true}))
	assert.Equal(t, "", remoteIDFrom(nil))
}
