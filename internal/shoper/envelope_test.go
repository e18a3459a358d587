package shoper

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decode(t *testing.T, raw string) interface{} {
	t.Helper()
	var payload interface{}
	require.NoError(t, json.Unmarshal([]byte(raw), &payload))
	return payload
}

func TestExtractItemsFromEnvelopeKey(t *testing.T) {
	payload := decode(t, `{"list": [{"a": 1}], "other": "x"}`)

	items := ExtractItems(payload)
	require.Len(t, items, 1)
	assert.Equal(t, 1.0, items[0]["a"])
}

func TestExtractItemsFromBareList(t *testing.T) {
	payload := decode(t, `[{"a": 1}, {"a": 2}]`)

	items := ExtractItems(payload)
	require.Len(t, items, 2)
	assert.Equal(t, 1.0, items[0]["a"])
	assert.Equal(t, 2.0, items[1]["a"])
}

func TestExtractItemsFiltersNonMapElements(t *testing.T) {
	payload := decode(t, `[{"a": 1}, "noise", 7, {"a": 2}]`)

	items := ExtractItems(payload)
	assert.Len(t, items, 2)
}

func TestExtractItemsNothingResemblesRecords(t *testing.T) {
	assert.Empty(t, ExtractItems(decode(t, `{"foo": "bar"}`)))
	assert.Empty(t, ExtractItems(decode(t, `"just a string"`)))
	assert.Empty(t, ExtractItems(decode(t, `{"count": 5, "page": 1}`)))
	assert.Empty(t, ExtractItems(nil))
}

func TestExtractItemsEnvelopeKeyPriority(t *testing.T) {
	payload := decode(t, `{
		"data": [{"from": "data"}],
		"list": [{"from": "list"}]
	}`)

	items := ExtractItems(payload)
	require.Len(t, items, 1)
	assert.Equal(t, "list", items[0]["from"])
}

func TestExtractItemsRecursesIntoNestedMaps(t *testing.T) {
	payload := decode(t, `{"response": {"items": [{"id": 1}]}}`)

	items := ExtractItems(payload)
	require.Len(t, items, 1)
	assert.Equal(t, 1.0, items[0]["id"])
}

func TestExtractItemsFindsNestedListOfMaps(t *testing.T) {
	payload := decode(t, `{"weird_key": [{"id": 9}], "count": 1}`)

	items := ExtractItems(payload)
	require.Len(t, items, 1)
	assert.Equal(t, 9.0, items[0]["id"])
}

func TestExtractItemsSkipsEmptyEnvelopeValues(t *testing.T) {
	payload := decode(t, `{"list": [], "results": [{"id": 3}]}`)

	items := ExtractItems(payload)
	require.Len(t, items, 1)
	assert.Equal(t, 3.0, items[0]["id"])
}
