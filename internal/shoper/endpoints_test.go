package shoper

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildRestRootsPrefersExplicitAPISuffix(t *testing.T) {
	roots := BuildRestRoots("https://shop.example.com/webapi/rest")

	require.NotEmpty(t, roots)
	assert.Equal(t, "https://shop.example.com/webapi/rest/", roots[0])
	assert.Equal(t, "https://shop.example.com/webapi/", roots[1])
}

func TestBuildRestRootsNormalizesTrailingSlash(t *testing.T) {
	roots := BuildRestRoots("https://shop.example.com/webapi/rest///")

	assert.Equal(t, "https://shop.example.com/webapi/rest/", roots[0])
}

func TestBuildRestRootsGenericGuesses(t *testing.T) {
	roots := BuildRestRoots("https://shop.example.com")

	assert.Equal(t, []string{
		"https://shop.example.com/webapi/rest/",
		"https://shop.example.com/webapi/",
		"https://shop.example.com/api/rest/",
		"https://shop.example.com/api/",
		"https://shop.example.com/rest/",
		"https://shop.example.com/",
	}, roots)
}

func TestBuildRestRootsAPISuffixAddsRestVariant(t *testing.T) {
	roots := BuildRestRoots("https://shop.example.com/api")

	assert.Equal(t, "https://shop.example.com/api/rest/", roots[0])
	assert.Equal(t, "https://shop.example.com/api/", roots[1])
	// The base already names an API segment, no /api guesses repeated.
	for _, root := range roots[2:] {
		assert.NotContains(t, root, "/api/api")
	}
}

func TestBuildRestRootsNoDuplicates(t *testing.T) {
	for _, base := range []string{
		"https://shop.example.com",
		"https://shop.example.com/",
		"https://shop.example.com/webapi",
		"https://shop.example.com/webapi/rest",
		"https://shop.example.com/api/rest/",
		"https://shop.example.com/rest",
	} {
		roots := BuildRestRoots(base)
		seen := make(map[string]bool)
		for _, root := range roots {
			assert.False(t, seen[root], "duplicate root %q for base %q", root, base)
			seen[root] = true
		}
	}
}

func TestBuildRestRootsDeterministic(t *testing.T) {
	a := BuildRestRoots("https://shop.example.com/webapi")
	b := BuildRestRoots("https://shop.example.com/webapi")
	assert.Equal(t, a, b)
}

func TestBuildRestURL(t *testing.T) {
	url := BuildRestURL("https://shop.example.com/webapi/rest", "/products")
	assert.Equal(t, "https://shop.example.com/webapi/rest/products", url)
}

func TestResolvePath(t *testing.T) {
	assert.Equal(t, "products", ResolvePath("products", ""))
	assert.Equal(t, "custom/path", ResolvePath("products", "custom/path"))
	assert.Equal(t, "", ResolvePath("unknown-resource", ""))
}
