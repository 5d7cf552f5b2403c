package canonical

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testTables() *Canonicalizer {
	return NewWithTables(
		map[string]string{
			"Llama-3.1-70B-Instruct": "meta-llama/Meta-Llama-3.1-70B-Instruct",
			"LLama-3.1-70B-Instruct": "meta-llama/Meta-Llama-3.1-70B-Instruct",
			"GPT-4o":                 "gpt-4o",
		},
		[]string{"CodeLlama=13B-Instruct", "smoke-test-model"},
		map[string]string{
			"gpt-4o": "https://platform.openai.com/docs/models/gpt-4o",
		},
	)
}

func TestCanonicalize_AliasAndTypoMerge(t *testing.T) {
	c := testTables()
	assert.Equal(t, "meta-llama/Meta-Llama-3.1-70B-Instruct", c.Canonicalize("Llama-3.1-70B-Instruct"))
	assert.Equal(t, "meta-llama/Meta-Llama-3.1-70B-Instruct", c.Canonicalize("LLama-3.1-70B-Instruct"))
}

func TestCanonicalize_UnknownPassesThroughVerbatim(t *testing.T) {
	c := testTables()
	assert.Equal(t, "gpt-4o-2024-08-06", c.Canonicalize("gpt-4o-2024-08-06"))
	assert.Equal(t, " GPT-4o", c.Canonicalize(" GPT-4o"), "no whitespace trimming")
	assert.Equal(t, "gpt-4O", c.Canonicalize("gpt-4O"), "no case folding")
}

func TestCanonicalize_Idempotent(t *testing.T) {
	c, err := New()
	require.NoError(t, err)
	for _, alias := range c.Aliases() {
		once := c.Canonicalize(alias)
		assert.Equal(t, once, c.Canonicalize(once), "canonicalize must be idempotent for %q", alias)
	}
}

func TestIsExcluded_RawAndCanonicalForms(t *testing.T) {
	c := NewWithTables(
		map[string]string{"smoke-alias": "smoke-test-model"},
		[]string{"smoke-test-model"},
		nil,
	)
	assert.True(t, c.IsExcluded("smoke-test-model"), "raw denylisted name")
	assert.True(t, c.IsExcluded("smoke-alias"), "alias of a denylisted name")
	assert.False(t, c.IsExcluded("gpt-4o"))
}

func TestIsExcluded_PreservesQuarantinedTypo(t *testing.T) {
	c, err := New()
	require.NoError(t, err)
	// The stray "=" spelling is quarantined; the corrected spelling is
	// a live alias. Both facts must hold at once.
	assert.True(t, c.IsExcluded("CodeLlama=13B-Instruct"))
	assert.False(t, c.IsExcluded("CodeLlama-13B-Instruct"))
	assert.Equal(t, "codellama/CodeLlama-13b-Instruct-hf", c.Canonicalize("CodeLlama-13B-Instruct"))
}

func TestModelURL_CatalogLookup(t *testing.T) {
	c := testTables()
	assert.Equal(t, "https://platform.openai.com/docs/models/gpt-4o", c.ModelURL("gpt-4o"))
	assert.Equal(t, "", c.ModelURL("meta-llama/Meta-Llama-3.1-70B-Instruct"), "model outside the catalog has no URL")
}

func TestNew_EmbeddedTablesParse(t *testing.T) {
	c, err := New()
	require.NoError(t, err)

	known := c.KnownModels()
	require.NotEmpty(t, known)
	assert.Contains(t, known, "meta-llama/Meta-Llama-3.1-70B-Instruct")
	assert.Contains(t, known, "gpt-4o")

	// Every catalog URL must be absolute.
	for _, name := range known {
		if url := c.ModelURL(name); url != "" {
			assert.True(t, strings.HasPrefix(url, "https://"), "catalog URL for %s: %s", name, url)
		}
	}
}

func TestParseCatalog_ReadsLinkTextAndDestination(t *testing.T) {
	src := []byte("# Catalog\n\n- [model-a](https://example.com/a)\n- [model-b](https://example.com/b)\n")
	urls, err := parseCatalog(src)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{
		"model-a": "https://example.com/a",
		"model-b": "https://example.com/b",
	}, urls)
}

func TestParseCatalog_RejectsConflictingDuplicates(t *testing.T) {
	src := []byte("- [model-a](https://example.com/a)\n- [model-a](https://example.com/other)\n")
	_, err := parseCatalog(src)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "listed twice")
}
