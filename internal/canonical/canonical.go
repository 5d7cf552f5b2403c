// Package canonical resolves model identifier spellings to canonical
// identifiers and enforces the curators' denylist. All tables are
// static data embedded in the binary, parsed once and injected; the
// resolution functions are pure lookups.
package canonical

import (
	_ "embed"
	"fmt"
	"sort"

	"gopkg.in/yaml.v3"
)

//go:embed aliases.yaml
var aliasesYAML []byte

//go:embed models.md
var catalogMarkdown []byte

type aliasTables struct {
	Aliases  map[string]string `yaml:"aliases"`
	Excluded []string          `yaml:"excluded"`
}

// Canonicalizer maps model spellings to canonical identifiers, checks
// the denylist, and looks up catalog URLs. Immutable after
// construction and safe for concurrent use.
type Canonicalizer struct {
	aliases  map[string]string
	excluded map[string]struct{}
	urls     map[string]string
}

// New builds a Canonicalizer from the embedded alias table and model
// catalog.
func New() (*Canonicalizer, error) {
	var t aliasTables
	if err := yaml.Unmarshal(aliasesYAML, &t); err != nil {
		return nil, fmt.Errorf("parsing embedded alias table: %w", err)
	}
	urls, err := parseCatalog(catalogMarkdown)
	if err != nil {
		return nil, fmt.Errorf("parsing embedded model catalog: %w", err)
	}
	return NewWithTables(t.Aliases, t.Excluded, urls), nil
}

// NewWithTables builds a Canonicalizer from explicit tables. Tests use
// this to supply small fixtures.
func NewWithTables(aliases map[string]string, excluded []string, urls map[string]string) *Canonicalizer {
	c := &Canonicalizer{
		aliases:  make(map[string]string, len(aliases)),
		excluded: make(map[string]struct{}, len(excluded)),
		urls:     make(map[string]string, len(urls)),
	}
	for alias, canon := range aliases {
		c.aliases[alias] = canon
	}
	for _, name := range excluded {
		c.excluded[name] = struct{}{}
	}
	for name, url := range urls {
		c.urls[name] = url
	}
	return c
}

// Canonicalize maps a model spelling to its canonical identifier. A
// name absent from the alias table is already canonical and comes back
// unchanged. No trimming, case folding, or fuzzy matching happens
// here: version-bearing suffixes must never be conflated.
func (c *Canonicalizer) Canonicalize(name string) string {
	if canon, ok := c.aliases[name]; ok {
		return canon
	}
	return name
}

// IsExcluded reports whether a model is denylisted. Both the raw
// spelling and its canonical form are checked, so an alias of a
// quarantined model is quarantined too.
func (c *Canonicalizer) IsExcluded(name string) bool {
	if _, ok := c.excluded[name]; ok {
		return true
	}
	_, ok := c.excluded[c.Canonicalize(name)]
	return ok
}

// ModelURL returns the catalog URL for a canonical identifier, or the
// empty string for a model outside the catalog.
func (c *Canonicalizer) ModelURL(canonical string) string {
	return c.urls[canonical]
}

// KnownModels returns every canonical identifier the tables mention
// (alias targets plus catalog entries), sorted.
func (c *Canonicalizer) KnownModels() []string {
	seen := make(map[string]struct{}, len(c.urls))
	for _, canon := range c.aliases {
		seen[canon] = struct{}{}
	}
	for name := range c.urls {
		seen[name] = struct{}{}
	}
	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Aliases returns the alias spellings the table maps, sorted. The
// doctor command uses this to tell "unknown" from "known under another
// spelling".
func (c *Canonicalizer) Aliases() []string {
	names := make([]string, 0, len(c.aliases))
	for alias := range c.aliases {
		names = append(names, alias)
	}
	sort.Strings(names)
	return names
}
