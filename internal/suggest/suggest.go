// Package suggest scans raw records for model spellings the alias
// tables do not recognize and proposes near-miss candidates. Advisory
// only: nothing here feeds back into canonicalization, which stays a
// pure lookup.
package suggest

import (
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/agnivade/levenshtein"

	"github.com/rostrum-dev/rostrum/internal/canonical"
	"github.com/rostrum-dev/rostrum/internal/models"
)

// similarityFloor filters candidates: anything less similar than this
// is noise, not a near miss.
const similarityFloor = 0.6

// maxCandidates bounds the proposals per unknown spelling.
const maxCandidates = 3

// Candidate is one known identifier a spelling might have meant.
type Candidate struct {
	Name       string
	Similarity float64
}

// Finding pairs an unrecognized model spelling with its closest known
// identifiers.
type Finding struct {
	Model      string
	Records    int
	Candidates []Candidate
}

// Scan inspects records for model names that neither the alias table
// nor the catalog knows, and ranks near-miss candidates for each.
// Findings come back most-frequent first.
func Scan(records []models.RawRecord, canon *canonical.Canonicalizer) []Finding {
	vocab := make(map[string]struct{})
	for _, name := range canon.KnownModels() {
		vocab[name] = struct{}{}
	}
	for _, alias := range canon.Aliases() {
		vocab[alias] = struct{}{}
	}

	counts := make(map[string]int)
	for _, rec := range records {
		name := rec.Model
		if name == "" || canon.IsExcluded(name) {
			continue
		}
		if _, ok := vocab[name]; ok {
			continue
		}
		counts[name]++
	}

	known := canon.KnownModels()
	findings := make([]Finding, 0, len(counts))
	for name, n := range counts {
		findings = append(findings, Finding{
			Model:      name,
			Records:    n,
			Candidates: Nearest(name, known),
		})
	}
	sort.Slice(findings, func(i, j int) bool {
		if findings[i].Records != findings[j].Records {
			return findings[i].Records > findings[j].Records
		}
		return findings[i].Model < findings[j].Model
	})
	return findings
}

// Nearest returns the known identifiers most similar to name, best
// first. Identifiers below the similarity floor are dropped.
func Nearest(name string, known []string) []Candidate {
	var out []Candidate
	for _, k := range known {
		s := similarity(name, k)
		if s < similarityFloor {
			continue
		}
		out = append(out, Candidate{Name: k, Similarity: s})
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Similarity != out[j].Similarity {
			return out[i].Similarity > out[j].Similarity
		}
		return out[i].Name < out[j].Name
	})
	if len(out) > maxCandidates {
		out = out[:maxCandidates]
	}
	return out
}

// similarity maps Levenshtein distance onto [0,1], comparing
// case-insensitively since spellings mostly differ in casing and
// punctuation. Operates on runes so multi-byte names measure correctly.
func similarity(a, b string) float64 {
	a = strings.ToLower(a)
	b = strings.ToLower(b)
	if a == b {
		return 1.0
	}

	distance := levenshtein.ComputeDistance(a, b)
	maxLen := utf8.RuneCountInString(a)
	if n := utf8.RuneCountInString(b); n > maxLen {
		maxLen = n
	}
	if maxLen == 0 {
		return 1.0
	}

	s := 1.0 - float64(distance)/float64(maxLen)
	if s < 0 {
		s = 0
	}
	return s
}
