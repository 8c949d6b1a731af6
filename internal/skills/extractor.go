// Package skills turns free-text requirement fields into normalized skill tokens.
package skills

import (
	"sort"
	"strings"
)

const minTokenLength = 2

// Extractor tokenizes requirement text and filters the result through a
// known-skills catalog.
type Extractor struct {
	catalog *Catalog
}

// NewExtractor builds an extractor over the given catalog.
func NewExtractor(catalog *Catalog) *Extractor {
	return &Extractor{catalog: catalog}
}

// Extract returns the sorted set of canonical skill names found in the
// given text fields. Single tokens and adjacent-token bigrams are both
// checked against the catalog, so multi-word skill names like
// "Spring Boot" are caught. Returns an empty slice when no text matches.
func (e *Extractor) Extract(texts ...string) []string {
	tokens := tokenize(strings.Join(texts, " "))

	found := make(map[string]struct{})
	for i, tok := range tokens {
		if canonical := e.catalog.Resolve(tok); canonical != "" {
			found[canonical] = struct{}{}
		}
		if i+1 < len(tokens) {
			bigram := tok + " " + tokens[i+1]
			if canonical := e.catalog.Resolve(bigram); canonical != "" {
				found[canonical] = struct{}{}
			}
		}
	}

	result := make([]string, 0, len(found))
	for skill := range found {
		result = append(result, skill)
	}
	sort.Strings(result)
	return result
}

// Normalize resolves already-declared skill names through the catalog,
// keeping unknown entries as upper-cased trimmed strings so explicitly
// listed skills are never silently dropped.
func (e *Extractor) Normalize(declared []string) []string {
	seen := make(map[string]struct{})
	result := make([]string, 0, len(declared))
	for _, s := range declared {
		canonical := e.catalog.Resolve(s)
		if canonical == "" {
			canonical = strings.ToUpper(strings.TrimSpace(s))
		}
		if canonical == "" {
			continue
		}
		if _, ok := seen[canonical]; ok {
			continue
		}
		seen[canonical] = struct{}{}
		result = append(result, canonical)
	}
	sort.Strings(result)
	return result
}

// tokenize splits text on every character that is not a letter, digit or
// hyphen, dropping tokens shorter than two characters. Multi-word names
// are recovered by the bigram pass in Extract.
func tokenize(text string) []string {
	fields := strings.FieldsFunc(text, func(r rune) bool {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return false
		case r == '-':
			return false
		default:
			return true
		}
	})

	tokens := make([]string, 0, len(fields))
	for _, f := range fields {
		if len(f) < minTokenLength {
			continue
		}
		tokens = append(tokens, f)
	}
	return tokens
}
