// Package keywords derives searchable terms from abstract text.
//
// Extraction is deterministic: identical input always yields an identical
// ordered keyword list, which is what makes index reloads idempotent.
package keywords

import (
	"regexp"
	"sort"
	"strings"
)

// DefaultTopK is the number of keywords kept per abstract.
const DefaultTopK = 10

// minTokenLength filters out short tokens after stopword removal.
const minTokenLength = 3

// stopwords are never indexed. The set covers common English function
// words plus boilerplate that dominates paper abstracts.
var stopwords = map[string]bool{
	"the": true, "a": true, "an": true, "and": true, "or": true,
	"but": true, "in": true, "on": true, "at": true, "to": true,
	"for": true, "of": true, "with": true, "by": true, "from": true,
	"up": true, "about": true, "into": true, "through": true,
	"during": true, "is": true, "are": true, "was": true, "were": true,
	"be": true, "been": true, "being": true, "have": true, "has": true,
	"had": true, "do": true, "does": true, "did": true, "will": true,
	"would": true, "could": true, "should": true, "may": true,
	"might": true, "can": true, "this": true, "that": true,
	"these": true, "those": true, "we": true, "our": true, "use": true,
	"using": true, "based": true, "approach": true, "method": true,
	"paper": true, "propose": true, "proposed": true, "show": true,
}

// tokenRe matches a maximal run starting with a letter, followed by
// letters, digits, or hyphens.
var tokenRe = regexp.MustCompile(`[A-Za-z][A-Za-z0-9\-]*`)

// Tokenize splits text into lowercased tokens.
func Tokenize(text string) []string {
	matches := tokenRe.FindAllString(text, -1)
	tokens := make([]string, len(matches))
	for i, m := range matches {
		tokens[i] = strings.ToLower(m)
	}
	return tokens
}

// Extract returns the topK most frequent non-stopword tokens of length
// >= 3 from the abstract, most frequent first. Ties rank by first
// occurrence in the text, so the ordering is stable across runs. An
// empty or fully filtered abstract yields an empty list.
func Extract(abstract string, topK int) []string {
	if topK <= 0 {
		topK = DefaultTopK
	}

	counts := make(map[string]int)
	var order []string

	for _, tok := range Tokenize(abstract) {
		if stopwords[tok] || len(tok) < minTokenLength {
			continue
		}
		if counts[tok] == 0 {
			order = append(order, tok)
		}
		counts[tok]++
	}

	// order already holds tokens by first occurrence; a stable sort by
	// descending count preserves that tie-break.
	ranked := make([]string, len(order))
	copy(ranked, order)
	sort.SliceStable(ranked, func(i, j int) bool {
		return counts[ranked[i]] > counts[ranked[j]]
	})

	if len(ranked) > topK {
		ranked = ranked[:topK]
	}
	return ranked
}
