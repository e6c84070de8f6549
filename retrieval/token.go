package retrieval

import (
	"regexp"
	"strings"
)

// tokenPattern splits text into letter/digit runs; hyphen and underscore are
// kept inside tokens so identifiers like "pass-the-hash" or "t1059_001"
// survive as single terms.
var tokenPattern = regexp.MustCompile(`[\p{L}\p{N}_-]+`)

// stopwords are dropped from both the index vocabulary and query terms so
// that the two sides stay aligned. The set is intentionally small: reference
// corpora in this domain are terse and over-filtering hurts recall.
var stopwords = map[string]struct{}{
	"a": {}, "an": {}, "and": {}, "are": {}, "as": {}, "at": {}, "be": {},
	"by": {}, "for": {}, "from": {}, "has": {}, "have": {}, "in": {},
	"is": {}, "it": {}, "its": {}, "of": {}, "on": {}, "or": {}, "that": {},
	"the": {}, "this": {}, "to": {}, "was": {}, "were": {}, "which": {},
	"with": {}, "will": {}, "can": {}, "may": {}, "not": {}, "no": {},
	"if": {}, "then": {}, "than": {}, "into": {}, "over": {}, "such": {},
	"via": {}, "when": {}, "where": {}, "while": {},
}

// Tokenize case-folds a text and splits it into stop-word-filtered terms.
// The same function processes passages at build time and query terms at
// search time; any caller that derives query terms elsewhere must apply it
// for the vocabularies to line up.
func Tokenize(text string) []string {
	if text == "" {
		return nil
	}
	raw := tokenPattern.FindAllString(strings.ToLower(text), -1)
	out := make([]string, 0, len(raw))
	for _, tok := range raw {
		if _, stop := stopwords[tok]; stop {
			continue
		}
		out = append(out, tok)
	}
	return out
}

// IsStopword reports whether the (already case-folded) term is filtered out
// during tokenization.
func IsStopword(term string) bool {
	_, ok := stopwords[term]
	return ok
}
