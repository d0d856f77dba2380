package similarity

import (
	"strings"
	"unicode"
)

// Terms produces the weighted-term stream for a text: stop-word-filtered
// unigrams plus the bigrams formed over the filtered stream, lower-cased.
// Tokens shorter than two characters are dropped.
func Terms(text string) []string {
	unigrams := tokenize(text)

	terms := make([]string, 0, len(unigrams)*2)
	terms = append(terms, unigrams...)
	for i := 0; i+1 < len(unigrams); i++ {
		terms = append(terms, unigrams[i]+" "+unigrams[i+1])
	}
	return terms
}

func tokenize(text string) []string {
	fields := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})

	out := fields[:0]
	for _, f := range fields {
		if len(f) < 2 || stopWords[f] {
			continue
		}
		out = append(out, f)
	}
	return out
}
