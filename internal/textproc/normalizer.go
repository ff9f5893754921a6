package textproc

import (
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Normalizer canonicalizes statements for deduplication and keyword extraction.
// A Normalizer is immutable after construction and safe for concurrent use.
type Normalizer struct {
	stopwords map[string]struct{}
}

var defaultNormalizer = NewNormalizer(Stopwords)

// Default returns the shared normalizer built from Stopwords
func Default() *Normalizer {
	return defaultNormalizer
}

// NewNormalizer creates a normalizer with the given stopword list
func NewNormalizer(stopwords []string) *Normalizer {
	stops := make(map[string]struct{}, len(stopwords))
	for _, w := range stopwords {
		stops[strings.ToLower(w)] = struct{}{}
	}
	return &Normalizer{stopwords: stops}
}

// Normalize returns the deduplication key of a statement: lowercased,
// punctuation removed, stopwords dropped, words joined by single spaces.
// A statement made only of stopwords normalizes to "".
func (n *Normalizer) Normalize(statement string) string {
	words := Words(statement)
	kept := words[:0]
	for _, w := range words {
		if !n.IsStopword(w) {
			kept = append(kept, w)
		}
	}
	return strings.Join(kept, " ")
}

// IsStopword checks if a lowercased word is a stopword
func (n *Normalizer) IsStopword(word string) bool {
	_, ok := n.stopwords[word]
	return ok
}

// TopKeywords returns up to limit of the most frequent words in text that are
// longer than minLen characters and not stopwords. Ties keep first-seen order.
func (n *Normalizer) TopKeywords(text string, limit, minLen int) []string {
	if limit <= 0 {
		return nil
	}

	counts := make(map[string]int)
	var order []string
	for _, w := range Words(text) {
		if utf8.RuneCountInString(w) <= minLen || n.IsStopword(w) {
			continue
		}
		if _, seen := counts[w]; !seen {
			order = append(order, w)
		}
		counts[w]++
	}

	sort.SliceStable(order, func(i, j int) bool {
		return counts[order[i]] > counts[order[j]]
	})

	if len(order) > limit {
		order = order[:limit]
	}
	return order
}

// Words lowercases text, removes every rune that is neither a word character
// nor whitespace, and splits on whitespace. Stopwords are kept.
func Words(text string) []string {
	var b strings.Builder
	b.Grow(len(text))
	for _, r := range strings.ToLower(text) {
		if isWordRune(r) || unicode.IsSpace(r) {
			b.WriteRune(r)
		}
	}
	return strings.Fields(b.String())
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsMark(r) || r == '_'
}

// Normalize normalizes a statement with the default normalizer
func Normalize(statement string) string {
	return defaultNormalizer.Normalize(statement)
}

// Tokens splits text into lowercased runs of at least two word characters.
// Punctuation separates tokens, so "don't" yields "don" only.
func Tokens(text string) []string {
	var tokens []string
	var cur []rune
	flush := func() {
		if len(cur) >= 2 {
			tokens = append(tokens, string(cur))
		}
		cur = cur[:0]
	}
	for _, r := range strings.ToLower(text) {
		if isWordRune(r) {
			cur = append(cur, r)
			continue
		}
		flush()
	}
	flush()
	return tokens
}
