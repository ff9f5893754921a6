package cluster

import (
	"math"
	"sort"

	"github.com/ppiankov/jtbd/internal/textproc"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// Vectorize builds an L2-normalized TF-IDF matrix with one row per document.
//
// The vocabulary keeps the maxFeatures terms with the highest total count
// across all documents (ties alphabetical) and columns are in alphabetical
// order. IDF is smoothed: ln((1+n)/(1+df)) + 1.
//
// The returned matrix is nil when no document has a token.
func Vectorize(docs []string, maxFeatures int) (*mat.Dense, []string) {
	tokenized := make([][]string, len(docs))
	totals := make(map[string]int)
	docFreq := make(map[string]int)

	for i, doc := range docs {
		tokens := textproc.Tokens(doc)
		tokenized[i] = tokens

		seen := make(map[string]bool, len(tokens))
		for _, tok := range tokens {
			totals[tok]++
			if !seen[tok] {
				seen[tok] = true
				docFreq[tok]++
			}
		}
	}

	vocab := limitVocabulary(totals, maxFeatures)
	if len(vocab) == 0 || len(docs) == 0 {
		return nil, vocab
	}

	column := make(map[string]int, len(vocab))
	for i, term := range vocab {
		column[term] = i
	}

	n := float64(len(docs))
	idf := make([]float64, len(vocab))
	for i, term := range vocab {
		idf[i] = math.Log((1+n)/(1+float64(docFreq[term]))) + 1
	}

	m := mat.NewDense(len(docs), len(vocab), nil)
	for i, tokens := range tokenized {
		row := m.RawRowView(i)
		for _, tok := range tokens {
			if j, ok := column[tok]; ok {
				row[j]++
			}
		}
		floats.Mul(row, idf)

		if norm := floats.Norm(row, 2); norm > 0 {
			floats.Scale(1/norm, row)
		}
	}

	return m, vocab
}

// limitVocabulary returns up to maxFeatures terms by descending total count,
// sorted alphabetically
func limitVocabulary(totals map[string]int, maxFeatures int) []string {
	terms := make([]string, 0, len(totals))
	for term := range totals {
		terms = append(terms, term)
	}

	sort.Slice(terms, func(i, j int) bool {
		if totals[terms[i]] != totals[terms[j]] {
			return totals[terms[i]] > totals[terms[j]]
		}
		return terms[i] < terms[j]
	})

	if maxFeatures > 0 && len(terms) > maxFeatures {
		terms = terms[:maxFeatures]
	}

	sort.Strings(terms)
	return terms
}
