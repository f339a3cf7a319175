// Package docsim ranks an uploaded document's text against the reference
// description corpus and classifies the ranked scores with two-tier
// thresholds.
package docsim

import (
	"math"
	"strings"
	"unicode"
)

// tokenize lowercases text and splits it into alphanumeric tokens of at
// least two characters.
func tokenize(text string) []string {
	fields := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '_'
	})
	tokens := fields[:0]
	for _, f := range fields {
		if len(f) >= 2 {
			tokens = append(tokens, f)
		}
	}
	return tokens
}

// tfidfVectors builds L2-normalized TF-IDF vectors for docs, using smoothed
// inverse document frequency: idf = ln((1+n)/(1+df)) + 1.
func tfidfVectors(docs []string) []map[string]float64 {
	n := len(docs)
	counts := make([]map[string]float64, n)
	df := map[string]int{}
	for i, doc := range docs {
		c := map[string]float64{}
		for _, tok := range tokenize(doc) {
			c[tok]++
		}
		counts[i] = c
		for tok := range c {
			df[tok]++
		}
	}

	idf := make(map[string]float64, len(df))
	for tok, d := range df {
		idf[tok] = math.Log(float64(1+n)/float64(1+d)) + 1
	}

	vectors := make([]map[string]float64, n)
	for i, c := range counts {
		v := make(map[string]float64, len(c))
		var norm float64
		for tok, tf := range c {
			w := tf * idf[tok]
			v[tok] = w
			norm += w * w
		}
		norm = math.Sqrt(norm)
		if norm > 0 {
			for tok := range v {
				v[tok] /= norm
			}
		}
		vectors[i] = v
	}
	return vectors
}

// cosine returns the cosine similarity of two L2-normalized sparse vectors.
func cosine(a, b map[string]float64) float64 {
	if len(b) < len(a) {
		a, b = b, a
	}
	var dot float64
	for tok, w := range a {
		dot += w * b[tok]
	}
	return dot
}
