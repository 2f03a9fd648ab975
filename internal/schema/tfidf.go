package schema

import (
	"math"
	"sort"
	"strings"
	"unicode"
)

// tokenize lowercases the text and splits it into word tokens of at least two
// letters or digits. Shorter fragments carry no signal for description
// matching and are dropped.
func tokenize(text string) []string {
	fields := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	tokens := make([]string, 0, len(fields))
	for _, f := range fields {
		if len(f) >= 2 {
			tokens = append(tokens, f)
		}
	}
	return tokens
}

// tfidfVectors converts a document corpus into L2-normalized TF-IDF weight
// vectors. The corpus is exactly the documents passed in; nothing is learned
// from outside it and nothing persists between calls. IDF uses smoothing:
// idf(t) = ln((1+n)/(1+df(t))) + 1, so terms appearing in every document still
// contribute and two identical documents always reach cosine similarity 1.
// The term index is built in sorted order so vectors are deterministic.
func tfidfVectors(documents []string) [][]float64 {
	tokenized := make([][]string, len(documents))
	docFreq := make(map[string]int)
	for i, doc := range documents {
		tokenized[i] = tokenize(doc)
		seen := make(map[string]bool)
		for _, tok := range tokenized[i] {
			if !seen[tok] {
				seen[tok] = true
				docFreq[tok]++
			}
		}
	}

	terms := make([]string, 0, len(docFreq))
	for term := range docFreq {
		terms = append(terms, term)
	}
	sort.Strings(terms)

	index := make(map[string]int, len(terms))
	idf := make([]float64, len(terms))
	n := float64(len(documents))
	for i, term := range terms {
		index[term] = i
		idf[i] = math.Log((1+n)/(1+float64(docFreq[term]))) + 1
	}

	vectors := make([][]float64, len(documents))
	for i, tokens := range tokenized {
		vec := make([]float64, len(terms))
		for _, tok := range tokens {
			vec[index[tok]] += 1
		}
		var norm float64
		for j := range vec {
			vec[j] *= idf[j]
			norm += vec[j] * vec[j]
		}
		if norm > 0 {
			norm = math.Sqrt(norm)
			for j := range vec {
				vec[j] /= norm
			}
		}
		vectors[i] = vec
	}
	return vectors
}

// cosine returns the cosine similarity of two vectors of equal length. The
// inputs here are already L2-normalized, so this is a plain dot product,
// clipped to [0,1] against float rounding.
func cosine(a, b []float64) float64 {
	var dot float64
	for i := range a {
		dot += a[i] * b[i]
	}
	if dot < 0 {
		return 0
	}
	if dot > 1 {
		return 1
	}
	return dot
}
