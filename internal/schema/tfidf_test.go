package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenize(t *testing.T) {
	assert.Equal(t, []string{"part", "component", "identifier"},
		tokenize("Part component_identifier"))
	assert.Equal(t, []string{"lot", "id"}, tokenize("lot_id"))
	assert.Empty(t, tokenize("a b c"), "single-character fragments are dropped")
	assert.Empty(t, tokenize(""))
}

func TestTfidfVectorsIdenticalDocumentsAreIdentical(t *testing.T) {
	vectors := tfidfVectors([]string{
		"manufacturing lot batch identifier",
		"manufacturing lot batch identifier",
		"quantity amount produced",
	})
	require.Len(t, vectors, 3)
	assert.Equal(t, vectors[0], vectors[1])
	assert.InDelta(t, 1.0, cosine(vectors[0], vectors[1]), 1e-9)
}

func TestTfidfVectorsAreL2Normalized(t *testing.T) {
	vectors := tfidfVectors([]string{
		"part component identifier number",
		"measurement test identifier number",
	})
	for _, vec := range vectors {
		var norm float64
		for _, v := range vec {
			norm += v * v
		}
		assert.InDelta(t, 1.0, norm, 1e-9)
	}
}

func TestTfidfVectorsDisjointDocumentsScoreZero(t *testing.T) {
	vectors := tfidfVectors([]string{
		"quantity amount produced",
		"inspector worker badge",
	})
	assert.InDelta(t, 0.0, cosine(vectors[0], vectors[1]), 1e-9)
}

func TestTfidfVectorsEmptyDocumentIsZero(t *testing.T) {
	vectors := tfidfVectors([]string{"", "lot batch identifier"})
	assert.InDelta(t, 0.0, cosine(vectors[0], vectors[1]), 1e-9)
}

func TestCosineClipsToUnitInterval(t *testing.T) {
	assert.Equal(t, 0.0, cosine([]float64{0.5}, []float64{-0.5}))
	assert.Equal(t, 1.0, cosine([]float64{1.0000001}, []float64{1.0000001}))
}
