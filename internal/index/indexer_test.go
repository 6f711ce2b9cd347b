package index

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"turbot/internal/ai"
)

func TestIndexerUnavailable(t *testing.T) {
	t.Run("nil indexer", func(t *testing.T) {
		var ix *Indexer
		assert.False(t, ix.Available())
	})

	t.Run("missing repo or embedder", func(t *testing.T) {
		ix := NewIndexer(nil, nil, ai.EmbeddingConfig{}, 0, 0)
		assert.False(t, ix.Available())
		assert.Zero(t, ix.Index(context.Background(), "tekst", "doc.txt"))
		assert.Zero(t, ix.Count())

		chunks, err := ix.Query(context.Background(), "pitanje", 4)
		assert.NoError(t, err)
		assert.Nil(t, chunks)
	})
}

func TestCosineSimilarity(t *testing.T) {
	assert.InDelta(t, 1.0, float64(cosineSimilarity([]float32{1, 0}, []float32{2, 0})), 1e-6)
	assert.InDelta(t, 0.0, float64(cosineSimilarity([]float32{1, 0}, []float32{0, 1})), 1e-6)
	assert.InDelta(t, -1.0, float64(cosineSimilarity([]float32{1, 0}, []float32{-1, 0})), 1e-6)

	t.Run("mismatched or empty vectors score zero", func(t *testing.T) {
		assert.Zero(t, cosineSimilarity(nil, []float32{1}))
		assert.Zero(t, cosineSimilarity([]float32{1, 2}, []float32{1}))
		assert.Zero(t, cosineSimilarity([]float32{0, 0}, []float32{0, 0}))
	})
}
