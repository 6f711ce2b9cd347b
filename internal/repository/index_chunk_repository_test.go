package repository

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"turbot/internal/model"
)

func chunkRow(source string, ordinal int, content string) model.IndexChunk {
	row := model.IndexChunk{Source: source, Ordinal: ordinal, Content: content, IngestedAt: time.Now()}
	row.SetEmbedding([]float32{float32(ordinal), 1})
	return row
}

func TestIndexChunkRepository(t *testing.T) {
	t.Run("create batch then list", func(t *testing.T) {
		repo := NewIndexChunkRepository(newTestDB(t))

		require.NoError(t, repo.CreateBatch([]model.IndexChunk{
			chunkRow("zlatibor.txt", 0, "prvi deo"),
			chunkRow("zlatibor.txt", 1, "drugi deo"),
		}))

		all, err := repo.ListAll()
		require.NoError(t, err)
		require.Len(t, all, 2)
		assert.Equal(t, []float32{1, 1}, all[1].EmbeddingVector())

		n, err := repo.Count()
		require.NoError(t, err)
		assert.Equal(t, int64(2), n)
	})

	t.Run("empty batch is a no-op", func(t *testing.T) {
		repo := NewIndexChunkRepository(newTestDB(t))
		require.NoError(t, repo.CreateBatch(nil))

		n, err := repo.Count()
		require.NoError(t, err)
		assert.Zero(t, n)
	})

	t.Run("delete by source only removes that document", func(t *testing.T) {
		repo := NewIndexChunkRepository(newTestDB(t))
		require.NoError(t, repo.CreateBatch([]model.IndexChunk{
			chunkRow("zlatibor.txt", 0, "stara verzija"),
			chunkRow("zlatibor.txt", 1, "stara verzija, nastavak"),
			chunkRow("grcka.txt", 0, "drugi dokument"),
		}))

		require.NoError(t, repo.DeleteBySource("zlatibor.txt"))

		all, err := repo.ListAll()
		require.NoError(t, err)
		require.Len(t, all, 1)
		assert.Equal(t, "grcka.txt", all[0].Source)
	})
}
