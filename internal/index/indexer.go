package index

import (
	"context"
	"log"
	"math"
	"sort"
	"strings"
	"time"

	"turbot/internal/ai"
	"turbot/internal/model"
	"turbot/internal/repository"
)

const defaultTopK = 4

// Embedder is the embedding capability the indexer depends on.
type Embedder interface {
	Embed(ctx context.Context, cfg ai.EmbeddingConfig, text string) ([]float32, error)
	EmbedBatch(ctx context.Context, cfg ai.EmbeddingConfig, texts []string) ([][]float32, error)
}

// ScoredChunk is a retrieved chunk with its cosine similarity to the query.
type ScoredChunk struct {
	Chunk model.IndexChunk
	Score float32
}

// Indexer owns chunk storage: it splits document text into overlapping
// windows, embeds them and persists them for nearest-neighbor lookup.
// Re-ingesting a filename replaces its chunks, so stale windows never
// surface next to fresh ones.
type Indexer struct {
	repo     *repository.IndexChunkRepository
	embedder Embedder
	embCfg   ai.EmbeddingConfig
	size     int
	overlap  int
}

func NewIndexer(repo *repository.IndexChunkRepository, embedder Embedder, embCfg ai.EmbeddingConfig, size, overlap int) *Indexer {
	if size <= 0 {
		size = defaultChunkSize
	}
	if overlap < 0 || overlap >= size {
		overlap = defaultChunkOverlap
	}
	return &Indexer{
		repo:     repo,
		embedder: embedder,
		embCfg:   embCfg,
		size:     size,
		overlap:  overlap,
	}
}

// Available reports whether the index capability can be used at all.
func (ix *Indexer) Available() bool {
	return ix != nil && ix.repo != nil && ix.embedder != nil
}

// Index chunks and stores text under the given source filename, returning the
// number of chunks written. Unavailable capability, blank input and every
// transient failure degrade to zero; indexing never fails an ingestion.
func (ix *Indexer) Index(ctx context.Context, text, filename string) int {
	if !ix.Available() || strings.TrimSpace(text) == "" {
		return 0
	}

	chunks := ChunkText(text, ix.size, ix.overlap)
	if len(chunks) == 0 {
		return 0
	}

	embeddings, err := ix.embedder.EmbedBatch(ctx, ix.embCfg, chunks)
	if err != nil {
		log.Printf("index: embed chunks of %s failed: %v", filename, err)
		return 0
	}
	if len(embeddings) != len(chunks) {
		log.Printf("index: embedding count mismatch for %s: %d chunks, %d vectors", filename, len(chunks), len(embeddings))
		return 0
	}

	if err := ix.repo.DeleteBySource(filename); err != nil {
		log.Printf("index: delete stale chunks of %s failed: %v", filename, err)
	}

	now := time.Now()
	rows := make([]model.IndexChunk, len(chunks))
	for i := range chunks {
		rows[i] = model.IndexChunk{
			Source:     filename,
			Ordinal:    i,
			Content:    chunks[i],
			IngestedAt: now,
		}
		rows[i].SetEmbedding(embeddings[i])
	}
	if err := ix.repo.CreateBatch(rows); err != nil {
		log.Printf("index: store chunks of %s failed: %v", filename, err)
		return 0
	}
	return len(rows)
}

// Count returns the number of stored chunks, 0 when the index is down.
func (ix *Indexer) Count() int64 {
	if !ix.Available() {
		return 0
	}
	n, err := ix.repo.Count()
	if err != nil {
		log.Printf("index: count chunks failed: %v", err)
		return 0
	}
	return n
}

// Query embeds the text and returns the k most similar stored chunks.
func (ix *Indexer) Query(ctx context.Context, text string, k int) ([]ScoredChunk, error) {
	if !ix.Available() {
		return nil, nil
	}
	if k <= 0 {
		k = defaultTopK
	}

	queryVec, err := ix.embedder.Embed(ctx, ix.embCfg, text)
	if err != nil {
		return nil, err
	}

	all, err := ix.repo.ListAll()
	if err != nil {
		return nil, err
	}
	if len(all) == 0 {
		return nil, nil
	}

	scored := make([]ScoredChunk, len(all))
	for i := range all {
		scored[i] = ScoredChunk{
			Chunk: all[i],
			Score: cosineSimilarity(queryVec, all[i].EmbeddingVector()),
		}
	}
	sort.SliceStable(scored, func(a, b int) bool {
		return scored[a].Score > scored[b].Score
	})
	if k > len(scored) {
		k = len(scored)
	}
	return scored[:k], nil
}

func cosineSimilarity(a, b []float32) float32 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA <= 0 || normB <= 0 {
		return 0
	}
	return float32(dot / (math.Sqrt(normA) * math.Sqrt(normB)))
}
