package model

import (
	"encoding/json"
	"time"
)

// IndexChunk stores one window of a document's text and its embedding for
// retrieval. Embedding is stored as a JSON array of float32 for portability.
type IndexChunk struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	Source     string    `gorm:"size:255;not null;index" json:"source"`
	Ordinal    int       `gorm:"not null" json:"ordinal"`
	Content    string    `gorm:"type:text;not null" json:"content"`
	Embedding  string    `gorm:"type:text" json:"-"`
	IngestedAt time.Time `json:"ingested_at"`
}

// EmbeddingVector returns the parsed embedding slice; empty on parse error.
func (c *IndexChunk) EmbeddingVector() []float32 {
	if c.Embedding == "" {
		return nil
	}
	var v []float32
	_ = json.Unmarshal([]byte(c.Embedding), &v)
	return v
}

// SetEmbedding stores the embedding as JSON.
func (c *IndexChunk) SetEmbedding(vec []float32) {
	if len(vec) == 0 {
		c.Embedding = "[]"
		return
	}
	b, _ := json.Marshal(vec)
	c.Embedding = string(b)
}
