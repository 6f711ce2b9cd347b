package repository

import (
	"fmt"

	"gorm.io/gorm"

	"turbot/internal/model"
)

type IndexChunkRepository struct {
	db *gorm.DB
}

func NewIndexChunkRepository(db *gorm.DB) *IndexChunkRepository {
	return &IndexChunkRepository{db: db}
}

func (r *IndexChunkRepository) CreateBatch(chunks []model.IndexChunk) error {
	if len(chunks) == 0 {
		return nil
	}
	if err := r.db.Create(&chunks).Error; err != nil {
		return fmt.Errorf("create index chunks batch failed: %w", err)
	}
	return nil
}

func (r *IndexChunkRepository) ListAll() ([]model.IndexChunk, error) {
	var chunks []model.IndexChunk
	if err := r.db.Find(&chunks).Error; err != nil {
		return nil, fmt.Errorf("list index chunks failed: %w", err)
	}
	return chunks, nil
}

// DeleteBySource removes all chunks of one document, used before re-ingest.
func (r *IndexChunkRepository) DeleteBySource(source string) error {
	if err := r.db.Where("source = ?", source).Delete(&model.IndexChunk{}).Error; err != nil {
		return fmt.Errorf("delete index chunks by source failed: %w", err)
	}
	return nil
}

func (r *IndexChunkRepository) Count() (int64, error) {
	var n int64
	if err := r.db.Model(&model.IndexChunk{}).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("count index chunks failed: %w", err)
	}
	return n, nil
}
