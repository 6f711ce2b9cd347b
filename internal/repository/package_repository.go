package repository

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"turbot/internal/model"
)

const searchResultCap = 50

type PackageRepository struct {
	db *gorm.DB
}

func NewPackageRepository(db *gorm.DB) *PackageRepository {
	return &PackageRepository{db: db}
}

// Upsert inserts a new package row for the filename or overwrites all
// structured columns of the existing one. The creation timestamp survives an
// update; gorm bumps updated_at.
func (r *PackageRepository) Upsert(filename string, fields model.PackageFields, rawContent string) error {
	var existing model.TravelPackage
	err := r.db.Where("filename = ?", filename).First(&existing).Error
	switch {
	case err == nil:
		existing.ApplyFields(fields)
		existing.RawContent = rawContent
		if err := r.db.Save(&existing).Error; err != nil {
			return fmt.Errorf("update travel package failed: %w", err)
		}
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		pkg := model.TravelPackage{Filename: filename, RawContent: rawContent}
		pkg.ApplyFields(fields)
		if err := r.db.Create(&pkg).Error; err != nil {
			return fmt.Errorf("create travel package failed: %w", err)
		}
		return nil
	default:
		return fmt.Errorf("lookup travel package failed: %w", err)
	}
}

// ListAll returns every package, newest first.
func (r *PackageRepository) ListAll() ([]model.TravelPackage, error) {
	var list []model.TravelPackage
	if err := r.db.Order("created_at DESC").Find(&list).Error; err != nil {
		return nil, fmt.Errorf("list travel packages failed: %w", err)
	}
	return list, nil
}

// GetByID returns the package or nil when not found.
func (r *PackageRepository) GetByID(id uint) (*model.TravelPackage, error) {
	var pkg model.TravelPackage
	if err := r.db.First(&pkg, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("get travel package failed: %w", err)
	}
	return &pkg, nil
}

// SearchFilter holds the optional conjunctive predicates for Search. Nil or
// empty members are no-ops.
type SearchFilter struct {
	Destination string
	MinDays     *int
	MaxDays     *int
	Transport   string
}

// Search applies all supplied filters, newest first, capped at 50 rows. The
// destination substring matches the destinations JSON text, the title and the
// description.
func (r *PackageRepository) Search(filter SearchFilter) ([]model.TravelPackage, error) {
	q := r.db.Model(&model.TravelPackage{})
	if filter.Destination != "" {
		like := "%" + filter.Destination + "%"
		q = q.Where("destinations LIKE ? OR title LIKE ? OR description LIKE ?", like, like, like)
	}
	if filter.MinDays != nil {
		q = q.Where("duration_days >= ?", *filter.MinDays)
	}
	if filter.MaxDays != nil {
		q = q.Where("duration_days <= ?", *filter.MaxDays)
	}
	if filter.Transport != "" {
		q = q.Where("transport_type LIKE ?", "%"+filter.Transport+"%")
	}

	var list []model.TravelPackage
	if err := q.Order("created_at DESC").Limit(searchResultCap).Find(&list).Error; err != nil {
		return nil, fmt.Errorf("search travel packages failed: %w", err)
	}
	return list, nil
}

// Count returns the total number of stored packages.
func (r *PackageRepository) Count() (int64, error) {
	var n int64
	if err := r.db.Model(&model.TravelPackage{}).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("count travel packages failed: %w", err)
	}
	return n, nil
}
