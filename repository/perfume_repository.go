package repository

import (
	"context"
	"errors"
	"fmt"
	"log"

	"aromatch/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PerfumeRepository defines the interface for the perfume catalog. Reads
// must be safe for concurrent use; the answer processor performs catalog
// lookups from multiple questionnaire sessions at once.
type PerfumeRepository interface {
	FetchPerfumeByKey(ctx context.Context, key string) (*models.Perfume, error)
	GetAllPerfumes(ctx context.Context) ([]models.Perfume, error)
	GetPerfumesByBrand(ctx context.Context, brand string) ([]models.Perfume, error)
	UpsertPerfumes(ctx context.Context, perfumes []models.Perfume) error
}

type perfumeRepository struct {
	db *gorm.DB
}

// NewPerfumeRepository creates a new instance of PerfumeRepository.
func NewPerfumeRepository(db *gorm.DB) PerfumeRepository {
	return &perfumeRepository{db: db}
}

// FetchPerfumeByKey retrieves a catalog entry by its stable key. A miss
// returns (nil, nil); the caller decides whether that is an error.
func (r *perfumeRepository) FetchPerfumeByKey(ctx context.Context, key string) (*models.Perfume, error) {
	if key == "" {
		return nil, errors.New("perfume key cannot be empty")
	}

	var perfume models.Perfume
	err := r.db.WithContext(ctx).First(&perfume, "key = ?", key).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			log.Printf("INFO: [PerfumeRepository] Perfume with key '%s' not found.", key)
			return nil, nil
		}
		log.Printf("ERROR: [PerfumeRepository] Failed to fetch perfume '%s': %v", key, err)
		return nil, fmt.Errorf("failed to fetch perfume '%s': %w", key, err)
	}
	return &perfume, nil
}

// GetAllPerfumes retrieves the full catalog, ordered by popularity.
func (r *perfumeRepository) GetAllPerfumes(ctx context.Context) ([]models.Perfume, error) {
	var perfumes []models.Perfume
	err := r.db.WithContext(ctx).Order("popularity desc").Find(&perfumes).Error
	if err != nil {
		log.Printf("ERROR: [PerfumeRepository] Failed to fetch catalog: %v", err)
		return nil, fmt.Errorf("failed to fetch perfume catalog: %w", err)
	}
	log.Printf("INFO: [PerfumeRepository] Retrieved %d catalog entries.", len(perfumes))
	return perfumes, nil
}

// GetPerfumesByBrand retrieves all catalog entries for one brand.
func (r *perfumeRepository) GetPerfumesByBrand(ctx context.Context, brand string) ([]models.Perfume, error) {
	if brand == "" {
		return nil, errors.New("brand cannot be empty")
	}

	var perfumes []models.Perfume
	err := r.db.WithContext(ctx).Where("brand = ?", brand).Order("popularity desc").Find(&perfumes).Error
	if err != nil {
		log.Printf("ERROR: [PerfumeRepository] Failed to fetch perfumes for brand '%s': %v", brand, err)
		return nil, fmt.Errorf("failed to fetch perfumes for brand '%s': %w", brand, err)
	}
	return perfumes, nil
}

// UpsertPerfumes inserts or replaces catalog entries by key, used by the
// catalog import on startup.
func (r *perfumeRepository) UpsertPerfumes(ctx context.Context, perfumes []models.Perfume) error {
	if len(perfumes) == 0 {
		return nil
	}

	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		UpdateAll: true,
	}).Create(&perfumes).Error
	if err != nil {
		log.Printf("ERROR: [PerfumeRepository] Failed to upsert %d perfumes: %v", len(perfumes), err)
		return fmt.Errorf("failed to upsert perfumes: %w", err)
	}
	log.Printf("INFO: [PerfumeRepository] Upserted %d catalog entries.", len(perfumes))
	return nil
}
