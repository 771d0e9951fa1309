package repository

import (
	"errors"
	"fmt"
	"log"

	"aromatch/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// QuotaRepository defines the interface for interacting with guest quota data.
type QuotaRepository interface {
	GetQuota(guestUserID string) (*models.GuestQuota, error)
	IncrementQuota(guestUserID string) (*models.GuestQuota, error)
}

type quotaRepository struct {
	db *gorm.DB
}

// NewQuotaRepository creates a new instance of QuotaRepository.
func NewQuotaRepository(db *gorm.DB) QuotaRepository {
	return &quotaRepository{db: db}
}

// GetQuota retrieves the current recommendation-request quota usage for a
// guest user. If the guest user is not found, it returns a new GuestQuota
// object with 0 requests made and no error.
func (r *quotaRepository) GetQuota(guestUserID string) (*models.GuestQuota, error) {
	if guestUserID == "" {
		log.Printf("ERROR: [QuotaRepository] GetQuota: guestUserID cannot be empty.")
		return nil, errors.New("guest user ID cannot be empty")
	}

	var quota models.GuestQuota
	err := r.db.First(&quota, "guest_user_id = ?", guestUserID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			log.Printf("INFO: [QuotaRepository] No quota record found for guestUserID %s. Returning new quota with 0 requests made.", guestUserID)
			return &models.GuestQuota{GuestUserID: guestUserID, RequestsMade: 0}, nil
		}
		log.Printf("ERROR: [QuotaRepository] Failed to fetch quota for guestUserID %s: %v", guestUserID, err)
		return nil, fmt.Errorf("failed to fetch quota for guestUserID %s: %w", guestUserID, err)
	}
	return &quota, nil
}

// IncrementQuota increments the recommendation-request count for a guest user.
// If the user doesn't exist, it creates a new record. Uses GORM's OnConflict (UPSERT).
func (r *quotaRepository) IncrementQuota(guestUserID string) (*models.GuestQuota, error) {
	if guestUserID == "" {
		log.Printf("ERROR: [QuotaRepository] IncrementQuota: guestUserID cannot be empty.")
		return nil, errors.New("guest user ID cannot be empty")
	}

	// GuestUserID is the primary key, so Create with OnConflict performs an UPSERT.
	quotaToUpsert := models.GuestQuota{
		GuestUserID:  guestUserID,
		RequestsMade: 1,
	}

	err := r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "guest_user_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{"requests_made": gorm.Expr("requests_made + 1")}),
	}).Create(&quotaToUpsert).Error
	if err != nil {
		log.Printf("ERROR: [QuotaRepository] Failed to increment quota for guestUserID %s during UPSERT: %v", guestUserID, err)
		return nil, fmt.Errorf("failed to increment quota for guestUserID %s: %w", guestUserID, err)
	}

	// The upserted struct is not populated with the incremented value when the
	// record already existed, so re-fetch to return the current state.
	var currentQuota models.GuestQuota
	if fetchErr := r.db.First(&currentQuota, "guest_user_id = ?", guestUserID).Error; fetchErr != nil {
		log.Printf("ERROR: [QuotaRepository] Failed to fetch quota for guestUserID %s after increment: %v", guestUserID, fetchErr)
		return nil, fmt.Errorf("failed to fetch quota for guestUserID %s after increment: %w", guestUserID, fetchErr)
	}

	log.Printf("INFO: [QuotaRepository] Incremented quota for guestUserID %s. New count: %d", guestUserID, currentQuota.RequestsMade)
	return &currentQuota, nil
}
