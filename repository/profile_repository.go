package repository

import (
	"errors"
	"fmt"
	"log"

	"aromatch/models"

	"gorm.io/gorm"
)

// ProfileRepository defines the interface for interacting with stored
// olfactive profiles.
type ProfileRepository interface {
	CreateProfile(profile *models.UnifiedProfile) error
	GetProfileByID(profileID string) (*models.UnifiedProfile, error)
	GetProfilesByUserID(userID string) ([]*models.UnifiedProfile, error)
	UpdateProfile(profile *models.UnifiedProfile) error
	DeleteProfile(profileID string) error
}

type profileRepository struct {
	db *gorm.DB
}

// NewProfileRepository creates a new instance of ProfileRepository.
func NewProfileRepository(db *gorm.DB) ProfileRepository {
	return &profileRepository{db: db}
}

// CreateProfile persists a newly computed profile.
func (r *profileRepository) CreateProfile(profile *models.UnifiedProfile) error {
	if profile == nil {
		log.Printf("ERROR: [ProfileRepository] CreateProfile: profile cannot be nil")
		return errors.New("profile cannot be nil")
	}
	err := r.db.Create(profile).Error
	if err != nil {
		log.Printf("ERROR: [ProfileRepository] Failed to create profile for userID %s: %v", profile.UserID, err)
		return fmt.Errorf("failed to create profile for userID %s: %w", profile.UserID, err)
	}
	log.Printf("INFO: [ProfileRepository] Created profile ID %s ('%s') for userID %s.", profile.ID, profile.Name, profile.UserID)
	return nil
}

// GetProfileByID retrieves a single profile. Not found returns (nil, nil).
func (r *profileRepository) GetProfileByID(profileID string) (*models.UnifiedProfile, error) {
	var profile models.UnifiedProfile
	err := r.db.First(&profile, "id = ?", profileID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			log.Printf("INFO: [ProfileRepository] Profile with ID %s not found.", profileID)
			return nil, nil
		}
		log.Printf("ERROR: [ProfileRepository] Failed to retrieve profile ID %s: %v", profileID, err)
		return nil, fmt.Errorf("failed to retrieve profile ID %s: %w", profileID, err)
	}
	return &profile, nil
}

// GetProfilesByUserID retrieves all profiles for a user, newest first.
func (r *profileRepository) GetProfilesByUserID(userID string) ([]*models.UnifiedProfile, error) {
	var profiles []*models.UnifiedProfile
	err := r.db.Where("user_id = ?", userID).Order("created_at desc").Find(&profiles).Error
	if err != nil {
		log.Printf("ERROR: [ProfileRepository] Failed to retrieve profiles for userID %s: %v", userID, err)
		return nil, fmt.Errorf("failed to retrieve profiles for userID %s: %w", userID, err)
	}
	log.Printf("INFO: [ProfileRepository] Retrieved %d profiles for userID %s.", len(profiles), userID)
	return profiles, nil
}

// UpdateProfile saves changes to an existing profile.
func (r *profileRepository) UpdateProfile(profile *models.UnifiedProfile) error {
	if profile == nil || profile.ID == "" {
		log.Printf("ERROR: [ProfileRepository] UpdateProfile: profile with a valid ID is required")
		return errors.New("profile with a valid ID is required")
	}
	err := r.db.Save(profile).Error
	if err != nil {
		log.Printf("ERROR: [ProfileRepository] Failed to update profile ID %s: %v", profile.ID, err)
		return fmt.Errorf("failed to update profile ID %s: %w", profile.ID, err)
	}
	log.Printf("INFO: [ProfileRepository] Updated profile ID %s.", profile.ID)
	return nil
}

// DeleteProfile removes a profile permanently.
func (r *profileRepository) DeleteProfile(profileID string) error {
	if profileID == "" {
		return errors.New("profile ID cannot be empty")
	}
	result := r.db.Delete(&models.UnifiedProfile{}, "id = ?", profileID)
	if result.Error != nil {
		log.Printf("ERROR: [ProfileRepository] Failed to delete profile ID %s: %v", profileID, result.Error)
		return fmt.Errorf("failed to delete profile ID %s: %w", profileID, result.Error)
	}
	if result.RowsAffected == 0 {
		log.Printf("WARN: [ProfileRepository] DeleteProfile: profile ID %s not found.", profileID)
		return fmt.Errorf("profile ID %s not found", profileID)
	}
	log.Printf("INFO: [ProfileRepository] Deleted profile ID %s.", profileID)
	return nil
}
