package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"aromatch/models"
	"aromatch/repository"

	"github.com/google/uuid"
)

// ProfileService defines the interface for calculating and managing
// olfactive profiles.
type ProfileService interface {
	CalculateAndStoreProfile(ctx context.Context, userID, name string, profileType models.ProfileType, answers models.AnswerSet) (*models.UnifiedProfile, error)
	GetProfile(profileID string) (*models.UnifiedProfile, error)
	GetProfilesForUser(userID string) ([]*models.UnifiedProfile, error)
	DeleteProfile(profileID string) error
}

type profileService struct {
	engine      *RecommendationEngine
	profileRepo repository.ProfileRepository
	narrative   NarrativeService
}

// NewProfileService creates a new instance of ProfileService.
func NewProfileService(engine *RecommendationEngine, profileRepo repository.ProfileRepository, narrative NarrativeService) ProfileService {
	return &profileService{
		engine:      engine,
		profileRepo: profileRepo,
		narrative:   narrative,
	}
}

// CalculateAndStoreProfile runs the engine over the answers and persists the
// resulting profile. Description generation is best-effort: a narrative
// failure never fails the calculation.
func (s *profileService) CalculateAndStoreProfile(
	ctx context.Context,
	userID, name string,
	profileType models.ProfileType,
	answers models.AnswerSet,
) (*models.UnifiedProfile, error) {

	if userID == "" {
		log.Printf("WARN: [ProfileService] CalculateAndStoreProfile called with empty userID.")
		return nil, errors.New("userID cannot be empty")
	}
	if len(answers) == 0 {
		log.Printf("WARN: [ProfileService] CalculateAndStoreProfile called with no answers for userID %s.", userID)
		return nil, errors.New("at least one answer is required")
	}
	if profileType != models.ProfileTypePersonal && profileType != models.ProfileTypeGift {
		return nil, fmt.Errorf("unknown profile type %q", profileType)
	}
	if name == "" {
		name = "My olfactive profile"
	}

	profile := s.engine.CalculateProfile(ctx, answers, name, profileType)
	profile.ID = uuid.New().String()
	profile.UserID = userID
	profile.CreatedAt = time.Now()
	profile.UpdatedAt = profile.CreatedAt

	if s.narrative != nil {
		description, err := s.narrative.GenerateProfileDescription(ctx, &profile)
		if err != nil {
			log.Printf("WARN: [ProfileService] Description generation failed for profile %s: %v", profile.ID, err)
		} else {
			profile.Description = description
		}
	}

	if err := s.profileRepo.CreateProfile(&profile); err != nil {
		errMsg := fmt.Sprintf("failed to store profile for userID %s", userID)
		log.Printf("ERROR: [ProfileService] %s: %v", errMsg, err)
		return nil, fmt.Errorf("%s: %w", errMsg, err)
	}

	log.Printf("INFO: [ProfileService] Stored profile %s for userID %s (primary: %s, confidence: %.2f).",
		profile.ID, userID, profile.PrimaryFamily, profile.ConfidenceScore)
	return &profile, nil
}

// GetProfile retrieves a single profile by ID.
func (s *profileService) GetProfile(profileID string) (*models.UnifiedProfile, error) {
	if profileID == "" {
		return nil, errors.New("profileID cannot be empty")
	}
	profile, err := s.profileRepo.GetProfileByID(profileID)
	if err != nil {
		errMsg := fmt.Sprintf("failed to get profile %s from repository", profileID)
		log.Printf("ERROR: [ProfileService] %s: %v", errMsg, err)
		return nil, fmt.Errorf("%s: %w", errMsg, err)
	}
	if profile == nil { // Repository returns (nil, nil) for not found
		log.Printf("WARN: [ProfileService] Profile %s not found.", profileID)
		return nil, fmt.Errorf("profile %s not found", profileID)
	}
	return profile, nil
}

// GetProfilesForUser retrieves all profiles belonging to a user, newest first.
func (s *profileService) GetProfilesForUser(userID string) ([]*models.UnifiedProfile, error) {
	if userID == "" {
		return nil, errors.New("userID cannot be empty")
	}
	profiles, err := s.profileRepo.GetProfilesByUserID(userID)
	if err != nil {
		errMsg := fmt.Sprintf("failed to list profiles for userID %s", userID)
		log.Printf("ERROR: [ProfileService] %s: %v", errMsg, err)
		return nil, fmt.Errorf("%s: %w", errMsg, err)
	}
	return profiles, nil
}

// DeleteProfile removes a profile by ID.
func (s *profileService) DeleteProfile(profileID string) error {
	if profileID == "" {
		return errors.New("profileID cannot be empty")
	}
	if err := s.profileRepo.DeleteProfile(profileID); err != nil {
		errMsg := fmt.Sprintf("failed to delete profile %s", profileID)
		log.Printf("ERROR: [ProfileService] %s: %v", errMsg, err)
		return fmt.Errorf("%s: %w", errMsg, err)
	}
	log.Printf("INFO: [ProfileService] Deleted profile %s.", profileID)
	return nil
}
