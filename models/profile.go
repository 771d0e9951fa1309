package models

import (
	"time"
)

// ProfileType distinguishes personal taste profiles from gift profiles.
type ProfileType string

const (
	ProfileTypePersonal ProfileType = "personal"
	ProfileTypeGift     ProfileType = "gift"
)

// ExperienceLevel is the user's fragrance knowledge tier, inferred from
// which question flow they answered.
type ExperienceLevel string

const (
	ExperienceBeginner     ExperienceLevel = "beginner"     // flow A
	ExperienceIntermediate ExperienceLevel = "intermediate" // flow B
	ExperienceExpert       ExperienceLevel = "expert"       // flow C
)

// UnifiedProfile is the normalized output of a completed questionnaire:
// a family-score vector plus metadata and filters. Computed once per
// session and persisted; recomputed only if the user redoes the test.
type UnifiedProfile struct {
	ID     string `json:"id" gorm:"primaryKey"`
	UserID string `json:"user_id" gorm:"index"`
	Name   string `json:"name"`

	ProfileType     ProfileType     `json:"profile_type"`
	ExperienceLevel ExperienceLevel `json:"experience_level"`

	PrimaryFamily string             `json:"primary_family"`
	Subfamilies   []string           `json:"subfamilies" gorm:"serializer:json"`
	FamilyScores  map[string]float64 `json:"family_scores" gorm:"serializer:json"` // normalized 0-100

	GenderPreference string `json:"gender_preference"` // "male", "female", "unisex"

	Metadata ProfileMetadata `json:"metadata" gorm:"serializer:json"`

	ConfidenceScore    float64 `json:"confidence_score"`    // 0.0 - 1.0
	AnswerCompleteness float64 `json:"answer_completeness"` // 0.0 - 1.0

	Description string `json:"description,omitempty"`

	QuestionsAndAnswers []QuestionAnswer     `json:"questions_and_answers,omitempty" gorm:"serializer:json"`
	RecommendedPerfumes []RecommendedPerfume `json:"recommended_perfumes,omitempty" gorm:"serializer:json"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ProfileMetadata holds the preference signals carried through from the
// questionnaire alongside the numeric family scores.
type ProfileMetadata struct {
	PreferredOccasions []string `json:"preferred_occasions,omitempty"`
	PreferredSeasons   []string `json:"preferred_seasons,omitempty"`
	PersonalityTraits  []string `json:"personality_traits,omitempty"`

	PreferredNotes []string `json:"preferred_notes,omitempty"`
	AvoidFamilies  []string `json:"avoid_families,omitempty"`

	IntensityPreference  string `json:"intensity_preference,omitempty"`
	IntensityMax         string `json:"intensity_max,omitempty"`
	DurationPreference   string `json:"duration_preference,omitempty"`
	ProjectionPreference string `json:"projection_preference,omitempty"`

	MustContainNotes []string `json:"must_contain_notes,omitempty"`
	HeartNotesBonus  []string `json:"heart_notes_bonus,omitempty"`
	BaseNotesBonus   []string `json:"base_notes_bonus,omitempty"`

	PhasePreference string `json:"phase_preference,omitempty"`
	DiscoveryMode   string `json:"discovery_mode,omitempty"`

	ReferencePerfumes []string `json:"reference_perfumes,omitempty"`

	// ComplementReference marks that the user wants something different
	// from their reference perfumes, so exact family duplicates are
	// de-emphasized during scoring.
	ComplementReference bool `json:"complement_reference,omitempty"`

	// AllowedBrands is a mandatory restriction, not a soft preference:
	// when non-empty, only these brands may be recommended.
	AllowedBrands []string `json:"allowed_brands,omitempty"`
}

// QuestionAnswer records which option was chosen for which question,
// kept on the profile for future reference.
type QuestionAnswer struct {
	QuestionID string `json:"question_id"`
	AnswerID   string `json:"answer_id"`
}

// RecommendedPerfume is one scored recommendation.
type RecommendedPerfume struct {
	PerfumeID       string  `json:"perfume_id"`
	MatchPercentage float64 `json:"match_percentage"` // 0-100
}
