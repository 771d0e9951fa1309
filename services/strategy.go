package services

import (
	"strings"

	"aromatch/models"
)

// ProcessingStrategy is the processing mode selected for a question. It
// determines how the question's answer affects the olfactive profile:
//
//   - standard: option families × question weight feed the family scores
//   - perfume_database: referenced catalog perfumes contribute their
//     family and subfamilies
//   - notes_database: selected notes are stored for scoring bonuses only
//   - brands_database: selected brands become a mandatory filter
//   - routing: flow navigation only, no contribution
//   - metadata_only: explicit zero weight, metadata extraction only
type ProcessingStrategy string

const (
	StrategyStandard        ProcessingStrategy = "standard"
	StrategyPerfumeDatabase ProcessingStrategy = "perfume_database"
	StrategyNotesDatabase   ProcessingStrategy = "notes_database"
	StrategyBrandsDatabase  ProcessingStrategy = "brands_database"
	StrategyRouting         ProcessingStrategy = "routing"
	StrategyMetadataOnly    ProcessingStrategy = "metadata_only"
)

// DetermineStrategy classifies a question into its processing strategy.
// The decision order is fixed; the function is total and deterministic.
func DetermineStrategy(q models.Question) ProcessingStrategy {
	// 1. Explicit routing
	if q.QuestionType == "routing" {
		return StrategyRouting
	}

	// 2. Explicit data source; unrecognized values fall through
	if q.DataSource != "" {
		switch strings.ToLower(q.DataSource) {
		case "perfume_database", "perfumes":
			return StrategyPerfumeDatabase
		case "notes_database", "notes":
			return StrategyNotesDatabase
		case "brands_database", "brands":
			return StrategyBrandsDatabase
		}
	}

	// 3. Infer from the question type when no data source is declared
	questionType := strings.ToLower(q.QuestionType)
	if strings.Contains(questionType, "autocomplete_perfume") {
		return StrategyPerfumeDatabase
	}
	if strings.Contains(questionType, "autocomplete_note") {
		return StrategyNotesDatabase
	}
	if strings.Contains(questionType, "autocomplete_brand") {
		return StrategyBrandsDatabase
	}

	// 4. Explicit zero weight marks a metadata-only question
	if q.HasZeroWeight() {
		return StrategyMetadataOnly
	}

	// 5. Default
	return StrategyStandard
}

// SpecialFamilyValue is a sentinel key that may appear inside
// Option.Families instead of a real family.
type SpecialFamilyValue string

const (
	// InheritFromReference copies families from the referenced perfume;
	// the sentinel's integer value is the inheritance factor.
	InheritFromReference SpecialFamilyValue = "inherit_from_reference"

	// ComplementReference asks scoring to favor complementary perfumes
	// rather than near-duplicates of the reference.
	ComplementReference SpecialFamilyValue = "complement_reference"
)

// DetectSpecialFamilyValue finds a sentinel key in a families map.
func DetectSpecialFamilyValue(families map[string]int) (SpecialFamilyValue, bool) {
	for key := range families {
		switch SpecialFamilyValue(key) {
		case InheritFromReference:
			return InheritFromReference, true
		case ComplementReference:
			return ComplementReference, true
		}
	}
	return "", false
}

func isSpecialFamilyKey(key string) bool {
	return SpecialFamilyValue(key) == InheritFromReference || SpecialFamilyValue(key) == ComplementReference
}

// QuestionProcessingResult is the processor's output aggregate.
type QuestionProcessingResult struct {
	// FamilyContributions maps family key to accumulated score points.
	FamilyContributions map[string]float64

	// Metadata extracted from every answered option.
	Metadata ExtractedMetadata

	// Filters to apply before scoring recommendations.
	Filters ProfileFilters

	// ReferencePerfumeIDs are the resolved catalog ids referenced during
	// processing, in resolution order.
	ReferencePerfumeIDs []string

	// ComplementReference marks that scoring should favor perfumes that
	// complement (not duplicate) the user's references.
	ComplementReference bool
}

// NewQuestionProcessingResult returns an empty, ready-to-accumulate result.
func NewQuestionProcessingResult() QuestionProcessingResult {
	return QuestionProcessingResult{
		FamilyContributions: make(map[string]float64),
	}
}

// ExtractedMetadata accumulates the optional preference signals carried by
// answered options. List fields append; scalar fields are latest-wins.
type ExtractedMetadata struct {
	Gender string

	PreferredOccasions []string
	PreferredSeasons   []string
	PersonalityTraits  []string

	IntensityPreference  string
	IntensityMax         string
	DurationPreference   string
	ProjectionPreference string

	AvoidFamilies  []string
	PreferredNotes []string

	MustContainNotes []string
	HeartNotesBonus  []string
	BaseNotesBonus   []string

	PhasePreference string
	DiscoveryMode   string

	ReferencePerfumes []string
}

// Merge folds another metadata accumulator into this one.
func (m *ExtractedMetadata) Merge(other ExtractedMetadata) {
	if other.Gender != "" {
		m.Gender = other.Gender
	}
	m.PreferredOccasions = append(m.PreferredOccasions, other.PreferredOccasions...)
	m.PreferredSeasons = append(m.PreferredSeasons, other.PreferredSeasons...)
	m.PersonalityTraits = append(m.PersonalityTraits, other.PersonalityTraits...)
	if other.IntensityPreference != "" {
		m.IntensityPreference = other.IntensityPreference
	}
	if other.IntensityMax != "" {
		m.IntensityMax = other.IntensityMax
	}
	if other.DurationPreference != "" {
		m.DurationPreference = other.DurationPreference
	}
	if other.ProjectionPreference != "" {
		m.ProjectionPreference = other.ProjectionPreference
	}
	m.AvoidFamilies = append(m.AvoidFamilies, other.AvoidFamilies...)
	m.PreferredNotes = append(m.PreferredNotes, other.PreferredNotes...)
	m.MustContainNotes = append(m.MustContainNotes, other.MustContainNotes...)
	m.HeartNotesBonus = append(m.HeartNotesBonus, other.HeartNotesBonus...)
	m.BaseNotesBonus = append(m.BaseNotesBonus, other.BaseNotesBonus...)
	if other.PhasePreference != "" {
		m.PhasePreference = other.PhasePreference
	}
	if other.DiscoveryMode != "" {
		m.DiscoveryMode = other.DiscoveryMode
	}
	m.ReferencePerfumes = append(m.ReferencePerfumes, other.ReferencePerfumes...)
}

// ProfileFilters are hard constraints extracted from answers. Candidates
// failing an active filter are excluded before scoring.
type ProfileFilters struct {
	// AllowedBrands, when non-empty, is a mandatory restriction.
	AllowedBrands []string

	RequiredGender string
	MaxPrice       string
	MaxIntensity   string
}

// HasActiveFilters reports whether any filter field is set.
func (f ProfileFilters) HasActiveFilters() bool {
	return len(f.AllowedBrands) > 0 || f.RequiredGender != "" || f.MaxPrice != "" || f.MaxIntensity != ""
}

// Merge folds another filter set into this one.
func (f *ProfileFilters) Merge(other ProfileFilters) {
	f.AllowedBrands = append(f.AllowedBrands, other.AllowedBrands...)
	if other.RequiredGender != "" {
		f.RequiredGender = other.RequiredGender
	}
	if other.MaxPrice != "" {
		f.MaxPrice = other.MaxPrice
	}
	if other.MaxIntensity != "" {
		f.MaxIntensity = other.MaxIntensity
	}
}

// PerfumeReferenceData is a snapshot of a catalog entry captured when the
// user references it, used to derive family contributions.
type PerfumeReferenceData struct {
	PerfumeID   string
	PerfumeKey  string
	Name        string
	Brand       string
	Family      string
	Subfamilies []string
	Intensity   string
	Price       string
	Gender      string
}

// NewPerfumeReferenceData snapshots a catalog entry.
func NewPerfumeReferenceData(p models.Perfume) PerfumeReferenceData {
	return PerfumeReferenceData{
		PerfumeID:   p.ID,
		PerfumeKey:  p.Key,
		Name:        p.Name,
		Brand:       p.Brand,
		Family:      p.Family,
		Subfamilies: p.Subfamilies,
		Intensity:   p.Intensity,
		Price:       p.Price,
		Gender:      p.Gender,
	}
}

// ToFamilyContributions converts the reference into family contributions.
// The primary family receives the full base points; up to three
// subfamilies receive 50%, 40% and 30% respectively. Everything is scaled
// by the inheritance factor.
func (r PerfumeReferenceData) ToFamilyContributions(factor, basePoints float64) map[string]float64 {
	contributions := make(map[string]float64, 1+len(r.Subfamilies))

	contributions[r.Family] = basePoints * factor

	for i, subfamily := range r.Subfamilies {
		if i >= 3 {
			break
		}
		subfamilyPoints := basePoints * 0.5 * (1.0 - float64(i)*0.2)
		contributions[subfamily] = subfamilyPoints * factor
	}

	return contributions
}
