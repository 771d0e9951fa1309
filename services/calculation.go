package services

import (
	"sort"
	"strings"

	"aromatch/models"
)

// Profile calculation helpers: pure functions used by the processor and
// the recommendation engine to turn raw contributions into a profile.

// DetermineExperienceLevel infers the user's experience tier from the
// answered question keys. Flow C questions mark an expert, flow B an
// intermediate; everything else is a beginner.
func DetermineExperienceLevel(answers models.AnswerSet) models.ExperienceLevel {
	for key := range answers {
		if strings.Contains(key, "profile_C") {
			return models.ExperienceExpert
		}
	}
	for key := range answers {
		if strings.Contains(key, "profile_B") {
			return models.ExperienceIntermediate
		}
	}
	return models.ExperienceBeginner
}

// GetDefaultWeight returns the fallback weight for a question that lacks
// an explicit one, based on keywords in its key.
func GetDefaultWeight(questionKey string) int {
	// Metadata questions carry no scoring weight
	if strings.Contains(questionKey, "gender") ||
		strings.Contains(questionKey, "intensity") ||
		strings.Contains(questionKey, "concentration") {
		return 0
	}

	// Core preference questions
	if strings.Contains(questionKey, "preference") ||
		strings.Contains(questionKey, "structure") {
		return 3
	}

	// Feelings and personality
	if strings.Contains(questionKey, "feeling") ||
		strings.Contains(questionKey, "personality") ||
		strings.Contains(questionKey, "discovery") {
		return 2
	}

	// Contextual questions
	if strings.Contains(questionKey, "time") ||
		strings.Contains(questionKey, "season") ||
		strings.Contains(questionKey, "occasion") ||
		strings.Contains(questionKey, "balance") {
		return 1
	}

	return 1
}

// NormalizeFamilyScores rescales scores so the top family lands at exactly
// 100. A map with no positive value is returned unchanged.
func NormalizeFamilyScores(scores map[string]float64) map[string]float64 {
	var maxScore float64
	for _, v := range scores {
		if v > maxScore {
			maxScore = v
		}
	}
	if maxScore <= 0 {
		return scores
	}

	factor := 100.0 / maxScore
	normalized := make(map[string]float64, len(scores))
	for family, score := range scores {
		normalized[family] = score * factor
	}
	return normalized
}

// DeterminePrimaryFamilies picks the highest-scoring family as primary and
// the next up to three as subfamilies. Ties break alphabetically so the
// selection is deterministic. Empty scores yield "unknown".
func DeterminePrimaryFamilies(scores map[string]float64) (primary string, subfamilies []string) {
	if len(scores) == 0 {
		return "unknown", nil
	}

	sorted := sortedFamilies(scores)
	primary = sorted[0]

	limit := 3
	if len(sorted)-1 < limit {
		limit = len(sorted) - 1
	}
	subfamilies = sorted[1 : 1+limit]
	return primary, subfamilies
}

// CalculateConfidence combines the clarity of the top-two family gap with
// answer completeness into a 0-1 confidence score.
func CalculateConfidence(scores map[string]float64, completeness float64) float64 {
	clarity := 1.0
	if len(scores) >= 2 {
		sorted := sortedFamilies(scores)
		diff := scores[sorted[0]] - scores[sorted[1]]
		clarity = diff / 50.0
		if clarity > 1.0 {
			clarity = 1.0
		}
	}
	return clarity*0.6 + completeness*0.4
}

// CalculateCompleteness measures how much of the expected flow was
// answered. Flows A, B and C expect 6, 7 and 8 questions respectively.
func CalculateCompleteness(answers models.AnswerSet, level models.ExperienceLevel) float64 {
	var expected float64
	switch level {
	case models.ExperienceBeginner:
		expected = 6.0
	case models.ExperienceIntermediate:
		expected = 7.0
	case models.ExperienceExpert:
		expected = 8.0
	default:
		expected = 6.0
	}

	completeness := float64(len(answers)) / expected
	if completeness > 1.0 {
		completeness = 1.0
	}
	return completeness
}

// ExtractOptionMetadata folds an option's structured metadata into the
// accumulator. List fields append; scalar fields overwrite with the
// latest non-empty value.
func ExtractOptionMetadata(optionMeta *models.OptionMetadata, metadata *ExtractedMetadata) {
	if optionMeta == nil {
		return
	}

	if optionMeta.GenderType != "" {
		metadata.Gender = optionMeta.GenderType
	} else if optionMeta.Gender != "" {
		metadata.Gender = optionMeta.Gender
	}

	metadata.PreferredOccasions = append(metadata.PreferredOccasions, optionMeta.Occasion...)
	metadata.PreferredSeasons = append(metadata.PreferredSeasons, optionMeta.Season...)
	metadata.PersonalityTraits = append(metadata.PersonalityTraits, optionMeta.Personality...)

	if optionMeta.Intensity != "" {
		metadata.IntensityPreference = optionMeta.Intensity
	}
	if optionMeta.IntensityMax != "" {
		metadata.IntensityMax = optionMeta.IntensityMax
	}
	if optionMeta.Duration != "" {
		metadata.DurationPreference = optionMeta.Duration
	}
	if optionMeta.Projection != "" {
		metadata.ProjectionPreference = optionMeta.Projection
	}

	metadata.AvoidFamilies = append(metadata.AvoidFamilies, optionMeta.AvoidFamilies...)
	metadata.MustContainNotes = append(metadata.MustContainNotes, optionMeta.MustContainNotes...)
	metadata.HeartNotesBonus = append(metadata.HeartNotesBonus, optionMeta.HeartNotesBonus...)
	metadata.BaseNotesBonus = append(metadata.BaseNotesBonus, optionMeta.BaseNotesBonus...)

	if optionMeta.PhasePreference != "" {
		metadata.PhasePreference = optionMeta.PhasePreference
	}
	if optionMeta.DiscoveryMode != "" {
		metadata.DiscoveryMode = optionMeta.DiscoveryMode
	}
}

// sortedFamilies returns family keys ordered by score descending, with
// alphabetical tie-breaking for determinism.
func sortedFamilies(scores map[string]float64) []string {
	keys := make([]string, 0, len(scores))
	for k := range scores {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if scores[keys[i]] != scores[keys[j]] {
			return scores[keys[i]] > scores[keys[j]]
		}
		return keys[i] < keys[j]
	})
	return keys
}
