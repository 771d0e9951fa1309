package services

import (
	"aromatch/models"
)

// Recommendation scoring: pure functions computing 0-100 sub-scores for a
// single catalog item against a computed profile. The engine combines
// them with the weight profile into a final percentage.

// CalculateFamilyMatch scores the olfactive family overlap between a
// perfume and a profile. The primary family is worth up to 40 points,
// each matching subfamily up to 10, and exact intensity and duration
// matches add 10 each. The total is clamped to 100.
func CalculateFamilyMatch(perfume models.Perfume, profile models.UnifiedProfile) float64 {
	score := 0.0

	if primaryScore, ok := profile.FamilyScores[perfume.Family]; ok {
		score += (primaryScore / 100.0) * 40.0
	}

	for _, subfamily := range perfume.Subfamilies {
		if subfamilyScore, ok := profile.FamilyScores[subfamily]; ok {
			score += (subfamilyScore / 100.0) * 10.0
		}
	}

	if profile.Metadata.IntensityPreference != "" &&
		equalFold(perfume.Intensity, profile.Metadata.IntensityPreference) {
		score += 10.0
	}

	if profile.Metadata.DurationPreference != "" &&
		equalFold(perfume.Duration, profile.Metadata.DurationPreference) {
		score += 10.0
	}

	if score > 100.0 {
		score = 100.0
	}
	return score
}

// CalculateNoteBonus scores how many distinct preferred notes appear
// anywhere in the perfume. The step function rewards the first matches
// most: 1 note is already a strong signal.
func CalculateNoteBonus(perfume models.Perfume, preferredNotes []string) float64 {
	matches := countNoteMatches(perfume.AllNotes(), preferredNotes)
	switch matches {
	case 0:
		return 0.0
	case 1:
		return 40.0
	case 2:
		return 70.0
	default:
		return 100.0
	}
}

// CalculateHeartNotesBonus scores bonus-note presence restricted to the
// perfume's heart notes. Perfumes without heart notes score 0.
func CalculateHeartNotesBonus(perfume models.Perfume, bonusNotes []string) float64 {
	return noteSlotBonus(perfume.HeartNotes, bonusNotes)
}

// CalculateBaseNotesBonus scores bonus-note presence restricted to the
// perfume's base notes. Perfumes without base notes score 0.
func CalculateBaseNotesBonus(perfume models.Perfume, bonusNotes []string) float64 {
	return noteSlotBonus(perfume.BaseNotes, bonusNotes)
}

func noteSlotBonus(slotNotes, bonusNotes []string) float64 {
	if len(slotNotes) == 0 {
		return 0.0
	}
	matches := countNoteMatches(slotNotes, bonusNotes)
	switch matches {
	case 0:
		return 0.0
	case 1:
		return 30.0
	case 2:
		return 60.0
	default:
		return 100.0
	}
}

// CalculateContextMatch independently checks occasion and season overlap.
// Each applicable dimension (the profile stated a preference) counts as
// one check; the score is the fraction of passed checks on a 0-100 scale.
// With no applicable dimension the score is 0.
func CalculateContextMatch(perfume models.Perfume, metadata models.ProfileMetadata) float64 {
	score := 0.0
	checks := 0.0

	if len(metadata.PreferredOccasions) > 0 {
		checks++
		if anyOverlapFold(perfume.Occasions, metadata.PreferredOccasions) {
			score++
		}
	}

	if len(metadata.PreferredSeasons) > 0 {
		checks++
		if anyOverlapFold(perfume.RecommendedSeasons, metadata.PreferredSeasons) {
			score++
		}
	}

	if checks == 0 {
		return 0.0
	}
	return (score / checks) * 100.0
}

// countNoteMatches counts the wanted notes present in the available set,
// case-insensitively. Duplicate wanted notes count once.
func countNoteMatches(available, wanted []string) int {
	availableSet := make(map[string]bool, len(available))
	for _, note := range available {
		availableSet[normalizeToken(note)] = true
	}

	seen := make(map[string]bool, len(wanted))
	matches := 0
	for _, note := range wanted {
		normalized := normalizeToken(note)
		if availableSet[normalized] && !seen[normalized] {
			seen[normalized] = true
			matches++
		}
	}
	return matches
}

func anyOverlapFold(a, b []string) bool {
	set := make(map[string]bool, len(b))
	for _, v := range b {
		set[normalizeToken(v)] = true
	}
	for _, v := range a {
		if set[normalizeToken(v)] {
			return true
		}
	}
	return false
}

func equalFold(a, b string) bool {
	return normalizeToken(a) == normalizeToken(b)
}
