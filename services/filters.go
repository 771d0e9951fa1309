package services

import (
	"strings"

	"aromatch/models"
)

// Recommendation-time predicate filters. Each filter hard-excludes catalog
// candidates before scoring; all comparisons are case and whitespace
// insensitive.

var maleGenderVariants = []string{"hombre", "masculino", "male", "man", "men", "masculine"}
var femaleGenderVariants = []string{"mujer", "femenino", "female", "woman", "women", "feminine"}

// intensityLevels maps intensity labels to an ordinal scale. Spelling
// variants of "very high" are accepted.
var intensityLevels = map[string]int{
	"low":       1,
	"medium":    2,
	"high":      3,
	"very_high": 4,
	"very high": 4,
	"veryhigh":  4,
}

// MatchesGender reports whether the perfume's gender is compatible with
// the stated preference. "any"/"all" preferences and "unisex" on either
// side always match; otherwise both sides must land in the same variant
// set (male or female).
func MatchesGender(perfume models.Perfume, preference string) bool {
	perfumeGender := normalizeToken(perfume.Gender)
	preferredGender := normalizeToken(preference)

	if preferredGender == "any" || preferredGender == "all" {
		return true
	}

	if perfumeGender == "unisex" || preferredGender == "unisex" {
		return true
	}

	isMalePreference := containsToken(maleGenderVariants, preferredGender)
	isFemalePreference := containsToken(femaleGenderVariants, preferredGender)
	isMalePerfume := containsToken(maleGenderVariants, perfumeGender)
	isFemalePerfume := containsToken(femaleGenderVariants, perfumeGender)

	return (isMalePreference && isMalePerfume) || (isFemalePreference && isFemalePerfume)
}

// MatchesIntensityLimit reports whether the perfume's intensity is at or
// below the given ceiling. If either side fails to parse, the filter
// passes permissively rather than excluding on bad data.
func MatchesIntensityLimit(perfume models.Perfume, maxIntensity string) bool {
	perfumeLevel, okPerfume := intensityLevels[normalizeToken(perfume.Intensity)]
	maxLevel, okMax := intensityLevels[normalizeToken(maxIntensity)]
	if !okPerfume || !okMax {
		return true
	}
	return perfumeLevel <= maxLevel
}

// ContainsAllRequiredNotes reports whether every required note is present
// somewhere in the perfume's top, heart or base notes (AND semantics).
func ContainsAllRequiredNotes(perfume models.Perfume, requiredNotes []string) bool {
	allNotes := make(map[string]bool)
	for _, note := range perfume.AllNotes() {
		allNotes[normalizeToken(note)] = true
	}

	for _, required := range requiredNotes {
		if !allNotes[normalizeToken(required)] {
			return false
		}
	}
	return true
}

func normalizeToken(s string) string {
	return strings.TrimSpace(strings.ToLower(s))
}

func containsToken(variants []string, token string) bool {
	for _, v := range variants {
		if v == token {
			return true
		}
	}
	return false
}
