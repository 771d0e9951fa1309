package services

import (
	"context"
	"log"
	"sort"
	"strings"

	"aromatch/models"
)

// RecommendationEngine computes olfactive profiles from questionnaire
// answers and ranks catalog perfumes against them. All heavy lifting is
// delegated to the QuestionProcessor, the calculation helpers and the
// scoring functions; the engine owns the combination logic.
type RecommendationEngine struct {
	processor *QuestionProcessor
}

// NewRecommendationEngine creates an engine around the given processor.
func NewRecommendationEngine(processor *QuestionProcessor) *RecommendationEngine {
	return &RecommendationEngine{processor: processor}
}

// CalculateProfile processes the answers into a UnifiedProfile: family
// contributions are penalized for avoided families, normalized to 0-100,
// and enriched with primary families, confidence and completeness.
func (e *RecommendationEngine) CalculateProfile(
	ctx context.Context,
	answers models.AnswerSet,
	profileName string,
	profileType models.ProfileType,
) models.UnifiedProfile {

	log.Printf("INFO: [RecommendationEngine] Calculating profile '%s' (type: %s, answers: %d).",
		profileName, profileType, len(answers))

	experienceLevel := DetermineExperienceLevel(answers)
	processingResult := e.processor.ProcessAnswers(ctx, answers, nil)

	genderPreference := processingResult.Metadata.Gender
	if genderPreference == "" {
		genderPreference = extractGenderFromAnswers(answers)
	}

	familyScores := processingResult.FamilyContributions

	// Avoided families are penalized before normalization so they cannot
	// become the primary family.
	for _, avoidFamily := range processingResult.Metadata.AvoidFamilies {
		normalized := strings.ToLower(avoidFamily)
		for family, score := range familyScores {
			if strings.ToLower(family) == normalized {
				familyScores[family] = score * 0.2
				log.Printf("INFO: [RecommendationEngine] Penalized avoided family '%s': %.1f -> %.1f", family, score, familyScores[family])
			}
		}
	}

	normalizedScores := NormalizeFamilyScores(familyScores)
	primaryFamily, subfamilies := DeterminePrimaryFamilies(normalizedScores)

	completeness := CalculateCompleteness(answers, experienceLevel)
	confidence := CalculateConfidence(normalizedScores, completeness)

	questionsAndAnswers := make([]models.QuestionAnswer, 0, len(answers))
	for _, answer := range answers {
		questionsAndAnswers = append(questionsAndAnswers, models.QuestionAnswer{
			QuestionID: answer.Question.ID,
			AnswerID:   answer.Option.ID,
		})
	}
	sort.Slice(questionsAndAnswers, func(i, j int) bool {
		return questionsAndAnswers[i].QuestionID < questionsAndAnswers[j].QuestionID
	})

	metadata := convertToProfileMetadata(processingResult.Metadata)
	metadata.AllowedBrands = processingResult.Filters.AllowedBrands
	metadata.ComplementReference = processingResult.ComplementReference

	log.Printf("INFO: [RecommendationEngine] Profile '%s' calculated: primary=%s subfamilies=%v gender=%s level=%s confidence=%.2f",
		profileName, primaryFamily, subfamilies, genderPreference, experienceLevel, confidence)

	return models.UnifiedProfile{
		Name:                profileName,
		ProfileType:         profileType,
		ExperienceLevel:     experienceLevel,
		PrimaryFamily:       primaryFamily,
		Subfamilies:         subfamilies,
		FamilyScores:        normalizedScores,
		GenderPreference:    genderPreference,
		Metadata:            metadata,
		ConfidenceScore:     confidence,
		AnswerCompleteness:  completeness,
		QuestionsAndAnswers: questionsAndAnswers,
	}
}

// CalculatePerfumeScore scores a single perfume against a profile on a
// 0-100 scale. Hard filters disqualify first; the weighted sub-scores are
// then combined and penalties applied.
func (e *RecommendationEngine) CalculatePerfumeScore(perfume models.Perfume, profile models.UnifiedProfile) float64 {
	weights := GetWeights(profile.ProfileType, profile.ExperienceLevel)
	score := 0.0

	// Hard disqualifications
	if profile.Metadata.IntensityMax != "" &&
		!MatchesIntensityLimit(perfume, profile.Metadata.IntensityMax) {
		return 0.0
	}
	if len(profile.Metadata.MustContainNotes) > 0 &&
		!ContainsAllRequiredNotes(perfume, profile.Metadata.MustContainNotes) {
		return 0.0
	}
	if profile.ProfileType == models.ProfileTypeGift &&
		!MatchesGender(perfume, profile.GenderPreference) {
		return 0.0
	}

	// 1. Family match (main weight)
	familyMatch := CalculateFamilyMatch(perfume, profile)
	if profile.Metadata.ComplementReference && strings.EqualFold(perfume.Family, profile.PrimaryFamily) {
		// The user asked for something different from their references, so
		// same-family perfumes give up part of the family score in favor of
		// the adjacent subfamilies.
		familyMatch *= 0.7
	}
	score += familyMatch * weights.Families

	// 2. Note bonuses
	if len(profile.Metadata.PreferredNotes) > 0 {
		score += CalculateNoteBonus(perfume, profile.Metadata.PreferredNotes) * weights.Notes
	}
	if len(profile.Metadata.HeartNotesBonus) > 0 {
		score += CalculateHeartNotesBonus(perfume, profile.Metadata.HeartNotesBonus) * weights.Notes
	}
	if len(profile.Metadata.BaseNotesBonus) > 0 {
		score += CalculateBaseNotesBonus(perfume, profile.Metadata.BaseNotesBonus) * weights.Notes
	}

	// 3. Context (occasion + season)
	score += CalculateContextMatch(perfume, profile.Metadata) * weights.Context

	// 4. Popularity (0-10 scale)
	score += (perfume.Popularity / 10.0) * weights.Popularity * 100.0

	// 5. Accessible price bonus for gifts
	if profile.ProfileType == models.ProfileTypeGift &&
		(perfume.Price == "low" || perfume.Price == "medium") {
		score += weights.Price * 100.0
	}

	// Avoided-family penalty
	for _, avoidFamily := range profile.Metadata.AvoidFamilies {
		if strings.EqualFold(avoidFamily, perfume.Family) {
			score *= 0.3
			break
		}
	}

	if score > 100.0 {
		score = 100.0
	}
	return score
}

// GetRecommendations ranks the catalog against a profile. Mandatory brand
// filters apply first, then scoring; the result mixes families in a
// 60/25/15 split across the primary family and the first two subfamilies
// to avoid monotone lists, back-filled with the best remaining matches
// and finally re-sorted by score.
func (e *RecommendationEngine) GetRecommendations(
	profile models.UnifiedProfile,
	perfumes []models.Perfume,
	limit int,
) []models.RecommendedPerfume {

	if limit <= 0 {
		limit = 10
	}

	log.Printf("INFO: [RecommendationEngine] Generating recommendations for '%s': %d candidates, limit %d.",
		profile.Name, len(perfumes), limit)

	candidates := perfumes
	if len(profile.Metadata.AllowedBrands) > 0 {
		allowed := make(map[string]bool, len(profile.Metadata.AllowedBrands))
		for _, brand := range profile.Metadata.AllowedBrands {
			allowed[normalizeToken(brand)] = true
		}
		candidates = candidates[:0:0]
		for _, perfume := range perfumes {
			if allowed[normalizeToken(perfume.Brand)] {
				candidates = append(candidates, perfume)
			}
		}
		log.Printf("INFO: [RecommendationEngine] Mandatory brand filter: %d of %d candidates remain.",
			len(candidates), len(perfumes))
	}

	type scoredPerfume struct {
		perfume models.Perfume
		score   float64
	}

	scored := make([]scoredPerfume, 0, len(candidates))
	for _, perfume := range candidates {
		if score := e.CalculatePerfumeScore(perfume, profile); score > 0 {
			scored = append(scored, scoredPerfume{perfume, score})
		}
	}

	byFamily := func(family string) []scoredPerfume {
		var matches []scoredPerfume
		for _, s := range scored {
			if strings.EqualFold(s.perfume.Family, family) {
				matches = append(matches, s)
			}
		}
		sort.SliceStable(matches, func(i, j int) bool { return matches[i].score > matches[j].score })
		return matches
	}

	take := func(pool []scoredPerfume, n int) []scoredPerfume {
		if n > len(pool) {
			n = len(pool)
		}
		return pool[:n]
	}

	var picks []scoredPerfume
	picks = append(picks, take(byFamily(profile.PrimaryFamily), int(float64(limit)*0.60))...)
	if len(profile.Subfamilies) > 0 {
		picks = append(picks, take(byFamily(profile.Subfamilies[0]), int(float64(limit)*0.25))...)
	}
	if len(profile.Subfamilies) > 1 {
		picks = append(picks, take(byFamily(profile.Subfamilies[1]), int(float64(limit)*0.15))...)
	}

	if len(picks) < limit {
		used := make(map[string]bool, len(picks))
		for _, s := range picks {
			used[s.perfume.ID] = true
		}
		remaining := make([]scoredPerfume, 0, len(scored))
		for _, s := range scored {
			if !used[s.perfume.ID] {
				remaining = append(remaining, s)
			}
		}
		sort.SliceStable(remaining, func(i, j int) bool { return remaining[i].score > remaining[j].score })
		picks = append(picks, take(remaining, limit-len(picks))...)
	}

	sort.SliceStable(picks, func(i, j int) bool { return picks[i].score > picks[j].score })
	if len(picks) > limit {
		picks = picks[:limit]
	}

	recommendations := make([]models.RecommendedPerfume, 0, len(picks))
	for _, s := range picks {
		recommendations = append(recommendations, models.RecommendedPerfume{
			PerfumeID:       s.perfume.ID,
			MatchPercentage: s.score,
		})
	}

	log.Printf("INFO: [RecommendationEngine] Produced %d recommendations for '%s'.", len(recommendations), profile.Name)
	return recommendations
}

// convertToProfileMetadata copies the processor's accumulator into the
// persisted profile metadata shape.
func convertToProfileMetadata(extracted ExtractedMetadata) models.ProfileMetadata {
	return models.ProfileMetadata{
		PreferredOccasions:   extracted.PreferredOccasions,
		PreferredSeasons:     extracted.PreferredSeasons,
		PersonalityTraits:    extracted.PersonalityTraits,
		PreferredNotes:       extracted.PreferredNotes,
		AvoidFamilies:        extracted.AvoidFamilies,
		IntensityPreference:  extracted.IntensityPreference,
		IntensityMax:         extracted.IntensityMax,
		DurationPreference:   extracted.DurationPreference,
		ProjectionPreference: extracted.ProjectionPreference,
		MustContainNotes:     extracted.MustContainNotes,
		HeartNotesBonus:      extracted.HeartNotesBonus,
		BaseNotesBonus:       extracted.BaseNotesBonus,
		PhasePreference:      extracted.PhasePreference,
		DiscoveryMode:        extracted.DiscoveryMode,
		ReferencePerfumes:    extracted.ReferencePerfumes,
	}
}

// extractGenderFromAnswers is the fallback when no option metadata set a
// gender: find a gender question and use its option's gender type or raw
// value, defaulting to unisex.
func extractGenderFromAnswers(answers models.AnswerSet) string {
	for _, answer := range answers {
		if !strings.Contains(answer.Question.Key, "gender") {
			continue
		}
		if answer.Option.Metadata != nil && answer.Option.Metadata.GenderType != "" {
			return answer.Option.Metadata.GenderType
		}
		return answer.Option.Value
	}
	return "unisex"
}
