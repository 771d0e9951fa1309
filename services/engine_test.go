package services

import (
	"context"
	"fmt"
	"testing"

	"aromatch/models"

	"github.com/stretchr/testify/assert"
)

func TestCalculateProfile(t *testing.T) {
	engine := NewRecommendationEngine(NewQuestionProcessor(nil))
	ctx := context.Background()

	t.Run("Weighted answers produce a normalized profile", func(t *testing.T) {
		genderAnswer := standardAnswer("profile_A_gender", intPtr(0), nil)
		genderAnswer.Option.Metadata = &models.OptionMetadata{GenderType: "female"}
		answers := models.AnswerSet{
			"profile_A_feeling": standardAnswer("profile_A_feeling", intPtr(2), map[string]int{"woody": 5, "fresh": 2}),
			"profile_A_gender":  genderAnswer,
		}

		profile := engine.CalculateProfile(ctx, answers, "Test profile", models.ProfileTypePersonal)

		assert.Equal(t, "Test profile", profile.Name)
		assert.Equal(t, models.ProfileTypePersonal, profile.ProfileType)
		assert.Equal(t, models.ExperienceBeginner, profile.ExperienceLevel)
		assert.Equal(t, "woody", profile.PrimaryFamily)
		assert.Equal(t, []string{"fresh"}, profile.Subfamilies)
		assert.InDelta(t, 100.0, profile.FamilyScores["woody"], 1e-9)
		assert.InDelta(t, 40.0, profile.FamilyScores["fresh"], 1e-9)
		assert.Equal(t, "female", profile.GenderPreference)

		assert.InDelta(t, 2.0/6.0, profile.AnswerCompleteness, 1e-9)
		// Clarity is capped at 1: 0.6 + completeness × 0.4.
		assert.InDelta(t, 0.6+2.0/6.0*0.4, profile.ConfidenceScore, 1e-9)
	})

	t.Run("Avoided families are penalized before normalization", func(t *testing.T) {
		avoidAnswer := standardAnswer("profile_A_dislikes", intPtr(0), nil)
		avoidAnswer.Option.Metadata = &models.OptionMetadata{AvoidFamilies: []string{"Oriental"}}
		answers := models.AnswerSet{
			"profile_A_feeling":  standardAnswer("profile_A_feeling", intPtr(2), map[string]int{"woody": 5}),
			"profile_A_season":   standardAnswer("profile_A_season", intPtr(2), map[string]int{"oriental": 5}),
			"profile_A_dislikes": avoidAnswer,
		}

		profile := engine.CalculateProfile(ctx, answers, "Avoid test", models.ProfileTypePersonal)

		// Both families scored 10 raw; the avoided one drops to 2 before
		// normalization, so it cannot become primary.
		assert.Equal(t, "woody", profile.PrimaryFamily)
		assert.InDelta(t, 100.0, profile.FamilyScores["woody"], 1e-9)
		assert.InDelta(t, 20.0, profile.FamilyScores["oriental"], 1e-9)
		assert.Equal(t, []string{"Oriental"}, profile.Metadata.AvoidFamilies)
	})

	t.Run("Gender falls back to the gender answer's raw value", func(t *testing.T) {
		answers := models.AnswerSet{
			"profile_B_gender": {
				Question: models.Question{ID: "qb_gender", Key: "profile_B_gender", QuestionType: "single_choice", Weight: intPtr(0)},
				Option:   models.Option{ID: "qb_gender_m", Value: "male"},
			},
			"profile_B_preference": standardAnswer("profile_B_preference", intPtr(3), map[string]int{"woody": 5}),
		}

		profile := engine.CalculateProfile(ctx, answers, "Fallback test", models.ProfileTypePersonal)

		assert.Equal(t, "male", profile.GenderPreference)
		assert.Equal(t, models.ExperienceIntermediate, profile.ExperienceLevel)
	})

	t.Run("Missing gender answer defaults to unisex", func(t *testing.T) {
		answers := models.AnswerSet{
			"profile_A_feeling": standardAnswer("profile_A_feeling", intPtr(2), map[string]int{"floral": 5}),
		}

		profile := engine.CalculateProfile(ctx, answers, "No gender", models.ProfileTypePersonal)

		assert.Equal(t, "unisex", profile.GenderPreference)
	})

	t.Run("Questions and answers are recorded in sorted order", func(t *testing.T) {
		answers := models.AnswerSet{
			"profile_A_season":  standardAnswer("profile_A_season", intPtr(1), map[string]int{"fresh": 3}),
			"profile_A_feeling": standardAnswer("profile_A_feeling", intPtr(2), map[string]int{"woody": 5}),
		}

		profile := engine.CalculateProfile(ctx, answers, "Order test", models.ProfileTypePersonal)

		assert.Len(t, profile.QuestionsAndAnswers, 2)
		assert.Equal(t, "profile_A_feeling", profile.QuestionsAndAnswers[0].QuestionID)
		assert.Equal(t, "profile_A_season", profile.QuestionsAndAnswers[1].QuestionID)
	})

	t.Run("The complement flag propagates into the profile metadata", func(t *testing.T) {
		answers := models.AnswerSet{
			"profile_C_feeling": standardAnswer("profile_C_feeling", intPtr(2), map[string]int{"woody": 5}),
			"profile_C_structure": {
				Question: models.Question{ID: "qc_structure", Key: "profile_C_structure", QuestionType: "single_choice", Weight: intPtr(3)},
				Option:   models.Option{Families: map[string]int{"complement_reference": 1}},
			},
		}

		profile := engine.CalculateProfile(ctx, answers, "Complement test", models.ProfileTypePersonal)

		assert.True(t, profile.Metadata.ComplementReference)
	})

	t.Run("Brand filters survive into the profile metadata", func(t *testing.T) {
		answers := models.AnswerSet{
			"profile_C_brands": {
				Question: models.Question{ID: "qc_brands", Key: "profile_C_brands", QuestionType: "autocomplete_brand", DataSource: "brands_database"},
				Option:   models.Option{Value: "Maison Lumen"},
			},
			"profile_C_feeling": standardAnswer("profile_C_feeling", intPtr(2), map[string]int{"woody": 5}),
		}

		profile := engine.CalculateProfile(ctx, answers, "Brands test", models.ProfileTypePersonal)

		assert.Equal(t, []string{"Maison Lumen"}, profile.Metadata.AllowedBrands)
		assert.Equal(t, models.ExperienceExpert, profile.ExperienceLevel)
	})
}

func TestCalculatePerfumeScore(t *testing.T) {
	engine := NewRecommendationEngine(NewQuestionProcessor(nil))

	baseProfile := models.UnifiedProfile{
		ProfileType:     models.ProfileTypePersonal,
		ExperienceLevel: models.ExperienceBeginner,
		PrimaryFamily:   "woody",
		FamilyScores:    map[string]float64{"woody": 100.0},
	}

	t.Run("Family match and popularity combine with beginner weights", func(t *testing.T) {
		perfume := models.Perfume{ID: "p1", Family: "woody", Popularity: 8.0}

		score := engine.CalculatePerfumeScore(perfume, baseProfile)

		// 40 family points × 0.55 + popularity 8/10 × 0.10 × 100.
		assert.InDelta(t, 30.0, score, 1e-9)
	})

	t.Run("An intensity cap disqualifies stronger perfumes outright", func(t *testing.T) {
		profile := baseProfile
		profile.Metadata.IntensityMax = "medium"
		strong := models.Perfume{ID: "p2", Family: "woody", Intensity: "very_high", Popularity: 9.0}
		mild := models.Perfume{ID: "p3", Family: "woody", Intensity: "low", Popularity: 9.0}

		assert.Zero(t, engine.CalculatePerfumeScore(strong, profile))
		assert.Greater(t, engine.CalculatePerfumeScore(mild, profile), 0.0)
	})

	t.Run("Required notes disqualify perfumes missing any of them", func(t *testing.T) {
		profile := baseProfile
		profile.Metadata.MustContainNotes = []string{"oud"}
		without := models.Perfume{ID: "p4", Family: "woody", BaseNotes: []string{"musk"}, Popularity: 9.0}
		with := models.Perfume{ID: "p5", Family: "woody", BaseNotes: []string{"oud"}, Popularity: 9.0}

		assert.Zero(t, engine.CalculatePerfumeScore(without, profile))
		assert.Greater(t, engine.CalculatePerfumeScore(with, profile), 0.0)
	})

	t.Run("Gender mismatches disqualify only for gift profiles", func(t *testing.T) {
		malePerfume := models.Perfume{ID: "p6", Family: "woody", Gender: "male", Popularity: 8.0}

		giftProfile := baseProfile
		giftProfile.ProfileType = models.ProfileTypeGift
		giftProfile.GenderPreference = "female"
		assert.Zero(t, engine.CalculatePerfumeScore(malePerfume, giftProfile))

		personalProfile := baseProfile
		personalProfile.GenderPreference = "female"
		assert.Greater(t, engine.CalculatePerfumeScore(malePerfume, personalProfile), 0.0)
	})

	t.Run("Gifts get a bonus for accessible prices", func(t *testing.T) {
		profile := baseProfile
		profile.ProfileType = models.ProfileTypeGift
		profile.GenderPreference = "unisex"

		affordable := models.Perfume{ID: "p7", Family: "woody", Price: "low", Popularity: 5.0}
		luxury := models.Perfume{ID: "p8", Family: "woody", Price: "luxury", Popularity: 5.0}

		// Gift weights: 40 × 0.30 + popularity 5/10 × 0.20 × 100 = 22,
		// plus 0.10 × 100 for an accessible price.
		assert.InDelta(t, 32.0, engine.CalculatePerfumeScore(affordable, profile), 1e-9)
		assert.InDelta(t, 22.0, engine.CalculatePerfumeScore(luxury, profile), 1e-9)
	})

	t.Run("Avoided families keep a heavily reduced score", func(t *testing.T) {
		profile := baseProfile
		profile.Metadata.AvoidFamilies = []string{"Oriental"}
		perfume := models.Perfume{ID: "p9", Family: "oriental", Popularity: 8.0}

		// Only the popularity component remains, then ×0.3.
		assert.InDelta(t, 2.4, engine.CalculatePerfumeScore(perfume, profile), 1e-9)
	})

	t.Run("Complement mode de-emphasizes the primary family", func(t *testing.T) {
		profile := baseProfile
		profile.Metadata.ComplementReference = true
		samefamily := models.Perfume{ID: "p11", Family: "woody", Popularity: 8.0}

		// Family match drops to 40 × 0.7 before weighting.
		assert.InDelta(t, 40.0*0.7*0.55+8.0, engine.CalculatePerfumeScore(samefamily, profile), 1e-9)
	})

	t.Run("Scores are clamped to 100", func(t *testing.T) {
		profile := models.UnifiedProfile{
			ProfileType:     models.ProfileTypePersonal,
			ExperienceLevel: models.ExperienceExpert,
			PrimaryFamily:   "woody",
			FamilyScores:    map[string]float64{"woody": 100.0},
			Metadata: models.ProfileMetadata{
				PreferredNotes:      []string{"rose", "oud", "iris"},
				HeartNotesBonus:     []string{"rose", "jasmine", "iris"},
				BaseNotesBonus:      []string{"oud", "musk", "amber"},
				PreferredOccasions:  []string{"evening"},
				PreferredSeasons:    []string{"winter"},
				IntensityPreference: "high",
				DurationPreference:  "long",
			},
		}
		perfume := models.Perfume{
			ID: "p10", Family: "woody",
			HeartNotes:         []string{"rose", "jasmine", "iris"},
			BaseNotes:          []string{"oud", "musk", "amber"},
			Occasions:          []string{"evening"},
			RecommendedSeasons: []string{"winter"},
			Intensity:          "high",
			Duration:           "long",
			Popularity:         10.0,
		}

		assert.InDelta(t, 100.0, engine.CalculatePerfumeScore(perfume, profile), 1e-9)
	})
}

func TestGetRecommendations(t *testing.T) {
	engine := NewRecommendationEngine(NewQuestionProcessor(nil))

	t.Run("The result mixes families and stays sorted by score", func(t *testing.T) {
		profile := models.UnifiedProfile{
			ProfileType:     models.ProfileTypePersonal,
			ExperienceLevel: models.ExperienceBeginner,
			PrimaryFamily:   "woody",
			Subfamilies:     []string{"fresh", "citrus"},
			FamilyScores:    map[string]float64{"woody": 100.0, "fresh": 50.0, "citrus": 30.0},
		}

		var catalog []models.Perfume
		for i := 0; i < 8; i++ {
			catalog = append(catalog, models.Perfume{
				ID: fmt.Sprintf("w%d", i+1), Family: "woody", Popularity: 9.0 - float64(i)*0.1,
			})
		}
		for i := 0; i < 3; i++ {
			catalog = append(catalog, models.Perfume{
				ID: fmt.Sprintf("f%d", i+1), Family: "fresh", Popularity: 5.0 - float64(i)*0.1,
			})
		}
		catalog = append(catalog, models.Perfume{ID: "c1", Family: "citrus", Popularity: 4.0})

		recommendations := engine.GetRecommendations(profile, catalog, 10)

		assert.Len(t, recommendations, 10)

		ids := make(map[string]bool, len(recommendations))
		for _, rec := range recommendations {
			ids[rec.PerfumeID] = true
		}
		// 60/25/15 split: six woody, two fresh, one citrus, one back-filled
		// woody. The weakest woody and fresh candidates are left out even
		// though w8 outscores every fresh perfume.
		assert.True(t, ids["f1"])
		assert.True(t, ids["f2"])
		assert.True(t, ids["c1"])
		assert.False(t, ids["w8"])
		assert.False(t, ids["f3"])

		assert.Equal(t, "w1", recommendations[0].PerfumeID)
		for i := 1; i < len(recommendations); i++ {
			assert.GreaterOrEqual(t, recommendations[i-1].MatchPercentage, recommendations[i].MatchPercentage)
		}
	})

	t.Run("Mandatory brand filters drop everything else", func(t *testing.T) {
		profile := models.UnifiedProfile{
			ProfileType:     models.ProfileTypePersonal,
			ExperienceLevel: models.ExperienceBeginner,
			PrimaryFamily:   "woody",
			FamilyScores:    map[string]float64{"woody": 100.0},
			Metadata:        models.ProfileMetadata{AllowedBrands: []string{"Maison Lumen"}},
		}
		catalog := []models.Perfume{
			{ID: "p1", Brand: "Maison Lumen", Family: "woody", Popularity: 6.0},
			{ID: "p2", Brand: "Atelier Nord", Family: "woody", Popularity: 9.0},
			{ID: "p3", Brand: "maison lumen", Family: "woody", Popularity: 5.0},
		}

		recommendations := engine.GetRecommendations(profile, catalog, 10)

		assert.Len(t, recommendations, 2)
		for _, rec := range recommendations {
			assert.NotEqual(t, "p2", rec.PerfumeID)
		}
	})

	t.Run("Disqualified perfumes never appear", func(t *testing.T) {
		profile := models.UnifiedProfile{
			ProfileType:      models.ProfileTypeGift,
			GenderPreference: "female",
			PrimaryFamily:    "floral",
			FamilyScores:     map[string]float64{"floral": 100.0},
		}
		catalog := []models.Perfume{
			{ID: "p1", Family: "floral", Gender: "female", Popularity: 5.0},
			{ID: "p2", Family: "floral", Gender: "male", Popularity: 10.0},
		}

		recommendations := engine.GetRecommendations(profile, catalog, 10)

		assert.Len(t, recommendations, 1)
		assert.Equal(t, "p1", recommendations[0].PerfumeID)
	})

	t.Run("A non-positive limit defaults to ten", func(t *testing.T) {
		profile := models.UnifiedProfile{
			ProfileType:     models.ProfileTypePersonal,
			ExperienceLevel: models.ExperienceBeginner,
			PrimaryFamily:   "woody",
			FamilyScores:    map[string]float64{"woody": 100.0},
		}
		var catalog []models.Perfume
		for i := 0; i < 15; i++ {
			catalog = append(catalog, models.Perfume{
				ID: fmt.Sprintf("p%d", i+1), Family: "woody", Popularity: 5.0,
			})
		}

		recommendations := engine.GetRecommendations(profile, catalog, 0)

		assert.Len(t, recommendations, 10)
	})
}
