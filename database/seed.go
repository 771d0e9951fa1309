package database

import (
	"encoding/json"
	"fmt"
	"log"
	"os"

	"aromatch/models"
)

func intPtr(v int) *int { return &v }

// LoadQuestions reads a question bank from a JSON file. The file holds a
// plain array of Question records.
func LoadQuestions(path string) ([]models.Question, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read question bank '%s': %w", path, err)
	}
	var questions []models.Question
	if err := json.Unmarshal(data, &questions); err != nil {
		return nil, fmt.Errorf("failed to parse question bank '%s': %w", path, err)
	}
	log.Printf("INFO: [Database] Loaded %d questions from '%s'.", len(questions), path)
	return questions, nil
}

// DefaultQuestions returns the built-in question bank used when no external
// bank is configured. It covers the routing question, the three experience
// flows and the gift flow.
func DefaultQuestions() []models.Question {
	return []models.Question{
		// Routing: picks the flow matching the user's experience.
		{
			ID: "q_experience", Key: "experience", QuestionType: "routing", Order: 1, Flow: "main",
			Category: "knowledge_level", Text: "How familiar are you with perfume?",
			Options: []models.Option{
				{ID: "exp_a", Label: "I'm just getting started", Value: "beginner", NextFlow: "profile_A"},
				{ID: "exp_b", Label: "I know what I like", Value: "intermediate", NextFlow: "profile_B"},
				{ID: "exp_c", Label: "I know my collection by heart", Value: "expert", NextFlow: "profile_C"},
			},
		},

		// --- Flow A: beginner ---
		{
			ID: "qa_gender", Key: "profile_A_gender", QuestionType: "single_choice", Order: 1, Flow: "profile_A",
			Category: "gender", Text: "Who is this fragrance for?", Weight: intPtr(0),
			Options: []models.Option{
				{ID: "qa_gender_m", Label: "For him", Value: "male", Metadata: &models.OptionMetadata{GenderType: "male"}},
				{ID: "qa_gender_f", Label: "For her", Value: "female", Metadata: &models.OptionMetadata{GenderType: "female"}},
				{ID: "qa_gender_u", Label: "No preference", Value: "unisex", Metadata: &models.OptionMetadata{GenderType: "unisex"}},
			},
		},
		{
			ID: "qa_feeling", Key: "profile_A_feeling", QuestionType: "single_choice", Order: 2, Flow: "profile_A",
			Category: "mood", Text: "Which feeling should your perfume evoke?", Weight: intPtr(2),
			Options: []models.Option{
				{ID: "qa_feeling_fresh", Label: "Clean and energetic", Value: "fresh",
					Families: map[string]int{"fresh": 5, "citrus": 3}},
				{ID: "qa_feeling_warm", Label: "Warm and enveloping", Value: "warm",
					Families: map[string]int{"oriental": 5, "gourmand": 3}},
				{ID: "qa_feeling_elegant", Label: "Elegant and timeless", Value: "elegant",
					Families: map[string]int{"floral": 5, "chypre": 3}},
				{ID: "qa_feeling_natural", Label: "Natural and grounded", Value: "natural",
					Families: map[string]int{"woody": 5, "aromatic": 3}},
			},
		},
		{
			ID: "qa_time", Key: "profile_A_time", QuestionType: "single_choice", Order: 3, Flow: "profile_A",
			Category: "usage_time", Text: "When will you wear it most?", Weight: intPtr(1),
			Options: []models.Option{
				{ID: "qa_time_day", Label: "During the day", Value: "day",
					Families: map[string]int{"fresh": 3, "floral": 2},
					Metadata: &models.OptionMetadata{Intensity: "medium"}},
				{ID: "qa_time_night", Label: "In the evening", Value: "night",
					Families: map[string]int{"oriental": 3, "woody": 2},
					Metadata: &models.OptionMetadata{Intensity: "high"}},
				{ID: "qa_time_both", Label: "Any time", Value: "versatile",
					Families: map[string]int{"fresh": 2, "woody": 2}},
			},
		},
		{
			ID: "qa_season", Key: "profile_A_season", QuestionType: "single_choice", Order: 4, Flow: "profile_A",
			Category: "season", Text: "Which season fits you best?", Weight: intPtr(1),
			Options: []models.Option{
				{ID: "qa_season_summer", Label: "Summer", Value: "summer",
					Families: map[string]int{"citrus": 3, "fresh": 3},
					Metadata: &models.OptionMetadata{Season: []string{"summer"}}},
				{ID: "qa_season_winter", Label: "Winter", Value: "winter",
					Families: map[string]int{"oriental": 3, "gourmand": 3},
					Metadata: &models.OptionMetadata{Season: []string{"winter"}}},
				{ID: "qa_season_spring", Label: "Spring", Value: "spring",
					Families: map[string]int{"floral": 3, "green": 3},
					Metadata: &models.OptionMetadata{Season: []string{"spring"}}},
				{ID: "qa_season_autumn", Label: "Autumn", Value: "autumn",
					Families: map[string]int{"woody": 3, "chypre": 3},
					Metadata: &models.OptionMetadata{Season: []string{"autumn"}}},
			},
		},
		{
			ID: "qa_intensity", Key: "profile_A_intensity", QuestionType: "single_choice", Order: 5, Flow: "profile_A",
			Category: "intensity", Text: "How noticeable should it be?", Weight: intPtr(0),
			Options: []models.Option{
				{ID: "qa_int_soft", Label: "A subtle whisper", Value: "soft",
					Metadata: &models.OptionMetadata{IntensityMax: "medium"}},
				{ID: "qa_int_present", Label: "Noticeable but polite", Value: "present",
					Metadata: &models.OptionMetadata{IntensityMax: "high"}},
				{ID: "qa_int_bold", Label: "Impossible to miss", Value: "bold"},
			},
		},

		// --- Flow B: intermediate ---
		{
			ID: "qb_gender", Key: "profile_B_gender", QuestionType: "single_choice", Order: 1, Flow: "profile_B",
			Category: "gender", Text: "Who is this fragrance for?", Weight: intPtr(0),
			Options: []models.Option{
				{ID: "qb_gender_m", Label: "For him", Value: "male", Metadata: &models.OptionMetadata{GenderType: "male"}},
				{ID: "qb_gender_f", Label: "For her", Value: "female", Metadata: &models.OptionMetadata{GenderType: "female"}},
				{ID: "qb_gender_u", Label: "No preference", Value: "unisex", Metadata: &models.OptionMetadata{GenderType: "unisex"}},
			},
		},
		{
			ID: "qb_preference", Key: "profile_B_preference", QuestionType: "single_choice", Order: 2, Flow: "profile_B",
			Category: "family_preference", Text: "Which scent direction do you gravitate to?", Weight: intPtr(3),
			Options: []models.Option{
				{ID: "qb_pref_citrus", Label: "Sparkling citrus", Value: "citrus",
					Families: map[string]int{"citrus": 5, "fresh": 3, "aromatic": 2}},
				{ID: "qb_pref_floral", Label: "Lush florals", Value: "floral",
					Families: map[string]int{"floral": 5, "chypre": 2}},
				{ID: "qb_pref_amber", Label: "Deep ambers and spice", Value: "amber",
					Families: map[string]int{"oriental": 5, "gourmand": 2, "woody": 2}},
				{ID: "qb_pref_woods", Label: "Dry woods", Value: "woods",
					Families: map[string]int{"woody": 5, "aromatic": 2}},
			},
		},
		{
			ID: "qb_reference", Key: "profile_B_reference_perfume", QuestionType: "autocomplete_perfume", Order: 3, Flow: "profile_B",
			Category: "reference", Text: "Is there a perfume you already love?",
			DataSource: "perfume_database", Placeholder: "Search by name or brand",
			SkipOption: &models.SkipOption{Label: "I'd rather not say", Value: "skip"},
		},
		{
			ID: "qb_personality", Key: "profile_B_personality", QuestionType: "single_choice", Order: 4, Flow: "profile_B",
			Category: "personality", Text: "Which word describes you best?", Weight: intPtr(2),
			Options: []models.Option{
				{ID: "qb_pers_adventurous", Label: "Adventurous", Value: "adventurous",
					Families: map[string]int{"aromatic": 3, "woody": 2},
					Metadata: &models.OptionMetadata{Personality: []string{"adventurous"}}},
				{ID: "qb_pers_romantic", Label: "Romantic", Value: "romantic",
					Families: map[string]int{"floral": 3, "gourmand": 2},
					Metadata: &models.OptionMetadata{Personality: []string{"romantic"}}},
				{ID: "qb_pers_confident", Label: "Confident", Value: "confident",
					Families: map[string]int{"oriental": 3, "chypre": 2},
					Metadata: &models.OptionMetadata{Personality: []string{"confident"}}},
			},
		},
		{
			ID: "qb_occasion", Key: "profile_B_occasion", QuestionType: "single_choice", Order: 5, Flow: "profile_B",
			Category: "occasion", Text: "What's the main occasion?", Weight: intPtr(1),
			Options: []models.Option{
				{ID: "qb_occ_work", Label: "Work and everyday", Value: "work",
					Families: map[string]int{"fresh": 2, "citrus": 2},
					Metadata: &models.OptionMetadata{Occasion: []string{"work", "daily"}}},
				{ID: "qb_occ_date", Label: "Dates and evenings out", Value: "date",
					Families: map[string]int{"oriental": 2, "floral": 2},
					Metadata: &models.OptionMetadata{Occasion: []string{"date", "evening"}}},
				{ID: "qb_occ_special", Label: "Special events", Value: "special",
					Families: map[string]int{"chypre": 2, "oriental": 2},
					Metadata: &models.OptionMetadata{Occasion: []string{"event"}}},
			},
		},

		// --- Flow C: expert ---
		{
			ID: "qc_gender", Key: "profile_C_gender", QuestionType: "single_choice", Order: 1, Flow: "profile_C",
			Category: "gender", Text: "Who is this fragrance for?", Weight: intPtr(0),
			Options: []models.Option{
				{ID: "qc_gender_m", Label: "For him", Value: "male", Metadata: &models.OptionMetadata{GenderType: "male"}},
				{ID: "qc_gender_f", Label: "For her", Value: "female", Metadata: &models.OptionMetadata{GenderType: "female"}},
				{ID: "qc_gender_u", Label: "No preference", Value: "unisex", Metadata: &models.OptionMetadata{GenderType: "unisex"}},
			},
		},
		{
			ID: "qc_references", Key: "profile_C_reference_perfumes", QuestionType: "autocomplete_perfume", Order: 2, Flow: "profile_C",
			Category: "reference", Text: "Name up to three perfumes you own and love.",
			DataSource: "perfume_database", Placeholder: "Search the catalog",
			MultiSelect: true, MaxSelections: 3,
			SkipOption: &models.SkipOption{Label: "Skip", Value: "skip"},
		},
		{
			ID: "qc_structure", Key: "profile_C_structure", QuestionType: "single_choice", Order: 3, Flow: "profile_C",
			Category: "structure", Text: "Relative to your references, what are you after?", Weight: intPtr(3),
			Options: []models.Option{
				{ID: "qc_struct_same", Label: "More of the same profile", Value: "similar",
					Families: map[string]int{"inherit_from_reference": 1}},
				{ID: "qc_struct_twist", Label: "Same family, stronger twist", Value: "twist",
					Families: map[string]int{"inherit_from_reference": 2}},
				{ID: "qc_struct_opposite", Label: "Something that contrasts them", Value: "contrast",
					Families: map[string]int{"complement_reference": 1}},
			},
		},
		{
			ID: "qc_notes", Key: "profile_C_notes", QuestionType: "autocomplete_note", Order: 4, Flow: "profile_C",
			Category: "notes", Text: "Any notes the perfume must contain?",
			DataSource: "notes_database", Placeholder: "e.g. iris, vetiver, oud",
			MultiSelect: true, MaxSelections: 5,
			SkipOption: &models.SkipOption{Label: "No must-haves", Value: "skip"},
		},
		{
			ID: "qc_brands", Key: "profile_C_brands", QuestionType: "autocomplete_brand", Order: 5, Flow: "profile_C",
			Category: "brand_selection", Text: "Restrict the search to specific houses?",
			DataSource: "brands_database", Placeholder: "e.g. niche houses you trust",
			MultiSelect: true,
			SkipOption:  &models.SkipOption{Label: "Any brand", Value: "skip"},
		},
		{
			ID: "qc_balance", Key: "profile_C_balance", QuestionType: "single_choice", Order: 6, Flow: "profile_C",
			Category: "balance", Text: "Which phase of a perfume matters most to you?", Weight: intPtr(1),
			Options: []models.Option{
				{ID: "qc_bal_top", Label: "The opening", Value: "top",
					Families: map[string]int{"citrus": 2, "fresh": 2},
					Metadata: &models.OptionMetadata{PhasePreference: "top"}},
				{ID: "qc_bal_heart", Label: "The heart", Value: "heart",
					Families: map[string]int{"floral": 2, "aromatic": 2},
					Metadata: &models.OptionMetadata{PhasePreference: "heart"}},
				{ID: "qc_bal_base", Label: "The drydown", Value: "base",
					Families: map[string]int{"woody": 2, "oriental": 2},
					Metadata: &models.OptionMetadata{PhasePreference: "base"}},
			},
		},

		// --- Gift flow ---
		{
			ID: "qg_gender", Key: "gift_gender", QuestionType: "single_choice", Order: 1, Flow: "gift",
			Category: "gender", Text: "Who is the gift for?", Weight: intPtr(0),
			Options: []models.Option{
				{ID: "qg_gender_m", Label: "For him", Value: "male", Metadata: &models.OptionMetadata{GenderType: "male"}},
				{ID: "qg_gender_f", Label: "For her", Value: "female", Metadata: &models.OptionMetadata{GenderType: "female"}},
				{ID: "qg_gender_u", Label: "Not sure", Value: "unisex", Metadata: &models.OptionMetadata{GenderType: "unisex"}},
			},
		},
		{
			ID: "qg_feeling", Key: "gift_feeling", QuestionType: "single_choice", Order: 2, Flow: "gift",
			Category: "mood", Text: "What impression should the gift make?", Weight: intPtr(2),
			Options: []models.Option{
				{ID: "qg_feeling_safe", Label: "A safe crowd-pleaser", Value: "safe",
					Families: map[string]int{"fresh": 4, "floral": 3}},
				{ID: "qg_feeling_luxe", Label: "Luxurious and memorable", Value: "luxurious",
					Families: map[string]int{"oriental": 4, "chypre": 3}},
				{ID: "qg_feeling_playful", Label: "Playful and sweet", Value: "playful",
					Families: map[string]int{"gourmand": 4, "fruity": 3}},
			},
		},
		{
			ID: "qg_occasion", Key: "gift_occasion", QuestionType: "single_choice", Order: 3, Flow: "gift",
			Category: "occasion", Text: "What's the occasion?", Weight: intPtr(1),
			Options: []models.Option{
				{ID: "qg_occ_birthday", Label: "Birthday", Value: "birthday",
					Metadata: &models.OptionMetadata{Occasion: []string{"birthday"}}},
				{ID: "qg_occ_anniversary", Label: "Anniversary", Value: "anniversary",
					Families: map[string]int{"floral": 2, "oriental": 2},
					Metadata: &models.OptionMetadata{Occasion: []string{"anniversary"}}},
				{ID: "qg_occ_holiday", Label: "Holidays", Value: "holiday",
					Families: map[string]int{"gourmand": 2, "oriental": 2},
					Metadata: &models.OptionMetadata{Occasion: []string{"holiday"}, Season: []string{"winter"}}},
			},
		},
	}
}

// DefaultPerfumes returns a small starter catalog so the service is usable
// out of the box. Real deployments replace it through the catalog upsert.
func DefaultPerfumes() []models.Perfume {
	return []models.Perfume{
		{
			ID: "p_aqua_vitae", Key: "aqua_vitae", Name: "Aqua Vitae", Brand: "Maison Lumen",
			Family: "citrus", Subfamilies: []string{"fresh", "aromatic"},
			TopNotes: []string{"bergamot", "lemon", "mandarin"}, HeartNotes: []string{"neroli", "petitgrain"},
			BaseNotes: []string{"white musk", "cedar"}, Occasions: []string{"daily", "work"},
			RecommendedSeasons: []string{"summer", "spring"},
			Intensity:          "low", Duration: "moderate", Projection: "intimate",
			Gender: "unisex", Price: "medium", Popularity: 7.8,
		},
		{
			ID: "p_nuit_ambre", Key: "nuit_ambre", Name: "Nuit d'Ambre", Brand: "Maison Lumen",
			Family: "oriental", Subfamilies: []string{"gourmand", "woody"},
			TopNotes: []string{"saffron", "pink pepper"}, HeartNotes: []string{"rose", "cinnamon"},
			BaseNotes: []string{"amber", "vanilla", "oud"}, Occasions: []string{"evening", "date"},
			RecommendedSeasons: []string{"winter", "autumn"},
			Intensity:          "high", Duration: "long", Projection: "strong",
			Gender: "unisex", Price: "high", Popularity: 8.9,
		},
		{
			ID: "p_jardin_blanc", Key: "jardin_blanc", Name: "Jardin Blanc", Brand: "Fiore di Sera",
			Family: "floral", Subfamilies: []string{"green", "fresh"},
			TopNotes: []string{"pear", "green leaves"}, HeartNotes: []string{"jasmine", "lily of the valley", "iris"},
			BaseNotes: []string{"white musk", "sandalwood"}, Occasions: []string{"daily", "event"},
			RecommendedSeasons: []string{"spring", "summer"},
			Intensity:          "medium", Duration: "moderate", Projection: "moderate",
			Gender: "female", Price: "medium", Popularity: 8.2,
		},
		{
			ID: "p_bois_sauvage", Key: "bois_sauvage", Name: "Bois Sauvage", Brand: "Atelier Nord",
			Family: "woody", Subfamilies: []string{"aromatic", "fresh"},
			TopNotes: []string{"grapefruit", "elemi"}, HeartNotes: []string{"vetiver", "geranium"},
			BaseNotes: []string{"cedar", "ambroxan"}, Occasions: []string{"daily", "work", "date"},
			RecommendedSeasons: []string{"spring", "autumn"},
			Intensity:          "medium", Duration: "long", Projection: "moderate",
			Gender: "male", Price: "medium", Popularity: 9.1,
		},
		{
			ID: "p_velours_noir", Key: "velours_noir", Name: "Velours Noir", Brand: "Fiore di Sera",
			Family: "chypre", Subfamilies: []string{"floral", "woody"},
			TopNotes: []string{"bergamot", "blackcurrant"}, HeartNotes: []string{"rose", "patchouli"},
			BaseNotes: []string{"oakmoss", "labdanum"}, Occasions: []string{"evening", "event"},
			RecommendedSeasons: []string{"autumn", "winter"},
			Intensity:          "high", Duration: "long", Projection: "strong",
			Gender: "female", Price: "high", Popularity: 7.4,
		},
		{
			ID: "p_douceur", Key: "douceur", Name: "Douceur", Brand: "Atelier Nord",
			Family: "gourmand", Subfamilies: []string{"oriental", "fruity"},
			TopNotes: []string{"almond", "cherry"}, HeartNotes: []string{"tonka bean", "heliotrope"},
			BaseNotes: []string{"vanilla", "praline"}, Occasions: []string{"date", "daily"},
			RecommendedSeasons: []string{"winter", "autumn"},
			Intensity:          "medium", Duration: "long", Projection: "moderate",
			Gender: "unisex", Price: "low", Popularity: 8.6,
		},
		{
			ID: "p_herbe_folle", Key: "herbe_folle", Name: "Herbe Folle", Brand: "Maison Lumen",
			Family: "aromatic", Subfamilies: []string{"green", "citrus"},
			TopNotes: []string{"basil", "mint"}, HeartNotes: []string{"lavender", "sage"},
			BaseNotes: []string{"vetiver", "oakmoss"}, Occasions: []string{"daily", "work"},
			RecommendedSeasons: []string{"spring", "summer"},
			Intensity:          "low", Duration: "moderate", Projection: "intimate",
			Gender: "male", Price: "low", Popularity: 6.9,
		},
		{
			ID: "p_petale_or", Key: "petale_or", Name: "Pétale d'Or", Brand: "Fiore di Sera",
			Family: "floral", Subfamilies: []string{"oriental"},
			TopNotes: []string{"mandarin", "peach"}, HeartNotes: []string{"orange blossom", "ylang-ylang"},
			BaseNotes: []string{"amber", "benzoin"}, Occasions: []string{"event", "evening"},
			RecommendedSeasons: []string{"spring", "autumn"},
			Intensity:          "high", Duration: "long", Projection: "strong",
			Gender: "female", Price: "high", Popularity: 8.0,
		},
	}
}
