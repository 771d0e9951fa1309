package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"aromatch/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// MockPerfumeLookup is a mock type for the PerfumeLookup interface
type MockPerfumeLookup struct {
	mock.Mock
}

func (m *MockPerfumeLookup) FetchPerfumeByKey(ctx context.Context, key string) (*models.Perfume, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Perfume), args.Error(1)
}

func standardAnswer(key string, weight *int, families map[string]int) models.Answer {
	return models.Answer{
		Question: models.Question{ID: key, Key: key, QuestionType: "single_choice", Weight: weight},
		Option:   models.Option{ID: key + "_opt", Label: key, Families: families},
	}
}

func TestProcessAnswers_StandardStrategy(t *testing.T) {
	processor := NewQuestionProcessor(nil)
	ctx := context.Background()

	t.Run("Option points scale by the explicit question weight", func(t *testing.T) {
		answers := models.AnswerSet{
			"profile_A_feeling": standardAnswer("profile_A_feeling", intPtr(3), map[string]int{"woody": 5, "fresh": 2}),
		}
		result := processor.ProcessAnswers(ctx, answers, nil)

		assert.InDelta(t, 15.0, result.FamilyContributions["woody"], 1e-9)
		assert.InDelta(t, 6.0, result.FamilyContributions["fresh"], 1e-9)
	})

	t.Run("Absent weight falls back to the key-based default", func(t *testing.T) {
		answers := models.AnswerSet{
			"profile_B_preference": standardAnswer("profile_B_preference", nil, map[string]int{"citrus": 5}),
		}
		result := processor.ProcessAnswers(ctx, answers, nil)

		// Default weight for a preference question is 3.
		assert.InDelta(t, 15.0, result.FamilyContributions["citrus"], 1e-9)
	})

	t.Run("Explicit zero weight contributes nothing but keeps metadata", func(t *testing.T) {
		answer := standardAnswer("profile_A_gender", intPtr(0), map[string]int{"woody": 5})
		answer.Option.Metadata = &models.OptionMetadata{GenderType: "female"}
		result := processor.ProcessAnswers(ctx, models.AnswerSet{"profile_A_gender": answer}, nil)

		assert.Empty(t, result.FamilyContributions)
		assert.Equal(t, "female", result.Metadata.Gender)
	})

	t.Run("Routing questions contribute nothing", func(t *testing.T) {
		answer := models.Answer{
			Question: models.Question{ID: "q_exp", Key: "experience", QuestionType: "routing"},
			Option:   models.Option{ID: "exp_c", Value: "expert", NextFlow: "profile_C"},
		}
		result := processor.ProcessAnswers(ctx, models.AnswerSet{"experience": answer}, nil)

		assert.Empty(t, result.FamilyContributions)
	})

	t.Run("Processing the same answers twice yields identical results", func(t *testing.T) {
		answers := models.AnswerSet{
			"profile_A_feeling": standardAnswer("profile_A_feeling", intPtr(2), map[string]int{"oriental": 4}),
			"profile_A_season":  standardAnswer("profile_A_season", intPtr(1), map[string]int{"fresh": 3}),
		}
		first := processor.ProcessAnswers(ctx, answers, nil)
		second := processor.ProcessAnswers(ctx, answers, nil)

		assert.Equal(t, first.FamilyContributions, second.FamilyContributions)
		assert.Equal(t, first.Metadata, second.Metadata)
	})

	t.Run("Higher weight never lowers a family's score", func(t *testing.T) {
		low := processor.ProcessAnswers(ctx, models.AnswerSet{
			"profile_A_feeling": standardAnswer("profile_A_feeling", intPtr(1), map[string]int{"woody": 5}),
		}, nil)
		high := processor.ProcessAnswers(ctx, models.AnswerSet{
			"profile_A_feeling": standardAnswer("profile_A_feeling", intPtr(3), map[string]int{"woody": 5}),
		}, nil)

		assert.GreaterOrEqual(t, high.FamilyContributions["woody"], low.FamilyContributions["woody"])
	})
}

func TestProcessAnswers_NotesAndBrands(t *testing.T) {
	processor := NewQuestionProcessor(nil)
	ctx := context.Background()

	t.Run("Notes go to metadata only", func(t *testing.T) {
		answer := models.Answer{
			Question: models.Question{ID: "qc_notes", Key: "profile_C_notes", QuestionType: "autocomplete_note", DataSource: "notes_database"},
			Option:   models.Option{Value: "iris, vetiver , ,oud"},
		}
		result := processor.ProcessAnswers(ctx, models.AnswerSet{"profile_C_notes": answer}, nil)

		assert.Equal(t, []string{"iris", "vetiver", "oud"}, result.Metadata.PreferredNotes)
		assert.Empty(t, result.FamilyContributions)
	})

	t.Run("Brands become a mandatory filter", func(t *testing.T) {
		answer := models.Answer{
			Question: models.Question{ID: "qc_brands", Key: "profile_C_brands", QuestionType: "autocomplete_brand", DataSource: "brands_database"},
			Option:   models.Option{Value: "Maison Lumen,Atelier Nord"},
		}
		result := processor.ProcessAnswers(ctx, models.AnswerSet{"profile_C_brands": answer}, nil)

		assert.Equal(t, []string{"Maison Lumen", "Atelier Nord"}, result.Filters.AllowedBrands)
		assert.True(t, result.Filters.HasActiveFilters())
		assert.Empty(t, result.FamilyContributions)
	})
}

func TestProcessAnswers_PerfumeDatabaseStrategy(t *testing.T) {
	ctx := context.Background()

	referenceAnswer := func(value string, weight int) models.Answer {
		return models.Answer{
			Question: models.Question{
				ID: "qc_refs", Key: "profile_C_refs", QuestionType: "autocomplete_perfume",
				DataSource: "perfume_database", Weight: intPtr(weight),
			},
			Option: models.Option{Value: value},
		}
	}

	t.Run("Single reference contributes family and decaying subfamilies", func(t *testing.T) {
		lookup := new(MockPerfumeLookup)
		lookup.On("FetchPerfumeByKey", mock.Anything, "nuit_ambre").Return(&models.Perfume{
			ID: "p1", Key: "nuit_ambre", Name: "Nuit d'Ambre",
			Family: "oriental", Subfamilies: []string{"gourmand", "woody", "floral", "chypre"},
		}, nil).Once()

		processor := NewQuestionProcessor(lookup)
		result := processor.ProcessAnswers(ctx, models.AnswerSet{
			"profile_C_refs": referenceAnswer("nuit_ambre", 2),
		}, nil)

		// basePoints 10 × weight 2, subfamilies at 50%/35%/20%, fourth dropped.
		assert.InDelta(t, 20.0, result.FamilyContributions["oriental"], 1e-9)
		assert.InDelta(t, 10.0, result.FamilyContributions["gourmand"], 1e-9)
		assert.InDelta(t, 7.0, result.FamilyContributions["woody"], 1e-9)
		assert.InDelta(t, 4.0, result.FamilyContributions["floral"], 1e-9)
		assert.NotContains(t, result.FamilyContributions, "chypre")

		assert.Equal(t, []string{"p1"}, result.ReferencePerfumeIDs)
		assert.Equal(t, []string{"Nuit d'Ambre"}, result.Metadata.ReferencePerfumes)
		lookup.AssertExpectations(t)
	})

	t.Run("Two references are dampened by the multi-perfume factor", func(t *testing.T) {
		lookup := new(MockPerfumeLookup)
		lookup.On("FetchPerfumeByKey", mock.Anything, "ref_a").Return(&models.Perfume{
			ID: "pa", Name: "Ref A", Family: "oriental",
		}, nil).Once()
		lookup.On("FetchPerfumeByKey", mock.Anything, "ref_b").Return(&models.Perfume{
			ID: "pb", Name: "Ref B", Family: "oriental",
		}, nil).Once()

		processor := NewQuestionProcessor(lookup)
		result := processor.ProcessAnswers(ctx, models.AnswerSet{
			"profile_C_refs": referenceAnswer("ref_a,ref_b", 2),
		}, nil)

		// 20 + 20 raw, then ×0.7 for two references.
		assert.InDelta(t, 28.0, result.FamilyContributions["oriental"], 1e-9)
		assert.Len(t, result.ReferencePerfumeIDs, 2)
		lookup.AssertExpectations(t)
	})

	t.Run("Three or more references are dampened harder still", func(t *testing.T) {
		refsOf := func(count int) *MockPerfumeLookup {
			lookup := new(MockPerfumeLookup)
			for i := 0; i < count; i++ {
				key := fmt.Sprintf("ref_%d", i+1)
				lookup.On("FetchPerfumeByKey", mock.Anything, key).Return(&models.Perfume{
					ID: key, Name: key, Family: "oriental",
				}, nil).Once()
			}
			return lookup
		}
		valueOf := func(count int) string {
			keys := make([]string, count)
			for i := range keys {
				keys[i] = fmt.Sprintf("ref_%d", i+1)
			}
			return strings.Join(keys, ",")
		}

		lookup3 := refsOf(3)
		processor := NewQuestionProcessor(lookup3)
		three := processor.ProcessAnswers(ctx, models.AnswerSet{
			"profile_C_refs": referenceAnswer(valueOf(3), 2),
		}, nil)

		// 3 × 20 raw, then ×0.56 (0.7 × 0.8).
		assert.InDelta(t, 33.6, three.FamilyContributions["oriental"], 1e-9)
		assert.Len(t, three.ReferencePerfumeIDs, 3)
		lookup3.AssertExpectations(t)

		lookup4 := refsOf(4)
		processor = NewQuestionProcessor(lookup4)
		four := processor.ProcessAnswers(ctx, models.AnswerSet{
			"profile_C_refs": referenceAnswer(valueOf(4), 2),
		}, nil)

		// The 3+ factor holds for four references: 4 × 20 × 0.56.
		assert.InDelta(t, 44.8, four.FamilyContributions["oriental"], 1e-9)
		lookup4.AssertExpectations(t)

		// Per-reference contribution shrinks as references are added:
		// 20 for one, 14 for two, 11.2 from three on.
		assert.Greater(t, 28.0/2, three.FamilyContributions["oriental"]/3)
		assert.InDelta(t, three.FamilyContributions["oriental"]/3, four.FamilyContributions["oriental"]/4, 1e-9)
	})

	t.Run("Catalog misses and lookup errors are skipped, not fatal", func(t *testing.T) {
		lookup := new(MockPerfumeLookup)
		lookup.On("FetchPerfumeByKey", mock.Anything, "ghost").Return(nil, nil).Once()
		lookup.On("FetchPerfumeByKey", mock.Anything, "broken").Return(nil, errors.New("db down")).Once()
		lookup.On("FetchPerfumeByKey", mock.Anything, "real").Return(&models.Perfume{
			ID: "pr", Name: "Real", Family: "woody",
		}, nil).Once()

		processor := NewQuestionProcessor(lookup)
		result := processor.ProcessAnswers(ctx, models.AnswerSet{
			"profile_C_refs": referenceAnswer("ghost,broken,real", 1),
		}, nil)

		// Only one reference resolved, so no dampening applies.
		assert.InDelta(t, 10.0, result.FamilyContributions["woody"], 1e-9)
		assert.Equal(t, []string{"pr"}, result.ReferencePerfumeIDs)
		lookup.AssertExpectations(t)
	})

	t.Run("Nil lookup degrades to a no-op", func(t *testing.T) {
		processor := NewQuestionProcessor(nil)
		result := processor.ProcessAnswers(ctx, models.AnswerSet{
			"profile_C_refs": referenceAnswer("nuit_ambre", 2),
		}, nil)

		assert.Empty(t, result.FamilyContributions)
		assert.Empty(t, result.ReferencePerfumeIDs)
	})
}

func TestProcessAnswers_SpecialFamilyValues(t *testing.T) {
	ctx := context.Background()

	inheritAnswer := func(factor int, value string) models.Answer {
		return models.Answer{
			Question: models.Question{ID: "qc_structure", Key: "profile_C_structure", QuestionType: "single_choice", Weight: intPtr(3)},
			Option: models.Option{
				Value:    value,
				Families: map[string]int{"inherit_from_reference": factor},
			},
		}
	}

	t.Run("Inherit uses the reference data snapshot when available", func(t *testing.T) {
		processor := NewQuestionProcessor(nil)
		referenceData := map[string]PerfumeReferenceData{
			"jardin_blanc": {
				PerfumeID: "p3", PerfumeKey: "jardin_blanc",
				Family: "floral", Subfamilies: []string{"green"},
			},
		}

		result := processor.ProcessAnswers(ctx, models.AnswerSet{
			"profile_C_structure": inheritAnswer(2, "jardin_blanc"),
		}, referenceData)

		assert.InDelta(t, 20.0, result.FamilyContributions["floral"], 1e-9)
		assert.InDelta(t, 10.0, result.FamilyContributions["green"], 1e-9)
		assert.Equal(t, []string{"p3"}, result.ReferencePerfumeIDs)
	})

	t.Run("A zero factor defaults to 1", func(t *testing.T) {
		processor := NewQuestionProcessor(nil)
		referenceData := map[string]PerfumeReferenceData{
			"jardin_blanc": {PerfumeID: "p3", Family: "floral"},
		}

		result := processor.ProcessAnswers(ctx, models.AnswerSet{
			"profile_C_structure": inheritAnswer(0, "jardin_blanc"),
		}, referenceData)

		assert.InDelta(t, 10.0, result.FamilyContributions["floral"], 1e-9)
	})

	t.Run("Inherit falls back to the catalog lookup", func(t *testing.T) {
		lookup := new(MockPerfumeLookup)
		lookup.On("FetchPerfumeByKey", mock.Anything, "bois_sauvage").Return(&models.Perfume{
			ID: "p4", Key: "bois_sauvage", Family: "woody", Subfamilies: []string{"aromatic"},
		}, nil).Once()

		processor := NewQuestionProcessor(lookup)
		result := processor.ProcessAnswers(ctx, models.AnswerSet{
			"profile_C_structure": inheritAnswer(1, "bois_sauvage"),
		}, nil)

		assert.InDelta(t, 10.0, result.FamilyContributions["woody"], 1e-9)
		assert.InDelta(t, 5.0, result.FamilyContributions["aromatic"], 1e-9)
		assert.Equal(t, []string{"p4"}, result.ReferencePerfumeIDs)
		lookup.AssertExpectations(t)
	})

	t.Run("Inherit is a no-op when references are already resolved", func(t *testing.T) {
		lookup := new(MockPerfumeLookup)
		lookup.On("FetchPerfumeByKey", mock.Anything, "nuit_ambre").Return(&models.Perfume{
			ID: "p1", Name: "Nuit d'Ambre", Family: "oriental",
		}, nil).Once()

		processor := NewQuestionProcessor(lookup)
		answers := models.AnswerSet{
			// Sorts before the structure question, so the reference is
			// resolved first.
			"profile_C_refs": {
				Question: models.Question{ID: "qc_refs", Key: "profile_C_refs", QuestionType: "autocomplete_perfume", DataSource: "perfume_database", Weight: intPtr(1)},
				Option:   models.Option{Value: "nuit_ambre"},
			},
			"profile_C_structure": inheritAnswer(2, "nuit_ambre"),
		}

		result := processor.ProcessAnswers(ctx, answers, nil)

		// Only the perfume-database contribution; no second inherit pass.
		assert.InDelta(t, 10.0, result.FamilyContributions["oriental"], 1e-9)
		assert.Equal(t, []string{"p1"}, result.ReferencePerfumeIDs)
		lookup.AssertExpectations(t)
	})

	t.Run("Complement sets the flag without contributing", func(t *testing.T) {
		processor := NewQuestionProcessor(nil)
		answer := models.Answer{
			Question: models.Question{ID: "qc_structure", Key: "profile_C_structure", QuestionType: "single_choice", Weight: intPtr(3)},
			Option:   models.Option{Families: map[string]int{"complement_reference": 1}},
		}

		result := processor.ProcessAnswers(ctx, models.AnswerSet{"profile_C_structure": answer}, nil)

		assert.True(t, result.ComplementReference)
		assert.Empty(t, result.FamilyContributions)
	})
}

func TestProcessAnswers_MixedSession(t *testing.T) {
	lookup := new(MockPerfumeLookup)
	lookup.On("FetchPerfumeByKey", mock.Anything, "bois_sauvage").Return(&models.Perfume{
		ID: "p4", Name: "Bois Sauvage", Family: "woody", Subfamilies: []string{"aromatic", "fresh"},
	}, nil).Once()

	processor := NewQuestionProcessor(lookup)

	genderAnswer := standardAnswer("profile_B_gender", intPtr(0), nil)
	genderAnswer.Option.Metadata = &models.OptionMetadata{GenderType: "male"}

	answers := models.AnswerSet{
		"profile_B_gender":     genderAnswer,
		"profile_B_preference": standardAnswer("profile_B_preference", intPtr(3), map[string]int{"woody": 5, "aromatic": 2}),
		"profile_B_reference": {
			Question: models.Question{ID: "qb_ref", Key: "profile_B_reference", QuestionType: "autocomplete_perfume", DataSource: "perfume_database", Weight: intPtr(1)},
			Option:   models.Option{Value: "bois_sauvage"},
		},
	}

	result := processor.ProcessAnswers(context.Background(), answers, nil)

	// Standard: woody 15, aromatic 6. Reference: woody +10, aromatic +5, fresh +3.5.
	assert.InDelta(t, 25.0, result.FamilyContributions["woody"], 1e-9)
	assert.InDelta(t, 11.0, result.FamilyContributions["aromatic"], 1e-9)
	assert.InDelta(t, 3.5, result.FamilyContributions["fresh"], 1e-9)
	assert.Equal(t, "male", result.Metadata.Gender)
	assert.Equal(t, []string{"p4"}, result.ReferencePerfumeIDs)
	lookup.AssertExpectations(t)
}
