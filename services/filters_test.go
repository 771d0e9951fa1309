package services

import (
	"testing"

	"aromatch/models"

	"github.com/stretchr/testify/assert"
)

func TestMatchesGender(t *testing.T) {
	t.Run("Any and all preferences match everything", func(t *testing.T) {
		perfume := models.Perfume{Gender: "male"}
		assert.True(t, MatchesGender(perfume, "any"))
		assert.True(t, MatchesGender(perfume, "all"))
	})

	t.Run("Unisex on either side always matches", func(t *testing.T) {
		assert.True(t, MatchesGender(models.Perfume{Gender: "unisex"}, "female"))
		assert.True(t, MatchesGender(models.Perfume{Gender: "male"}, "unisex"))
	})

	t.Run("Same-gender variants match across languages", func(t *testing.T) {
		assert.True(t, MatchesGender(models.Perfume{Gender: "hombre"}, "male"))
		assert.True(t, MatchesGender(models.Perfume{Gender: "Masculino"}, "men"))
		assert.True(t, MatchesGender(models.Perfume{Gender: "mujer"}, "female"))
		assert.True(t, MatchesGender(models.Perfume{Gender: "woman"}, "femenino"))
	})

	t.Run("Opposing genders do not match", func(t *testing.T) {
		assert.False(t, MatchesGender(models.Perfume{Gender: "male"}, "female"))
		assert.False(t, MatchesGender(models.Perfume{Gender: "mujer"}, "hombre"))
	})

	t.Run("Unrecognized values fail closed", func(t *testing.T) {
		assert.False(t, MatchesGender(models.Perfume{Gender: "robot"}, "male"))
		assert.False(t, MatchesGender(models.Perfume{Gender: "male"}, "robot"))
	})

	t.Run("Comparison ignores case and whitespace", func(t *testing.T) {
		assert.True(t, MatchesGender(models.Perfume{Gender: "  MALE "}, "Man"))
	})
}

func TestMatchesIntensityLimit(t *testing.T) {
	t.Run("At or below the limit passes", func(t *testing.T) {
		assert.True(t, MatchesIntensityLimit(models.Perfume{Intensity: "low"}, "medium"))
		assert.True(t, MatchesIntensityLimit(models.Perfume{Intensity: "medium"}, "medium"))
	})

	t.Run("Above the limit fails", func(t *testing.T) {
		assert.False(t, MatchesIntensityLimit(models.Perfume{Intensity: "high"}, "medium"))
		assert.False(t, MatchesIntensityLimit(models.Perfume{Intensity: "very_high"}, "high"))
	})

	t.Run("Very-high spelling variants are accepted", func(t *testing.T) {
		assert.True(t, MatchesIntensityLimit(models.Perfume{Intensity: "very high"}, "very_high"))
		assert.True(t, MatchesIntensityLimit(models.Perfume{Intensity: "veryhigh"}, "very high"))
	})

	t.Run("Unparseable values pass permissively", func(t *testing.T) {
		assert.True(t, MatchesIntensityLimit(models.Perfume{Intensity: "unknown"}, "medium"))
		assert.True(t, MatchesIntensityLimit(models.Perfume{Intensity: "high"}, ""))
	})
}

func TestContainsAllRequiredNotes(t *testing.T) {
	perfume := models.Perfume{
		TopNotes:   []string{"Bergamot", "Lemon"},
		HeartNotes: []string{"Jasmine"},
		BaseNotes:  []string{"Vetiver", "Cedar"},
	}

	t.Run("All required notes present across slots", func(t *testing.T) {
		assert.True(t, ContainsAllRequiredNotes(perfume, []string{"bergamot", "vetiver"}))
	})

	t.Run("A single missing note fails the whole filter", func(t *testing.T) {
		assert.False(t, ContainsAllRequiredNotes(perfume, []string{"bergamot", "oud"}))
	})

	t.Run("Empty requirement always passes", func(t *testing.T) {
		assert.True(t, ContainsAllRequiredNotes(perfume, nil))
	})

	t.Run("Matching ignores case and whitespace", func(t *testing.T) {
		assert.True(t, ContainsAllRequiredNotes(perfume, []string{" JASMINE "}))
	})
}
