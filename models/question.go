package models

import (
	"time"
)

// Question is a single questionnaire item, loaded read-only from the
// question bank for a locale. Questions are immutable during a session.
type Question struct {
	ID           string `json:"id"`
	Key          string `json:"key,omitempty"`           // Stable key used for grouping and default-weight inference
	QuestionType string `json:"question_type"`           // e.g. "single_choice", "routing", "autocomplete_perfume"
	Order        int    `json:"order"`                   // Display order within its flow
	Category     string `json:"category"`                // Semantic grouping, e.g. "knowledge_level", "brand_selection"
	Text         string `json:"text"`
	Subtitle     string `json:"subtitle,omitempty"`

	// Selection configuration
	MultiSelect   bool `json:"multi_select,omitempty"`
	MinSelections int  `json:"min_selections,omitempty"`
	MaxSelections int  `json:"max_selections,omitempty"`

	// Weight is the question's importance multiplier (0-3) for the scoring
	// algorithm. A nil weight is distinct from an explicit zero: zero marks
	// a metadata-only question, nil falls back to defaults.
	Weight *int `json:"weight,omitempty"`

	// Autocomplete configuration
	DataSource  string      `json:"data_source,omitempty"` // "perfume_database", "notes_database", "brands_database"
	Placeholder string      `json:"placeholder,omitempty"`
	SkipOption  *SkipOption `json:"skip_option,omitempty"`

	// Flow routing
	Flow string `json:"flow,omitempty"` // "main", "profile_A", "profile_B", ...

	Options []Option `json:"options"`

	CreatedAt time.Time `json:"created_at,omitempty"`
	UpdatedAt time.Time `json:"updated_at,omitempty"`
}

// WeightOrZero returns the question's explicit weight, or 0 when absent.
func (q Question) WeightOrZero() int {
	if q.Weight == nil {
		return 0
	}
	return *q.Weight
}

// HasZeroWeight reports whether the question carries an explicit zero
// weight. An absent weight is not zero for strategy classification.
func (q Question) HasZeroWeight() bool {
	return q.Weight != nil && *q.Weight == 0
}

// SkipOption is the skip affordance shown on autocomplete questions.
type SkipOption struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// Option is one answer choice belonging to a Question.
//
// Families either contains only real family keys with point values, or
// exactly one special sentinel key ("inherit_from_reference",
// "complement_reference") whose integer value is an inheritance factor.
type Option struct {
	ID          string `json:"id"`
	Label       string `json:"label"`
	Value       string `json:"value"` // Free string; multi-entity answers are comma-separated keys
	Description string `json:"description,omitempty"`
	ImageAsset  string `json:"image_asset,omitempty"`

	Families map[string]int  `json:"families,omitempty"`
	Metadata *OptionMetadata `json:"metadata,omitempty"`

	NextFlow string `json:"next_flow,omitempty"` // Routing target for routing questions
}

// OptionMetadata carries the structured preference signals attached to an
// option. Every field is optional; list fields accumulate across answers,
// scalar fields are latest-wins.
type OptionMetadata struct {
	Gender     string `json:"gender,omitempty"`
	GenderType string `json:"gender_type,omitempty"`

	Occasion    []string `json:"occasion,omitempty"`
	Season      []string `json:"season,omitempty"`
	Personality []string `json:"personality,omitempty"`

	Intensity    string `json:"intensity,omitempty"`
	IntensityMax string `json:"intensity_max,omitempty"`
	Duration     string `json:"duration,omitempty"`
	Projection   string `json:"projection,omitempty"`

	AvoidFamilies []string `json:"avoid_families,omitempty"`

	MustContainNotes []string `json:"must_contain_notes,omitempty"`
	HeartNotesBonus  []string `json:"heartNotes_bonus,omitempty"`
	BaseNotesBonus   []string `json:"baseNotes_bonus,omitempty"`

	PhasePreference string `json:"phase_preference,omitempty"`
	DiscoveryMode   string `json:"discovery_mode,omitempty"`
}

// Answer pairs a chosen question with the option the user selected for it.
type Answer struct {
	Question Question
	Option   Option
}

// AnswerSet maps question keys to answers. A question is answered at most
// once per session; later answers overwrite earlier ones for the same key.
type AnswerSet map[string]Answer
