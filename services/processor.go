package services

import (
	"context"
	"log"
	"sort"
	"strings"

	"aromatch/models"
)

// PerfumeLookup resolves catalog entries referenced in answers. It must be
// safe for concurrent reads. A nil/absent lookup degrades perfume-database
// and inherit-from-reference processing to a logged no-op.
type PerfumeLookup interface {
	FetchPerfumeByKey(ctx context.Context, key string) (*models.Perfume, error)
}

// QuestionProcessor converts a questionnaire's answers into family-score
// contributions, extracted metadata and recommendation filters. Each call
// to ProcessAnswers is independent: all accumulation state is local, so a
// single instance can serve concurrent sessions.
type QuestionProcessor struct {
	lookup PerfumeLookup

	// basePoints is awarded to a reference perfume's primary family
	// before weighting.
	basePoints float64

	// multiPerfumeFactor dampens contributions when the user references
	// more than one perfume, so references cannot drown out other answers.
	multiPerfumeFactor float64
}

// NewQuestionProcessor creates a processor with the default tuning. The
// lookup may be nil.
func NewQuestionProcessor(lookup PerfumeLookup) *QuestionProcessor {
	return &QuestionProcessor{
		lookup:             lookup,
		basePoints:         10.0,
		multiPerfumeFactor: 0.7,
	}
}

// NewQuestionProcessorWithTuning creates a processor with explicit tuning
// values, falling back to defaults for non-positive inputs.
func NewQuestionProcessorWithTuning(lookup PerfumeLookup, basePoints, multiPerfumeFactor float64) *QuestionProcessor {
	p := NewQuestionProcessor(lookup)
	if basePoints > 0 {
		p.basePoints = basePoints
	}
	if multiPerfumeFactor > 0 {
		p.multiPerfumeFactor = multiPerfumeFactor
	}
	return p
}

// ProcessAnswers runs every answer through its strategy handler and
// returns the consolidated result. It never fails: catalog misses and
// lookup errors are logged and skipped, and malformed option values
// contribute nothing. Answers are processed in sorted key order so log
// output and reference resolution are deterministic.
func (p *QuestionProcessor) ProcessAnswers(
	ctx context.Context,
	answers models.AnswerSet,
	referenceData map[string]PerfumeReferenceData,
) QuestionProcessingResult {

	result := NewQuestionProcessingResult()
	perfumeContributions := make(map[string]float64)

	log.Printf("INFO: [QuestionProcessor] Processing %d answers.", len(answers))

	keys := make([]string, 0, len(answers))
	for key := range answers {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, questionKey := range keys {
		answer := answers[questionKey]
		question := answer.Question
		option := answer.Option

		strategy := DetermineStrategy(question)
		weight := question.WeightOrZero()
		if question.Weight == nil {
			// An absent weight falls back to the key-based default; only an
			// explicit zero means metadata-only.
			weight = GetDefaultWeight(questionKey)
		}

		log.Printf("INFO: [QuestionProcessor] Question '%s': strategy=%s weight=%d option='%s'",
			questionKey, strategy, weight, option.Label)

		switch strategy {
		case StrategyStandard:
			contributions := p.processStandardQuestion(option, weight)
			mergeContributions(contributions, result.FamilyContributions)

		case StrategyPerfumeDatabase:
			contributions, perfumeIDs := p.processPerfumeDatabaseQuestion(ctx, option, weight, &result.Metadata)
			mergeContributions(contributions, perfumeContributions)
			result.ReferencePerfumeIDs = append(result.ReferencePerfumeIDs, perfumeIDs...)

		case StrategyNotesDatabase:
			notes := splitCSV(option.Value)
			result.Metadata.PreferredNotes = append(result.Metadata.PreferredNotes, notes...)
			log.Printf("INFO: [QuestionProcessor]   Stored %d notes for scoring bonus (no family contribution).", len(notes))

		case StrategyBrandsDatabase:
			brands := splitCSV(option.Value)
			result.Filters.AllowedBrands = append(result.Filters.AllowedBrands, brands...)
			log.Printf("INFO: [QuestionProcessor]   Stored %d brands as mandatory filter.", len(brands))

		case StrategyRouting:
			log.Printf("INFO: [QuestionProcessor]   Routing question, no contribution.")

		case StrategyMetadataOnly:
			log.Printf("INFO: [QuestionProcessor]   Metadata only, no family contribution.")
		}

		// Metadata is extracted from every answered option regardless of
		// strategy.
		ExtractOptionMetadata(option.Metadata, &result.Metadata)

		if specialValue, ok := DetectSpecialFamilyValue(option.Families); ok {
			p.processSpecialFamilyValue(ctx, specialValue, option, referenceData, &result)
		}
	}

	// Reference-perfume contributions live in a separate pool until now so
	// multi-reference answers can be dampened before merging.
	if len(perfumeContributions) > 0 {
		normalized := p.normalizePerfumeContributions(perfumeContributions, len(result.ReferencePerfumeIDs))
		mergeContributions(normalized, result.FamilyContributions)

		for _, family := range sortedFamilies(normalized) {
			log.Printf("INFO: [QuestionProcessor] Normalized reference contribution: %s=%.2f", family, normalized[family])
		}
	}

	log.Printf("INFO: [QuestionProcessor] Done: %d families, %d reference perfumes, activeFilters=%t",
		len(result.FamilyContributions), len(result.ReferencePerfumeIDs), result.Filters.HasActiveFilters())

	return result
}

// processStandardQuestion adds points × weight for each real family on
// the option. Zero-weight answers contribute nothing.
func (p *QuestionProcessor) processStandardQuestion(option models.Option, weight int) map[string]float64 {
	if weight <= 0 {
		return nil
	}

	contributions := make(map[string]float64, len(option.Families))
	for family, points := range option.Families {
		if isSpecialFamilyKey(family) {
			continue
		}
		contribution := float64(points * weight)
		contributions[family] += contribution
		log.Printf("INFO: [QuestionProcessor]   %s: +%.1f (points:%d × weight:%d)", family, contribution, points, weight)
	}
	return contributions
}

// processPerfumeDatabaseQuestion resolves each referenced perfume key and
// derives family contributions from its primary family and up to three
// subfamilies with a decaying factor (50%, 35%, 20%).
func (p *QuestionProcessor) processPerfumeDatabaseQuestion(
	ctx context.Context,
	option models.Option,
	weight int,
	metadata *ExtractedMetadata,
) (map[string]float64, []string) {

	if p.lookup == nil {
		log.Printf("WARN: [QuestionProcessor]   Perfume lookup unavailable, skipping reference analysis.")
		return nil, nil
	}

	perfumeKeys := splitCSV(option.Value)
	if len(perfumeKeys) == 0 {
		return nil, nil
	}

	log.Printf("INFO: [QuestionProcessor]   Analyzing %d reference perfumes...", len(perfumeKeys))

	contributions := make(map[string]float64)
	var resolvedIDs []string

	for _, perfumeKey := range perfumeKeys {
		perfume, err := p.lookup.FetchPerfumeByKey(ctx, perfumeKey)
		if err != nil {
			log.Printf("ERROR: [QuestionProcessor]   Lookup failed for reference perfume '%s': %v", perfumeKey, err)
			continue
		}
		if perfume == nil {
			log.Printf("WARN: [QuestionProcessor]   Reference perfume not found: '%s'", perfumeKey)
			continue
		}

		id := perfume.ID
		if id == "" {
			id = perfumeKey
		}
		resolvedIDs = append(resolvedIDs, id)
		metadata.ReferencePerfumes = append(metadata.ReferencePerfumes, perfume.Name)

		mainFamilyPoints := p.basePoints * float64(weight)
		contributions[perfume.Family] += mainFamilyPoints
		log.Printf("INFO: [QuestionProcessor]     %s: family %s +%.1f", perfume.Name, perfume.Family, mainFamilyPoints)

		for i, subfamily := range perfume.Subfamilies {
			if i >= 3 {
				break
			}
			subfamilyFactor := 0.5 - float64(i)*0.15
			subfamilyPoints := p.basePoints * float64(weight) * subfamilyFactor
			contributions[subfamily] += subfamilyPoints
			log.Printf("INFO: [QuestionProcessor]       subfamily %s +%.1f", subfamily, subfamilyPoints)
		}
	}

	return contributions, resolvedIDs
}

// processSpecialFamilyValue handles the sentinel keys that may appear in
// an option's families map.
func (p *QuestionProcessor) processSpecialFamilyValue(
	ctx context.Context,
	specialValue SpecialFamilyValue,
	option models.Option,
	referenceData map[string]PerfumeReferenceData,
	result *QuestionProcessingResult,
) {
	switch specialValue {
	case InheritFromReference:
		factor := float64(option.Families[string(InheritFromReference)])
		if factor == 0 {
			factor = 1.0
		}
		log.Printf("INFO: [QuestionProcessor]   inherit_from_reference detected (factor: %.1f)", factor)

		if len(result.ReferencePerfumeIDs) > 0 {
			// Contributions were already produced by the perfume-database
			// branch; the sentinel only signals that scoring should favor
			// similarity to the references.
			log.Printf("INFO: [QuestionProcessor]   Inheriting from %d already-resolved references.", len(result.ReferencePerfumeIDs))
			return
		}

		value := strings.TrimSpace(option.Value)
		if value == "" {
			return
		}

		// A snapshot captured at selection time avoids a catalog round trip.
		if refData, ok := referenceData[value]; ok {
			contributions := refData.ToFamilyContributions(factor, p.basePoints)
			mergeContributions(contributions, result.FamilyContributions)
			id := refData.PerfumeID
			if id == "" {
				id = value
			}
			result.ReferencePerfumeIDs = append(result.ReferencePerfumeIDs, id)
			return
		}

		if p.lookup == nil {
			log.Printf("WARN: [QuestionProcessor]   Perfume lookup unavailable, cannot inherit from '%s'.", value)
			return
		}

		perfume, err := p.lookup.FetchPerfumeByKey(ctx, value)
		if err != nil || perfume == nil {
			log.Printf("WARN: [QuestionProcessor]   Could not resolve inherit reference '%s' (err: %v).", value, err)
			return
		}

		refData := NewPerfumeReferenceData(*perfume)
		contributions := refData.ToFamilyContributions(factor, p.basePoints)
		mergeContributions(contributions, result.FamilyContributions)
		id := perfume.ID
		if id == "" {
			id = value
		}
		result.ReferencePerfumeIDs = append(result.ReferencePerfumeIDs, id)

	case ComplementReference:
		// No additive contribution; downstream scoring should favor
		// complementary perfumes over near-duplicates.
		result.ComplementReference = true
		log.Printf("INFO: [QuestionProcessor]   complement_reference detected.")
	}
}

// normalizePerfumeContributions dampens the reference-perfume pool when
// multiple perfumes were resolved: 1 → ×1.0, 2 → ×0.7, 3+ → ×0.56.
func (p *QuestionProcessor) normalizePerfumeContributions(contributions map[string]float64, perfumeCount int) map[string]float64 {
	if perfumeCount <= 0 {
		return contributions
	}

	var factor float64
	switch {
	case perfumeCount == 1:
		factor = 1.0
	case perfumeCount == 2:
		factor = p.multiPerfumeFactor
	default:
		factor = p.multiPerfumeFactor * 0.8
	}

	normalized := make(map[string]float64, len(contributions))
	for family, score := range contributions {
		normalized[family] = score * factor
	}
	return normalized
}

func mergeContributions(contributions, target map[string]float64) {
	for family, score := range contributions {
		target[family] += score
	}
}

// splitCSV parses a comma-separated option value, trimming whitespace and
// dropping empty entries.
func splitCSV(value string) []string {
	parts := strings.Split(value, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}
