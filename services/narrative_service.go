package services

import (
	"context"
	"fmt"
	"log"
	"strings"

	"aromatch/config"
	"aromatch/models"

	openai "github.com/sashabaranov/go-openai"
)

// NarrativeService generates short natural-language descriptions of an
// olfactive profile. It is best-effort: when no API key is configured or the
// completion fails, callers receive an empty string and no error so profile
// calculation never blocks on the LLM.
type NarrativeService interface {
	GenerateProfileDescription(ctx context.Context, profile *models.UnifiedProfile) (string, error)
}

type narrativeService struct {
	cfg config.OpenAIConfig
}

// NewNarrativeService creates a new instance of NarrativeService.
func NewNarrativeService(cfg config.OpenAIConfig) NarrativeService {
	return &narrativeService{cfg: cfg}
}

const narrativeSystemPrompt = "You are a perfumery copywriter. Given a user's olfactive profile, " +
	"write a warm, concise description (3-4 sentences) of their scent personality. " +
	"Mention the dominant family and how the secondary families round it out. " +
	"Do not list raw scores or use bullet points."

func (s *narrativeService) GenerateProfileDescription(ctx context.Context, profile *models.UnifiedProfile) (string, error) {
	if profile == nil {
		return "", fmt.Errorf("profile cannot be nil")
	}
	if s.cfg.APIKey == "" {
		log.Printf("WARN: [NarrativeService] No API key configured, skipping description generation for profile %s.", profile.ID)
		return "", nil
	}

	oclient := openai.DefaultConfig(s.cfg.APIKey)
	if s.cfg.BaseURL != "" {
		oclient.BaseURL = s.cfg.BaseURL
	}
	client := openai.NewClientWithConfig(oclient)

	resp, err := client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: s.cfg.Model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: narrativeSystemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: buildProfileSummary(profile)},
		},
	})
	if err != nil {
		log.Printf("WARN: [NarrativeService] Description generation failed for profile %s: %v", profile.ID, err)
		return "", nil
	}
	if len(resp.Choices) == 0 {
		log.Printf("WARN: [NarrativeService] Empty completion for profile %s.", profile.ID)
		return "", nil
	}

	description := strings.TrimSpace(resp.Choices[0].Message.Content)
	log.Printf("INFO: [NarrativeService] Generated description for profile %s (%d chars).", profile.ID, len(description))
	return description, nil
}

// buildProfileSummary flattens the profile into the prompt the model sees.
func buildProfileSummary(profile *models.UnifiedProfile) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Profile type: %s\n", profile.ProfileType)
	fmt.Fprintf(&b, "Experience level: %s\n", profile.ExperienceLevel)
	fmt.Fprintf(&b, "Dominant family: %s\n", profile.PrimaryFamily)
	if len(profile.Subfamilies) > 0 {
		fmt.Fprintf(&b, "Secondary families: %s\n", strings.Join(profile.Subfamilies, ", "))
	}
	if profile.GenderPreference != "" {
		fmt.Fprintf(&b, "Gender preference: %s\n", profile.GenderPreference)
	}
	if len(profile.Metadata.PreferredOccasions) > 0 {
		fmt.Fprintf(&b, "Occasions: %s\n", strings.Join(profile.Metadata.PreferredOccasions, ", "))
	}
	if len(profile.Metadata.PreferredSeasons) > 0 {
		fmt.Fprintf(&b, "Seasons: %s\n", strings.Join(profile.Metadata.PreferredSeasons, ", "))
	}
	if profile.Metadata.IntensityPreference != "" {
		fmt.Fprintf(&b, "Preferred intensity: %s\n", profile.Metadata.IntensityPreference)
	}
	return b.String()
}
