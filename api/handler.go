package api

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"sort"
	"strings"

	"aromatch/config"
	"aromatch/models"
	"aromatch/repository"
	"aromatch/services"
	"aromatch/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// APIHandler holds all dependencies for API handlers, such as repositories and services.
type APIHandler struct {
	questionRepo   repository.QuestionRepository
	perfumeRepo    repository.PerfumeRepository
	quotaRepo      repository.QuotaRepository
	profileService services.ProfileService
	engine         *services.RecommendationEngine
}

// NewAPIHandler creates a new APIHandler with necessary dependencies.
func NewAPIHandler(
	questionRepo repository.QuestionRepository,
	perfumeRepo repository.PerfumeRepository,
	quotaRepo repository.QuotaRepository,
	profileService services.ProfileService,
	engine *services.RecommendationEngine,
) *APIHandler {
	return &APIHandler{
		questionRepo:   questionRepo,
		perfumeRepo:    perfumeRepo,
		quotaRepo:      quotaRepo,
		profileService: profileService,
		engine:         engine,
	}
}

// InitHandler returns session bootstrap information: the caller's user
// type, guest quota usage and the questionnaire flows available. Callers
// without a userID are issued a fresh guest ID.
// GET /api/init?userID=guest_xxx
func (h *APIHandler) InitHandler(c *gin.Context) {
	userID := c.Query("userID")
	guestQuota := config.AppConfig.GuestRecommendationQuota

	response := models.InitResponse{
		GuestRecommendationQuota: guestQuota,
	}

	if userID == "" || strings.HasPrefix(userID, "guest_") {
		response.UserType = "guest"
		if userID == "" {
			userID = "guest_" + uuid.New().String()
			log.Printf("INFO: No userID provided, generated new guest ID: %s", userID)
		}
		response.UserID = userID

		if h.quotaRepo != nil {
			if quota, err := h.quotaRepo.GetQuota(userID); err != nil {
				log.Printf("ERROR: Failed to fetch quota for guest %s: %v. Assuming 0 requests made.", userID, err)
			} else {
				response.RequestsMade = quota.RequestsMade
			}
		}
		response.RemainingQuota = guestQuota - response.RequestsMade
		if response.RemainingQuota < 0 {
			response.RemainingQuota = 0
		}
	} else {
		response.UserType = "registered"
		response.UserID = userID
		response.RemainingQuota = -1 // no limit for registered users
	}

	if questions, err := h.questionRepo.GetAllQuestions(); err == nil {
		seen := make(map[string]bool)
		for _, question := range questions {
			if question.Flow != "" && !seen[question.Flow] {
				seen[question.Flow] = true
				response.AvailableFlows = append(response.AvailableFlows, question.Flow)
			}
		}
		sort.Strings(response.AvailableFlows)
	}

	c.JSON(http.StatusOK, gin.H{
		"code":    200,
		"message": "Initialization successful",
		"data":    response,
	})
}

// GetQuestionsHandler returns the question bank, optionally restricted to
// one flow.
// GET /api/questions?flow=profile_A
func (h *APIHandler) GetQuestionsHandler(c *gin.Context) {
	flow := c.Query("flow")

	var questions []models.Question
	var err error
	if flow != "" {
		questions, err = h.questionRepo.GetQuestionsByFlow(flow)
	} else {
		questions, err = h.questionRepo.GetAllQuestions()
	}
	if err != nil {
		utils.SendJSONError(c, http.StatusInternalServerError, "Failed to fetch questions.", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"code":    200,
		"message": "Questions retrieved successfully",
		"data":    questions,
	})
}

// ClientAnswer is one answered question as sent by the client. OptionID
// selects a predefined option; Value carries free-form selections (the
// autocomplete questions) and, when both are present, overrides the
// option's stored value.
type ClientAnswer struct {
	QuestionID string `json:"question_id" binding:"required"`
	OptionID   string `json:"option_id,omitempty"`
	Value      string `json:"value,omitempty"`
}

// CalculateProfileRequest is the payload for profile calculation.
type CalculateProfileRequest struct {
	UserID      string         `json:"user_id" binding:"required"`
	Name        string         `json:"name,omitempty"`
	ProfileType string         `json:"profile_type,omitempty"` // "personal" (default) or "gift"
	Answers     []ClientAnswer `json:"answers" binding:"required"`
}

// CalculateProfileHandler processes questionnaire answers into a persisted
// olfactive profile.
// POST /api/profile/calculate
func (h *APIHandler) CalculateProfileHandler(c *gin.Context) {
	var req CalculateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendJSONError(c, http.StatusBadRequest, "Invalid request format.", err)
		return
	}

	profileType := models.ProfileTypePersonal
	if req.ProfileType != "" {
		profileType = models.ProfileType(req.ProfileType)
		if profileType != models.ProfileTypePersonal && profileType != models.ProfileTypeGift {
			utils.SendJSONError(c, http.StatusBadRequest, fmt.Sprintf("Unknown profile type '%s'.", req.ProfileType), nil)
			return
		}
	}

	answers, err := h.resolveAnswers(req.Answers)
	if err != nil {
		utils.SendJSONError(c, http.StatusBadRequest, err.Error(), err)
		return
	}
	if len(answers) == 0 {
		utils.SendJSONError(c, http.StatusBadRequest, "At least one valid answer is required.", nil)
		return
	}

	profile, err := h.profileService.CalculateAndStoreProfile(c.Request.Context(), req.UserID, req.Name, profileType, answers)
	if err != nil {
		utils.SendJSONError(c, http.StatusInternalServerError, "Failed to calculate profile.", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"code":    200,
		"message": "Profile calculated successfully",
		"data":    profile,
	})
}

// resolveAnswers turns client question/option IDs into full Answer records,
// keyed by the question's stable key. Unknown question IDs fail the request;
// a missing option ID is only valid when a free-form value is supplied.
func (h *APIHandler) resolveAnswers(clientAnswers []ClientAnswer) (models.AnswerSet, error) {
	answers := make(models.AnswerSet, len(clientAnswers))
	for _, ca := range clientAnswers {
		question, err := h.questionRepo.GetQuestionByID(ca.QuestionID)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve question %s: %w", ca.QuestionID, err)
		}
		if question == nil {
			return nil, fmt.Errorf("unknown question ID %s", ca.QuestionID)
		}

		var option models.Option
		if ca.OptionID != "" {
			found := false
			for _, opt := range question.Options {
				if opt.ID == ca.OptionID {
					option = opt
					found = true
					break
				}
			}
			if !found {
				return nil, fmt.Errorf("unknown option ID %s for question %s", ca.OptionID, ca.QuestionID)
			}
		} else if ca.Value == "" {
			return nil, fmt.Errorf("answer for question %s needs an option_id or a value", ca.QuestionID)
		}
		if ca.Value != "" {
			option.Value = ca.Value
		}

		key := question.Key
		if key == "" {
			key = question.ID
		}
		answers[key] = models.Answer{Question: *question, Option: option}
	}
	return answers, nil
}

// GetProfilesForUserHandler lists a user's profiles, newest first.
// GET /api/profile/user/:userID
func (h *APIHandler) GetProfilesForUserHandler(c *gin.Context) {
	userID := c.Param("userID")
	if userID == "" {
		utils.SendJSONError(c, http.StatusBadRequest, "UserID parameter is required.", nil)
		return
	}

	profiles, err := h.profileService.GetProfilesForUser(userID)
	if err != nil {
		utils.SendJSONError(c, http.StatusInternalServerError, "Failed to fetch profiles.", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"code":    200,
		"message": "Profiles retrieved successfully",
		"data":    profiles,
	})
}

// GetProfileHandler returns a single profile.
// GET /api/profile/:profileID
func (h *APIHandler) GetProfileHandler(c *gin.Context) {
	profileID := c.Param("profileID")

	profile, err := h.profileService.GetProfile(profileID)
	if err != nil {
		if strings.Contains(err.Error(), "not found") {
			utils.SendJSONError(c, http.StatusNotFound, "Profile not found.", err)
		} else {
			utils.SendJSONError(c, http.StatusInternalServerError, "Failed to fetch profile.", err)
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"code":    200,
		"message": "Profile retrieved successfully",
		"data":    profile,
	})
}

// DeleteProfileHandler deletes a profile.
// DELETE /api/profile/:profileID
func (h *APIHandler) DeleteProfileHandler(c *gin.Context) {
	profileID := c.Param("profileID")

	if err := h.profileService.DeleteProfile(profileID); err != nil {
		if strings.Contains(err.Error(), "not found") {
			utils.SendJSONError(c, http.StatusNotFound, "Profile not found.", err)
		} else {
			utils.SendJSONError(c, http.StatusInternalServerError, "Failed to delete profile.", err)
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"code":    200,
		"message": "Profile deleted successfully",
	})
}

// RecommendationsRequest is the payload for recommendation generation.
type RecommendationsRequest struct {
	UserID    string `json:"user_id" binding:"required"`
	ProfileID string `json:"profile_id" binding:"required"`
	Limit     int    `json:"limit,omitempty"`
}

// RecommendationsHandler scores the catalog against a stored profile and
// returns the best matches. Guest users (IDs prefixed "guest_") are metered
// against the configured recommendation quota.
// POST /api/recommendations
func (h *APIHandler) RecommendationsHandler(c *gin.Context) {
	var req RecommendationsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendJSONError(c, http.StatusBadRequest, "Invalid request format.", err)
		return
	}

	isGuest := strings.HasPrefix(req.UserID, "guest_")
	if isGuest {
		if h.quotaRepo == nil {
			utils.SendJSONError(c, http.StatusInternalServerError, "System configuration error.", errors.New("quota repository not initialized"))
			return
		}
		currentQuota, err := h.quotaRepo.GetQuota(req.UserID)
		if err != nil {
			utils.SendJSONError(c, http.StatusInternalServerError, "Could not verify recommendation quota.", err)
			return
		}
		if currentQuota.RequestsMade >= config.AppConfig.GuestRecommendationQuota {
			errMsg := fmt.Sprintf("You have reached your limit of %d recommendation requests. Please register to continue.", config.AppConfig.GuestRecommendationQuota)
			utils.SendJSONError(c, http.StatusTooManyRequests, errMsg, nil)
			return
		}
	}

	profile, err := h.profileService.GetProfile(req.ProfileID)
	if err != nil {
		if strings.Contains(err.Error(), "not found") {
			utils.SendJSONError(c, http.StatusNotFound, "Profile not found.", err)
		} else {
			utils.SendJSONError(c, http.StatusInternalServerError, "Failed to fetch profile.", err)
		}
		return
	}

	catalog, err := h.perfumeRepo.GetAllPerfumes(c.Request.Context())
	if err != nil {
		utils.SendJSONError(c, http.StatusInternalServerError, "Failed to load the perfume catalog.", err)
		return
	}

	recommendations := h.engine.GetRecommendations(*profile, catalog, req.Limit)

	if isGuest {
		if _, quotaErr := h.quotaRepo.IncrementQuota(req.UserID); quotaErr != nil {
			log.Printf("ERROR: Failed to increment recommendation quota for guest %s: %v", req.UserID, quotaErr)
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"code":    200,
		"message": "Recommendations generated successfully",
		"data":    recommendations,
	})
}
