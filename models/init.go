package models

// InitResponse is the payload for the /api/init endpoint: user status,
// guest quota usage and the questionnaire flows the client can start.
type InitResponse struct {
	UserType                 string   `json:"user_type"` // "guest" or "registered"
	UserID                   string   `json:"user_id"`
	GuestRecommendationQuota int      `json:"guest_recommendation_quota"` // Max quota for guests
	RequestsMade             int      `json:"requests_made"`              // Recommendation requests already made (if guest)
	RemainingQuota           int      `json:"remaining_quota"`            // -1 means unlimited (registered users)
	AvailableFlows           []string `json:"available_flows"`
}
