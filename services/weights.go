package services

import (
	"aromatch/models"
)

// WeightProfile is the fixed weighting vector combining the scoring
// factors into a final match score. The seven weights of every profile
// always sum to 1.0.
type WeightProfile struct {
	Families   float64
	Notes      float64
	Context    float64
	Popularity float64
	Price      float64
	Occasion   float64
	Season     float64
}

// GetWeights returns the weight profile for a profile type and experience
// level. Personal profiles vary by experience: beginners lean almost
// entirely on families and ignore note-level detail, experts trade family
// weight for note weight. Gift profiles use a fixed vector favoring
// popularity and occasion, since the giver rarely knows the recipient's
// note-level taste.
func GetWeights(profileType models.ProfileType, level models.ExperienceLevel) WeightProfile {
	if profileType == models.ProfileTypePersonal {
		switch level {
		case models.ExperienceBeginner:
			return WeightProfile{
				Families:   0.55,
				Notes:      0.00,
				Context:    0.15,
				Popularity: 0.10,
				Price:      0.05,
				Occasion:   0.075,
				Season:     0.075,
			}
		case models.ExperienceIntermediate:
			return WeightProfile{
				Families:   0.45,
				Notes:      0.15,
				Context:    0.15,
				Popularity: 0.05,
				Price:      0.05,
				Occasion:   0.075,
				Season:     0.075,
			}
		case models.ExperienceExpert:
			return WeightProfile{
				Families:   0.35,
				Notes:      0.25,
				Context:    0.15,
				Popularity: 0.05,
				Price:      0.05,
				Occasion:   0.075,
				Season:     0.075,
			}
		}
	}

	// Gift: fixed weights, independent of the recipient's experience
	return WeightProfile{
		Families:   0.30,
		Notes:      0.10,
		Context:    0.10,
		Popularity: 0.20,
		Price:      0.10,
		Occasion:   0.15,
		Season:     0.05,
	}
}
