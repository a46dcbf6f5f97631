package handlers

import "strings"

var allowedGenders = map[string]struct{}{
	"male":              {},
	"female":            {},
	"other":             {},
	"prefer_not_to_say": {},
}

var allowedGoals = map[string]struct{}{
	"weight_loss": {},
	"muscle_gain": {},
	"strength":    {},
	"endurance":   {},
	"maintenance": {},
}

func validateProfileUpdateRequest(req updateProfileRequest) string {
	if req.FullName != nil && strings.TrimSpace(*req.FullName) == "" {
		return "full_name must not be empty"
	}
	if req.Age != nil && *req.Age <= 0 {
		return "age must be greater than 0"
	}
	if req.Gender != nil {
		if _, ok := allowedGenders[*req.Gender]; !ok {
			return "gender must be one of male, female, other, prefer_not_to_say"
		}
	}
	if req.HeightCM != nil && *req.HeightCM <= 0 {
		return "height_cm must be greater than 0"
	}
	if req.CurrentWeightKG != nil && *req.CurrentWeightKG <= 0 {
		return "current_weight_kg must be greater than 0"
	}
	if req.TargetWeightKG != nil && *req.TargetWeightKG <= 0 {
		return "target_weight_kg must be greater than 0"
	}
	if req.Goal != nil {
		if _, ok := allowedGoals[*req.Goal]; !ok {
			return "goal must be one of weight_loss, muscle_gain, strength, endurance, maintenance"
		}
	}
	return ""
}
