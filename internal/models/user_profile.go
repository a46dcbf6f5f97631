package models

import "time"

// Subscription plan tiers. Expired paid plans fall back to PlanBasic.
const (
	PlanBasic    = "basic"
	PlanPro      = "pro"
	PlanUltimate = "ultimate"
)

type UserProfile struct {
	ID                    int64      `json:"id"`
	UserID                int64      `json:"user_id"`
	FullName              *string    `json:"full_name"`
	Age                   *int       `json:"age"`
	Gender                *string    `json:"gender"`
	HeightCM              *float64   `json:"height_cm"`
	CurrentWeightKG       *float64   `json:"current_weight_kg"`
	TargetWeightKG        *float64   `json:"target_weight_kg"`
	Goal                  *string    `json:"goal"`
	SubscriptionPlan      string     `json:"subscription_plan"`
	SubscriptionStartDate *time.Time `json:"subscription_start_date"`
	SubscriptionEndDate   *time.Time `json:"subscription_end_date"`
	CreatedAt             time.Time  `json:"created_at"`
	UpdatedAt             time.Time  `json:"updated_at"`
}

func IsPaidPlan(plan string) bool {
	return plan == PlanPro || plan == PlanUltimate
}
