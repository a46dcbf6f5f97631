package models

import "time"

// Discount code kinds.
const (
	DiscountPercentage = "percentage"
	DiscountFixed      = "fixed"
)

type DiscountCode struct {
	ID            int64      `json:"id"`
	Code          string     `json:"code"`
	DiscountType  string     `json:"discount_type"`
	DiscountValue int64      `json:"discount_value"`
	IsActive      bool       `json:"is_active"`
	ExpiresAt     *time.Time `json:"expires_at,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
}
