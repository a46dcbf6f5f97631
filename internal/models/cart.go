package models

import "time"

// Cart item kinds.
const (
	ItemGymMembership = "gym_membership"
	ItemCoachProgram  = "coach_program"
	ItemProduct       = "product"
)

type CartItem struct {
	ID             int64     `json:"id"`
	UserID         int64     `json:"user_id"`
	ItemType       string    `json:"item_type"`
	ItemID         int64     `json:"item_id"`
	Quantity       int       `json:"quantity"`
	Price          int64     `json:"price"`
	DiscountAmount int64     `json:"discount_amount"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

func IsValidItemType(itemType string) bool {
	switch itemType {
	case ItemGymMembership, ItemCoachProgram, ItemProduct:
		return true
	default:
		return false
	}
}
