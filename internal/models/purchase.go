package models

import "time"

// Payment statuses for a purchase record.
const (
	PaymentPending  = "pending"
	PaymentPaid     = "paid"
	PaymentFailed   = "failed"
	PaymentCanceled = "canceled"
)

type UserPurchase struct {
	ID            int64      `json:"id"`
	UserID        int64      `json:"user_id"`
	RefCode       string     `json:"ref_code"`
	PlanID        *string    `json:"plan_id,omitempty"`
	ProgramID     *int64     `json:"program_id,omitempty"`
	Amount        int64      `json:"amount"`
	PaymentStatus string     `json:"payment_status"`
	Authority     *string    `json:"authority,omitempty"`
	PurchaseDate  time.Time  `json:"purchase_date"`
	ExpiresAt     *time.Time `json:"expires_at,omitempty"`
}
