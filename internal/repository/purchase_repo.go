package repository

import (
	"context"
	"time"

	"github.com/atakamran/LiftLegendsBack/internal/models"
)

type PurchaseRepository struct {
	db DBTX
}

func NewPurchaseRepository(db DBTX) *PurchaseRepository {
	return &PurchaseRepository{db: db}
}

const purchaseColumns = `id, user_id, ref_code, plan_id, program_id, amount, payment_status, authority, purchase_date, expires_at`

type CreatePurchaseInput struct {
	UserID    int64
	RefCode   string
	PlanID    *string
	ProgramID *int64
	Amount    int64
	ExpiresAt *time.Time
}

func (r *PurchaseRepository) Create(ctx context.Context, input CreatePurchaseInput) (*models.UserPurchase, error) {
	query := `
		INSERT INTO user_purchases (user_id, ref_code, plan_id, program_id, amount, payment_status, expires_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING ` + purchaseColumns + `
	`
	return r.scanPurchase(ctx, query,
		input.UserID,
		input.RefCode,
		input.PlanID,
		input.ProgramID,
		input.Amount,
		models.PaymentPending,
		input.ExpiresAt,
	)
}

func (r *PurchaseRepository) SetAuthority(ctx context.Context, purchaseID int64, authority string) (*models.UserPurchase, error) {
	query := `
		UPDATE user_purchases
		SET authority = $2
		WHERE id = $1
		RETURNING ` + purchaseColumns + `
	`
	return r.scanPurchase(ctx, query, purchaseID, authority)
}

func (r *PurchaseRepository) GetByAuthority(ctx context.Context, authority string) (*models.UserPurchase, error) {
	query := `
		SELECT ` + purchaseColumns + `
		FROM user_purchases
		WHERE authority = $1
		ORDER BY id DESC
		LIMIT 1
	`
	return r.scanPurchase(ctx, query, authority)
}

// UpdateStatusIfCurrent is the compare-and-set used to keep gateway callbacks
// idempotent: a second verify of an already-paid purchase matches no row.
func (r *PurchaseRepository) UpdateStatusIfCurrent(ctx context.Context, purchaseID int64, currentStatus, nextStatus string) (*models.UserPurchase, error) {
	query := `
		UPDATE user_purchases
		SET payment_status = $3
		WHERE id = $1 AND payment_status = $2
		RETURNING ` + purchaseColumns + `
	`
	return r.scanPurchase(ctx, query, purchaseID, currentStatus, nextStatus)
}

func (r *PurchaseRepository) ListByUserID(ctx context.Context, userID int64) ([]models.UserPurchase, error) {
	query := `
		SELECT ` + purchaseColumns + `
		FROM user_purchases
		WHERE user_id = $1
		ORDER BY purchase_date DESC, id DESC
	`
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	purchases := make([]models.UserPurchase, 0)
	for rows.Next() {
		var purchase models.UserPurchase
		if err := rows.Scan(
			&purchase.ID,
			&purchase.UserID,
			&purchase.RefCode,
			&purchase.PlanID,
			&purchase.ProgramID,
			&purchase.Amount,
			&purchase.PaymentStatus,
			&purchase.Authority,
			&purchase.PurchaseDate,
			&purchase.ExpiresAt,
		); err != nil {
			return nil, err
		}
		purchases = append(purchases, purchase)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return purchases, nil
}

func (r *PurchaseRepository) scanPurchase(ctx context.Context, query string, args ...any) (*models.UserPurchase, error) {
	var purchase models.UserPurchase
	err := r.db.QueryRow(ctx, query, args...).Scan(
		&purchase.ID,
		&purchase.UserID,
		&purchase.RefCode,
		&purchase.PlanID,
		&purchase.ProgramID,
		&purchase.Amount,
		&purchase.PaymentStatus,
		&purchase.Authority,
		&purchase.PurchaseDate,
		&purchase.ExpiresAt,
	)
	if err != nil {
		return nil, err
	}
	return &purchase, nil
}
