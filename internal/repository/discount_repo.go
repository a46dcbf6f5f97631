package repository

import (
	"context"

	"github.com/atakamran/LiftLegendsBack/internal/models"
)

type DiscountRepository struct {
	db DBTX
}

func NewDiscountRepository(db DBTX) *DiscountRepository {
	return &DiscountRepository{db: db}
}

const discountColumns = `id, code, discount_type, discount_value, is_active, expires_at, created_at`

func (r *DiscountRepository) Create(ctx context.Context, code *models.DiscountCode) (*models.DiscountCode, error) {
	query := `
		INSERT INTO discount_codes (code, discount_type, discount_value, is_active, expires_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING ` + discountColumns + `
	`
	return r.scanCode(ctx, query,
		code.Code,
		code.DiscountType,
		code.DiscountValue,
		code.IsActive,
		code.ExpiresAt,
	)
}

// GetActiveByCode only returns codes that are active and not past their
// expiry; unknown, disabled, and expired codes all look the same to callers.
func (r *DiscountRepository) GetActiveByCode(ctx context.Context, code string) (*models.DiscountCode, error) {
	query := `
		SELECT ` + discountColumns + `
		FROM discount_codes
		WHERE code = $1
		  AND is_active
		  AND (expires_at IS NULL OR expires_at >= NOW())
	`
	return r.scanCode(ctx, query, code)
}

func (r *DiscountRepository) Deactivate(ctx context.Context, code string) (bool, error) {
	query := `UPDATE discount_codes SET is_active = FALSE WHERE code = $1`
	tag, err := r.db.Exec(ctx, query, code)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (r *DiscountRepository) ListAll(ctx context.Context) ([]models.DiscountCode, error) {
	query := `
		SELECT ` + discountColumns + `
		FROM discount_codes
		ORDER BY created_at DESC, id DESC
	`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	codes := make([]models.DiscountCode, 0)
	for rows.Next() {
		var code models.DiscountCode
		if err := rows.Scan(
			&code.ID,
			&code.Code,
			&code.DiscountType,
			&code.DiscountValue,
			&code.IsActive,
			&code.ExpiresAt,
			&code.CreatedAt,
		); err != nil {
			return nil, err
		}
		codes = append(codes, code)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return codes, nil
}

func (r *DiscountRepository) scanCode(ctx context.Context, query string, args ...any) (*models.DiscountCode, error) {
	var code models.DiscountCode
	err := r.db.QueryRow(ctx, query, args...).Scan(
		&code.ID,
		&code.Code,
		&code.DiscountType,
		&code.DiscountValue,
		&code.IsActive,
		&code.ExpiresAt,
		&code.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &code, nil
}
