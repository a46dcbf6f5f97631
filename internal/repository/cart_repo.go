package repository

import (
	"context"

	"github.com/atakamran/LiftLegendsBack/internal/models"
)

type CartRepository struct {
	db DBTX
}

func NewCartRepository(db DBTX) *CartRepository {
	return &CartRepository{db: db}
}

const cartColumns = `id, user_id, item_type, item_id, quantity, price, discount_amount, created_at, updated_at`

type AddCartItemInput struct {
	UserID         int64
	ItemType       string
	ItemID         int64
	Quantity       int
	Price          int64
	DiscountAmount int64
}

// Upsert adds a line or bumps the quantity when the same item is already in
// the cart, so a cart never holds two lines for one item.
func (r *CartRepository) Upsert(ctx context.Context, input AddCartItemInput) (*models.CartItem, error) {
	query := `
		INSERT INTO cart_items (user_id, item_type, item_id, quantity, price, discount_amount)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (user_id, item_type, item_id)
		DO UPDATE SET quantity = cart_items.quantity + EXCLUDED.quantity,
					  price = EXCLUDED.price,
					  discount_amount = EXCLUDED.discount_amount,
					  updated_at = NOW()
		RETURNING ` + cartColumns + `
	`
	return r.scanItem(ctx, query,
		input.UserID,
		input.ItemType,
		input.ItemID,
		input.Quantity,
		input.Price,
		input.DiscountAmount,
	)
}

func (r *CartRepository) UpdateQuantity(ctx context.Context, userID, itemID int64, quantity int) (*models.CartItem, error) {
	query := `
		UPDATE cart_items
		SET quantity = $3, updated_at = NOW()
		WHERE id = $2 AND user_id = $1
		RETURNING ` + cartColumns + `
	`
	return r.scanItem(ctx, query, userID, itemID, quantity)
}

func (r *CartRepository) SetDiscounts(ctx context.Context, userID int64, discounts map[int64]int64) error {
	query := `
		UPDATE cart_items
		SET discount_amount = $3, updated_at = NOW()
		WHERE id = $2 AND user_id = $1
	`
	for itemID, discount := range discounts {
		if _, err := r.db.Exec(ctx, query, userID, itemID, discount); err != nil {
			return err
		}
	}
	return nil
}

func (r *CartRepository) Delete(ctx context.Context, userID, itemID int64) (bool, error) {
	query := `DELETE FROM cart_items WHERE id = $2 AND user_id = $1`
	tag, err := r.db.Exec(ctx, query, userID, itemID)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (r *CartRepository) Clear(ctx context.Context, userID int64) error {
	query := `DELETE FROM cart_items WHERE user_id = $1`
	_, err := r.db.Exec(ctx, query, userID)
	return err
}

func (r *CartRepository) ListByUserID(ctx context.Context, userID int64) ([]models.CartItem, error) {
	query := `
		SELECT ` + cartColumns + `
		FROM cart_items
		WHERE user_id = $1
		ORDER BY created_at ASC, id ASC
	`
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]models.CartItem, 0)
	for rows.Next() {
		var item models.CartItem
		if err := rows.Scan(
			&item.ID,
			&item.UserID,
			&item.ItemType,
			&item.ItemID,
			&item.Quantity,
			&item.Price,
			&item.DiscountAmount,
			&item.CreatedAt,
			&item.UpdatedAt,
		); err != nil {
			return nil, err
		}
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return items, nil
}

func (r *CartRepository) scanItem(ctx context.Context, query string, args ...any) (*models.CartItem, error) {
	var item models.CartItem
	err := r.db.QueryRow(ctx, query, args...).Scan(
		&item.ID,
		&item.UserID,
		&item.ItemType,
		&item.ItemID,
		&item.Quantity,
		&item.Price,
		&item.DiscountAmount,
		&item.CreatedAt,
		&item.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &item, nil
}
