package services

import (
	"context"
	"errors"
	"strings"

	"github.com/atakamran/LiftLegendsBack/internal/models"
	"github.com/atakamran/LiftLegendsBack/internal/repository"
	"github.com/jackc/pgx/v5"
)

var ErrInvalidDiscountCode = errors.New("invalid discount code")

type CartTotals struct {
	Total         int64 `json:"total"`
	TotalDiscount int64 `json:"total_discount"`
}

// CalculateTotals sums the cart: each line contributes
// (price - discount, floored at zero) x quantity, and the discount figure is
// the per-line discount x quantity.
func CalculateTotals(items []models.CartItem) CartTotals {
	var totals CartTotals
	for _, item := range items {
		quantity := int64(item.Quantity)
		effective := item.Price - item.DiscountAmount
		if effective < 0 {
			effective = 0
		}
		totals.Total += effective * quantity
		totals.TotalDiscount += item.DiscountAmount * quantity
	}
	return totals
}

type cartStore interface {
	Upsert(ctx context.Context, input repository.AddCartItemInput) (*models.CartItem, error)
	UpdateQuantity(ctx context.Context, userID, itemID int64, quantity int) (*models.CartItem, error)
	SetDiscounts(ctx context.Context, userID int64, discounts map[int64]int64) error
	Delete(ctx context.Context, userID, itemID int64) (bool, error)
	Clear(ctx context.Context, userID int64) error
	ListByUserID(ctx context.Context, userID int64) ([]models.CartItem, error)
}

type discountReader interface {
	GetActiveByCode(ctx context.Context, code string) (*models.DiscountCode, error)
}

type programReader interface {
	GetByID(ctx context.Context, programID int64) (*models.Program, error)
}

type membershipReader interface {
	GetMembershipByID(ctx context.Context, membershipID int64) (*models.GymMembership, error)
}

type CartService struct {
	cartRepo     cartStore
	discountRepo discountReader
	programRepo  programReader
	gymRepo      membershipReader
}

func NewCartService(
	cartRepo cartStore,
	discountRepo discountReader,
	programRepo programReader,
	gymRepo membershipReader,
) *CartService {
	return &CartService{
		cartRepo:     cartRepo,
		discountRepo: discountRepo,
		programRepo:  programRepo,
		gymRepo:      gymRepo,
	}
}

type AddItemInput struct {
	ItemType string
	ItemID   int64
	Quantity int
	Price    int64
}

type Cart struct {
	Items  []models.CartItem `json:"items"`
	Totals CartTotals        `json:"totals"`
}

// AddItem resolves the unit price from the catalog row so a client cannot
// invent its own; only coach programs, which have no catalog price, take the
// price from the request.
func (s *CartService) AddItem(ctx context.Context, userID int64, input AddItemInput) (*models.CartItem, error) {
	if userID <= 0 || input.ItemID <= 0 || input.Quantity <= 0 {
		return nil, ErrInvalidInput
	}
	if !models.IsValidItemType(input.ItemType) {
		return nil, ErrInvalidInput
	}

	price := input.Price
	switch input.ItemType {
	case models.ItemProduct:
		program, err := s.programRepo.GetByID(ctx, input.ItemID)
		if err != nil {
			return nil, err
		}
		price = program.Price
	case models.ItemGymMembership:
		membership, err := s.gymRepo.GetMembershipByID(ctx, input.ItemID)
		if err != nil {
			return nil, err
		}
		price = membership.Price
	case models.ItemCoachProgram:
		if price < 0 {
			return nil, ErrInvalidInput
		}
	}

	return s.cartRepo.Upsert(ctx, repository.AddCartItemInput{
		UserID:   userID,
		ItemType: input.ItemType,
		ItemID:   input.ItemID,
		Quantity: input.Quantity,
		Price:    price,
	})
}

func (s *CartService) GetCart(ctx context.Context, userID int64) (*Cart, error) {
	items, err := s.cartRepo.ListByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &Cart{Items: items, Totals: CalculateTotals(items)}, nil
}

func (s *CartService) UpdateQuantity(ctx context.Context, userID, itemID int64, quantity int) (*models.CartItem, error) {
	if quantity <= 0 {
		return nil, ErrInvalidInput
	}
	return s.cartRepo.UpdateQuantity(ctx, userID, itemID, quantity)
}

func (s *CartService) RemoveItem(ctx context.Context, userID, itemID int64) error {
	deleted, err := s.cartRepo.Delete(ctx, userID, itemID)
	if err != nil {
		return err
	}
	if !deleted {
		return pgx.ErrNoRows
	}
	return nil
}

func (s *CartService) Clear(ctx context.Context, userID int64) error {
	return s.cartRepo.Clear(ctx, userID)
}

// ApplyDiscountCode revalidates the code and reprices the cart. Percentage
// codes discount every line per unit; fixed codes discount the most expensive
// line, capped at its unit price.
func (s *CartService) ApplyDiscountCode(ctx context.Context, userID int64, code string) (*Cart, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return nil, ErrInvalidDiscountCode
	}

	discount, err := s.discountRepo.GetActiveByCode(ctx, code)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrInvalidDiscountCode
		}
		return nil, err
	}

	items, err := s.cartRepo.ListByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, ErrInvalidInput
	}

	discounts := lineDiscounts(items, discount)
	if err := s.cartRepo.SetDiscounts(ctx, userID, discounts); err != nil {
		return nil, err
	}

	return s.GetCart(ctx, userID)
}

func lineDiscounts(items []models.CartItem, discount *models.DiscountCode) map[int64]int64 {
	discounts := make(map[int64]int64, len(items))

	if discount.DiscountType == models.DiscountPercentage {
		for _, item := range items {
			discounts[item.ID] = item.Price * discount.DiscountValue / 100
		}
		return discounts
	}

	// fixed: find the most expensive line and cap at its unit price
	var target *models.CartItem
	for i := range items {
		if target == nil || items[i].Price > target.Price {
			target = &items[i]
		}
	}
	amount := discount.DiscountValue
	if amount > target.Price {
		amount = target.Price
	}
	discounts[target.ID] = amount
	return discounts
}
