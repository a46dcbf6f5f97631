package services

import (
	"context"
	"errors"
	"testing"

	"github.com/atakamran/LiftLegendsBack/internal/models"
	"github.com/atakamran/LiftLegendsBack/internal/repository"
	"github.com/jackc/pgx/v5"
)

type stubCartStore struct {
	items     []models.CartItem
	upserted  *repository.AddCartItemInput
	discounts map[int64]int64
}

func (s *stubCartStore) Upsert(_ context.Context, input repository.AddCartItemInput) (*models.CartItem, error) {
	s.upserted = &input
	return &models.CartItem{
		ID:       1,
		UserID:   input.UserID,
		ItemType: input.ItemType,
		ItemID:   input.ItemID,
		Quantity: input.Quantity,
		Price:    input.Price,
	}, nil
}

func (s *stubCartStore) UpdateQuantity(_ context.Context, _, itemID int64, quantity int) (*models.CartItem, error) {
	for i := range s.items {
		if s.items[i].ID == itemID {
			s.items[i].Quantity = quantity
			return &s.items[i], nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (s *stubCartStore) SetDiscounts(_ context.Context, _ int64, discounts map[int64]int64) error {
	s.discounts = discounts
	for i := range s.items {
		s.items[i].DiscountAmount = discounts[s.items[i].ID]
	}
	return nil
}

func (s *stubCartStore) Delete(_ context.Context, _, itemID int64) (bool, error) {
	for i := range s.items {
		if s.items[i].ID == itemID {
			s.items = append(s.items[:i], s.items[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

func (s *stubCartStore) Clear(_ context.Context, _ int64) error {
	s.items = nil
	return nil
}

func (s *stubCartStore) ListByUserID(_ context.Context, _ int64) ([]models.CartItem, error) {
	return s.items, nil
}

type stubDiscountReader struct {
	code *models.DiscountCode
}

func (s *stubDiscountReader) GetActiveByCode(_ context.Context, code string) (*models.DiscountCode, error) {
	if s.code == nil || s.code.Code != code {
		return nil, pgx.ErrNoRows
	}
	return s.code, nil
}

type stubProgramReader struct {
	program *models.Program
}

func (s *stubProgramReader) GetByID(_ context.Context, _ int64) (*models.Program, error) {
	if s.program == nil {
		return nil, pgx.ErrNoRows
	}
	return s.program, nil
}

type stubMembershipReader struct {
	membership *models.GymMembership
}

func (s *stubMembershipReader) GetMembershipByID(_ context.Context, _ int64) (*models.GymMembership, error) {
	if s.membership == nil {
		return nil, pgx.ErrNoRows
	}
	return s.membership, nil
}

func newCartService(store *stubCartStore, discounts *stubDiscountReader) *CartService {
	return NewCartService(store, discounts, &stubProgramReader{}, &stubMembershipReader{})
}

func TestCalculateTotals(t *testing.T) {
	items := []models.CartItem{
		{ID: 1, Price: 100000, DiscountAmount: 10000, Quantity: 2},
		{ID: 2, Price: 50000, DiscountAmount: 0, Quantity: 1},
	}

	totals := CalculateTotals(items)
	if totals.Total != 230000 {
		t.Fatalf("expected total 230000, got %d", totals.Total)
	}
	if totals.TotalDiscount != 20000 {
		t.Fatalf("expected discount 20000, got %d", totals.TotalDiscount)
	}
}

func TestCalculateTotalsFloorsNegativeLines(t *testing.T) {
	items := []models.CartItem{
		{ID: 1, Price: 10000, DiscountAmount: 15000, Quantity: 3},
	}

	totals := CalculateTotals(items)
	if totals.Total != 0 {
		t.Fatalf("expected floored total 0, got %d", totals.Total)
	}
	if totals.TotalDiscount != 45000 {
		t.Fatalf("expected discount 45000, got %d", totals.TotalDiscount)
	}
}

func TestCalculateTotalsEmptyCart(t *testing.T) {
	totals := CalculateTotals(nil)
	if totals.Total != 0 || totals.TotalDiscount != 0 {
		t.Fatalf("expected zero totals, got %+v", totals)
	}
}

func TestAddItemUsesCatalogPriceForProducts(t *testing.T) {
	store := &stubCartStore{}
	service := NewCartService(store, &stubDiscountReader{},
		&stubProgramReader{program: &models.Program{ID: 5, Price: 900000}},
		&stubMembershipReader{},
	)

	item, err := service.AddItem(context.Background(), 1, AddItemInput{
		ItemType: models.ItemProduct,
		ItemID:   5,
		Quantity: 2,
		Price:    1, // client-supplied price must be ignored
	})
	if err != nil {
		t.Fatalf("AddItem: %v", err)
	}
	if item.Price != 900000 {
		t.Fatalf("expected catalog price 900000, got %d", item.Price)
	}
}

func TestAddItemUsesMembershipPrice(t *testing.T) {
	store := &stubCartStore{}
	service := NewCartService(store, &stubDiscountReader{},
		&stubProgramReader{},
		&stubMembershipReader{membership: &models.GymMembership{ID: 3, Price: 2400000}},
	)

	item, err := service.AddItem(context.Background(), 1, AddItemInput{
		ItemType: models.ItemGymMembership,
		ItemID:   3,
		Quantity: 1,
	})
	if err != nil {
		t.Fatalf("AddItem: %v", err)
	}
	if item.Price != 2400000 {
		t.Fatalf("expected membership price 2400000, got %d", item.Price)
	}
}

func TestAddItemRejectsInvalidInput(t *testing.T) {
	service := newCartService(&stubCartStore{}, &stubDiscountReader{})

	cases := []AddItemInput{
		{ItemType: "subscription", ItemID: 1, Quantity: 1},
		{ItemType: models.ItemProduct, ItemID: 0, Quantity: 1},
		{ItemType: models.ItemProduct, ItemID: 1, Quantity: 0},
		{ItemType: models.ItemCoachProgram, ItemID: 1, Quantity: 1, Price: -5},
	}
	for _, input := range cases {
		if _, err := service.AddItem(context.Background(), 1, input); !errors.Is(err, ErrInvalidInput) {
			t.Fatalf("input %+v: expected ErrInvalidInput, got %v", input, err)
		}
	}
}

func TestApplyPercentageDiscount(t *testing.T) {
	store := &stubCartStore{items: []models.CartItem{
		{ID: 1, Price: 100000, Quantity: 2},
		{ID: 2, Price: 50000, Quantity: 1},
	}}
	discounts := &stubDiscountReader{code: &models.DiscountCode{
		Code:          "SUMMER10",
		DiscountType:  models.DiscountPercentage,
		DiscountValue: 10,
		IsActive:      true,
	}}
	service := newCartService(store, discounts)

	cart, err := service.ApplyDiscountCode(context.Background(), 1, "summer10")
	if err != nil {
		t.Fatalf("ApplyDiscountCode: %v", err)
	}
	if cart.Totals.Total != 225000 {
		t.Fatalf("expected total 225000, got %d", cart.Totals.Total)
	}
	if cart.Totals.TotalDiscount != 25000 {
		t.Fatalf("expected discount 25000, got %d", cart.Totals.TotalDiscount)
	}
}

func TestApplyFixedDiscountCapsAtUnitPrice(t *testing.T) {
	store := &stubCartStore{items: []models.CartItem{
		{ID: 1, Price: 30000, Quantity: 1},
		{ID: 2, Price: 80000, Quantity: 1},
	}}
	discounts := &stubDiscountReader{code: &models.DiscountCode{
		Code:          "BIGCUT",
		DiscountType:  models.DiscountFixed,
		DiscountValue: 100000,
		IsActive:      true,
	}}
	service := newCartService(store, discounts)

	cart, err := service.ApplyDiscountCode(context.Background(), 1, "BIGCUT")
	if err != nil {
		t.Fatalf("ApplyDiscountCode: %v", err)
	}
	if got := store.discounts[2]; got != 80000 {
		t.Fatalf("expected fixed discount 80000 on the most expensive line, got %d", got)
	}
	if cart.Totals.Total != 30000 {
		t.Fatalf("expected total 30000, got %d", cart.Totals.Total)
	}
}

func TestApplyDiscountCodeRejectsUnknownCode(t *testing.T) {
	store := &stubCartStore{items: []models.CartItem{{ID: 1, Price: 1000, Quantity: 1}}}
	service := newCartService(store, &stubDiscountReader{})

	if _, err := service.ApplyDiscountCode(context.Background(), 1, "NOPE"); !errors.Is(err, ErrInvalidDiscountCode) {
		t.Fatalf("expected ErrInvalidDiscountCode, got %v", err)
	}
}

func TestApplyDiscountCodeRejectsEmptyCart(t *testing.T) {
	discounts := &stubDiscountReader{code: &models.DiscountCode{
		Code:          "SUMMER10",
		DiscountType:  models.DiscountPercentage,
		DiscountValue: 10,
	}}
	service := newCartService(&stubCartStore{}, discounts)

	if _, err := service.ApplyDiscountCode(context.Background(), 1, "SUMMER10"); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for empty cart, got %v", err)
	}
}

func TestRemoveItemMissingRowIsNotFound(t *testing.T) {
	service := newCartService(&stubCartStore{}, &stubDiscountReader{})

	if err := service.RemoveItem(context.Background(), 1, 99); !errors.Is(err, pgx.ErrNoRows) {
		t.Fatalf("expected pgx.ErrNoRows, got %v", err)
	}
}
