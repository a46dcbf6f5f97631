package handlers

import (
	"context"
	"errors"
	"strconv"

	"github.com/atakamran/LiftLegendsBack/internal/models"
	"github.com/atakamran/LiftLegendsBack/internal/services"
	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"
)

type cartApplicationService interface {
	AddItem(ctx context.Context, userID int64, input services.AddItemInput) (*models.CartItem, error)
	GetCart(ctx context.Context, userID int64) (*services.Cart, error)
	UpdateQuantity(ctx context.Context, userID, itemID int64, quantity int) (*models.CartItem, error)
	RemoveItem(ctx context.Context, userID, itemID int64) error
	Clear(ctx context.Context, userID int64) error
	ApplyDiscountCode(ctx context.Context, userID int64, code string) (*services.Cart, error)
}

type CartHandler struct {
	service cartApplicationService
}

func NewCartHandler(service cartApplicationService) *CartHandler {
	return &CartHandler{service: service}
}

func (h *CartHandler) GetCart(c *fiber.Ctx) error {
	userID, err := parseUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	cart, err := h.service.GetCart(c.Context(), userID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).
			JSON(fiber.Map{"error": "Failed to load cart"})
	}

	return c.JSON(cart)
}

type addCartItemRequest struct {
	ItemType string `json:"item_type"`
	ItemID   int64  `json:"item_id"`
	Quantity int    `json:"quantity"`
	Price    int64  `json:"price"`
}

func (h *CartHandler) AddItem(c *fiber.Ctx) error {
	userID, err := parseUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	var req addCartItemRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if req.Quantity == 0 {
		req.Quantity = 1
	}

	item, err := h.service.AddItem(c.Context(), userID, services.AddItemInput{
		ItemType: req.ItemType,
		ItemID:   req.ItemID,
		Quantity: req.Quantity,
		Price:    req.Price,
	})
	if err != nil {
		return mapCartError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"item": item})
}

type updateCartItemRequest struct {
	Quantity int `json:"quantity"`
}

func (h *CartHandler) UpdateItem(c *fiber.Ctx) error {
	userID, err := parseUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	itemID, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || itemID <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid item id"})
	}

	var req updateCartItemRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	item, err := h.service.UpdateQuantity(c.Context(), userID, itemID, req.Quantity)
	if err != nil {
		return mapCartError(c, err)
	}

	return c.JSON(fiber.Map{"item": item})
}

func (h *CartHandler) RemoveItem(c *fiber.Ctx) error {
	userID, err := parseUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	itemID, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || itemID <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid item id"})
	}

	if err := h.service.RemoveItem(c.Context(), userID, itemID); err != nil {
		return mapCartError(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

func (h *CartHandler) ClearCart(c *fiber.Ctx) error {
	userID, err := parseUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	if err := h.service.Clear(c.Context(), userID); err != nil {
		return c.Status(fiber.StatusInternalServerError).
			JSON(fiber.Map{"error": "Failed to clear cart"})
	}

	return c.SendStatus(fiber.StatusNoContent)
}

type applyDiscountRequest struct {
	Code string `json:"code"`
}

func (h *CartHandler) ApplyDiscount(c *fiber.Ctx) error {
	userID, err := parseUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	var req applyDiscountRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	cart, err := h.service.ApplyDiscountCode(c.Context(), userID, req.Code)
	if err != nil {
		return mapCartError(c, err)
	}

	return c.JSON(cart)
}

func mapCartError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, services.ErrInvalidDiscountCode):
		return c.Status(fiber.StatusUnprocessableEntity).
			JSON(fiber.Map{"error": "Discount code is invalid or expired"})
	case errors.Is(err, services.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request"})
	case errors.Is(err, pgx.ErrNoRows):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Item not found"})
	default:
		return c.Status(fiber.StatusInternalServerError).
			JSON(fiber.Map{"error": "Failed to process cart request"})
	}
}
