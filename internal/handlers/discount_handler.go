package handlers

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/atakamran/LiftLegendsBack/internal/models"
	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5/pgconn"
)

type discountStore interface {
	Create(ctx context.Context, code *models.DiscountCode) (*models.DiscountCode, error)
	Deactivate(ctx context.Context, code string) (bool, error)
	ListAll(ctx context.Context) ([]models.DiscountCode, error)
}

type DiscountHandler struct {
	discountRepo discountStore
}

func NewDiscountHandler(discountRepo discountStore) *DiscountHandler {
	return &DiscountHandler{discountRepo: discountRepo}
}

func (h *DiscountHandler) ListCodes(c *fiber.Ctx) error {
	codes, err := h.discountRepo.ListAll(c.Context())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).
			JSON(fiber.Map{"error": "Failed to load discount codes"})
	}

	return c.JSON(fiber.Map{"codes": codes})
}

type createDiscountRequest struct {
	Code          string     `json:"code"`
	DiscountType  string     `json:"discount_type"`
	DiscountValue int64      `json:"discount_value"`
	ExpiresAt     *time.Time `json:"expires_at"`
}

func (h *DiscountHandler) CreateCode(c *fiber.Ctx) error {
	var req createDiscountRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	req.Code = strings.ToUpper(strings.TrimSpace(req.Code))
	if req.Code == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "code is required"})
	}
	if req.DiscountType != models.DiscountPercentage && req.DiscountType != models.DiscountFixed {
		return c.Status(fiber.StatusBadRequest).
			JSON(fiber.Map{"error": "discount_type must be percentage or fixed"})
	}
	if req.DiscountValue <= 0 {
		return c.Status(fiber.StatusBadRequest).
			JSON(fiber.Map{"error": "discount_value must be positive"})
	}
	if req.DiscountType == models.DiscountPercentage && req.DiscountValue > 100 {
		return c.Status(fiber.StatusBadRequest).
			JSON(fiber.Map{"error": "percentage discount must not exceed 100"})
	}

	code, err := h.discountRepo.Create(c.Context(), &models.DiscountCode{
		Code:          req.Code,
		DiscountType:  req.DiscountType,
		DiscountValue: req.DiscountValue,
		IsActive:      true,
		ExpiresAt:     req.ExpiresAt,
	})
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "Code already exists"})
		}
		return c.Status(fiber.StatusInternalServerError).
			JSON(fiber.Map{"error": "Failed to create discount code"})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"code": code})
}

func (h *DiscountHandler) DeactivateCode(c *fiber.Ctx) error {
	code := strings.ToUpper(strings.TrimSpace(c.Params("code")))
	if code == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid code"})
	}

	deactivated, err := h.discountRepo.Deactivate(c.Context(), code)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).
			JSON(fiber.Map{"error": "Failed to deactivate code"})
	}
	if !deactivated {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Code not found"})
	}

	return c.SendStatus(fiber.StatusNoContent)
}
