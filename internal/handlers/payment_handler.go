package handlers

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/atakamran/LiftLegendsBack/internal/services"
	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"
)

type paymentApplicationService interface {
	StartSubscription(ctx context.Context, userID int64, input services.StartSubscriptionInput) (*services.PaymentRedirect, error)
	VerifyCallback(ctx context.Context, authority, status string) (*services.VerifyResult, error)
	purchaseLister
}

type PaymentHandler struct {
	service paymentApplicationService
}

func NewPaymentHandler(service paymentApplicationService) *PaymentHandler {
	return &PaymentHandler{service: service}
}

type paymentRequestBody struct {
	Plan         string `json:"plan"`
	PeriodMonths int    `json:"period_months"`
}

func (h *PaymentHandler) RequestPayment(c *fiber.Ctx) error {
	userID, err := parseUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	var req paymentRequestBody
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	redirect, err := h.service.StartSubscription(c.Context(), userID, services.StartSubscriptionInput{
		Plan:         req.Plan,
		PeriodMonths: req.PeriodMonths,
	})
	if err != nil {
		return mapPaymentError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(redirect)
}

// VerifyPayment is the gateway redirect target; Zarinpal appends Authority
// and Status query parameters.
func (h *PaymentHandler) VerifyPayment(c *fiber.Ctx) error {
	authority := c.Query("Authority")
	status := c.Query("Status")

	result, err := h.service.VerifyCallback(c.Context(), authority, status)
	if err != nil {
		if errors.Is(err, services.ErrPaymentFailed) && result != nil {
			return c.Status(fiber.StatusPaymentRequired).JSON(fiber.Map{
				"error":    "پرداخت ناموفق بود",
				"purchase": result.Purchase,
			})
		}
		return mapPaymentError(c, err)
	}

	return c.JSON(result)
}

// DeepLink hands the mobile app a payload to resume the payment natively.
func (h *PaymentHandler) DeepLink(c *fiber.Ctx) error {
	plan := c.Query("plan")
	periodMonths, err := strconv.Atoi(c.Query("period_months", "1"))
	if err != nil || periodMonths <= 0 {
		return c.Status(fiber.StatusBadRequest).
			JSON(fiber.Map{"error": "period_months must be a positive integer"})
	}

	amount, ok := services.PlanPrice(plan, periodMonths)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Unknown plan or period"})
	}

	link, err := services.BuildDeepLink(services.DeepLinkInput{
		PlanID:        plan,
		Amount:        amount,
		PeriodMonths:  periodMonths,
		PaymentMethod: c.Query("payment_method", "zarinpal"),
	}, time.Now())
	if err != nil {
		return mapPaymentError(c, err)
	}

	return c.JSON(fiber.Map{"deep_link": link, "amount": amount})
}

func (h *PaymentHandler) ListPurchases(c *fiber.Ctx) error {
	userID, err := parseUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	purchases, err := h.service.ListPurchases(c.Context(), userID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).
			JSON(fiber.Map{"error": "Failed to load purchases"})
	}

	return c.JSON(fiber.Map{"purchases": purchases})
}

func mapPaymentError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, services.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request"})
	case errors.Is(err, services.ErrGatewayUnavailable):
		return c.Status(fiber.StatusServiceUnavailable).
			JSON(fiber.Map{"error": "Payment gateway is not configured"})
	case errors.Is(err, pgx.ErrNoRows):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Purchase not found"})
	default:
		return c.Status(fiber.StatusInternalServerError).
			JSON(fiber.Map{"error": "Failed to process payment request"})
	}
}
