package handlers

import (
	"context"
	"errors"
	"strconv"

	"github.com/atakamran/LiftLegendsBack/internal/models"
	"github.com/atakamran/LiftLegendsBack/internal/repository"
	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"
)

type subscriptionProfileService interface {
	GetProfile(ctx context.Context, userID int64) (*models.UserProfile, error)
	Reconcile(ctx context.Context, userID int64) (bool, error)
}

type profileUpdater interface {
	UpdatePartial(ctx context.Context, userID int64, req repository.UpdateUserProfileInput) (*models.UserProfile, error)
}

type purchaseLister interface {
	ListPurchases(ctx context.Context, userID int64) ([]models.UserPurchase, error)
}

type ProfileHandler struct {
	subscriptions subscriptionProfileService
	profileRepo   profileUpdater
	payments      purchaseLister
}

func NewProfileHandler(
	subscriptions subscriptionProfileService,
	profileRepo profileUpdater,
	payments purchaseLister,
) *ProfileHandler {
	return &ProfileHandler{
		subscriptions: subscriptions,
		profileRepo:   profileRepo,
		payments:      payments,
	}
}

// GetProfile reconciles the subscription before reading, so an expired paid
// plan is already downgraded in what the client sees.
func (h *ProfileHandler) GetProfile(c *fiber.Ctx) error {
	userID, err := parseUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	profile, err := h.subscriptions.GetProfile(c.Context(), userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Profile not found"})
		}
		return c.Status(fiber.StatusInternalServerError).
			JSON(fiber.Map{"error": "Failed to load profile"})
	}

	return c.JSON(fiber.Map{"profile": profile})
}

type updateProfileRequest struct {
	FullName        *string  `json:"full_name"`
	Age             *int     `json:"age"`
	Gender          *string  `json:"gender"`
	HeightCM        *float64 `json:"height_cm"`
	CurrentWeightKG *float64 `json:"current_weight_kg"`
	TargetWeightKG  *float64 `json:"target_weight_kg"`
	Goal            *string  `json:"goal"`
}

func (h *ProfileHandler) UpdateProfile(c *fiber.Ctx) error {
	userID, err := parseUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	var req updateProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if validationErr := validateProfileUpdateRequest(req); validationErr != "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": validationErr})
	}

	profile, err := h.profileRepo.UpdatePartial(c.Context(), userID, repository.UpdateUserProfileInput{
		FullName:        req.FullName,
		Age:             req.Age,
		Gender:          req.Gender,
		HeightCM:        req.HeightCM,
		CurrentWeightKG: req.CurrentWeightKG,
		TargetWeightKG:  req.TargetWeightKG,
		Goal:            req.Goal,
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Profile not found"})
		}
		return c.Status(fiber.StatusInternalServerError).
			JSON(fiber.Map{"error": "Failed to update profile"})
	}

	return c.JSON(fiber.Map{"profile": profile})
}

// Dashboard bundles what the dashboard page renders: the reconciled profile
// plus purchase history.
func (h *ProfileHandler) Dashboard(c *fiber.Ctx) error {
	userID, err := parseUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	profile, err := h.subscriptions.GetProfile(c.Context(), userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Profile not found"})
		}
		return c.Status(fiber.StatusInternalServerError).
			JSON(fiber.Map{"error": "Failed to load dashboard"})
	}

	purchases, err := h.payments.ListPurchases(c.Context(), userID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).
			JSON(fiber.Map{"error": "Failed to load purchases"})
	}

	return c.JSON(fiber.Map{
		"profile":   profile,
		"purchases": purchases,
	})
}

func parseUserID(c *fiber.Ctx) (int64, error) {
	userIDValue := c.Locals("user_id")
	userIDStr, ok := userIDValue.(string)
	if !ok {
		return 0, strconv.ErrSyntax
	}
	return strconv.ParseInt(userIDStr, 10, 64)
}
