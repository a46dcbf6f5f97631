package handlers

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/atakamran/LiftLegendsBack/internal/models"
	"github.com/atakamran/LiftLegendsBack/internal/repository"
	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"
)

type coachStore interface {
	Create(ctx context.Context, input repository.CreateCoachInput) (*models.Coach, error)
	UpdatePartial(ctx context.Context, coachID int64, input repository.UpdateCoachInput) (*models.Coach, error)
	Delete(ctx context.Context, coachID int64) (bool, error)
	GetByID(ctx context.Context, coachID int64) (*models.Coach, error)
	ListAll(ctx context.Context) ([]models.Coach, error)
}

type CoachHandler struct {
	coachRepo coachStore
}

func NewCoachHandler(coachRepo coachStore) *CoachHandler {
	return &CoachHandler{coachRepo: coachRepo}
}

func (h *CoachHandler) ListCoaches(c *fiber.Ctx) error {
	coaches, err := h.coachRepo.ListAll(c.Context())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).
			JSON(fiber.Map{"error": "Failed to load coaches"})
	}

	return c.JSON(fiber.Map{"coaches": coaches})
}

func (h *CoachHandler) GetCoach(c *fiber.Ctx) error {
	coachID, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || coachID <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid coach id"})
	}

	coach, err := h.coachRepo.GetByID(c.Context(), coachID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Coach not found"})
		}
		return c.Status(fiber.StatusInternalServerError).
			JSON(fiber.Map{"error": "Failed to load coach"})
	}

	return c.JSON(fiber.Map{"coach": coach})
}

type createCoachRequest struct {
	FullName        string  `json:"full_name"`
	Expertise       *string `json:"expertise"`
	ExperienceYears *int    `json:"experience_years"`
	Bio             *string `json:"bio"`
	ImageURL        *string `json:"image_url"`
}

func (h *CoachHandler) CreateCoach(c *fiber.Ctx) error {
	var req createCoachRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	req.FullName = strings.TrimSpace(req.FullName)
	if req.FullName == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "full_name is required"})
	}
	if req.ExperienceYears != nil && *req.ExperienceYears < 0 {
		return c.Status(fiber.StatusBadRequest).
			JSON(fiber.Map{"error": "experience_years must not be negative"})
	}

	coach, err := h.coachRepo.Create(c.Context(), repository.CreateCoachInput{
		FullName:        req.FullName,
		Expertise:       req.Expertise,
		ExperienceYears: req.ExperienceYears,
		Bio:             req.Bio,
		ImageURL:        req.ImageURL,
	})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).
			JSON(fiber.Map{"error": "Failed to create coach"})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"coach": coach})
}

type updateCoachRequest struct {
	FullName        *string `json:"full_name"`
	Expertise       *string `json:"expertise"`
	ExperienceYears *int    `json:"experience_years"`
	Bio             *string `json:"bio"`
	ImageURL        *string `json:"image_url"`
}

func (h *CoachHandler) UpdateCoach(c *fiber.Ctx) error {
	coachID, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || coachID <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid coach id"})
	}

	var req updateCoachRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if req.FullName != nil && strings.TrimSpace(*req.FullName) == "" {
		return c.Status(fiber.StatusBadRequest).
			JSON(fiber.Map{"error": "full_name must not be empty"})
	}
	if req.ExperienceYears != nil && *req.ExperienceYears < 0 {
		return c.Status(fiber.StatusBadRequest).
			JSON(fiber.Map{"error": "experience_years must not be negative"})
	}

	coach, err := h.coachRepo.UpdatePartial(c.Context(), coachID, repository.UpdateCoachInput{
		FullName:        req.FullName,
		Expertise:       req.Expertise,
		ExperienceYears: req.ExperienceYears,
		Bio:             req.Bio,
		ImageURL:        req.ImageURL,
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Coach not found"})
		}
		return c.Status(fiber.StatusInternalServerError).
			JSON(fiber.Map{"error": "Failed to update coach"})
	}

	return c.JSON(fiber.Map{"coach": coach})
}

func (h *CoachHandler) DeleteCoach(c *fiber.Ctx) error {
	coachID, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || coachID <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid coach id"})
	}

	deleted, err := h.coachRepo.Delete(c.Context(), coachID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).
			JSON(fiber.Map{"error": "Failed to delete coach"})
	}
	if !deleted {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Coach not found"})
	}

	return c.SendStatus(fiber.StatusNoContent)
}
