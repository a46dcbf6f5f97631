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

type gymStore interface {
	Create(ctx context.Context, input repository.CreateGymInput) (*models.Gym, error)
	Delete(ctx context.Context, gymID int64) (bool, error)
	GetByID(ctx context.Context, gymID int64) (*models.Gym, error)
	ListAll(ctx context.Context) ([]models.Gym, error)
	CreateMembership(ctx context.Context, input repository.CreateGymMembershipInput) (*models.GymMembership, error)
	ListMemberships(ctx context.Context, gymID int64) ([]models.GymMembership, error)
}

type GymHandler struct {
	gymRepo gymStore
}

func NewGymHandler(gymRepo gymStore) *GymHandler {
	return &GymHandler{gymRepo: gymRepo}
}

func (h *GymHandler) ListGyms(c *fiber.Ctx) error {
	gyms, err := h.gymRepo.ListAll(c.Context())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).
			JSON(fiber.Map{"error": "Failed to load gyms"})
	}

	return c.JSON(fiber.Map{"gyms": gyms})
}

// GetGym returns a gym together with its membership plans.
func (h *GymHandler) GetGym(c *fiber.Ctx) error {
	gymID, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || gymID <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid gym id"})
	}

	gym, err := h.gymRepo.GetByID(c.Context(), gymID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Gym not found"})
		}
		return c.Status(fiber.StatusInternalServerError).
			JSON(fiber.Map{"error": "Failed to load gym"})
	}

	memberships, err := h.gymRepo.ListMemberships(c.Context(), gymID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).
			JSON(fiber.Map{"error": "Failed to load memberships"})
	}

	return c.JSON(fiber.Map{"gym": models.GymDetail{Gym: *gym, Memberships: memberships}})
}

type createGymRequest struct {
	Name        string   `json:"name"`
	Location    string   `json:"location"`
	Description *string  `json:"description"`
	Facilities  []string `json:"facilities"`
	ImageURL    *string  `json:"image_url"`
}

func (h *GymHandler) CreateGym(c *fiber.Ctx) error {
	var req createGymRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	req.Name = strings.TrimSpace(req.Name)
	req.Location = strings.TrimSpace(req.Location)
	if req.Name == "" || req.Location == "" {
		return c.Status(fiber.StatusBadRequest).
			JSON(fiber.Map{"error": "name and location are required"})
	}
	if req.Facilities == nil {
		req.Facilities = []string{}
	}

	gym, err := h.gymRepo.Create(c.Context(), repository.CreateGymInput{
		Name:        req.Name,
		Location:    req.Location,
		Description: req.Description,
		Facilities:  req.Facilities,
		ImageURL:    req.ImageURL,
	})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).
			JSON(fiber.Map{"error": "Failed to create gym"})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"gym": gym})
}

func (h *GymHandler) DeleteGym(c *fiber.Ctx) error {
	gymID, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || gymID <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid gym id"})
	}

	deleted, err := h.gymRepo.Delete(c.Context(), gymID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).
			JSON(fiber.Map{"error": "Failed to delete gym"})
	}
	if !deleted {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Gym not found"})
	}

	return c.SendStatus(fiber.StatusNoContent)
}

type createMembershipRequest struct {
	Title          string `json:"title"`
	Price          int64  `json:"price"`
	DurationMonths int    `json:"duration_months"`
}

func (h *GymHandler) CreateMembership(c *fiber.Ctx) error {
	gymID, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || gymID <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid gym id"})
	}

	var req createMembershipRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	req.Title = strings.TrimSpace(req.Title)
	if req.Title == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "title is required"})
	}
	if req.Price < 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "price must not be negative"})
	}
	if req.DurationMonths <= 0 {
		return c.Status(fiber.StatusBadRequest).
			JSON(fiber.Map{"error": "duration_months must be positive"})
	}

	if _, err := h.gymRepo.GetByID(c.Context(), gymID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Gym not found"})
		}
		return c.Status(fiber.StatusInternalServerError).
			JSON(fiber.Map{"error": "Failed to load gym"})
	}

	membership, err := h.gymRepo.CreateMembership(c.Context(), repository.CreateGymMembershipInput{
		GymID:          gymID,
		Title:          req.Title,
		Price:          req.Price,
		DurationMonths: req.DurationMonths,
	})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).
			JSON(fiber.Map{"error": "Failed to create membership"})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"membership": membership})
}
