package handlers

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/atakamran/LiftLegendsBack/internal/models"
	"github.com/atakamran/LiftLegendsBack/internal/repository"
	"github.com/atakamran/LiftLegendsBack/internal/services"
	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"
)

const maxImageSizeBytes = 5 * 1024 * 1024

type catalogSearcher interface {
	Search(ctx context.Context, filter services.CatalogFilter) ([]models.Program, error)
}

type programStore interface {
	Create(ctx context.Context, input repository.CreateProgramInput) (*models.Program, error)
	UpdatePartial(ctx context.Context, programID int64, input repository.UpdateProgramInput) (*models.Program, error)
	Delete(ctx context.Context, programID int64) (bool, error)
	GetByID(ctx context.Context, programID int64) (*models.Program, error)
}

type ProgramHandler struct {
	catalog        catalogSearcher
	programRepo    programStore
	storageService services.StorageService
}

func NewProgramHandler(
	catalog catalogSearcher,
	programRepo programStore,
	storageService services.StorageService,
) *ProgramHandler {
	return &ProgramHandler{
		catalog:        catalog,
		programRepo:    programRepo,
		storageService: storageService,
	}
}

// ListPrograms is the public catalog: text/category/price filters, a sort
// key, and page slicing, all applied in memory.
func (h *ProgramHandler) ListPrograms(c *fiber.Ctx) error {
	filter := services.CatalogFilter{
		Query:    c.Query("q"),
		Category: c.Query("category"),
		Sort:     c.Query("sort", services.SortNewest),
	}
	if filter.Category != "" && !models.IsValidCategory(filter.Category) {
		return c.Status(fiber.StatusBadRequest).
			JSON(fiber.Map{"error": "category must be one of training, diet, supplement"})
	}
	if raw := c.Query("min_price"); raw != "" {
		minPrice, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || minPrice < 0 {
			return c.Status(fiber.StatusBadRequest).
				JSON(fiber.Map{"error": "min_price must be a non-negative integer"})
		}
		filter.MinPrice = &minPrice
	}
	if raw := c.Query("max_price"); raw != "" {
		maxPrice, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || maxPrice < 0 {
			return c.Status(fiber.StatusBadRequest).
				JSON(fiber.Map{"error": "max_price must be a non-negative integer"})
		}
		filter.MaxPrice = &maxPrice
	}

	programs, err := h.catalog.Search(c.Context(), filter)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).
			JSON(fiber.Map{"error": "Failed to load programs"})
	}

	page, limit := parsePagination(c)
	paged := services.PagePrograms(programs, page, limit)

	return c.JSON(fiber.Map{
		"programs":   paged,
		"pagination": buildPaginationMeta(page, limit, len(programs)),
	})
}

func (h *ProgramHandler) GetProgram(c *fiber.Ctx) error {
	programID, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || programID <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid program id"})
	}

	program, err := h.programRepo.GetByID(c.Context(), programID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Program not found"})
		}
		return c.Status(fiber.StatusInternalServerError).
			JSON(fiber.Map{"error": "Failed to load program"})
	}

	return c.JSON(fiber.Map{"program": program})
}

type createProgramRequest struct {
	Title       string  `json:"title"`
	Description *string `json:"description"`
	Price       int64   `json:"price"`
	Category    string  `json:"category"`
	ProgramURL  *string `json:"program_url"`
}

func (h *ProgramHandler) CreateProgram(c *fiber.Ctx) error {
	var req createProgramRequest
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
	if !models.IsValidCategory(req.Category) {
		return c.Status(fiber.StatusBadRequest).
			JSON(fiber.Map{"error": "category must be one of training, diet, supplement"})
	}

	program, err := h.programRepo.Create(c.Context(), repository.CreateProgramInput{
		Title:       req.Title,
		Description: req.Description,
		Price:       req.Price,
		Category:    req.Category,
		ProgramURL:  req.ProgramURL,
	})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).
			JSON(fiber.Map{"error": "Failed to create program"})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"program": program})
}

type updateProgramRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Price       *int64  `json:"price"`
	Category    *string `json:"category"`
	ProgramURL  *string `json:"program_url"`
}

func (h *ProgramHandler) UpdateProgram(c *fiber.Ctx) error {
	programID, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || programID <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid program id"})
	}

	var req updateProgramRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if req.Title != nil && strings.TrimSpace(*req.Title) == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "title must not be empty"})
	}
	if req.Price != nil && *req.Price < 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "price must not be negative"})
	}
	if req.Category != nil && !models.IsValidCategory(*req.Category) {
		return c.Status(fiber.StatusBadRequest).
			JSON(fiber.Map{"error": "category must be one of training, diet, supplement"})
	}

	program, err := h.programRepo.UpdatePartial(c.Context(), programID, repository.UpdateProgramInput{
		Title:       req.Title,
		Description: req.Description,
		Price:       req.Price,
		Category:    req.Category,
		ProgramURL:  req.ProgramURL,
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Program not found"})
		}
		return c.Status(fiber.StatusInternalServerError).
			JSON(fiber.Map{"error": "Failed to update program"})
	}

	return c.JSON(fiber.Map{"program": program})
}

func (h *ProgramHandler) DeleteProgram(c *fiber.Ctx) error {
	programID, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || programID <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid program id"})
	}

	deleted, err := h.programRepo.Delete(c.Context(), programID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).
			JSON(fiber.Map{"error": "Failed to delete program"})
	}
	if !deleted {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Program not found"})
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// UploadProgramImage stores the image in the public bucket and writes its URL
// onto the program row.
func (h *ProgramHandler) UploadProgramImage(c *fiber.Ctx) error {
	if h.storageService == nil {
		return c.Status(fiber.StatusServiceUnavailable).
			JSON(fiber.Map{"error": "Storage service is not configured"})
	}

	programID, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || programID <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid program id"})
	}

	fileHeader, err := c.FormFile("image")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "image is required"})
	}
	if fileHeader.Size <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "image is empty"})
	}
	if fileHeader.Size > maxImageSizeBytes {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "image exceeds 5MB limit"})
	}

	file, err := fileHeader.Open()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).
			JSON(fiber.Map{"error": "Failed to open image"})
	}
	defer file.Close()

	filename := buildImageFilename("program", programID, fileHeader.Filename)
	imageURL, err := h.storageService.UploadFile(c.Context(), file, filename, "programs")
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).
			JSON(fiber.Map{"error": "Failed to upload image"})
	}

	program, err := h.programRepo.UpdatePartial(c.Context(), programID, repository.UpdateProgramInput{
		ImageURL: &imageURL,
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Program not found"})
		}
		return c.Status(fiber.StatusInternalServerError).
			JSON(fiber.Map{"error": "Failed to update program"})
	}

	return c.JSON(fiber.Map{"program": program})
}

func buildImageFilename(kind string, id int64, original string) string {
	ext := strings.ToLower(filepath.Ext(strings.TrimSpace(original)))
	if ext == "" {
		ext = ".jpg"
	}
	return fmt.Sprintf("%s-%d-%d%s", kind, id, time.Now().UnixNano(), ext)
}
