package handlers

import (
	"context"
	"errors"
	"regexp"
	"strconv"
	"strings"

	"github.com/atakamran/LiftLegendsBack/internal/models"
	"github.com/atakamran/LiftLegendsBack/internal/repository"
	"github.com/atakamran/LiftLegendsBack/internal/services"
	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

type blogStore interface {
	Create(ctx context.Context, input repository.CreateBlogPostInput) (*models.BlogPost, error)
	UpdatePartial(ctx context.Context, postID int64, input repository.UpdateBlogPostInput) (*models.BlogPost, error)
	Delete(ctx context.Context, postID int64) (bool, error)
	GetBySlug(ctx context.Context, slug string, publishedOnly bool) (*models.BlogPost, error)
	ListPublished(ctx context.Context) ([]models.BlogPost, error)
	ListAll(ctx context.Context) ([]models.BlogPost, error)
}

type BlogHandler struct {
	blogRepo       blogStore
	storageService services.StorageService
}

func NewBlogHandler(blogRepo blogStore, storageService services.StorageService) *BlogHandler {
	return &BlogHandler{blogRepo: blogRepo, storageService: storageService}
}

func (h *BlogHandler) ListPosts(c *fiber.Ctx) error {
	posts, err := h.blogRepo.ListPublished(c.Context())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).
			JSON(fiber.Map{"error": "Failed to load posts"})
	}

	return c.JSON(fiber.Map{"posts": posts})
}

func (h *BlogHandler) GetPost(c *fiber.Ctx) error {
	slug := strings.TrimSpace(c.Params("slug"))
	if slug == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid slug"})
	}

	post, err := h.blogRepo.GetBySlug(c.Context(), slug, true)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Post not found"})
		}
		return c.Status(fiber.StatusInternalServerError).
			JSON(fiber.Map{"error": "Failed to load post"})
	}

	return c.JSON(fiber.Map{"post": post})
}

func (h *BlogHandler) ListAllPosts(c *fiber.Ctx) error {
	posts, err := h.blogRepo.ListAll(c.Context())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).
			JSON(fiber.Map{"error": "Failed to load posts"})
	}

	return c.JSON(fiber.Map{"posts": posts})
}

type createBlogPostRequest struct {
	Slug      string  `json:"slug"`
	Title     string  `json:"title"`
	Content   string  `json:"content"`
	Excerpt   *string `json:"excerpt"`
	Category  *string `json:"category"`
	Published bool    `json:"published"`
}

var slugPattern = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)

func (h *BlogHandler) CreatePost(c *fiber.Ctx) error {
	authorID, err := parseUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	var req createBlogPostRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	req.Slug = strings.ToLower(strings.TrimSpace(req.Slug))
	if !slugPattern.MatchString(req.Slug) {
		return c.Status(fiber.StatusBadRequest).
			JSON(fiber.Map{"error": "slug must be lowercase letters, digits and dashes"})
	}
	req.Title = strings.TrimSpace(req.Title)
	if req.Title == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "title is required"})
	}
	if strings.TrimSpace(req.Content) == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "content is required"})
	}

	post, err := h.blogRepo.Create(c.Context(), repository.CreateBlogPostInput{
		Slug:      req.Slug,
		Title:     req.Title,
		Content:   req.Content,
		Excerpt:   req.Excerpt,
		Category:  req.Category,
		Published: req.Published,
		AuthorID:  authorID,
	})
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "Slug already exists"})
		}
		return c.Status(fiber.StatusInternalServerError).
			JSON(fiber.Map{"error": "Failed to create post"})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"post": post})
}

type updateBlogPostRequest struct {
	Title     *string `json:"title"`
	Content   *string `json:"content"`
	Excerpt   *string `json:"excerpt"`
	Category  *string `json:"category"`
	Published *bool   `json:"published"`
}

func (h *BlogHandler) UpdatePost(c *fiber.Ctx) error {
	postID, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || postID <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid post id"})
	}

	var req updateBlogPostRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if req.Title != nil && strings.TrimSpace(*req.Title) == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "title must not be empty"})
	}
	if req.Content != nil && strings.TrimSpace(*req.Content) == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "content must not be empty"})
	}

	post, err := h.blogRepo.UpdatePartial(c.Context(), postID, repository.UpdateBlogPostInput{
		Title:     req.Title,
		Content:   req.Content,
		Excerpt:   req.Excerpt,
		Category:  req.Category,
		Published: req.Published,
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Post not found"})
		}
		return c.Status(fiber.StatusInternalServerError).
			JSON(fiber.Map{"error": "Failed to update post"})
	}

	return c.JSON(fiber.Map{"post": post})
}

func (h *BlogHandler) DeletePost(c *fiber.Ctx) error {
	postID, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || postID <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid post id"})
	}

	deleted, err := h.blogRepo.Delete(c.Context(), postID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).
			JSON(fiber.Map{"error": "Failed to delete post"})
	}
	if !deleted {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Post not found"})
	}

	return c.SendStatus(fiber.StatusNoContent)
}

func (h *BlogHandler) UploadCoverImage(c *fiber.Ctx) error {
	if h.storageService == nil {
		return c.Status(fiber.StatusServiceUnavailable).
			JSON(fiber.Map{"error": "Storage service is not configured"})
	}

	postID, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || postID <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid post id"})
	}

	fileHeader, err := c.FormFile("image")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "image is required"})
	}
	if fileHeader.Size <= 0 || fileHeader.Size > maxImageSizeBytes {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "image must be between 1 byte and 5MB"})
	}

	file, err := fileHeader.Open()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).
			JSON(fiber.Map{"error": "Failed to open image"})
	}
	defer file.Close()

	filename := buildImageFilename("post", postID, fileHeader.Filename)
	imageURL, err := h.storageService.UploadFile(c.Context(), file, filename, "blog")
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).
			JSON(fiber.Map{"error": "Failed to upload image"})
	}

	post, err := h.blogRepo.UpdatePartial(c.Context(), postID, repository.UpdateBlogPostInput{
		CoverImage: &imageURL,
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Post not found"})
		}
		return c.Status(fiber.StatusInternalServerError).
			JSON(fiber.Map{"error": "Failed to update post"})
	}

	return c.JSON(fiber.Map{"post": post})
}
