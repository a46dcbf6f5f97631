package handlers

import (
	"context"
	"strings"

	"github.com/atakamran/LiftLegendsBack/internal/models"
	"github.com/atakamran/LiftLegendsBack/internal/services"
	"github.com/gofiber/fiber/v2"
)

type blogSearcher interface {
	SearchPublished(ctx context.Context, q string) ([]models.BlogPost, error)
}

// SearchHandler answers the storefront's global search box: one query
// against both the program catalog and the published blog.
type SearchHandler struct {
	catalog  catalogSearcher
	blogRepo blogSearcher
}

func NewSearchHandler(catalog catalogSearcher, blogRepo blogSearcher) *SearchHandler {
	return &SearchHandler{catalog: catalog, blogRepo: blogRepo}
}

func (h *SearchHandler) Search(c *fiber.Ctx) error {
	q := strings.TrimSpace(c.Query("q"))
	if q == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "q is required"})
	}

	programs, err := h.catalog.Search(c.Context(), services.CatalogFilter{
		Query: q,
		Sort:  services.SortNewest,
	})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).
			JSON(fiber.Map{"error": "Search failed"})
	}

	posts, err := h.blogRepo.SearchPublished(c.Context(), q)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).
			JSON(fiber.Map{"error": "Search failed"})
	}

	return c.JSON(fiber.Map{
		"query":    q,
		"programs": programs,
		"posts":    posts,
	})
}
