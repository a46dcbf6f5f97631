package services

import (
	"context"
	"sort"
	"strings"

	"github.com/atakamran/LiftLegendsBack/internal/models"
)

// Sort keys accepted by the catalog listing.
const (
	SortNewest    = "newest"
	SortOldest    = "oldest"
	SortPriceAsc  = "price_asc"
	SortPriceDesc = "price_desc"
	SortTitle     = "title"
)

type CatalogFilter struct {
	Query    string
	Category string
	MinPrice *int64
	MaxPrice *int64
	Sort     string
}

type programLister interface {
	ListAll(ctx context.Context) ([]models.Program, error)
}

type CatalogService struct {
	programRepo programLister
}

func NewCatalogService(programRepo programLister) *CatalogService {
	return &CatalogService{programRepo: programRepo}
}

func (s *CatalogService) Search(ctx context.Context, filter CatalogFilter) ([]models.Program, error) {
	programs, err := s.programRepo.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	return FilterPrograms(programs, filter), nil
}

// FilterPrograms applies the text, category and price predicates and then the
// requested ordering. The input slice is never mutated; absent filter fields
// degrade to "no filter". The sort is stable, so equal keys keep their
// original relative order.
func FilterPrograms(programs []models.Program, filter CatalogFilter) []models.Program {
	query := strings.ToLower(strings.TrimSpace(filter.Query))
	category := strings.TrimSpace(filter.Category)

	filtered := make([]models.Program, 0, len(programs))
	for _, program := range programs {
		if query != "" && !matchesQuery(&program, query) {
			continue
		}
		if category != "" && program.Category != category {
			continue
		}
		if filter.MinPrice != nil && program.Price < *filter.MinPrice {
			continue
		}
		if filter.MaxPrice != nil && program.Price > *filter.MaxPrice {
			continue
		}
		filtered = append(filtered, program)
	}

	sortPrograms(filtered, filter.Sort)
	return filtered
}

// PagePrograms slices one page out of an already-filtered list.
func PagePrograms(programs []models.Program, page, limit int) []models.Program {
	if page < 1 {
		page = 1
	}
	if limit <= 0 {
		return programs
	}
	start := (page - 1) * limit
	if start >= len(programs) {
		return []models.Program{}
	}
	end := start + limit
	if end > len(programs) {
		end = len(programs)
	}
	return programs[start:end]
}

func matchesQuery(program *models.Program, query string) bool {
	if strings.Contains(strings.ToLower(program.Title), query) {
		return true
	}
	if program.Description != nil && strings.Contains(strings.ToLower(*program.Description), query) {
		return true
	}
	return false
}

func sortPrograms(programs []models.Program, key string) {
	switch key {
	case SortOldest:
		sort.SliceStable(programs, func(i, j int) bool {
			return programs[i].CreatedAt.Before(programs[j].CreatedAt)
		})
	case SortPriceAsc:
		sort.SliceStable(programs, func(i, j int) bool {
			return programs[i].Price < programs[j].Price
		})
	case SortPriceDesc:
		sort.SliceStable(programs, func(i, j int) bool {
			return programs[i].Price > programs[j].Price
		})
	case SortTitle:
		sort.SliceStable(programs, func(i, j int) bool {
			return strings.ToLower(programs[i].Title) < strings.ToLower(programs[j].Title)
		})
	default:
		// newest
		sort.SliceStable(programs, func(i, j int) bool {
			return programs[i].CreatedAt.After(programs[j].CreatedAt)
		})
	}
}
