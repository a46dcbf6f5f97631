package models

import "time"

// Program categories sold in the catalog.
const (
	CategoryTraining   = "training"
	CategoryDiet       = "diet"
	CategorySupplement = "supplement"
)

type Program struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Description *string   `json:"description,omitempty"`
	Price       int64     `json:"price"`
	Category    string    `json:"category"`
	ImageURL    *string   `json:"image_url,omitempty"`
	ProgramURL  *string   `json:"program_url,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func IsValidCategory(category string) bool {
	switch category {
	case CategoryTraining, CategoryDiet, CategorySupplement:
		return true
	default:
		return false
	}
}
