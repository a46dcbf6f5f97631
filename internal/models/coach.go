package models

import "time"

type Coach struct {
	ID              int64     `json:"id"`
	FullName        string    `json:"full_name"`
	Expertise       *string   `json:"expertise,omitempty"`
	ExperienceYears *int      `json:"experience_years,omitempty"`
	Bio             *string   `json:"bio,omitempty"`
	ImageURL        *string   `json:"image_url,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}
