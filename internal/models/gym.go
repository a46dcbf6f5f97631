package models

import "time"

type Gym struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Location    string    `json:"location"`
	Description *string   `json:"description,omitempty"`
	Facilities  []string  `json:"facilities"`
	ImageURL    *string   `json:"image_url,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type GymMembership struct {
	ID             int64     `json:"id"`
	GymID          int64     `json:"gym_id"`
	Title          string    `json:"title"`
	Price          int64     `json:"price"`
	DurationMonths int       `json:"duration_months"`
	CreatedAt      time.Time `json:"created_at"`
}

type GymDetail struct {
	Gym
	Memberships []GymMembership `json:"memberships"`
}
