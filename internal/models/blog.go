package models

import "time"

type BlogPost struct {
	ID         int64     `json:"id"`
	Slug       string    `json:"slug"`
	Title      string    `json:"title"`
	Content    string    `json:"content"`
	Excerpt    *string   `json:"excerpt,omitempty"`
	CoverImage *string   `json:"cover_image,omitempty"`
	Category   *string   `json:"category,omitempty"`
	Published  bool      `json:"published"`
	AuthorID   int64     `json:"author_id"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}
