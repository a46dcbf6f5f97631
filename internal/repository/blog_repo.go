package repository

import (
	"context"

	"github.com/atakamran/LiftLegendsBack/internal/models"
)

type BlogRepository struct {
	db DBTX
}

func NewBlogRepository(db DBTX) *BlogRepository {
	return &BlogRepository{db: db}
}

const blogColumns = `id, slug, title, content, excerpt, cover_image, category, published, author_id, created_at, updated_at`

type CreateBlogPostInput struct {
	Slug       string
	Title      string
	Content    string
	Excerpt    *string
	CoverImage *string
	Category   *string
	Published  bool
	AuthorID   int64
}

type UpdateBlogPostInput struct {
	Title      *string
	Content    *string
	Excerpt    *string
	CoverImage *string
	Category   *string
	Published  *bool
}

func (r *BlogRepository) Create(ctx context.Context, input CreateBlogPostInput) (*models.BlogPost, error) {
	query := `
		INSERT INTO blog_posts (slug, title, content, excerpt, cover_image, category, published, author_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING ` + blogColumns + `
	`
	return r.scanPost(ctx, query,
		input.Slug,
		input.Title,
		input.Content,
		input.Excerpt,
		input.CoverImage,
		input.Category,
		input.Published,
		input.AuthorID,
	)
}

func (r *BlogRepository) UpdatePartial(ctx context.Context, postID int64, input UpdateBlogPostInput) (*models.BlogPost, error) {
	query := `
		UPDATE blog_posts
		SET title = COALESCE($1, title),
			content = COALESCE($2, content),
			excerpt = COALESCE($3, excerpt),
			cover_image = COALESCE($4, cover_image),
			category = COALESCE($5, category),
			published = COALESCE($6, published),
			updated_at = NOW()
		WHERE id = $7
		RETURNING ` + blogColumns + `
	`
	return r.scanPost(ctx, query,
		input.Title,
		input.Content,
		input.Excerpt,
		input.CoverImage,
		input.Category,
		input.Published,
		postID,
	)
}

func (r *BlogRepository) Delete(ctx context.Context, postID int64) (bool, error) {
	query := `DELETE FROM blog_posts WHERE id = $1`
	tag, err := r.db.Exec(ctx, query, postID)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (r *BlogRepository) GetBySlug(ctx context.Context, slug string, publishedOnly bool) (*models.BlogPost, error) {
	query := `
		SELECT ` + blogColumns + `
		FROM blog_posts
		WHERE slug = $1 AND (published OR NOT $2)
	`
	return r.scanPost(ctx, query, slug, publishedOnly)
}

func (r *BlogRepository) ListPublished(ctx context.Context) ([]models.BlogPost, error) {
	query := `
		SELECT ` + blogColumns + `
		FROM blog_posts
		WHERE published
		ORDER BY created_at DESC, id DESC
	`
	return r.list(ctx, query)
}

func (r *BlogRepository) ListAll(ctx context.Context) ([]models.BlogPost, error) {
	query := `
		SELECT ` + blogColumns + `
		FROM blog_posts
		ORDER BY created_at DESC, id DESC
	`
	return r.list(ctx, query)
}

func (r *BlogRepository) SearchPublished(ctx context.Context, q string) ([]models.BlogPost, error) {
	query := `
		SELECT ` + blogColumns + `
		FROM blog_posts
		WHERE published AND (title ILIKE '%' || $1 || '%' OR content ILIKE '%' || $1 || '%')
		ORDER BY created_at DESC, id DESC
	`
	return r.list(ctx, query, q)
}

func (r *BlogRepository) list(ctx context.Context, query string, args ...any) ([]models.BlogPost, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	posts := make([]models.BlogPost, 0)
	for rows.Next() {
		var post models.BlogPost
		if err := rows.Scan(
			&post.ID,
			&post.Slug,
			&post.Title,
			&post.Content,
			&post.Excerpt,
			&post.CoverImage,
			&post.Category,
			&post.Published,
			&post.AuthorID,
			&post.CreatedAt,
			&post.UpdatedAt,
		); err != nil {
			return nil, err
		}
		posts = append(posts, post)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return posts, nil
}

func (r *BlogRepository) scanPost(ctx context.Context, query string, args ...any) (*models.BlogPost, error) {
	var post models.BlogPost
	err := r.db.QueryRow(ctx, query, args...).Scan(
		&post.ID,
		&post.Slug,
		&post.Title,
		&post.Content,
		&post.Excerpt,
		&post.CoverImage,
		&post.Category,
		&post.Published,
		&post.AuthorID,
		&post.CreatedAt,
		&post.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &post, nil
}
