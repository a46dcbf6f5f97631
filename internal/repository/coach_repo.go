package repository

import (
	"context"

	"github.com/atakamran/LiftLegendsBack/internal/models"
)

type CoachRepository struct {
	db DBTX
}

func NewCoachRepository(db DBTX) *CoachRepository {
	return &CoachRepository{db: db}
}

const coachColumns = `id, full_name, expertise, experience_years, bio, image_url, created_at, updated_at`

type CreateCoachInput struct {
	FullName        string
	Expertise       *string
	ExperienceYears *int
	Bio             *string
	ImageURL        *string
}

type UpdateCoachInput struct {
	FullName        *string
	Expertise       *string
	ExperienceYears *int
	Bio             *string
	ImageURL        *string
}

func (r *CoachRepository) Create(ctx context.Context, input CreateCoachInput) (*models.Coach, error) {
	query := `
		INSERT INTO coaches (full_name, expertise, experience_years, bio, image_url)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING ` + coachColumns + `
	`
	return r.scanCoach(ctx, query,
		input.FullName,
		input.Expertise,
		input.ExperienceYears,
		input.Bio,
		input.ImageURL,
	)
}

func (r *CoachRepository) UpdatePartial(ctx context.Context, coachID int64, input UpdateCoachInput) (*models.Coach, error) {
	query := `
		UPDATE coaches
		SET full_name = COALESCE($1, full_name),
			expertise = COALESCE($2, expertise),
			experience_years = COALESCE($3, experience_years),
			bio = COALESCE($4, bio),
			image_url = COALESCE($5, image_url),
			updated_at = NOW()
		WHERE id = $6
		RETURNING ` + coachColumns + `
	`
	return r.scanCoach(ctx, query,
		input.FullName,
		input.Expertise,
		input.ExperienceYears,
		input.Bio,
		input.ImageURL,
		coachID,
	)
}

func (r *CoachRepository) Delete(ctx context.Context, coachID int64) (bool, error) {
	query := `DELETE FROM coaches WHERE id = $1`
	tag, err := r.db.Exec(ctx, query, coachID)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (r *CoachRepository) GetByID(ctx context.Context, coachID int64) (*models.Coach, error) {
	query := `
		SELECT ` + coachColumns + `
		FROM coaches
		WHERE id = $1
	`
	return r.scanCoach(ctx, query, coachID)
}

func (r *CoachRepository) ListAll(ctx context.Context) ([]models.Coach, error) {
	query := `
		SELECT ` + coachColumns + `
		FROM coaches
		ORDER BY experience_years DESC NULLS LAST, id ASC
	`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	coaches := make([]models.Coach, 0)
	for rows.Next() {
		var coach models.Coach
		if err := rows.Scan(
			&coach.ID,
			&coach.FullName,
			&coach.Expertise,
			&coach.ExperienceYears,
			&coach.Bio,
			&coach.ImageURL,
			&coach.CreatedAt,
			&coach.UpdatedAt,
		); err != nil {
			return nil, err
		}
		coaches = append(coaches, coach)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return coaches, nil
}

func (r *CoachRepository) scanCoach(ctx context.Context, query string, args ...any) (*models.Coach, error) {
	var coach models.Coach
	err := r.db.QueryRow(ctx, query, args...).Scan(
		&coach.ID,
		&coach.FullName,
		&coach.Expertise,
		&coach.ExperienceYears,
		&coach.Bio,
		&coach.ImageURL,
		&coach.CreatedAt,
		&coach.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &coach, nil
}
