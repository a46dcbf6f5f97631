package repository

import (
	"context"

	"github.com/atakamran/LiftLegendsBack/internal/models"
)

type GymRepository struct {
	db DBTX
}

func NewGymRepository(db DBTX) *GymRepository {
	return &GymRepository{db: db}
}

const gymColumns = `id, name, location, description, facilities, image_url, created_at, updated_at`

type CreateGymInput struct {
	Name        string
	Location    string
	Description *string
	Facilities  []string
	ImageURL    *string
}

func (r *GymRepository) Create(ctx context.Context, input CreateGymInput) (*models.Gym, error) {
	query := `
		INSERT INTO gyms (name, location, description, facilities, image_url)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING ` + gymColumns + `
	`
	return r.scanGym(ctx, query,
		input.Name,
		input.Location,
		input.Description,
		input.Facilities,
		input.ImageURL,
	)
}

func (r *GymRepository) Delete(ctx context.Context, gymID int64) (bool, error) {
	query := `DELETE FROM gyms WHERE id = $1`
	tag, err := r.db.Exec(ctx, query, gymID)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (r *GymRepository) GetByID(ctx context.Context, gymID int64) (*models.Gym, error) {
	query := `
		SELECT ` + gymColumns + `
		FROM gyms
		WHERE id = $1
	`
	return r.scanGym(ctx, query, gymID)
}

func (r *GymRepository) ListAll(ctx context.Context) ([]models.Gym, error) {
	query := `
		SELECT ` + gymColumns + `
		FROM gyms
		ORDER BY name ASC, id ASC
	`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	gyms := make([]models.Gym, 0)
	for rows.Next() {
		var gym models.Gym
		if err := rows.Scan(
			&gym.ID,
			&gym.Name,
			&gym.Location,
			&gym.Description,
			&gym.Facilities,
			&gym.ImageURL,
			&gym.CreatedAt,
			&gym.UpdatedAt,
		); err != nil {
			return nil, err
		}
		gyms = append(gyms, gym)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return gyms, nil
}

type CreateGymMembershipInput struct {
	GymID          int64
	Title          string
	Price          int64
	DurationMonths int
}

func (r *GymRepository) CreateMembership(ctx context.Context, input CreateGymMembershipInput) (*models.GymMembership, error) {
	query := `
		INSERT INTO gym_memberships (gym_id, title, price, duration_months)
		VALUES ($1, $2, $3, $4)
		RETURNING id, gym_id, title, price, duration_months, created_at
	`
	var membership models.GymMembership
	err := r.db.QueryRow(ctx, query,
		input.GymID,
		input.Title,
		input.Price,
		input.DurationMonths,
	).Scan(
		&membership.ID,
		&membership.GymID,
		&membership.Title,
		&membership.Price,
		&membership.DurationMonths,
		&membership.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &membership, nil
}

func (r *GymRepository) GetMembershipByID(ctx context.Context, membershipID int64) (*models.GymMembership, error) {
	query := `
		SELECT id, gym_id, title, price, duration_months, created_at
		FROM gym_memberships
		WHERE id = $1
	`
	var membership models.GymMembership
	err := r.db.QueryRow(ctx, query, membershipID).Scan(
		&membership.ID,
		&membership.GymID,
		&membership.Title,
		&membership.Price,
		&membership.DurationMonths,
		&membership.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &membership, nil
}

func (r *GymRepository) ListMemberships(ctx context.Context, gymID int64) ([]models.GymMembership, error) {
	query := `
		SELECT id, gym_id, title, price, duration_months, created_at
		FROM gym_memberships
		WHERE gym_id = $1
		ORDER BY duration_months ASC, id ASC
	`
	rows, err := r.db.Query(ctx, query, gymID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	memberships := make([]models.GymMembership, 0)
	for rows.Next() {
		var membership models.GymMembership
		if err := rows.Scan(
			&membership.ID,
			&membership.GymID,
			&membership.Title,
			&membership.Price,
			&membership.DurationMonths,
			&membership.CreatedAt,
		); err != nil {
			return nil, err
		}
		memberships = append(memberships, membership)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return memberships, nil
}

func (r *GymRepository) scanGym(ctx context.Context, query string, args ...any) (*models.Gym, error) {
	var gym models.Gym
	err := r.db.QueryRow(ctx, query, args...).Scan(
		&gym.ID,
		&gym.Name,
		&gym.Location,
		&gym.Description,
		&gym.Facilities,
		&gym.ImageURL,
		&gym.CreatedAt,
		&gym.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &gym, nil
}
