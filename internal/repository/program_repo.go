package repository

import (
	"context"

	"github.com/atakamran/LiftLegendsBack/internal/models"
)

type ProgramRepository struct {
	db DBTX
}

func NewProgramRepository(db DBTX) *ProgramRepository {
	return &ProgramRepository{db: db}
}

const programColumns = `id, title, description, price, category, image_url, program_url, created_at, updated_at`

type CreateProgramInput struct {
	Title       string
	Description *string
	Price       int64
	Category    string
	ImageURL    *string
	ProgramURL  *string
}

type UpdateProgramInput struct {
	Title       *string
	Description *string
	Price       *int64
	Category    *string
	ImageURL    *string
	ProgramURL  *string
}

func (r *ProgramRepository) Create(ctx context.Context, input CreateProgramInput) (*models.Program, error) {
	query := `
		INSERT INTO programs_sale (title, description, price, category, image_url, program_url)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING ` + programColumns + `
	`
	return r.scanProgram(ctx, query,
		input.Title,
		input.Description,
		input.Price,
		input.Category,
		input.ImageURL,
		input.ProgramURL,
	)
}

func (r *ProgramRepository) UpdatePartial(ctx context.Context, programID int64, input UpdateProgramInput) (*models.Program, error) {
	query := `
		UPDATE programs_sale
		SET title = COALESCE($1, title),
			description = COALESCE($2, description),
			price = COALESCE($3, price),
			category = COALESCE($4, category),
			image_url = COALESCE($5, image_url),
			program_url = COALESCE($6, program_url),
			updated_at = NOW()
		WHERE id = $7
		RETURNING ` + programColumns + `
	`
	return r.scanProgram(ctx, query,
		input.Title,
		input.Description,
		input.Price,
		input.Category,
		input.ImageURL,
		input.ProgramURL,
		programID,
	)
}

func (r *ProgramRepository) Delete(ctx context.Context, programID int64) (bool, error) {
	query := `DELETE FROM programs_sale WHERE id = $1`
	tag, err := r.db.Exec(ctx, query, programID)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (r *ProgramRepository) GetByID(ctx context.Context, programID int64) (*models.Program, error) {
	query := `
		SELECT ` + programColumns + `
		FROM programs_sale
		WHERE id = $1
	`
	return r.scanProgram(ctx, query, programID)
}

func (r *ProgramRepository) ListAll(ctx context.Context) ([]models.Program, error) {
	query := `
		SELECT ` + programColumns + `
		FROM programs_sale
		ORDER BY created_at DESC, id DESC
	`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	programs := make([]models.Program, 0)
	for rows.Next() {
		var program models.Program
		if err := rows.Scan(
			&program.ID,
			&program.Title,
			&program.Description,
			&program.Price,
			&program.Category,
			&program.ImageURL,
			&program.ProgramURL,
			&program.CreatedAt,
			&program.UpdatedAt,
		); err != nil {
			return nil, err
		}
		programs = append(programs, program)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return programs, nil
}

func (r *ProgramRepository) scanProgram(ctx context.Context, query string, args ...any) (*models.Program, error) {
	var program models.Program
	err := r.db.QueryRow(ctx, query, args...).Scan(
		&program.ID,
		&program.Title,
		&program.Description,
		&program.Price,
		&program.Category,
		&program.ImageURL,
		&program.ProgramURL,
		&program.CreatedAt,
		&program.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &program, nil
}
