package repository

import (
	"context"
	"time"

	"github.com/atakamran/LiftLegendsBack/internal/models"
)

type UserProfileRepository struct {
	db DBTX
}

func NewUserProfileRepository(db DBTX) *UserProfileRepository {
	return &UserProfileRepository{db: db}
}

const userProfileColumns = `id, user_id, full_name, age, gender, height_cm, current_weight_kg,
	   target_weight_kg, goal, subscription_plan, subscription_start_date, subscription_end_date,
	   created_at, updated_at`

func (r *UserProfileRepository) CreateEmpty(ctx context.Context, userID int64) error {
	query := `INSERT INTO user_profiles (user_id) VALUES ($1)`
	_, err := r.db.Exec(ctx, query, userID)
	return err
}

func (r *UserProfileRepository) GetByUserID(ctx context.Context, userID int64) (*models.UserProfile, error) {
	query := `
		SELECT ` + userProfileColumns + `
		FROM user_profiles
		WHERE user_id = $1
	`
	return r.scanProfile(ctx, query, userID)
}

type UpdateUserProfileInput struct {
	FullName        *string
	Age             *int
	Gender          *string
	HeightCM        *float64
	CurrentWeightKG *float64
	TargetWeightKG  *float64
	Goal            *string
}

func (r *UserProfileRepository) UpdatePartial(ctx context.Context, userID int64, req UpdateUserProfileInput) (*models.UserProfile, error) {
	query := `
		UPDATE user_profiles
		SET full_name = COALESCE($1, full_name),
			age = COALESCE($2, age),
			gender = COALESCE($3, gender),
			height_cm = COALESCE($4, height_cm),
			current_weight_kg = COALESCE($5, current_weight_kg),
			target_weight_kg = COALESCE($6, target_weight_kg),
			goal = COALESCE($7, goal),
			updated_at = NOW()
		WHERE user_id = $8
		RETURNING ` + userProfileColumns + `
	`
	return r.scanProfile(ctx, query,
		req.FullName,
		req.Age,
		req.Gender,
		req.HeightCM,
		req.CurrentWeightKG,
		req.TargetWeightKG,
		req.Goal,
		userID,
	)
}

// DowngradeIfExpired downgrades a single paid profile whose subscription ended
// strictly before the given day. The WHERE clause carries the whole expiry
// rule, so concurrent calls for the same user are idempotent: only one of them
// sees an affected row.
func (r *UserProfileRepository) DowngradeIfExpired(ctx context.Context, userID int64, today time.Time) (bool, error) {
	query := `
		UPDATE user_profiles
		SET subscription_plan = $1,
			subscription_end_date = NULL,
			updated_at = NOW()
		WHERE user_id = $2
		  AND subscription_plan IN ($3, $4)
		  AND subscription_end_date IS NOT NULL
		  AND subscription_end_date < $5
	`
	tag, err := r.db.Exec(ctx, query,
		models.PlanBasic, userID, models.PlanPro, models.PlanUltimate, today)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

// DowngradeAllExpired is the bulk form used by the background worker. It
// returns the user ids that were downgraded so callers can notify them.
func (r *UserProfileRepository) DowngradeAllExpired(ctx context.Context, today time.Time) ([]int64, error) {
	query := `
		UPDATE user_profiles
		SET subscription_plan = $1,
			subscription_end_date = NULL,
			updated_at = NOW()
		WHERE subscription_plan IN ($2, $3)
		  AND subscription_end_date IS NOT NULL
		  AND subscription_end_date < $4
		RETURNING user_id
	`
	rows, err := r.db.Query(ctx, query, models.PlanBasic, models.PlanPro, models.PlanUltimate, today)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	userIDs := make([]int64, 0)
	for rows.Next() {
		var userID int64
		if err := rows.Scan(&userID); err != nil {
			return nil, err
		}
		userIDs = append(userIDs, userID)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return userIDs, nil
}

func (r *UserProfileRepository) ApplySubscription(ctx context.Context, userID int64, plan string, start, end time.Time) (*models.UserProfile, error) {
	query := `
		UPDATE user_profiles
		SET subscription_plan = $1,
			subscription_start_date = $2,
			subscription_end_date = $3,
			updated_at = NOW()
		WHERE user_id = $4
		RETURNING ` + userProfileColumns + `
	`
	return r.scanProfile(ctx, query, plan, start, end, userID)
}

func (r *UserProfileRepository) scanProfile(ctx context.Context, query string, args ...any) (*models.UserProfile, error) {
	var profile models.UserProfile
	err := r.db.QueryRow(ctx, query, args...).Scan(
		&profile.ID,
		&profile.UserID,
		&profile.FullName,
		&profile.Age,
		&profile.Gender,
		&profile.HeightCM,
		&profile.CurrentWeightKG,
		&profile.TargetWeightKG,
		&profile.Goal,
		&profile.SubscriptionPlan,
		&profile.SubscriptionStartDate,
		&profile.SubscriptionEndDate,
		&profile.CreatedAt,
		&profile.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &profile, nil
}
