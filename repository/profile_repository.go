package repository

import (
	"context"

	"fitcast-backend/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ProfileRepository handles database operations for profiles
type ProfileRepository struct {
	db *pgxpool.Pool
}

// NewProfileRepository creates a new profile repository
func NewProfileRepository(db *pgxpool.Pool) *ProfileRepository {
	return &ProfileRepository{db: db}
}

// GetByID retrieves a profile by user ID
func (r *ProfileRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Profile, error) {
	profile := &models.Profile{}
	query := `
		SELECT id, username, avatar_url, location, onboarding_completed, created_at, updated_at
		FROM profiles
		WHERE id = $1`

	err := r.db.QueryRow(ctx, query, id).Scan(
		&profile.ID,
		&profile.Username,
		&profile.AvatarURL,
		&profile.Location,
		&profile.OnboardingCompleted,
		&profile.CreatedAt,
		&profile.UpdatedAt,
	)
	if err != nil {
		return nil, notFound(err)
	}

	return profile, nil
}

// Upsert creates the profile or updates its username and location
func (r *ProfileRepository) Upsert(ctx context.Context, profile *models.Profile) error {
	query := `
		INSERT INTO profiles (id, username, location)
		VALUES ($1, $2, $3)
		ON CONFLICT (id) DO UPDATE SET
			username = EXCLUDED.username,
			location = EXCLUDED.location,
			updated_at = NOW()
		RETURNING avatar_url, onboarding_completed, created_at, updated_at`

	return r.db.QueryRow(
		ctx, query,
		profile.ID,
		profile.Username,
		profile.Location,
	).Scan(&profile.AvatarURL, &profile.OnboardingCompleted, &profile.CreatedAt, &profile.UpdatedAt)
}

// UpdateAvatar sets the avatar location, creating the profile row if needed
func (r *ProfileRepository) UpdateAvatar(ctx context.Context, id uuid.UUID, avatarURL string) error {
	query := `
		INSERT INTO profiles (id, avatar_url)
		VALUES ($1, $2)
		ON CONFLICT (id) DO UPDATE SET
			avatar_url = EXCLUDED.avatar_url,
			updated_at = NOW()`

	_, err := r.db.Exec(ctx, query, id, avatarURL)
	return err
}
