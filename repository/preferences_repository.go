package repository

import (
	"context"
	"fmt"

	"fitcast-backend/models"
	"fitcast-backend/outfit"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PreferencesRepository handles database operations for initial preferences
type PreferencesRepository struct {
	db *pgxpool.Pool
}

// NewPreferencesRepository creates a new preferences repository
func NewPreferencesRepository(db *pgxpool.Pool) *PreferencesRepository {
	return &PreferencesRepository{db: db}
}

// GetByUserID retrieves the preferences of a user
func (r *PreferencesRepository) GetByUserID(ctx context.Context, userID uuid.UUID) (*models.Preferences, error) {
	prefs := &models.Preferences{}
	var tolerance int16
	query := `
		SELECT user_id, cold_tolerance, preferred_items, excluded_items, prefers_layers, updated_at
		FROM initial_preferences
		WHERE user_id = $1`

	err := r.db.QueryRow(ctx, query, userID).Scan(
		&prefs.UserID,
		&tolerance,
		&prefs.PreferredItems,
		&prefs.ExcludedItems,
		&prefs.PrefersLayers,
		&prefs.UpdatedAt,
	)
	if err != nil {
		return nil, notFound(err)
	}

	prefs.ColdTolerance = outfit.ColdTolerance(tolerance)
	if prefs.PreferredItems == nil {
		prefs.PreferredItems = []string{}
	}
	if prefs.ExcludedItems == nil {
		prefs.ExcludedItems = []string{}
	}
	return prefs, nil
}

// Save upserts the preferences and marks onboarding as completed in one transaction
func (r *PreferencesRepository) Save(ctx context.Context, prefs *models.Preferences) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	profileQuery := `
		INSERT INTO profiles (id, onboarding_completed)
		VALUES ($1, TRUE)
		ON CONFLICT (id) DO UPDATE SET
			onboarding_completed = TRUE,
			updated_at = NOW()`

	if _, err := tx.Exec(ctx, profileQuery, prefs.UserID); err != nil {
		return fmt.Errorf("failed to mark onboarding completed: %w", err)
	}

	prefsQuery := `
		INSERT INTO initial_preferences (
			user_id, cold_tolerance, preferred_items, excluded_items, prefers_layers
		) VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (user_id) DO UPDATE SET
			cold_tolerance = EXCLUDED.cold_tolerance,
			preferred_items = EXCLUDED.preferred_items,
			excluded_items = EXCLUDED.excluded_items,
			prefers_layers = EXCLUDED.prefers_layers,
			updated_at = NOW()
		RETURNING updated_at`

	err = tx.QueryRow(
		ctx, prefsQuery,
		prefs.UserID,
		int16(prefs.ColdTolerance),
		nonNil(prefs.PreferredItems),
		nonNil(prefs.ExcludedItems),
		prefs.PrefersLayers,
	).Scan(&prefs.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to save preferences: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func nonNil(items []string) []string {
	if items == nil {
		return []string{}
	}
	return items
}
