package service

import (
	"context"

	"fitcast-backend/models"

	"github.com/google/uuid"
)

// ProfileStore persists profiles; implemented by repository.ProfileRepository
type ProfileStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Profile, error)
	Upsert(ctx context.Context, profile *models.Profile) error
	UpdateAvatar(ctx context.Context, id uuid.UUID, avatarURL string) error
}

// PreferencesStore persists onboarding preferences; implemented by
// repository.PreferencesRepository
type PreferencesStore interface {
	GetByUserID(ctx context.Context, userID uuid.UUID) (*models.Preferences, error)
	Save(ctx context.Context, prefs *models.Preferences) error
}

// PlanStore persists packing plans; implemented by repository.PackingPlanRepository
type PlanStore interface {
	Create(ctx context.Context, plan *models.PackingPlan) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.PackingPlan, error)
	ListByUserID(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*models.PackingPlan, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status models.PlanStatus) error
	UpdateProgress(ctx context.Context, id uuid.UUID, currentStep string, steps models.PlanSteps) error
	Complete(ctx context.Context, id uuid.UUID, items models.PackingItems, days models.PlanDays, fitcast string) error
	Fail(ctx context.Context, id uuid.UUID, errorMessage string) error
}
