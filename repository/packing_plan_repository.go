package repository

import (
	"context"
	"time"

	"fitcast-backend/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PackingPlanRepository handles database operations for packing plans
type PackingPlanRepository struct {
	db *pgxpool.Pool
}

// NewPackingPlanRepository creates a new packing plan repository
func NewPackingPlanRepository(db *pgxpool.Pool) *PackingPlanRepository {
	return &PackingPlanRepository{db: db}
}

const planColumns = `
	id, user_id, destination, start_date, end_date, status, current_step,
	steps, items, days, fitcast, error_message, created_at, updated_at, completed_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPlan(row rowScanner) (*models.PackingPlan, error) {
	plan := &models.PackingPlan{}
	err := row.Scan(
		&plan.ID,
		&plan.UserID,
		&plan.Destination,
		&plan.StartDate,
		&plan.EndDate,
		&plan.Status,
		&plan.CurrentStep,
		&plan.Steps,
		&plan.Items,
		&plan.Days,
		&plan.Fitcast,
		&plan.ErrorMessage,
		&plan.CreatedAt,
		&plan.UpdatedAt,
		&plan.CompletedAt,
	)
	if err != nil {
		return nil, err
	}

	if plan.Steps == nil {
		plan.Steps = make(models.PlanSteps, 0)
	}
	if plan.Items == nil {
		plan.Items = make(models.PackingItems, 0)
	}
	if plan.Days == nil {
		plan.Days = make(models.PlanDays, 0)
	}
	return plan, nil
}

// Create creates a new packing plan
func (r *PackingPlanRepository) Create(ctx context.Context, plan *models.PackingPlan) error {
	query := `
		INSERT INTO packing_plans (
			user_id, destination, start_date, end_date, status, current_step, steps
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at`

	return r.db.QueryRow(
		ctx, query,
		plan.UserID,
		plan.Destination,
		plan.StartDate,
		plan.EndDate,
		plan.Status,
		plan.CurrentStep,
		plan.Steps,
	).Scan(&plan.ID, &plan.CreatedAt, &plan.UpdatedAt)
}

// GetByID retrieves a packing plan by ID
func (r *PackingPlanRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.PackingPlan, error) {
	query := `SELECT ` + planColumns + ` FROM packing_plans WHERE id = $1`

	plan, err := scanPlan(r.db.QueryRow(ctx, query, id))
	if err != nil {
		return nil, notFound(err)
	}
	return plan, nil
}

// ListByUserID retrieves the most recent packing plans of a user
func (r *PackingPlanRepository) ListByUserID(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*models.PackingPlan, error) {
	query := `SELECT ` + planColumns + `
		FROM packing_plans
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`

	rows, err := r.db.Query(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	plans := make([]*models.PackingPlan, 0)
	for rows.Next() {
		plan, err := scanPlan(rows)
		if err != nil {
			return nil, err
		}
		plans = append(plans, plan)
	}
	return plans, rows.Err()
}

// UpdateStatus updates the status of a packing plan
func (r *PackingPlanRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status models.PlanStatus) error {
	query := `
		UPDATE packing_plans SET
			status = $2,
			updated_at = NOW()
		WHERE id = $1`

	_, err := r.db.Exec(ctx, query, id, status)
	return err
}

// UpdateProgress records the current step and step list
func (r *PackingPlanRepository) UpdateProgress(ctx context.Context, id uuid.UUID, currentStep string, steps models.PlanSteps) error {
	query := `
		UPDATE packing_plans SET
			current_step = $2,
			steps = $3,
			updated_at = NOW()
		WHERE id = $1`

	_, err := r.db.Exec(ctx, query, id, currentStep, steps)
	return err
}

// Complete stores the results and marks the plan as completed
func (r *PackingPlanRepository) Complete(ctx context.Context, id uuid.UUID, items models.PackingItems, days models.PlanDays, fitcast string) error {
	now := time.Now()
	query := `
		UPDATE packing_plans SET
			status = $2,
			items = $3,
			days = $4,
			fitcast = $5,
			completed_at = $6,
			updated_at = $6
		WHERE id = $1`

	_, err := r.db.Exec(ctx, query, id, models.PlanStatusCompleted, items, days, fitcast, now)
	return err
}

// Fail marks a packing plan as failed
func (r *PackingPlanRepository) Fail(ctx context.Context, id uuid.UUID, errorMessage string) error {
	query := `
		UPDATE packing_plans SET
			status = $2,
			error_message = $3,
			updated_at = NOW()
		WHERE id = $1`

	_, err := r.db.Exec(ctx, query, id, models.PlanStatusFailed, errorMessage)
	return err
}
