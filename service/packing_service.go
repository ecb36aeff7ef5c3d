package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"fitcast-backend/advisor"
	"fitcast-backend/models"
	"fitcast-backend/outfit"
	"fitcast-backend/repository"
	"fitcast-backend/weather"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const (
	// MaxTripDays is the longest trip a packing plan covers
	MaxTripDays = 14

	stepFetchingForecast = "Fetching Forecast"
	stepDerivingOutfits  = "Deriving Outfits"
	stepWritingFitcast   = "Writing Fitcast"

	processTimeout = 2 * time.Minute
	dateLayout     = "2006-01-02"
)

var (
	ErrInvalidDestination = errors.New("destination is required")
	ErrInvalidDates       = errors.New("dates must be YYYY-MM-DD with end on or after start")
	ErrTripInPast         = errors.New("trip cannot start in the past")
	ErrTripTooLong        = errors.New("trip cannot exceed 14 days")
	ErrPlanNotFound       = errors.New("packing plan not found")
	ErrNoForecast         = errors.New("no forecast data for destination")
)

// PackingService builds packing plans for upcoming trips in the background
type PackingService struct {
	plans       PlanStore
	preferences PreferencesStore
	weather     weather.Provider
	advisor     *advisor.Advisor
	rules       *outfit.RuleTable
	now         func() time.Time
	wg          sync.WaitGroup
}

// PackingServiceOption is a functional option for PackingService
type PackingServiceOption func(*PackingService)

// PackingWithPlanStore sets the plan store
func PackingWithPlanStore(store PlanStore) PackingServiceOption {
	return func(s *PackingService) {
		s.plans = store
	}
}

// PackingWithPreferencesStore sets the preferences store
func PackingWithPreferencesStore(store PreferencesStore) PackingServiceOption {
	return func(s *PackingService) {
		s.preferences = store
	}
}

// PackingWithWeatherProvider sets the weather provider
func PackingWithWeatherProvider(provider weather.Provider) PackingServiceOption {
	return func(s *PackingService) {
		s.weather = provider
	}
}

// PackingWithAdvisor sets the text advisor
func PackingWithAdvisor(a *advisor.Advisor) PackingServiceOption {
	return func(s *PackingService) {
		s.advisor = a
	}
}

// PackingWithRules sets the outfit rule table
func PackingWithRules(rules *outfit.RuleTable) PackingServiceOption {
	return func(s *PackingService) {
		s.rules = rules
	}
}

// PackingWithClock sets the clock used to validate trip dates
func PackingWithClock(now func() time.Time) PackingServiceOption {
	return func(s *PackingService) {
		s.now = now
	}
}

// NewPackingService creates a new packing service
func NewPackingService(opts ...PackingServiceOption) *PackingService {
	s := &PackingService{
		rules: outfit.DefaultRules(),
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.advisor == nil {
		s.advisor = advisor.New(nil)
	}
	return s
}

// CreatePlanRequest represents a request to plan a trip
type CreatePlanRequest struct {
	UserID      uuid.UUID
	Destination string
	StartDate   string
	EndDate     string
}

// CreatePlanResult represents a newly created, pending plan
type CreatePlanResult struct {
	Plan *models.PackingPlan
}

// CreatePlan validates the trip and stores a pending plan. Processing is
// started separately with ProcessAsync.
func (s *PackingService) CreatePlan(ctx context.Context, req CreatePlanRequest) (*CreatePlanResult, error) {
	if s.plans == nil {
		return nil, errors.New("plan store not set")
	}

	destination := strings.TrimSpace(req.Destination)
	if destination == "" {
		return nil, ErrInvalidDestination
	}

	start, err := time.Parse(dateLayout, strings.TrimSpace(req.StartDate))
	if err != nil {
		return nil, ErrInvalidDates
	}
	end, err := time.Parse(dateLayout, strings.TrimSpace(req.EndDate))
	if err != nil || end.Before(start) {
		return nil, ErrInvalidDates
	}

	now := s.now().UTC()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	// allow a day of slack for travellers west of UTC
	if start.Before(today.AddDate(0, 0, -1)) {
		return nil, ErrTripInPast
	}
	if end.Sub(start) >= MaxTripDays*24*time.Hour {
		return nil, ErrTripTooLong
	}

	step := stepFetchingForecast
	plan := &models.PackingPlan{
		UserID:      req.UserID,
		Destination: destination,
		StartDate:   start,
		EndDate:     end,
		Status:      models.PlanStatusPending,
		CurrentStep: &step,
		Steps:       initializePlanSteps(),
	}
	if err := s.plans.Create(ctx, plan); err != nil {
		return nil, fmt.Errorf("failed to create packing plan: %w", err)
	}

	return &CreatePlanResult{Plan: plan}, nil
}

// GetPlan retrieves a plan owned by the user
func (s *PackingService) GetPlan(ctx context.Context, userID, planID uuid.UUID) (*models.PackingPlan, error) {
	if s.plans == nil {
		return nil, errors.New("plan store not set")
	}

	plan, err := s.plans.GetByID(ctx, planID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrPlanNotFound
		}
		return nil, fmt.Errorf("failed to load packing plan: %w", err)
	}
	if plan.UserID != userID {
		return nil, ErrPlanNotFound
	}
	return plan, nil
}

// ListPlans retrieves the most recent plans of a user
func (s *PackingService) ListPlans(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*models.PackingPlan, error) {
	if s.plans == nil {
		return nil, errors.New("plan store not set")
	}
	if limit <= 0 || limit > 50 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return s.plans.ListByUserID(ctx, userID, limit, offset)
}

// ProcessAsync processes a plan in a background goroutine with its own
// context so it outlives the request that created it
func (s *PackingService) ProcessAsync(planID uuid.UUID) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ctx, cancel := context.WithTimeout(context.Background(), processTimeout)
		defer cancel()
		if err := s.ProcessPlan(ctx, planID); err != nil {
			logrus.WithError(err).WithField("plan_id", planID).Error("Packing plan failed")
		}
	}()
}

// Wait blocks until background processing has finished
func (s *PackingService) Wait() {
	s.wg.Wait()
}

// ProcessPlan fetches the destination forecast, derives an outfit per trip
// day, aggregates the packing list and asks the advisor for a note
func (s *PackingService) ProcessPlan(ctx context.Context, planID uuid.UUID) error {
	if s.plans == nil {
		return errors.New("plan store not set")
	}
	if s.weather == nil {
		return ErrWeatherUnavailable
	}

	plan, err := s.plans.GetByID(ctx, planID)
	if err != nil {
		return fmt.Errorf("failed to load packing plan: %w", err)
	}

	if err := s.plans.UpdateStatus(ctx, planID, models.PlanStatusInProgress); err != nil {
		return fmt.Errorf("failed to update plan status: %w", err)
	}

	// 1. Forecast
	if err := s.updateStepStatus(ctx, plan, stepFetchingForecast, models.StepInProgress); err != nil {
		return s.fail(ctx, plan, "failed to update step", err)
	}
	forecast, err := s.weather.Forecast(ctx, plan.Destination)
	if err != nil {
		return s.fail(ctx, plan, "failed to fetch forecast", err)
	}
	if len(forecast.Points) == 0 {
		return s.fail(ctx, plan, "failed to fetch forecast", ErrNoForecast)
	}
	if err := s.updateStepStatus(ctx, plan, stepFetchingForecast, models.StepCompleted); err != nil {
		return s.fail(ctx, plan, "failed to update step", err)
	}

	// 2. Outfits
	if err := s.updateStepStatus(ctx, plan, stepDerivingOutfits, models.StepInProgress); err != nil {
		return s.fail(ctx, plan, "failed to update step", err)
	}
	prefs := s.loadPreferences(ctx, plan.UserID)
	days, daily := BuildPlanDays(plan.Dates(), forecast.Points, prefs, s.rules)
	outfits := make([]outfit.Outfit, 0, len(days))
	for _, d := range days {
		outfits = append(outfits, d.Outfit)
	}
	items := models.PackingItems(outfit.PackingList(outfits))
	if err := s.updateStepStatus(ctx, plan, stepDerivingOutfits, models.StepCompleted); err != nil {
		return s.fail(ctx, plan, "failed to update step", err)
	}

	// 3. Note
	if err := s.updateStepStatus(ctx, plan, stepWritingFitcast, models.StepInProgress); err != nil {
		return s.fail(ctx, plan, "failed to update step", err)
	}
	destination := forecast.Location.DisplayName()
	if destination == "" {
		destination = plan.Destination
	}
	note, err := s.advisor.PackingNote(ctx, destination, daily, items)
	if err != nil {
		logrus.WithError(err).WithField("plan_id", planID).Warn("Packing note unavailable, using fallback")
	}
	if err := s.updateStepStatus(ctx, plan, stepWritingFitcast, models.StepCompleted); err != nil {
		return s.fail(ctx, plan, "failed to update step", err)
	}

	if err := s.plans.Complete(ctx, planID, items, days, note); err != nil {
		return fmt.Errorf("failed to complete packing plan: %w", err)
	}

	logrus.WithFields(logrus.Fields{
		"plan_id": planID,
		"days":    len(days),
		"items":   len(items),
	}).Info("Packing plan completed")
	return nil
}

// BuildPlanDays derives an outfit for each trip date. Dates outside the
// forecast borrow the nearest forecast day and are marked estimated: the
// first day for dates before it starts, the last for dates after it ends.
// The second return value holds the forecast points that were used.
func BuildPlanDays(dates []string, points []outfit.Point, prefs outfit.Preferences, rules *outfit.RuleTable) (models.PlanDays, []outfit.Point) {
	daily := outfit.DailyPoints(points, 0)
	byDate := make(map[string]outfit.Point, len(daily))
	for _, p := range daily {
		byDate[p.Time.Format(dateLayout)] = p
	}

	days := make(models.PlanDays, 0, len(dates))
	used := make([]outfit.Point, 0, len(dates))
	var borrowed []outfit.Point
	for _, date := range dates {
		p, ok := byDate[date]
		estimated := !ok
		if !ok {
			if len(daily) == 0 {
				continue
			}
			p = nearestDay(daily, date)
			if n := len(borrowed); n == 0 || !borrowed[n-1].Time.Equal(p.Time) {
				borrowed = append(borrowed, p)
			}
		} else {
			used = append(used, p)
		}

		o := outfit.Derive(p, prefs, rules)
		point := p
		days = append(days, models.PlanDay{
			Date:      date,
			Point:     &point,
			Outfit:    o,
			Label:     outfit.Label(o),
			Estimated: estimated,
		})
	}
	if len(used) == 0 {
		used = append(used, borrowed...)
	}
	return days, used
}

// nearestDay returns the last forecast day on or before date, or the first
// day when date precedes the forecast. daily must not be empty.
func nearestDay(daily []outfit.Point, date string) outfit.Point {
	p := daily[0]
	for _, d := range daily[1:] {
		if d.Time.Format(dateLayout) > date {
			break
		}
		p = d
	}
	return p
}

func (s *PackingService) loadPreferences(ctx context.Context, userID uuid.UUID) outfit.Preferences {
	if s.preferences == nil {
		return outfit.Preferences{}
	}
	prefs, err := s.preferences.GetByUserID(ctx, userID)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			logrus.WithError(err).WithField("user_id", userID).Warn("Failed to load preferences for packing plan")
		}
		return outfit.Preferences{}
	}
	return prefs.Outfit()
}

// updateStepStatus updates one step of the plan and persists the step list
func (s *PackingService) updateStepStatus(ctx context.Context, plan *models.PackingPlan, stepName, status string) error {
	currentStep := ""
	if plan.CurrentStep != nil {
		currentStep = *plan.CurrentStep
	}
	for i := range plan.Steps {
		if plan.Steps[i].Name == stepName {
			plan.Steps[i].Status = status
			if status == models.StepInProgress {
				currentStep = stepName
			}
			break
		}
	}
	plan.CurrentStep = &currentStep
	return s.plans.UpdateProgress(ctx, plan.ID, currentStep, plan.Steps)
}

// fail marks the in-progress step and the plan as failed
func (s *PackingService) fail(ctx context.Context, plan *models.PackingPlan, message string, cause error) error {
	for i := range plan.Steps {
		if plan.Steps[i].Status == models.StepInProgress {
			plan.Steps[i].Status = models.StepFailed
		}
	}
	current := ""
	if plan.CurrentStep != nil {
		current = *plan.CurrentStep
	}
	if err := s.plans.UpdateProgress(ctx, plan.ID, current, plan.Steps); err != nil {
		logrus.WithError(err).WithField("plan_id", plan.ID).Warn("Failed to record failed step")
	}

	errorMessage := message + ": " + cause.Error()
	if err := s.plans.Fail(ctx, plan.ID, errorMessage); err != nil {
		logrus.WithError(err).WithField("plan_id", plan.ID).Error("Failed to mark packing plan as failed")
	}
	return fmt.Errorf("%s: %w", message, cause)
}

func initializePlanSteps() models.PlanSteps {
	steps := make(models.PlanSteps, 0, 3)
	for _, name := range []string{stepFetchingForecast, stepDerivingOutfits, stepWritingFitcast} {
		steps = append(steps, models.PlanStep{Name: name, Status: models.StepPending})
	}
	return steps
}
