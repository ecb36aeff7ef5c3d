package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fitcast-backend/advisor"
	"fitcast-backend/models"
	"fitcast-backend/outfit"
	"fitcast-backend/weather"
)

func fixedClock() time.Time {
	return time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
}

func newPackingService(provider weather.Provider, store *fakePlanStore, opts ...PackingServiceOption) *PackingService {
	base := []PackingServiceOption{
		PackingWithPlanStore(store),
		PackingWithWeatherProvider(provider),
		PackingWithClock(fixedClock),
	}
	return NewPackingService(append(base, opts...)...)
}

func TestCreatePlanValidation(t *testing.T) {
	svc := newPackingService(newFakeProvider(), newFakePlanStore())
	userID := uuid.New()

	tests := []struct {
		name    string
		req     CreatePlanRequest
		wantErr error
	}{
		{"missing destination", CreatePlanRequest{Destination: "  ", StartDate: "2026-03-02", EndDate: "2026-03-04"}, ErrInvalidDestination},
		{"bad start", CreatePlanRequest{Destination: "Seattle", StartDate: "03/02/2026", EndDate: "2026-03-04"}, ErrInvalidDates},
		{"bad end", CreatePlanRequest{Destination: "Seattle", StartDate: "2026-03-02", EndDate: "soon"}, ErrInvalidDates},
		{"end before start", CreatePlanRequest{Destination: "Seattle", StartDate: "2026-03-04", EndDate: "2026-03-02"}, ErrInvalidDates},
		{"in the past", CreatePlanRequest{Destination: "Seattle", StartDate: "2026-02-20", EndDate: "2026-03-02"}, ErrTripInPast},
		{"too long", CreatePlanRequest{Destination: "Seattle", StartDate: "2026-03-01", EndDate: "2026-03-15"}, ErrTripTooLong},
		{"fourteen days", CreatePlanRequest{Destination: "Seattle", StartDate: "2026-03-01", EndDate: "2026-03-14"}, nil},
		{"yesterday is allowed", CreatePlanRequest{Destination: "Seattle", StartDate: "2026-02-28", EndDate: "2026-02-28"}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.req.UserID = userID
			result, err := svc.CreatePlan(context.Background(), tt.req)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.NotEqual(t, uuid.Nil, result.Plan.ID)
		})
	}
}

func TestCreatePlanStoresPendingSteps(t *testing.T) {
	store := newFakePlanStore()
	svc := newPackingService(newFakeProvider(), store)

	result, err := svc.CreatePlan(context.Background(), CreatePlanRequest{
		UserID:      uuid.New(),
		Destination: " Seattle ",
		StartDate:   "2026-03-02",
		EndDate:     "2026-03-05",
	})
	require.NoError(t, err)

	plan := result.Plan
	assert.Equal(t, "Seattle", plan.Destination)
	assert.Equal(t, models.PlanStatusPending, plan.Status)
	assert.Equal(t, 4, plan.DayCount())

	want := models.PlanSteps{
		{Name: stepFetchingForecast, Status: models.StepPending},
		{Name: stepDerivingOutfits, Status: models.StepPending},
		{Name: stepWritingFitcast, Status: models.StepPending},
	}
	if diff := cmp.Diff(want, plan.Steps); diff != "" {
		t.Errorf("steps mismatch (-want +got):\n%s", diff)
	}
}

func TestProcessPlanBuildsPackingList(t *testing.T) {
	store := newFakePlanStore()
	gen := &scriptedGenerator{replies: []string{"Expect rain and snow. Pack warm socks."}}
	svc := newPackingService(newFakeProvider(), store, PackingWithAdvisor(newAdvisor(gen)))
	userID := uuid.New()

	created, err := svc.CreatePlan(context.Background(), CreatePlanRequest{
		UserID: userID, Destination: "Palo Alto", StartDate: "2026-03-02", EndDate: "2026-03-05",
	})
	require.NoError(t, err)

	svc.ProcessAsync(created.Plan.ID)
	svc.Wait()

	plan, err := svc.GetPlan(context.Background(), userID, created.Plan.ID)
	require.NoError(t, err)

	assert.Equal(t, models.PlanStatusCompleted, plan.Status)
	require.NotNil(t, plan.Fitcast)
	assert.Equal(t, "Expect rain and snow. Pack warm socks.", *plan.Fitcast)
	assert.NotNil(t, plan.CompletedAt)
	for _, step := range plan.Steps {
		assert.Equal(t, models.StepCompleted, step.Status, step.Name)
	}
	assert.Equal(t, []string{
		stepFetchingForecast, stepFetchingForecast,
		stepDerivingOutfits, stepDerivingOutfits,
		stepWritingFitcast, stepWritingFitcast,
	}, store.progress)

	wantItems := models.PackingItems{
		{Category: outfit.CategoryOuterwear, Item: "jacket", Count: 1},
		{Category: outfit.CategoryOuterwear, Item: "sweater", Count: 1},
		{Category: outfit.CategoryOuterwear, Item: "thick jacket", Count: 1},
		{Category: outfit.CategoryBottom, Item: "pants", Count: 2},
		{Category: outfit.CategoryAccessory, Item: "beanie", Count: 1},
		{Category: outfit.CategoryAccessory, Item: "boots", Count: 1},
		{Category: outfit.CategoryAccessory, Item: "gloves", Count: 1},
		{Category: outfit.CategoryAccessory, Item: "scarf", Count: 1},
		{Category: outfit.CategoryAccessory, Item: "umbrella", Count: 1},
	}
	if diff := cmp.Diff(wantItems, plan.Items); diff != "" {
		t.Errorf("packing list mismatch (-want +got):\n%s", diff)
	}

	require.Len(t, plan.Days, 4)
	assert.Equal(t, "2026-03-02", plan.Days[0].Date)
	assert.Equal(t, "cool", plan.Days[0].Outfit.Band)
	assert.False(t, plan.Days[2].Estimated)
	assert.True(t, plan.Days[3].Estimated)
	assert.Equal(t, plan.Days[2].Outfit, plan.Days[3].Outfit)

	require.Len(t, gen.prompts, 1)
	assert.Contains(t, gen.prompts[0], "Palo Alto, US")
	assert.Contains(t, gen.prompts[0], "2 x pants")
	assert.NotContains(t, gen.prompts[0], "Thu Mar 5")
}

func TestProcessPlanNoteFallback(t *testing.T) {
	store := newFakePlanStore()
	svc := newPackingService(newFakeProvider(), store)
	userID := uuid.New()

	created, err := svc.CreatePlan(context.Background(), CreatePlanRequest{
		UserID: userID, Destination: "Palo Alto", StartDate: "2026-03-02", EndDate: "2026-03-02",
	})
	require.NoError(t, err)
	require.NoError(t, svc.ProcessPlan(context.Background(), created.Plan.ID))

	plan, err := svc.GetPlan(context.Background(), userID, created.Plan.ID)
	require.NoError(t, err)
	assert.Equal(t, models.PlanStatusCompleted, plan.Status)
	assert.Equal(t, advisor.FallbackAdvice, *plan.Fitcast)
}

func TestProcessPlanUsesPreferences(t *testing.T) {
	store := newFakePlanStore()
	prefs := newFakePreferencesStore()
	userID := uuid.New()
	prefs.prefs[userID] = &models.Preferences{UserID: userID, ExcludedItems: []string{"umbrella"}}
	svc := newPackingService(newFakeProvider(), store, PackingWithPreferencesStore(prefs))

	created, err := svc.CreatePlan(context.Background(), CreatePlanRequest{
		UserID: userID, Destination: "Palo Alto", StartDate: "2026-03-02", EndDate: "2026-03-02",
	})
	require.NoError(t, err)
	require.NoError(t, svc.ProcessPlan(context.Background(), created.Plan.ID))

	plan, err := svc.GetPlan(context.Background(), userID, created.Plan.ID)
	require.NoError(t, err)
	for _, item := range plan.Items {
		assert.NotEqual(t, "umbrella", item.Item)
	}
}

func TestProcessPlanForecastFailure(t *testing.T) {
	store := newFakePlanStore()
	provider := newFakeProvider()
	provider.forecastErr = weather.ErrLocationNotFound
	svc := newPackingService(provider, store)
	userID := uuid.New()

	created, err := svc.CreatePlan(context.Background(), CreatePlanRequest{
		UserID: userID, Destination: "Atlantis", StartDate: "2026-03-02", EndDate: "2026-03-03",
	})
	require.NoError(t, err)

	err = svc.ProcessPlan(context.Background(), created.Plan.ID)
	assert.ErrorIs(t, err, weather.ErrLocationNotFound)

	plan, err := svc.GetPlan(context.Background(), userID, created.Plan.ID)
	require.NoError(t, err)
	assert.Equal(t, models.PlanStatusFailed, plan.Status)
	require.NotNil(t, plan.ErrorMessage)
	assert.Contains(t, *plan.ErrorMessage, "failed to fetch forecast")
	assert.Equal(t, models.StepFailed, plan.Steps[0].Status)
	assert.Equal(t, models.StepPending, plan.Steps[1].Status)
}

func TestProcessPlanEmptyForecast(t *testing.T) {
	store := newFakePlanStore()
	provider := newFakeProvider()
	provider.forecast = &weather.Forecast{}
	svc := newPackingService(provider, store)

	created, err := svc.CreatePlan(context.Background(), CreatePlanRequest{
		UserID: uuid.New(), Destination: "Nowhere", StartDate: "2026-03-02", EndDate: "2026-03-03",
	})
	require.NoError(t, err)

	err = svc.ProcessPlan(context.Background(), created.Plan.ID)
	assert.ErrorIs(t, err, ErrNoForecast)
}

func TestGetPlanChecksOwner(t *testing.T) {
	store := newFakePlanStore()
	svc := newPackingService(newFakeProvider(), store)

	created, err := svc.CreatePlan(context.Background(), CreatePlanRequest{
		UserID: uuid.New(), Destination: "Seattle", StartDate: "2026-03-02", EndDate: "2026-03-03",
	})
	require.NoError(t, err)

	_, err = svc.GetPlan(context.Background(), uuid.New(), created.Plan.ID)
	assert.ErrorIs(t, err, ErrPlanNotFound)

	_, err = svc.GetPlan(context.Background(), uuid.New(), uuid.New())
	assert.ErrorIs(t, err, ErrPlanNotFound)
}

func TestListPlans(t *testing.T) {
	store := newFakePlanStore()
	svc := newPackingService(newFakeProvider(), store)
	userID := uuid.New()

	for _, destination := range []string{"Seattle", "Denver", "Boston"} {
		_, err := svc.CreatePlan(context.Background(), CreatePlanRequest{
			UserID: userID, Destination: destination, StartDate: "2026-03-02", EndDate: "2026-03-03",
		})
		require.NoError(t, err)
	}
	_, err := svc.CreatePlan(context.Background(), CreatePlanRequest{
		UserID: uuid.New(), Destination: "Paris", StartDate: "2026-03-02", EndDate: "2026-03-03",
	})
	require.NoError(t, err)

	plans, err := svc.ListPlans(context.Background(), userID, 0, 0)
	require.NoError(t, err)
	assert.Len(t, plans, 3)

	plans, err = svc.ListPlans(context.Background(), userID, 2, -1)
	require.NoError(t, err)
	assert.Len(t, plans, 2)
}

func TestBuildPlanDaysWithoutForecast(t *testing.T) {
	days, used := BuildPlanDays([]string{"2026-03-02"}, nil, outfit.Preferences{}, outfit.DefaultRules())
	assert.Empty(t, days)
	assert.Empty(t, used)
}

func TestBuildPlanDaysBeyondHorizon(t *testing.T) {
	days, used := BuildPlanDays([]string{"2026-03-10", "2026-03-11"}, forecastPoints(), outfit.Preferences{}, outfit.DefaultRules())
	require.Len(t, days, 2)
	assert.True(t, days[0].Estimated)
	assert.True(t, days[1].Estimated)
	assert.Equal(t, "mild", days[0].Outfit.Band)
	require.Len(t, used, 1)
	assert.Equal(t, at(4, 12), used[0].Time)
}

func TestBuildPlanDaysBeforeForecastStarts(t *testing.T) {
	days, used := BuildPlanDays([]string{"2026-02-28", "2026-03-01"}, forecastPoints(), outfit.Preferences{}, outfit.DefaultRules())
	require.Len(t, days, 2)

	assert.True(t, days[0].Estimated)
	require.NotNil(t, days[0].Point)
	assert.Equal(t, at(1, 12), days[0].Point.Time)
	assert.Equal(t, "warm", days[0].Outfit.Band)

	assert.False(t, days[1].Estimated)
	require.Len(t, used, 1)
	assert.Equal(t, at(1, 12), used[0].Time)
}

func TestBuildPlanDaysOnlyBeforeForecast(t *testing.T) {
	days, used := BuildPlanDays([]string{"2026-02-27", "2026-02-28"}, forecastPoints(), outfit.Preferences{}, outfit.DefaultRules())
	require.Len(t, days, 2)
	for _, day := range days {
		assert.True(t, day.Estimated)
		assert.Equal(t, "warm", day.Outfit.Band)
	}
	require.Len(t, used, 1)
	assert.Equal(t, at(1, 12), used[0].Time)
}

func TestProcessPlanWithoutProvider(t *testing.T) {
	svc := NewPackingService(PackingWithPlanStore(newFakePlanStore()))
	err := svc.ProcessPlan(context.Background(), uuid.New())
	assert.True(t, errors.Is(err, ErrWeatherUnavailable))
}
