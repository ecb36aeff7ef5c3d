package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fitcast-backend/outfit"
)

func TestPlanStepsScan(t *testing.T) {
	var steps PlanSteps
	require.NoError(t, steps.Scan(nil))
	assert.NotNil(t, steps)
	assert.Empty(t, steps)

	require.NoError(t, steps.Scan([]byte(`[{"name":"Fetching Forecast","status":"completed"}]`)))
	require.Len(t, steps, 1)
	assert.Equal(t, "Fetching Forecast", steps[0].Name)

	var fromString PlanSteps
	require.NoError(t, fromString.Scan(`[{"name":"Deriving Outfits","status":"pending"}]`))
	assert.Equal(t, StepPending, fromString[0].Status)

	var bad PlanSteps
	assert.Error(t, bad.Scan([]byte(`{not json`)))
}

func TestNilSlicesEncodeAsEmptyArrays(t *testing.T) {
	v, err := PlanSteps(nil).Value()
	require.NoError(t, err)
	assert.Equal(t, []byte("[]"), v)

	v, err = PackingItems(nil).Value()
	require.NoError(t, err)
	assert.Equal(t, []byte("[]"), v)

	v, err = PlanDays(nil).Value()
	require.NoError(t, err)
	assert.Equal(t, []byte("[]"), v)
}

func TestPlanDaysRoundTrip(t *testing.T) {
	days := PlanDays{{
		Date:      "2026-03-02",
		Outfit:    outfit.Outfit{Band: "cool", Top: "jacket", Bottom: "pants"},
		Label:     "Wear a jacket and pants.",
		Estimated: true,
	}}
	v, err := days.Value()
	require.NoError(t, err)

	var decoded PlanDays
	require.NoError(t, decoded.Scan(v))
	assert.Equal(t, days, decoded)
}

func TestPackingPlanDates(t *testing.T) {
	plan := &PackingPlan{
		StartDate: time.Date(2026, 2, 27, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC),
	}
	assert.Equal(t, 4, plan.DayCount())
	assert.Equal(t, []string{"2026-02-27", "2026-02-28", "2026-03-01", "2026-03-02"}, plan.Dates())

	plan.EndDate = plan.StartDate.AddDate(0, 0, -1)
	assert.Equal(t, 0, plan.DayCount())
	assert.Empty(t, plan.Dates())
}

func TestPreferencesOutfit(t *testing.T) {
	var nilPrefs *Preferences
	assert.Equal(t, outfit.Preferences{}, nilPrefs.Outfit())

	p := &Preferences{ColdTolerance: outfit.ToleranceGetsCold, ExcludedItems: []string{"shorts"}, PrefersLayers: true}
	op := p.Outfit()
	assert.Equal(t, outfit.ToleranceGetsCold, op.ColdTolerance)
	assert.Equal(t, []string{"shorts"}, op.ExcludedItems)
	assert.True(t, op.PrefersLayers)

	d := DefaultPreferences(p.UserID)
	assert.Equal(t, outfit.ToleranceNeutral, d.ColdTolerance)
	assert.NotNil(t, d.ExcludedItems)
}
