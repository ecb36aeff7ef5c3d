package main

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"fitcast-backend/outfit"
	"fitcast-backend/service"
	"fitcast-backend/weather"
)

func TestPrintRecommendation(t *testing.T) {
	rules := outfit.DefaultRules()
	noon := outfit.Point{
		Time: time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC), TempF: 55, FeelsLikeF: 55,
		Condition: outfit.ConditionRain, Description: "Light Rain",
	}
	evening := outfit.Point{Time: time.Date(2026, 3, 2, 21, 0, 0, 0, time.UTC), TempF: 40, FeelsLikeF: 40, IsNight: true}
	now := outfit.Derive(noon, outfit.Preferences{}, rules)
	tl := outfit.BuildTimeline([]outfit.Point{noon, evening}, outfit.Preferences{}, rules)

	dashboard := &service.DashboardResult{
		Location: "Seattle, US",
		Weather:  &weather.Current{Point: noon},
		Outfit:   now,
		Later:    tl.Later,
		Label:    outfit.Label(now),
		HighF:    58,
		LowF:     40,
	}
	timeline := &service.TimelineResult{
		Timeline: tl,
		Daily:    []service.DailyOutfit{{Date: "2026-03-02", Point: outfit.Point{HighF: 58, LowF: 40}, Label: outfit.Label(now)}},
	}

	var buf bytes.Buffer
	printRecommendation(&buf, dashboard, timeline)
	out := buf.String()

	assert.Contains(t, out, "Seattle, US: Light Rain, 55°F (feels 55°F), high 58°F, low 40°F")
	assert.Contains(t, out, "Now [cool]: Wear a jacket and pants. Bring an umbrella.")
	assert.Contains(t, out, "Later 21:00 [cold]: Wear a thick jacket and pants. Bring a scarf and gloves.")
	assert.Contains(t, out, "* Mon 21:00  40.0°F  thick jacket, pants, scarf, gloves")
	assert.Contains(t, out, "2026-03-02 58/40°F")
}
