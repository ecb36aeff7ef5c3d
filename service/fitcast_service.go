package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"

	"fitcast-backend/advisor"
	"fitcast-backend/models"
	"fitcast-backend/outfit"
	"fitcast-backend/repository"
	"fitcast-backend/weather"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

const (
	// HourlySlots is the number of forecast points shown on the timeline
	HourlySlots = 5
	// DailyDays is the number of days in the multi-day outlook
	DailyDays = 3

	defaultLocation = "Palo Alto"
)

// LabelSource tells where the recommendation text came from
type LabelSource string

const (
	LabelSourceModel LabelSource = "model"
	LabelSourceRules LabelSource = "rules"
)

var ErrWeatherUnavailable = errors.New("weather provider not configured")

// FitcastService builds outfit recommendations from weather and preferences
type FitcastService struct {
	weather         weather.Provider
	advisor         *advisor.Advisor
	profiles        ProfileStore
	preferences     PreferencesStore
	rules           *outfit.RuleTable
	defaultLocation string
}

// FitcastServiceOption is a functional option for FitcastService
type FitcastServiceOption func(*FitcastService)

// FitcastWithWeatherProvider sets the weather provider
func FitcastWithWeatherProvider(provider weather.Provider) FitcastServiceOption {
	return func(s *FitcastService) {
		s.weather = provider
	}
}

// FitcastWithAdvisor sets the text advisor
func FitcastWithAdvisor(a *advisor.Advisor) FitcastServiceOption {
	return func(s *FitcastService) {
		s.advisor = a
	}
}

// FitcastWithProfileStore sets the profile store
func FitcastWithProfileStore(store ProfileStore) FitcastServiceOption {
	return func(s *FitcastService) {
		s.profiles = store
	}
}

// FitcastWithPreferencesStore sets the preferences store
func FitcastWithPreferencesStore(store PreferencesStore) FitcastServiceOption {
	return func(s *FitcastService) {
		s.preferences = store
	}
}

// FitcastWithRules sets the outfit rule table
func FitcastWithRules(rules *outfit.RuleTable) FitcastServiceOption {
	return func(s *FitcastService) {
		s.rules = rules
	}
}

// FitcastWithDefaultLocation sets the city used when neither the request
// nor the profile names one
func FitcastWithDefaultLocation(location string) FitcastServiceOption {
	return func(s *FitcastService) {
		if strings.TrimSpace(location) != "" {
			s.defaultLocation = strings.TrimSpace(location)
		}
	}
}

// NewFitcastService creates a new fitcast service
func NewFitcastService(opts ...FitcastServiceOption) *FitcastService {
	s := &FitcastService{
		rules:           outfit.DefaultRules(),
		defaultLocation: defaultLocation,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.advisor == nil {
		s.advisor = advisor.New(nil)
	}
	return s
}

// Rules returns the rule table in use
func (s *FitcastService) Rules() *outfit.RuleTable {
	return s.rules
}

// DashboardRequest represents a request for the home screen
type DashboardRequest struct {
	UserID   uuid.UUID
	Location string
	// Preferences overrides the stored preferences when set
	Preferences *outfit.Preferences
}

// DashboardResult represents the home screen: current conditions and what to wear
type DashboardResult struct {
	Location    string           `json:"location"`
	Weather     *weather.Current `json:"weather"`
	Outfit      outfit.Outfit    `json:"outfit"`
	Later       *outfit.Slot     `json:"later,omitempty"`
	Label       string           `json:"label"`
	LabelSource LabelSource      `json:"label_source"`
	Slots       outfit.Slots     `json:"slots"`
	Description string           `json:"description"`
	HighF       float64          `json:"high_f"`
	LowF        float64          `json:"low_f"`
	IsNight     bool             `json:"is_night"`
}

// TimelineRequest represents a request for the timeline screen
type TimelineRequest struct {
	UserID      uuid.UUID
	Location    string
	Preferences *outfit.Preferences
}

// DailyOutfit is the outfit for one day of the outlook
type DailyOutfit struct {
	Date   string        `json:"date"`
	Point  outfit.Point  `json:"point"`
	Outfit outfit.Outfit `json:"outfit"`
	Label  string        `json:"label"`
}

// TimelineResult represents the hourly timeline and multi-day outlook
type TimelineResult struct {
	Location    string          `json:"location"`
	Timeline    outfit.Timeline `json:"timeline"`
	Daily       []DailyOutfit   `json:"daily"`
	Description string          `json:"description"`
	Label       string          `json:"label"`
	LabelSource LabelSource     `json:"label_source"`
	Slots       outfit.Slots    `json:"slots"`
}

type userContext struct {
	location string
	prefs    outfit.Preferences
}

// resolve picks the location (request, then profile, then default) and the
// preferences (override, then stored, then neutral). Store failures degrade
// to defaults.
func (s *FitcastService) resolve(ctx context.Context, userID uuid.UUID, location string, override *outfit.Preferences) userContext {
	var (
		profile *models.Profile
		prefs   *models.Preferences
	)
	location = strings.TrimSpace(location)

	g, gctx := errgroup.WithContext(ctx)
	if s.profiles != nil && userID != uuid.Nil && location == "" {
		g.Go(func() error {
			p, err := s.profiles.GetByID(gctx, userID)
			if err != nil {
				if !errors.Is(err, repository.ErrNotFound) {
					logrus.WithError(err).WithField("user_id", userID).Warn("Failed to load profile, using default location")
				}
				return nil
			}
			profile = p
			return nil
		})
	}
	if s.preferences != nil && userID != uuid.Nil && override == nil {
		g.Go(func() error {
			p, err := s.preferences.GetByUserID(gctx, userID)
			if err != nil {
				if !errors.Is(err, repository.ErrNotFound) {
					logrus.WithError(err).WithField("user_id", userID).Warn("Failed to load preferences, using defaults")
				}
				return nil
			}
			prefs = p
			return nil
		})
	}
	_ = g.Wait()

	uc := userContext{location: location}
	if uc.location == "" && profile != nil && profile.Location != nil {
		uc.location = strings.TrimSpace(*profile.Location)
	}
	if uc.location == "" {
		uc.location = s.defaultLocation
	}

	switch {
	case override != nil:
		uc.prefs = *override
	case prefs != nil:
		uc.prefs = prefs.Outfit()
	}
	return uc
}

// Dashboard returns current conditions with the derived outfit and advice
func (s *FitcastService) Dashboard(ctx context.Context, req DashboardRequest) (*DashboardResult, error) {
	if s.weather == nil {
		return nil, ErrWeatherUnavailable
	}
	uc := s.resolve(ctx, req.UserID, req.Location, req.Preferences)

	var (
		current  *weather.Current
		forecast *weather.Forecast
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		c, err := s.weather.Current(gctx, uc.location)
		if err != nil {
			return err
		}
		current = c
		return nil
	})
	g.Go(func() error {
		f, err := s.weather.Forecast(gctx, uc.location)
		if err != nil {
			logrus.WithError(err).WithField("location", uc.location).Warn("Forecast unavailable, dashboard has no later slot")
			return nil
		}
		forecast = f
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to fetch current weather: %w", err)
	}

	derived := outfit.Derive(current.Point, uc.prefs, s.rules)
	result := &DashboardResult{
		Location: current.Location.DisplayName(),
		Weather:  current,
		Outfit:   derived,
		HighF:    current.Point.HighF,
		LowF:     current.Point.LowF,
		IsNight:  current.Point.IsNight,
	}

	if forecast != nil {
		points := append([]outfit.Point{current.Point}, forecast.Hourly(HourlySlots-1)...)
		result.Later = outfit.BuildTimeline(points, uc.prefs, s.rules).Later
		result.HighF, result.LowF = dayRange(current.Point, forecast.Points)
	}

	conditions := advisor.ConditionsFromPoint(current.Point)
	conditions.HighF, conditions.LowF = result.HighF, result.LowF

	modelLabel, modelErr := s.advisor.Label(ctx, conditions)
	result.Label, result.LabelSource, result.Slots = s.gate(modelLabel, modelErr, uc.prefs, derived)

	if modelErr == nil {
		description, err := s.advisor.Describe(ctx, conditions, result.Label)
		if err != nil {
			logrus.WithError(err).Warn("Fitcast description unavailable")
		}
		result.Description = description
	}

	return result, nil
}

// Timeline returns the hourly outfit timeline with a multi-day outlook
func (s *FitcastService) Timeline(ctx context.Context, req TimelineRequest) (*TimelineResult, error) {
	if s.weather == nil {
		return nil, ErrWeatherUnavailable
	}
	uc := s.resolve(ctx, req.UserID, req.Location, req.Preferences)

	forecast, err := s.weather.Forecast(ctx, uc.location)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch forecast: %w", err)
	}

	hourly := forecast.Hourly(HourlySlots)
	result := &TimelineResult{
		Location: forecast.Location.DisplayName(),
		Timeline: outfit.BuildTimeline(hourly, uc.prefs, s.rules),
		Daily:    make([]DailyOutfit, 0, DailyDays),
	}
	for _, p := range outfit.DailyPoints(forecast.Points, DailyDays) {
		o := outfit.Derive(p, uc.prefs, s.rules)
		result.Daily = append(result.Daily, DailyOutfit{
			Date:   p.Time.Format("2006-01-02"),
			Point:  p,
			Outfit: o,
			Label:  outfit.Label(o),
		})
	}

	if result.Timeline.Now == nil {
		result.Label = advisor.FallbackAdvice
		result.LabelSource = LabelSourceRules
		return result, nil
	}

	description, descErr := s.advisor.DescribeTimeline(ctx, hourly)
	result.Description = description
	summary, sumErr := s.advisor.Summarize(ctx, description)

	outfits := make([]outfit.Outfit, 0, len(result.Timeline.Slots))
	for _, slot := range result.Timeline.Slots {
		outfits = append(outfits, slot.Outfit)
	}
	result.Label, result.LabelSource, result.Slots = s.gate(summary, errors.Join(descErr, sumErr), uc.prefs, outfits...)
	return result, nil
}

// ParseLabel extracts clothing slots from free text
func (s *FitcastService) ParseLabel(label string) outfit.Slots {
	return outfit.ParseLabel(label, s.rules.Vocabulary)
}

// CurrentWeather returns current conditions for the resolved location
func (s *FitcastService) CurrentWeather(ctx context.Context, userID uuid.UUID, location string) (*weather.Current, error) {
	if s.weather == nil {
		return nil, ErrWeatherUnavailable
	}
	uc := s.resolve(ctx, userID, location, &outfit.Preferences{})
	return s.weather.Current(ctx, uc.location)
}

// Forecast returns the forecast for the resolved location
func (s *FitcastService) Forecast(ctx context.Context, userID uuid.UUID, location string) (*weather.Forecast, error) {
	if s.weather == nil {
		return nil, ErrWeatherUnavailable
	}
	uc := s.resolve(ctx, userID, location, &outfit.Preferences{})
	return s.weather.Forecast(ctx, uc.location)
}

// SearchLocations looks up cities by name prefix
func (s *FitcastService) SearchLocations(ctx context.Context, query string, limit int) ([]weather.Location, error) {
	if s.weather == nil {
		return nil, ErrWeatherUnavailable
	}
	return s.weather.SearchCities(ctx, query, limit)
}

// gate keeps a model label only when its parsed items fit one of the derived
// outfits; otherwise the templated label of the first outfit is used.
func (s *FitcastService) gate(modelLabel string, modelErr error, prefs outfit.Preferences, derived ...outfit.Outfit) (string, LabelSource, outfit.Slots) {
	if modelErr == nil && modelLabel != "" && modelLabel != advisor.FallbackAdvice {
		slots := outfit.ParseLabel(modelLabel, s.rules.Vocabulary)
		for _, o := range derived {
			if outfit.Accepts(o, slots, prefs, s.rules) {
				return modelLabel, LabelSourceModel, slots
			}
		}
		logrus.WithField("label", modelLabel).Info("Model label does not fit the derived outfit, using rules label")
	}
	label := outfit.Label(derived[0])
	return label, LabelSourceRules, outfit.ParseLabel(label, s.rules.Vocabulary)
}

// dayRange returns the high and low across the current point and the
// forecast points falling on the same local day
func dayRange(current outfit.Point, points []outfit.Point) (float64, float64) {
	high, low := current.HighF, current.LowF
	if high == 0 && low == 0 {
		high, low = current.TempF, current.TempF
	}
	day := current.Time.Format("2006-01-02")
	for _, p := range points {
		if p.Time.Format("2006-01-02") != day {
			continue
		}
		high = math.Max(high, p.TempF)
		low = math.Min(low, p.TempF)
	}
	return high, low
}
