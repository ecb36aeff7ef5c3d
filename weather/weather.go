package weather

import (
	"context"
	"errors"
	"fmt"
	"time"

	"fitcast-backend/outfit"
)

var (
	ErrLocationNotFound = errors.New("location not found")
	ErrProviderFailed   = errors.New("weather provider request failed")
	ErrMissingAPIKey    = errors.New("weather API key not set")
	ErrQueryTooShort    = errors.New("search query must be at least 3 characters")
	ErrEmptyLocation    = errors.New("location is required")
)

// MinSearchLength is the shortest city prefix worth sending to the provider
const MinSearchLength = 3

// Provider is a source of current conditions, forecasts and city lookups
type Provider interface {
	Current(ctx context.Context, location string) (*Current, error)
	Forecast(ctx context.Context, location string) (*Forecast, error)
	SearchCities(ctx context.Context, prefix string, limit int) ([]Location, error)
}

// Cache stores provider responses between requests
type Cache interface {
	Get(ctx context.Context, key string, dest any) (bool, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
}

// Location identifies a place the provider knows about
type Location struct {
	Name           string  `json:"name"`
	State          string  `json:"state,omitempty"`
	Country        string  `json:"country"`
	Lat            float64 `json:"lat"`
	Lon            float64 `json:"lon"`
	TimezoneOffset int     `json:"timezone_offset"`
}

// DisplayName renders "City, CC"
func (l Location) DisplayName() string {
	if l.Country == "" {
		return l.Name
	}
	return fmt.Sprintf("%s, %s", l.Name, l.Country)
}

// Current holds the present conditions at a location
type Current struct {
	Location     Location     `json:"location"`
	Point        outfit.Point `json:"point"`
	Humidity     int          `json:"humidity"`
	WindSpeedMph float64      `json:"wind_speed_mph"`
}

// Forecast holds the 3-hourly forecast for a location
type Forecast struct {
	Location Location       `json:"location"`
	Points   []outfit.Point `json:"points"`
}

// Hourly returns the first n forecast points
func (f *Forecast) Hourly(n int) []outfit.Point {
	if n <= 0 || n > len(f.Points) {
		return f.Points
	}
	return f.Points[:n]
}

// IsNight reports whether a local time is before 6 AM or after 6 PM
func IsNight(t time.Time) bool {
	h := t.Hour()
	return h < 6 || h > 18
}
