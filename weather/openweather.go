package weather

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"fitcast-backend/cache"
	"fitcast-backend/outfit"
)

const (
	currentPath  = "/data/2.5/weather"
	forecastPath = "/data/2.5/forecast"
	geocodePath  = "/geo/1.0/direct"

	defaultBaseURL     = "https://api.openweathermap.org"
	defaultSearchLimit = 5
	maxSearchLimit     = 10
)

// OpenWeatherClient talks to the OpenWeatherMap REST API in imperial units
type OpenWeatherClient struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	cache      Cache
	cacheTTL   time.Duration
}

// ClientOption configures an OpenWeatherClient
type ClientOption func(*OpenWeatherClient)

// WithBaseURL points the client at another host (tests, proxies)
func WithBaseURL(baseURL string) ClientOption {
	return func(c *OpenWeatherClient) {
		c.baseURL = strings.TrimRight(baseURL, "/")
	}
}

// WithHTTPClient sets the HTTP client used for requests
func WithHTTPClient(client *http.Client) ClientOption {
	return func(c *OpenWeatherClient) {
		c.httpClient = client
	}
}

// WithCache enables response caching
func WithCache(cache Cache, ttl time.Duration) ClientOption {
	return func(c *OpenWeatherClient) {
		c.cache = cache
		c.cacheTTL = ttl
	}
}

// NewOpenWeatherClient creates a new OpenWeatherMap client
func NewOpenWeatherClient(apiKey string, opts ...ClientOption) *OpenWeatherClient {
	c := &OpenWeatherClient{
		apiKey:     apiKey,
		baseURL:    defaultBaseURL,
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type owmCondition struct {
	Main        string `json:"main"`
	Description string `json:"description"`
}

type owmMain struct {
	Temp      float64 `json:"temp"`
	FeelsLike float64 `json:"feels_like"`
	TempMin   float64 `json:"temp_min"`
	TempMax   float64 `json:"temp_max"`
	Humidity  int     `json:"humidity"`
}

type owmCurrentResponse struct {
	Dt      int64          `json:"dt"`
	Name    string         `json:"name"`
	Weather []owmCondition `json:"weather"`
	Main    owmMain        `json:"main"`
	Wind    struct {
		Speed float64 `json:"speed"`
	} `json:"wind"`
	Sys struct {
		Country string `json:"country"`
	} `json:"sys"`
	Coord struct {
		Lat float64 `json:"lat"`
		Lon float64 `json:"lon"`
	} `json:"coord"`
	Timezone int `json:"timezone"`
}

type owmForecastResponse struct {
	List []struct {
		Dt      int64          `json:"dt"`
		Main    owmMain        `json:"main"`
		Weather []owmCondition `json:"weather"`
	} `json:"list"`
	City struct {
		Name    string `json:"name"`
		Country string `json:"country"`
		Coord   struct {
			Lat float64 `json:"lat"`
			Lon float64 `json:"lon"`
		} `json:"coord"`
		Timezone int `json:"timezone"`
	} `json:"city"`
}

type owmGeocodeResult struct {
	Name    string  `json:"name"`
	State   string  `json:"state"`
	Country string  `json:"country"`
	Lat     float64 `json:"lat"`
	Lon     float64 `json:"lon"`
}

type owmError struct {
	Message string `json:"message"`
}

// Current fetches present conditions for a city name
func (c *OpenWeatherClient) Current(ctx context.Context, location string) (*Current, error) {
	location = strings.TrimSpace(location)
	if location == "" {
		return nil, ErrEmptyLocation
	}

	key := cache.Key("weather", "current", location)
	var cached Current
	if c.fromCache(ctx, key, &cached) {
		return &cached, nil
	}

	var resp owmCurrentResponse
	params := url.Values{"q": {location}}
	if err := c.getJSON(ctx, currentPath, params, &resp); err != nil {
		return nil, err
	}

	zone := time.FixedZone("", resp.Timezone)
	local := time.Unix(resp.Dt, 0).In(zone)
	current := &Current{
		Location: Location{
			Name:           resp.Name,
			Country:        resp.Sys.Country,
			Lat:            resp.Coord.Lat,
			Lon:            resp.Coord.Lon,
			TimezoneOffset: resp.Timezone,
		},
		Point:        toPoint(local, resp.Main, resp.Weather),
		Humidity:     resp.Main.Humidity,
		WindSpeedMph: resp.Wind.Speed,
	}

	c.toCache(ctx, key, current)
	return current, nil
}

// Forecast fetches the 5 day / 3 hour forecast for a city name
func (c *OpenWeatherClient) Forecast(ctx context.Context, location string) (*Forecast, error) {
	location = strings.TrimSpace(location)
	if location == "" {
		return nil, ErrEmptyLocation
	}

	key := cache.Key("weather", "forecast", location)
	var cached Forecast
	if c.fromCache(ctx, key, &cached) {
		return &cached, nil
	}

	var resp owmForecastResponse
	params := url.Values{"q": {location}}
	if err := c.getJSON(ctx, forecastPath, params, &resp); err != nil {
		return nil, err
	}

	zone := time.FixedZone("", resp.City.Timezone)
	forecast := &Forecast{
		Location: Location{
			Name:           resp.City.Name,
			Country:        resp.City.Country,
			Lat:            resp.City.Coord.Lat,
			Lon:            resp.City.Coord.Lon,
			TimezoneOffset: resp.City.Timezone,
		},
		Points: make([]outfit.Point, 0, len(resp.List)),
	}
	for _, entry := range resp.List {
		local := time.Unix(entry.Dt, 0).In(zone)
		forecast.Points = append(forecast.Points, toPoint(local, entry.Main, entry.Weather))
	}

	c.toCache(ctx, key, forecast)
	return forecast, nil
}

// SearchCities looks up cities whose name starts with prefix
func (c *OpenWeatherClient) SearchCities(ctx context.Context, prefix string, limit int) ([]Location, error) {
	prefix = strings.TrimSpace(prefix)
	if len([]rune(prefix)) < MinSearchLength {
		return nil, ErrQueryTooShort
	}
	if limit <= 0 {
		limit = defaultSearchLimit
	} else if limit > maxSearchLimit {
		limit = maxSearchLimit
	}

	key := cache.Key("weather", "cities", prefix, strconv.Itoa(limit))
	var cached []Location
	if c.fromCache(ctx, key, &cached) {
		return cached, nil
	}

	var results []owmGeocodeResult
	params := url.Values{"q": {prefix}, "limit": {strconv.Itoa(limit)}}
	if err := c.getJSON(ctx, geocodePath, params, &results); err != nil {
		return nil, err
	}

	locations := make([]Location, 0, len(results))
	for _, r := range results {
		locations = append(locations, Location{
			Name:    r.Name,
			State:   r.State,
			Country: r.Country,
			Lat:     r.Lat,
			Lon:     r.Lon,
		})
	}

	c.toCache(ctx, key, locations)
	return locations, nil
}

func (c *OpenWeatherClient) getJSON(ctx context.Context, path string, params url.Values, dest any) error {
	if c.apiKey == "" {
		return ErrMissingAPIKey
	}
	params.Set("appid", c.apiKey)
	if path != geocodePath {
		params.Set("units", "imperial")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+params.Encode(), nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrProviderFailed, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: failed to read response: %v", ErrProviderFailed, err)
	}

	if resp.StatusCode == http.StatusNotFound {
		return ErrLocationNotFound
	}
	if resp.StatusCode != http.StatusOK {
		var apiErr owmError
		_ = json.Unmarshal(body, &apiErr)
		logrus.WithFields(logrus.Fields{
			"path":   path,
			"status": resp.StatusCode,
		}).Warnf("Weather provider error: %s", apiErr.Message)
		return fmt.Errorf("%w: status %d: %s", ErrProviderFailed, resp.StatusCode, apiErr.Message)
	}

	if err := json.Unmarshal(body, dest); err != nil {
		return fmt.Errorf("%w: failed to decode response: %v", ErrProviderFailed, err)
	}
	return nil
}

func (c *OpenWeatherClient) fromCache(ctx context.Context, key string, dest any) bool {
	if c.cache == nil {
		return false
	}
	found, err := c.cache.Get(ctx, key, dest)
	if err != nil {
		logrus.WithError(err).WithField("key", key).Warn("Weather cache read failed")
		return false
	}
	return found
}

func (c *OpenWeatherClient) toCache(ctx context.Context, key string, value any) {
	if c.cache == nil || c.cacheTTL <= 0 {
		return
	}
	if err := c.cache.Set(ctx, key, value, c.cacheTTL); err != nil {
		logrus.WithError(err).WithField("key", key).Warn("Weather cache write failed")
	}
}

func toPoint(local time.Time, main owmMain, conditions []owmCondition) outfit.Point {
	p := outfit.Point{
		Time:       local,
		TempF:      main.Temp,
		FeelsLikeF: main.FeelsLike,
		HighF:      main.TempMax,
		LowF:       main.TempMin,
		Condition:  outfit.ConditionUnknown,
		IsNight:    IsNight(local),
	}
	if len(conditions) > 0 {
		p.Condition = outfit.ParseCondition(conditions[0].Main)
		p.Description = cases.Title(language.English).String(conditions[0].Description)
	}
	return p
}
