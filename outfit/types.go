package outfit

import (
	"strings"
	"time"
)

// Condition represents a normalised weather group
type Condition string

const (
	ConditionClear        Condition = "Clear"
	ConditionClouds       Condition = "Clouds"
	ConditionRain         Condition = "Rain"
	ConditionDrizzle      Condition = "Drizzle"
	ConditionThunderstorm Condition = "Thunderstorm"
	ConditionSnow         Condition = "Snow"
	ConditionMist         Condition = "Mist"
	ConditionUnknown      Condition = "Unknown"
)

// ParseCondition maps a provider weather group ("Rain", "clouds", "Haze") to a Condition
func ParseCondition(group string) Condition {
	switch strings.ToLower(strings.TrimSpace(group)) {
	case "clear":
		return ConditionClear
	case "clouds", "cloudy":
		return ConditionClouds
	case "rain":
		return ConditionRain
	case "drizzle":
		return ConditionDrizzle
	case "thunderstorm":
		return ConditionThunderstorm
	case "snow":
		return ConditionSnow
	case "mist", "fog", "haze", "smoke", "dust", "sand", "ash", "squall", "tornado":
		return ConditionMist
	default:
		return ConditionUnknown
	}
}

// IsWet reports whether the condition calls for rain gear
func (c Condition) IsWet() bool {
	return c == ConditionRain || c == ConditionDrizzle || c == ConditionThunderstorm
}

// ColdTolerance represents how easily a user gets cold
type ColdTolerance int

const (
	ToleranceGetsCold   ColdTolerance = -1
	ToleranceNeutral    ColdTolerance = 0
	ToleranceRarelyCold ColdTolerance = 1
)

// Valid reports whether the tolerance is one of the three known values
func (t ColdTolerance) Valid() bool {
	return t >= ToleranceGetsCold && t <= ToleranceRarelyCold
}

// Preferences holds the clothing preferences that shape a recommendation
type Preferences struct {
	ColdTolerance  ColdTolerance `json:"cold_tolerance"`
	PreferredItems []string      `json:"preferred_items"`
	ExcludedItems  []string      `json:"excluded_items"`
	PrefersLayers  bool          `json:"prefers_layers"`
}

func (p Preferences) excludes(item string) bool {
	return containsFold(p.ExcludedItems, item)
}

func (p Preferences) prefers(item string) bool {
	return containsFold(p.PreferredItems, item)
}

// Point represents the weather at a single instant
type Point struct {
	Time        time.Time `json:"time"`
	TempF       float64   `json:"temp_f"`
	FeelsLikeF  float64   `json:"feels_like_f"`
	HighF       float64   `json:"high_f"`
	LowF        float64   `json:"low_f"`
	Condition   Condition `json:"condition"`
	Description string    `json:"description"`
	IsNight     bool      `json:"is_night"`
}

// Outfit represents a concrete clothing recommendation
type Outfit struct {
	Band        string   `json:"band"`
	Top         string   `json:"top,omitempty"`
	Bottom      string   `json:"bottom,omitempty"`
	Layers      []string `json:"layers,omitempty"`
	Accessories []string `json:"accessories,omitempty"`
}

// Equal reports whether two outfits recommend the same items
func (o Outfit) Equal(other Outfit) bool {
	return o.Top == other.Top &&
		o.Bottom == other.Bottom &&
		equalStrings(o.Layers, other.Layers) &&
		equalStrings(o.Accessories, other.Accessories)
}

// Items returns every item of the outfit in wearing order
func (o Outfit) Items() []string {
	var items []string
	if len(o.Layers) > 0 {
		items = append(items, o.Layers...)
	} else if o.Top != "" {
		items = append(items, o.Top)
	}
	if o.Bottom != "" {
		items = append(items, o.Bottom)
	}
	return append(items, o.Accessories...)
}

// Slots is the structured result of parsing a free-text label.
// A nil slot means no vocabulary word was found for that category.
type Slots struct {
	Top       *string `json:"top"`
	Bottom    *string `json:"bottom"`
	Accessory *string `json:"accessory"`
}

// Empty reports whether no slot matched
func (s Slots) Empty() bool {
	return s.Top == nil && s.Bottom == nil && s.Accessory == nil
}

func containsFold(list []string, item string) bool {
	for _, v := range list {
		if strings.EqualFold(strings.TrimSpace(v), item) {
			return true
		}
	}
	return false
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
