package models

import (
	"time"

	"github.com/google/uuid"

	"fitcast-backend/outfit"
)

// Profile represents a user profile row. The id is the user id issued by
// the hosted auth backend.
type Profile struct {
	ID                  uuid.UUID `json:"id"`
	Username            *string   `json:"username,omitempty"`
	AvatarURL           *string   `json:"avatar_url,omitempty"`
	Location            *string   `json:"location,omitempty"`
	OnboardingCompleted bool      `json:"onboarding_completed"`
	CreatedAt           time.Time `json:"created_at"`
	UpdatedAt           time.Time `json:"updated_at"`
}

// Preferences represents the initial_preferences row captured during onboarding
type Preferences struct {
	UserID         uuid.UUID            `json:"user_id"`
	ColdTolerance  outfit.ColdTolerance `json:"cold_tolerance"`
	PreferredItems []string             `json:"preferred_items"`
	ExcludedItems  []string             `json:"excluded_items"`
	PrefersLayers  bool                 `json:"prefers_layers"`
	UpdatedAt      time.Time            `json:"updated_at"`
}

// DefaultPreferences returns neutral preferences for users who skipped onboarding
func DefaultPreferences(userID uuid.UUID) *Preferences {
	return &Preferences{
		UserID:         userID,
		ColdTolerance:  outfit.ToleranceNeutral,
		PreferredItems: []string{},
		ExcludedItems:  []string{},
	}
}

// Outfit converts the row into the preferences used for derivation
func (p *Preferences) Outfit() outfit.Preferences {
	if p == nil {
		return outfit.Preferences{}
	}
	return outfit.Preferences{
		ColdTolerance:  p.ColdTolerance,
		PreferredItems: p.PreferredItems,
		ExcludedItems:  p.ExcludedItems,
		PrefersLayers:  p.PrefersLayers,
	}
}
