package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"fitcast-backend/models"
	"fitcast-backend/outfit"
	"fitcast-backend/repository"
	"fitcast-backend/storage"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const (
	// MaxAvatarSize is the largest accepted avatar upload in bytes
	MaxAvatarSize = 5 << 20

	maxUsernameLength = 50
	maxItems          = 20
)

var (
	ErrProfileNotFound   = errors.New("profile not found")
	ErrAvatarNotFound    = errors.New("avatar not found")
	ErrAvatarTooLarge    = errors.New("avatar exceeds the maximum size")
	ErrInvalidUsername   = errors.New("username must be between 1 and 50 characters")
	ErrInvalidTolerance  = errors.New("cold tolerance must be -1, 0 or 1")
	ErrTooManyItems      = errors.New("too many clothing items")
	ErrStorageNotEnabled = errors.New("avatar storage not configured")
)

// ProfileService handles profiles, onboarding preferences and avatars
type ProfileService struct {
	profiles    ProfileStore
	preferences PreferencesStore
	storage     storage.Storage
}

// ProfileServiceOption is a functional option for ProfileService
type ProfileServiceOption func(*ProfileService)

// ProfileWithProfileStore sets the profile store
func ProfileWithProfileStore(store ProfileStore) ProfileServiceOption {
	return func(s *ProfileService) {
		s.profiles = store
	}
}

// ProfileWithPreferencesStore sets the preferences store
func ProfileWithPreferencesStore(store PreferencesStore) ProfileServiceOption {
	return func(s *ProfileService) {
		s.preferences = store
	}
}

// ProfileWithStorage sets the avatar storage
func ProfileWithStorage(st storage.Storage) ProfileServiceOption {
	return func(s *ProfileService) {
		s.storage = st
	}
}

// NewProfileService creates a new profile service
func NewProfileService(opts ...ProfileServiceOption) *ProfileService {
	s := &ProfileService{}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// UpdateProfileRequest represents a profile update. Nil fields are left unchanged.
type UpdateProfileRequest struct {
	UserID   uuid.UUID
	Username *string
	Location *string
}

// SavePreferencesRequest represents the onboarding answers
type SavePreferencesRequest struct {
	UserID         uuid.UUID
	ColdTolerance  int
	PreferredItems []string
	ExcludedItems  []string
	PrefersLayers  bool
}

// UploadAvatarRequest represents an avatar upload
type UploadAvatarRequest struct {
	UserID   uuid.UUID
	Filename string
	Size     int64
	Data     io.Reader
}

// GetProfile retrieves the profile of a user
func (s *ProfileService) GetProfile(ctx context.Context, userID uuid.UUID) (*models.Profile, error) {
	if s.profiles == nil {
		return nil, errors.New("profile store not set")
	}

	profile, err := s.profiles.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, fmt.Errorf("failed to load profile: %w", err)
	}
	return profile, nil
}

// UpdateProfile creates or updates the username and home location
func (s *ProfileService) UpdateProfile(ctx context.Context, req UpdateProfileRequest) (*models.Profile, error) {
	if s.profiles == nil {
		return nil, errors.New("profile store not set")
	}

	profile, err := s.profiles.GetByID(ctx, req.UserID)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("failed to load profile: %w", err)
		}
		profile = &models.Profile{ID: req.UserID}
	}

	if req.Username != nil {
		username := strings.TrimSpace(*req.Username)
		if n := utf8.RuneCountInString(username); n == 0 || n > maxUsernameLength {
			return nil, ErrInvalidUsername
		}
		profile.Username = &username
	}
	if req.Location != nil {
		location := strings.TrimSpace(*req.Location)
		if location == "" {
			profile.Location = nil
		} else {
			profile.Location = &location
		}
	}

	if err := s.profiles.Upsert(ctx, profile); err != nil {
		return nil, fmt.Errorf("failed to save profile: %w", err)
	}
	return profile, nil
}

// GetPreferences retrieves preferences, falling back to neutral defaults for
// users who have not completed onboarding
func (s *ProfileService) GetPreferences(ctx context.Context, userID uuid.UUID) (*models.Preferences, error) {
	if s.preferences == nil {
		return nil, errors.New("preferences store not set")
	}

	prefs, err := s.preferences.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return models.DefaultPreferences(userID), nil
		}
		return nil, fmt.Errorf("failed to load preferences: %w", err)
	}
	return prefs, nil
}

// SavePreferences validates and stores the onboarding answers, which also
// completes onboarding
func (s *ProfileService) SavePreferences(ctx context.Context, req SavePreferencesRequest) (*models.Preferences, error) {
	if s.preferences == nil {
		return nil, errors.New("preferences store not set")
	}

	tolerance := outfit.ColdTolerance(req.ColdTolerance)
	if !tolerance.Valid() {
		return nil, ErrInvalidTolerance
	}
	if len(req.PreferredItems) > maxItems || len(req.ExcludedItems) > maxItems {
		return nil, ErrTooManyItems
	}

	prefs := &models.Preferences{
		UserID:         req.UserID,
		ColdTolerance:  tolerance,
		PreferredItems: NormalizeItems(req.PreferredItems),
		ExcludedItems:  NormalizeItems(req.ExcludedItems),
		PrefersLayers:  req.PrefersLayers,
	}
	if err := s.preferences.Save(ctx, prefs); err != nil {
		return nil, fmt.Errorf("failed to save preferences: %w", err)
	}

	logrus.WithFields(logrus.Fields{
		"user_id":        req.UserID,
		"cold_tolerance": prefs.ColdTolerance,
		"excluded":       len(prefs.ExcludedItems),
	}).Info("Onboarding preferences saved")
	return prefs, nil
}

// UploadAvatar stores a new avatar image and removes the previous one
func (s *ProfileService) UploadAvatar(ctx context.Context, req UploadAvatarRequest) (*models.Profile, error) {
	if s.storage == nil {
		return nil, ErrStorageNotEnabled
	}
	if s.profiles == nil {
		return nil, errors.New("profile store not set")
	}
	if req.Size > MaxAvatarSize {
		return nil, ErrAvatarTooLarge
	}
	if !storage.IsImage(req.Filename) {
		return nil, storage.ErrUnsupportedImage
	}

	var previous string
	existing, err := s.profiles.GetByID(ctx, req.UserID)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("failed to load profile: %w", err)
	}
	if existing != nil && existing.AvatarURL != nil {
		previous = *existing.AvatarURL
	}

	path, err := s.storage.Upload(ctx, req.UserID, req.Filename, io.LimitReader(req.Data, MaxAvatarSize))
	if err != nil {
		return nil, fmt.Errorf("failed to store avatar: %w", err)
	}

	if err := s.profiles.UpdateAvatar(ctx, req.UserID, path); err != nil {
		if delErr := s.storage.Delete(ctx, path); delErr != nil {
			logrus.WithError(delErr).WithField("path", path).Warn("Failed to clean up avatar after update error")
		}
		return nil, fmt.Errorf("failed to update avatar: %w", err)
	}

	if previous != "" && previous != path {
		if err := s.storage.Delete(ctx, previous); err != nil {
			logrus.WithError(err).WithField("path", previous).Warn("Failed to delete previous avatar")
		}
	}

	return s.GetProfile(ctx, req.UserID)
}

// OpenAvatar returns the avatar image of a user with its content type
func (s *ProfileService) OpenAvatar(ctx context.Context, userID uuid.UUID) (io.ReadCloser, string, error) {
	if s.storage == nil {
		return nil, "", ErrStorageNotEnabled
	}

	profile, err := s.GetProfile(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrProfileNotFound) {
			return nil, "", ErrAvatarNotFound
		}
		return nil, "", err
	}
	if profile.AvatarURL == nil || *profile.AvatarURL == "" {
		return nil, "", ErrAvatarNotFound
	}

	rc, err := s.storage.Download(ctx, *profile.AvatarURL)
	if err != nil {
		if errors.Is(err, storage.ErrFileNotFound) {
			return nil, "", ErrAvatarNotFound
		}
		return nil, "", err
	}
	return rc, storage.ContentType(*profile.AvatarURL), nil
}

// NormalizeItems lowercases and trims clothing names, dropping blanks and duplicates
func NormalizeItems(items []string) []string {
	out := make([]string, 0, len(items))
	seen := make(map[string]bool, len(items))
	for _, item := range items {
		item = strings.ToLower(strings.Join(strings.Fields(item), " "))
		if item == "" || seen[item] {
			continue
		}
		seen[item] = true
		out = append(out, item)
	}
	return out
}
