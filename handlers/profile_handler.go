package handlers

import (
	"net/http"

	"fitcast-backend/service"

	"github.com/gin-gonic/gin"
)

// ProfileHandler handles HTTP requests for profiles, preferences and avatars
type ProfileHandler struct {
	profileService *service.ProfileService
}

// NewProfileHandler creates a new profile handler
func NewProfileHandler(profileService *service.ProfileService) *ProfileHandler {
	return &ProfileHandler{
		profileService: profileService,
	}
}

// GetProfile handles GET /api/profile
func (h *ProfileHandler) GetProfile(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}

	profile, err := h.profileService.GetProfile(c.Request.Context(), uid)
	if err != nil {
		respondServiceError(c, err, "RETRIEVAL_FAILED")
		return
	}
	respondOK(c, http.StatusOK, profile)
}

// UpdateProfileRequest represents the request body for updating a profile.
// Omitted fields are left unchanged; an empty location clears it.
type UpdateProfileRequest struct {
	Username *string `json:"username"`
	Location *string `json:"location"`
}

// UpdateProfile handles PUT /api/profile
func (h *ProfileHandler) UpdateProfile(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}

	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}

	profile, err := h.profileService.UpdateProfile(c.Request.Context(), service.UpdateProfileRequest{
		UserID:   uid,
		Username: req.Username,
		Location: req.Location,
	})
	if err != nil {
		respondServiceError(c, err, "UPDATE_FAILED")
		return
	}
	respondOK(c, http.StatusOK, profile)
}

// GetPreferences handles GET /api/preferences
func (h *ProfileHandler) GetPreferences(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}

	prefs, err := h.profileService.GetPreferences(c.Request.Context(), uid)
	if err != nil {
		respondServiceError(c, err, "RETRIEVAL_FAILED")
		return
	}
	respondOK(c, http.StatusOK, prefs)
}

// SavePreferencesRequest represents the onboarding answers
type SavePreferencesRequest struct {
	ColdTolerance  int      `json:"cold_tolerance"`
	PreferredItems []string `json:"preferred_items"`
	ExcludedItems  []string `json:"excluded_items"`
	PrefersLayers  bool     `json:"prefers_layers"`
}

// SavePreferences handles PUT /api/preferences
func (h *ProfileHandler) SavePreferences(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}

	var req SavePreferencesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}

	prefs, err := h.profileService.SavePreferences(c.Request.Context(), service.SavePreferencesRequest{
		UserID:         uid,
		ColdTolerance:  req.ColdTolerance,
		PreferredItems: req.PreferredItems,
		ExcludedItems:  req.ExcludedItems,
		PrefersLayers:  req.PrefersLayers,
	})
	if err != nil {
		respondServiceError(c, err, "UPDATE_FAILED")
		return
	}
	respondOK(c, http.StatusOK, prefs)
}

// UploadAvatar handles POST /api/profile/avatar
func (h *ProfileHandler) UploadAvatar(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		respondError(c, http.StatusBadRequest, "MISSING_FILE", "File is required")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		respondError(c, http.StatusInternalServerError, "FILE_OPEN_ERROR", err.Error())
		return
	}
	defer file.Close()

	profile, err := h.profileService.UploadAvatar(c.Request.Context(), service.UploadAvatarRequest{
		UserID:   uid,
		Filename: fileHeader.Filename,
		Size:     fileHeader.Size,
		Data:     file,
	})
	if err != nil {
		respondServiceError(c, err, "UPLOAD_FAILED")
		return
	}
	respondOK(c, http.StatusCreated, profile)
}

// GetAvatar handles GET /api/profile/avatar
func (h *ProfileHandler) GetAvatar(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}

	reader, contentType, err := h.profileService.OpenAvatar(c.Request.Context(), uid)
	if err != nil {
		respondServiceError(c, err, "DOWNLOAD_FAILED")
		return
	}
	defer reader.Close()

	c.Header("Cache-Control", "private, max-age=300")
	c.DataFromReader(http.StatusOK, -1, contentType, reader, nil)
}
