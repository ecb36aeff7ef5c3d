package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"fitcast-backend/service"

	"github.com/gin-gonic/gin"
)

// FitcastHandler handles HTTP requests for weather and outfit recommendations
type FitcastHandler struct {
	fitcastService *service.FitcastService
}

// NewFitcastHandler creates a new fitcast handler
func NewFitcastHandler(fitcastService *service.FitcastService) *FitcastHandler {
	return &FitcastHandler{
		fitcastService: fitcastService,
	}
}

// GetCurrentWeather handles GET /api/weather/current
func (h *FitcastHandler) GetCurrentWeather(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}

	current, err := h.fitcastService.CurrentWeather(c.Request.Context(), uid, c.Query("location"))
	if err != nil {
		respondServiceError(c, err, "WEATHER_FAILED")
		return
	}
	respondOK(c, http.StatusOK, current)
}

// GetForecast handles GET /api/weather/forecast
func (h *FitcastHandler) GetForecast(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}

	forecast, err := h.fitcastService.Forecast(c.Request.Context(), uid, c.Query("location"))
	if err != nil {
		respondServiceError(c, err, "WEATHER_FAILED")
		return
	}
	respondOK(c, http.StatusOK, forecast)
}

// SearchLocations handles GET /api/locations/search
func (h *FitcastHandler) SearchLocations(c *gin.Context) {
	query := strings.TrimSpace(c.Query("q"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "5"))

	locations, err := h.fitcastService.SearchLocations(c.Request.Context(), query, limit)
	if err != nil {
		respondServiceError(c, err, "SEARCH_FAILED")
		return
	}
	respondOK(c, http.StatusOK, locations)
}

// GetFitcast handles GET /api/fitcast
func (h *FitcastHandler) GetFitcast(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}

	result, err := h.fitcastService.Dashboard(c.Request.Context(), service.DashboardRequest{
		UserID:   uid,
		Location: c.Query("location"),
	})
	if err != nil {
		respondServiceError(c, err, "FITCAST_FAILED")
		return
	}
	respondOK(c, http.StatusOK, result)
}

// GetTimeline handles GET /api/timeline
func (h *FitcastHandler) GetTimeline(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}

	result, err := h.fitcastService.Timeline(c.Request.Context(), service.TimelineRequest{
		UserID:   uid,
		Location: c.Query("location"),
	})
	if err != nil {
		respondServiceError(c, err, "TIMELINE_FAILED")
		return
	}
	respondOK(c, http.StatusOK, result)
}

// ParseLabelRequest represents the request body for parsing a label.
// An empty label is valid and parses to empty slots.
type ParseLabelRequest struct {
	Label string `json:"label"`
}

// ParseLabel handles POST /api/outfits/parse
func (h *FitcastHandler) ParseLabel(c *gin.Context) {
	var req ParseLabelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}
	respondOK(c, http.StatusOK, h.fitcastService.ParseLabel(req.Label))
}
