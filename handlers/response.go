package handlers

import (
	"errors"
	"net/http"

	"fitcast-backend/middleware"
	"fitcast-backend/service"
	"fitcast-backend/storage"
	"fitcast-backend/weather"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

func respondOK(c *gin.Context, status int, data any) {
	c.JSON(status, gin.H{
		"success": true,
		"data":    data,
	})
}

func respondError(c *gin.Context, status int, code, message string) {
	c.JSON(status, gin.H{
		"success": false,
		"error": gin.H{
			"code":    code,
			"message": message,
		},
	})
}

// userID reads the authenticated user, answering 401 when it is missing
func userID(c *gin.Context) (uuid.UUID, bool) {
	id, ok := middleware.UserID(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required")
		return uuid.Nil, false
	}
	return id, true
}

type errorMapping struct {
	target error
	status int
	code   string
}

var errorMappings = []errorMapping{
	{weather.ErrLocationNotFound, http.StatusNotFound, "LOCATION_NOT_FOUND"},
	{weather.ErrQueryTooShort, http.StatusBadRequest, "QUERY_TOO_SHORT"},
	{weather.ErrEmptyLocation, http.StatusBadRequest, "INVALID_LOCATION"},
	{weather.ErrMissingAPIKey, http.StatusServiceUnavailable, "WEATHER_UNAVAILABLE"},
	{weather.ErrProviderFailed, http.StatusBadGateway, "WEATHER_PROVIDER_ERROR"},
	{service.ErrWeatherUnavailable, http.StatusServiceUnavailable, "WEATHER_UNAVAILABLE"},
	{service.ErrProfileNotFound, http.StatusNotFound, "NOT_FOUND"},
	{service.ErrAvatarNotFound, http.StatusNotFound, "NOT_FOUND"},
	{service.ErrPlanNotFound, http.StatusNotFound, "NOT_FOUND"},
	{service.ErrAvatarTooLarge, http.StatusRequestEntityTooLarge, "FILE_TOO_LARGE"},
	{storage.ErrUnsupportedImage, http.StatusBadRequest, "UNSUPPORTED_IMAGE"},
	{service.ErrStorageNotEnabled, http.StatusServiceUnavailable, "STORAGE_UNAVAILABLE"},
	{service.ErrInvalidUsername, http.StatusBadRequest, "INVALID_USERNAME"},
	{service.ErrInvalidTolerance, http.StatusBadRequest, "INVALID_TOLERANCE"},
	{service.ErrTooManyItems, http.StatusBadRequest, "TOO_MANY_ITEMS"},
	{service.ErrInvalidDestination, http.StatusBadRequest, "INVALID_DESTINATION"},
	{service.ErrInvalidDates, http.StatusBadRequest, "INVALID_DATES"},
	{service.ErrTripInPast, http.StatusBadRequest, "INVALID_DATES"},
	{service.ErrTripTooLong, http.StatusBadRequest, "TRIP_TOO_LONG"},
}

// respondServiceError maps service and provider errors to an HTTP status and
// envelope code. Unknown errors are logged and reported as fallbackCode.
func respondServiceError(c *gin.Context, err error, fallbackCode string) {
	for _, m := range errorMappings {
		if errors.Is(err, m.target) {
			respondError(c, m.status, m.code, m.target.Error())
			return
		}
	}
	logrus.WithError(err).WithField("path", c.FullPath()).Error("Request failed")
	respondError(c, http.StatusInternalServerError, fallbackCode, err.Error())
}
