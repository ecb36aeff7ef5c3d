package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Router bundles the handlers mounted on the API
type Router struct {
	Fitcast *FitcastHandler
	Profile *ProfileHandler
	Packing *PackingHandler
}

// Register mounts the health check and the authenticated /api routes
func (rt Router) Register(r *gin.Engine, auth gin.HandlerFunc) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "ok",
		})
	})

	api := r.Group("/api", auth)
	{
		// Weather endpoints
		api.GET("/weather/current", rt.Fitcast.GetCurrentWeather)
		api.GET("/weather/forecast", rt.Fitcast.GetForecast)
		api.GET("/locations/search", rt.Fitcast.SearchLocations)

		// Recommendation endpoints
		api.GET("/fitcast", rt.Fitcast.GetFitcast)
		api.GET("/timeline", rt.Fitcast.GetTimeline)
		api.POST("/outfits/parse", rt.Fitcast.ParseLabel)

		// Profile endpoints
		api.GET("/profile", rt.Profile.GetProfile)
		api.PUT("/profile", rt.Profile.UpdateProfile)
		api.POST("/profile/avatar", rt.Profile.UploadAvatar)
		api.GET("/profile/avatar", rt.Profile.GetAvatar)
		api.GET("/preferences", rt.Profile.GetPreferences)
		api.PUT("/preferences", rt.Profile.SavePreferences)

		// Packing plan endpoints
		api.POST("/packing-plans", rt.Packing.CreatePlan)
		api.GET("/packing-plans", rt.Packing.ListPlans)
		api.GET("/packing-plans/:id", rt.Packing.GetPlan)
	}
}
