package handlers

import (
	"net/http"
	"strconv"

	"fitcast-backend/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// PackingHandler handles HTTP requests for packing plans
type PackingHandler struct {
	packingService *service.PackingService
}

// NewPackingHandler creates a new packing handler
func NewPackingHandler(packingService *service.PackingService) *PackingHandler {
	return &PackingHandler{
		packingService: packingService,
	}
}

// CreatePlanRequest represents the request body for planning a trip
type CreatePlanRequest struct {
	Destination string `json:"destination" binding:"required"`
	StartDate   string `json:"start_date" binding:"required"`
	EndDate     string `json:"end_date" binding:"required"`
}

// CreatePlan handles POST /api/packing-plans
func (h *PackingHandler) CreatePlan(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}

	var req CreatePlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}

	result, err := h.packingService.CreatePlan(c.Request.Context(), service.CreatePlanRequest{
		UserID:      uid,
		Destination: req.Destination,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
	})
	if err != nil {
		respondServiceError(c, err, "CREATE_FAILED")
		return
	}

	// the plan is processed in the background; clients poll GET /api/packing-plans/:id
	h.packingService.ProcessAsync(result.Plan.ID)

	respondOK(c, http.StatusAccepted, gin.H{
		"plan_id": result.Plan.ID,
		"status":  result.Plan.Status,
		"message": "Packing plan created. Poll /api/packing-plans/:id for updates.",
	})
}

// ListPlans handles GET /api/packing-plans
func (h *PackingHandler) ListPlans(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	plans, err := h.packingService.ListPlans(c.Request.Context(), uid, limit, offset)
	if err != nil {
		respondServiceError(c, err, "RETRIEVAL_FAILED")
		return
	}
	respondOK(c, http.StatusOK, plans)
}

// GetPlan handles GET /api/packing-plans/:id
func (h *PackingHandler) GetPlan(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_ID", "Invalid packing plan ID format")
		return
	}

	plan, err := h.packingService.GetPlan(c.Request.Context(), uid, id)
	if err != nil {
		respondServiceError(c, err, "RETRIEVAL_FAILED")
		return
	}
	respondOK(c, http.StatusOK, plan)
}
