package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/ConteMartin/PASTO/services/request"
	"github.com/ConteMartin/PASTO/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RequestHandler serves the dispatch engine endpoints.
type RequestHandler struct {
	Service request.RequestService
}

func NewRequestHandler(svc request.RequestService) *RequestHandler {
	return &RequestHandler{Service: svc}
}

// respondRequestError maps the engine's error taxonomy to HTTP responses.
func respondRequestError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, request.ErrInvalidInput):
		utils.JSONError(c, http.StatusBadRequest, "Invalid request", err.Error())
	case errors.Is(err, request.ErrNotFound):
		utils.JSONError(c, http.StatusNotFound, "Service request not found", "")
	case errors.Is(err, request.ErrAlreadyAccepted):
		utils.JSONErrorCode(c, http.StatusConflict, "already_accepted",
			"Another gardener already accepted this request. Refresh your available list.")
	case errors.Is(err, request.ErrInvalidTransition):
		utils.JSONErrorCode(c, http.StatusConflict, "invalid_transition", err.Error())
	case errors.Is(err, request.ErrNotEligible):
		utils.JSONErrorCode(c, http.StatusConflict, "not_eligible", err.Error())
	case errors.Is(err, request.ErrAlreadyRated):
		utils.JSONErrorCode(c, http.StatusConflict, "already_rated",
			"This side already rated the request.")
	default:
		getLogger(c).Error("request operation failed", zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "Internal Server Error", "")
	}
}

// EstimateHandler returns a price/duration quote for the given parameters.
func (h *RequestHandler) EstimateHandler(c *gin.Context) {
	var req struct {
		ServiceType       string  `json:"service_type" binding:"required"`
		TerrainWidth      float64 `json:"terrain_width" binding:"required"`
		TerrainLength     float64 `json:"terrain_length" binding:"required"`
		PruningDifficulty *string `json:"pruning_difficulty"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid estimation request", err.Error())
		return
	}

	quote, err := h.Service.Estimate(req.ServiceType, req.TerrainWidth, req.TerrainLength, req.PruningDifficulty)
	if err != nil {
		respondRequestError(c, err)
		return
	}
	c.JSON(http.StatusOK, quote)
}

// CreateRequestHandler creates a service request for the calling client.
func (h *RequestHandler) CreateRequestHandler(c *gin.Context) {
	var req struct {
		ServiceType       string     `json:"service_type" binding:"required"`
		Address           string     `json:"address" binding:"required"`
		Latitude          float64    `json:"latitude"`
		Longitude         float64    `json:"longitude"`
		TerrainWidth      float64    `json:"terrain_width" binding:"required"`
		TerrainLength     float64    `json:"terrain_length" binding:"required"`
		Images            []string   `json:"images"`
		PruningDifficulty *string    `json:"pruning_difficulty"`
		ScheduledDate     *time.Time `json:"scheduled_date"`
		IsImmediate       bool       `json:"is_immediate"`
		Notes             string     `json:"notes"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid service request", err.Error())
		return
	}

	created, err := h.Service.Create(c.Request.Context(), request.CreateInput{
		ClientID:          c.GetString("userID"),
		ServiceType:       req.ServiceType,
		Address:           req.Address,
		Latitude:          req.Latitude,
		Longitude:         req.Longitude,
		TerrainWidth:      req.TerrainWidth,
		TerrainLength:     req.TerrainLength,
		Images:            req.Images,
		PruningDifficulty: req.PruningDifficulty,
		ScheduledDate:     req.ScheduledDate,
		IsImmediate:       req.IsImmediate,
		Notes:             req.Notes,
	})
	if err != nil {
		respondRequestError(c, err)
		return
	}
	c.JSON(http.StatusOK, created)
}

// MyRequestsHandler lists the calling client's requests.
func (h *RequestHandler) MyRequestsHandler(c *gin.Context) {
	requests, err := h.Service.ListByClient(c.Request.Context(), c.GetString("userID"))
	if err != nil {
		respondRequestError(c, err)
		return
	}
	c.JSON(http.StatusOK, requests)
}

// AvailableHandler lists the matching pool for gardeners.
func (h *RequestHandler) AvailableHandler(c *gin.Context) {
	jobs, err := h.Service.Available(c.Request.Context())
	if err != nil {
		respondRequestError(c, err)
		return
	}
	c.JSON(http.StatusOK, jobs)
}

// MyJobsHandler lists the calling gardener's assigned jobs.
func (h *RequestHandler) MyJobsHandler(c *gin.Context) {
	requests, err := h.Service.ListByGardener(c.Request.Context(), c.GetString("userID"))
	if err != nil {
		respondRequestError(c, err)
		return
	}
	c.JSON(http.StatusOK, requests)
}

// AcceptHandler claims a pending request for the calling gardener.
func (h *RequestHandler) AcceptHandler(c *gin.Context) {
	accepted, err := h.Service.Accept(c.Request.Context(), c.Param("id"), c.GetString("userID"))
	if err != nil {
		respondRequestError(c, err)
		return
	}
	c.JSON(http.StatusOK, accepted)
}

// UpdateStatusHandler applies a lifecycle transition on behalf of the caller.
func (h *RequestHandler) UpdateStatusHandler(c *gin.Context) {
	var req struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid status update request", err.Error())
		return
	}

	updated, err := h.Service.UpdateStatus(c.Request.Context(),
		c.Param("id"), c.GetString("userID"), c.GetString("userRole"), req.Status)
	if err != nil {
		respondRequestError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

// RateHandler records a post-completion rating from the caller's side.
func (h *RequestHandler) RateHandler(c *gin.Context) {
	var req struct {
		Rating int    `json:"rating" binding:"required"`
		Review string `json:"review"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid rating request", err.Error())
		return
	}

	err := h.Service.Rate(c.Request.Context(),
		c.Param("id"), c.GetString("userID"), c.GetString("userRole"), req.Rating, req.Review)
	if err != nil {
		respondRequestError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
