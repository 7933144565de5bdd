package handlers

import (
	"errors"
	"net/http"

	"github.com/ConteMartin/PASTO/middleware"
	"github.com/ConteMartin/PASTO/services/user"
	"github.com/ConteMartin/PASTO/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AuthHandler serves registration, login and profile endpoints.
type AuthHandler struct {
	Service user.UserService
}

func NewAuthHandler(svc user.UserService) *AuthHandler {
	return &AuthHandler{Service: svc}
}

// RegisterHandler handles account creation for clients and gardeners.
func (h *AuthHandler) RegisterHandler(c *gin.Context) {
	logger := getLogger(c)

	var req struct {
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
		FullName string `json:"full_name" binding:"required"`
		Role     string `json:"role" binding:"required"`
		Phone    string `json:"phone"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid registration request", err.Error())
		return
	}

	result, err := h.Service.Register(c.Request.Context(), user.RegisterInput{
		Email:    req.Email,
		Password: req.Password,
		FullName: req.FullName,
		Role:     req.Role,
		Phone:    req.Phone,
	})
	if err != nil {
		switch {
		case errors.Is(err, user.ErrEmailTaken):
			utils.JSONError(c, http.StatusBadRequest, "Email already registered", "")
		case errors.Is(err, user.ErrInvalidInput):
			utils.JSONError(c, http.StatusBadRequest, "Invalid registration request", err.Error())
		default:
			logger.Error("User registration failed", zap.Error(err))
			utils.JSONError(c, http.StatusInternalServerError, "Registration failed", "")
		}
		return
	}

	c.JSON(http.StatusOK, result)
}

// LoginHandler verifies credentials and returns an access token.
func (h *AuthHandler) LoginHandler(c *gin.Context) {
	logger := getLogger(c)

	var req struct {
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid login request", err.Error())
		return
	}

	result, err := h.Service.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, user.ErrInvalidCredentials) {
			utils.JSONError(c, http.StatusUnauthorized, "Invalid email or password", "")
			return
		}
		logger.Error("Login failed", zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "Login failed", "")
		return
	}

	c.JSON(http.StatusOK, result)
}

// MeHandler returns the authenticated user's profile.
func (h *AuthHandler) MeHandler(c *gin.Context) {
	u := middleware.CurrentUser(c)
	if u == nil {
		utils.JSONError(c, http.StatusUnauthorized, "Not authenticated", "")
		return
	}
	c.JSON(http.StatusOK, u)
}

// GardenerProfileHandler returns the gardener-side profile of the caller.
func (h *AuthHandler) GardenerProfileHandler(c *gin.Context) {
	u := middleware.CurrentUser(c)
	if u == nil || u.Gardener == nil {
		utils.JSONError(c, http.StatusNotFound, "Gardener profile not found", "")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"user_id":        u.ID,
		"full_name":      u.FullName,
		"rating":         u.Rating,
		"total_ratings":  u.TotalRatings,
		"tools":          u.Gardener.Tools,
		"coverage_areas": u.Gardener.CoverageAreas,
		"is_available":   u.Gardener.IsAvailable,
		"completed_jobs": u.Gardener.CompletedJobs,
	})
}
