package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	userRepo "github.com/ConteMartin/PASTO/database/repository/user"
	"github.com/ConteMartin/PASTO/models"
	"github.com/ConteMartin/PASTO/utils"

	"github.com/gin-gonic/gin"
)

const authCacheTTL = 10 * time.Minute

// JWTAuthMiddleware resolves the Bearer token to an authenticated user and
// sets userID, userRole and authUser in the gin context. The user document
// is cached in Redis so the directory is not hit on every call.
func JWTAuthMiddleware(repo userRepo.UserRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Missing or invalid Authorization header"})
			return
		}
		tokenString := strings.TrimPrefix(authHeader, "Bearer ")

		userID, err := utils.ExtractIDFromToken(tokenString)
		if err != nil || userID == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			return
		}

		u := lookupUser(c.Request.Context(), repo, userID)
		if u == nil || !u.IsActive {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "User not found or inactive"})
			return
		}

		c.Set("userID", u.ID)
		c.Set("userRole", u.Role)
		c.Set("authUser", u)
		c.Next()
	}
}

func lookupUser(ctx context.Context, repo userRepo.UserRepository, userID string) *models.User {
	cache := utils.GetAuthCacheClient()
	cacheKey := "auth:user:" + userID

	if data, err := cache.Get(ctx, cacheKey).Result(); err == nil {
		var u models.User
		if err := json.Unmarshal([]byte(data), &u); err == nil {
			return &u
		}
	}

	u, err := repo.GetByID(ctx, userID)
	if err != nil {
		return nil
	}

	if data, err := json.Marshal(u); err == nil {
		// Best effort; auth still works if the cache write fails.
		cache.Set(ctx, cacheKey, data, authCacheTTL)
	}
	return u
}

// CurrentUser returns the authenticated user set by JWTAuthMiddleware.
func CurrentUser(c *gin.Context) *models.User {
	if v, ok := c.Get("authUser"); ok {
		if u, ok := v.(*models.User); ok {
			return u
		}
	}
	return nil
}
