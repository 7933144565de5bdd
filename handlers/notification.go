package handlers

import (
	"errors"
	"net/http"

	"github.com/ConteMartin/PASTO/services/notification"
	"github.com/ConteMartin/PASTO/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// NotificationHandler serves the notification feed.
type NotificationHandler struct {
	Dispatcher notification.Dispatcher
}

func NewNotificationHandler(d notification.Dispatcher) *NotificationHandler {
	return &NotificationHandler{Dispatcher: d}
}

// ListHandler returns the caller's notifications, newest first.
func (h *NotificationHandler) ListHandler(c *gin.Context) {
	notifications, err := h.Dispatcher.ListForUser(c.Request.Context(), c.GetString("userID"))
	if err != nil {
		getLogger(c).Error("failed to list notifications", zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "Failed to list notifications", "")
		return
	}
	c.JSON(http.StatusOK, notifications)
}

// MarkReadHandler marks one of the caller's notifications as read.
func (h *NotificationHandler) MarkReadHandler(c *gin.Context) {
	err := h.Dispatcher.MarkRead(c.Request.Context(), c.Param("id"), c.GetString("userID"))
	if err != nil {
		if errors.Is(err, notification.ErrNotFound) {
			utils.JSONError(c, http.StatusNotFound, "Notification not found", "")
			return
		}
		getLogger(c).Error("failed to mark notification read", zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "Failed to mark notification read", "")
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
