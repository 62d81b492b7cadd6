package handler

import (
	"net/http"
	"time"

	"github.com/ebudgetmo/ebudgetmo-backend/internal/domain"
	"github.com/ebudgetmo/ebudgetmo-backend/internal/service"
	"github.com/labstack/echo/v4"
)

// NotificationHandler handles notification HTTP requests
type NotificationHandler struct {
	notificationService *service.NotificationService
}

// NewNotificationHandler creates a new NotificationHandler
func NewNotificationHandler(notificationService *service.NotificationService) *NotificationHandler {
	return &NotificationHandler{notificationService: notificationService}
}

// NotificationResponse represents a derived notification in API responses
type NotificationResponse struct {
	ID         string  `json:"id"`
	Type       string  `json:"type"`
	Category   string  `json:"category"`
	Message    string  `json:"message"`
	Amount     *string `json:"amount,omitempty"`
	Percentage *string `json:"percentage,omitempty"`
	Read       bool    `json:"read"`
	Timestamp  string  `json:"timestamp"`
}

// GetNotifications handles GET /api/v1/notifications
func (h *NotificationHandler) GetNotifications(c echo.Context) error {
	return c.JSON(http.StatusOK, toNotificationResponses(h.notificationService.List()))
}

// DismissNotification handles DELETE /api/v1/notifications/:id
func (h *NotificationHandler) DismissNotification(c echo.Context) error {
	if err := h.notificationService.Dismiss(c.Param("id")); err != nil {
		return serviceError(c, err, "dismiss notification")
	}
	return c.NoContent(http.StatusNoContent)
}

// ClearNotifications handles DELETE /api/v1/notifications
func (h *NotificationHandler) ClearNotifications(c echo.Context) error {
	h.notificationService.Clear()
	return c.NoContent(http.StatusNoContent)
}

func toNotificationResponses(notifications []domain.Notification) []NotificationResponse {
	response := make([]NotificationResponse, len(notifications))
	for i, n := range notifications {
		response[i] = NotificationResponse{
			ID:        n.ID,
			Type:      string(n.Type),
			Category:  n.Category,
			Message:   n.Message,
			Read:      n.Read,
			Timestamp: n.Timestamp.Format(time.RFC3339),
		}
		if n.Amount != nil {
			amount := money(*n.Amount)
			response[i].Amount = &amount
		}
		if n.Percentage != nil {
			pct := n.Percentage.StringFixed(2)
			response[i].Percentage = &pct
		}
	}
	return response
}
