package controllers

import (
	"io"
	"time"

	"github.com/gin-gonic/gin"
	"trustly/internal/services"
	"trustly/pkg/utils"
)

const keepAliveInterval = 25 * time.Second

type NotificationController struct {
	notificationService services.NotificationServiceInterface
}

func NewNotificationController(notificationService services.NotificationServiceInterface) *NotificationController {
	return &NotificationController{notificationService: notificationService}
}

// Stream godoc
// @Summary Dashboard notification stream
// @Description Server-Sent Events for new and approved testimonials, filtered by the business notification settings
// @Tags Notifications
// @Produce text/event-stream
// @Param access_token query string false "Bearer token for EventSource clients"
// @Success 200 {string} string "event stream"
// @Security BearerAuth
// @Router /notifications/stream [get]
func (n *NotificationController) Stream(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	notifications, err := n.notificationService.Stream(c.Request.Context(), userID)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")

	ticker := time.NewTicker(keepAliveInterval)
	defer ticker.Stop()

	c.Stream(func(w io.Writer) bool {
		select {
		case note, ok := <-notifications:
			if !ok {
				return false
			}
			c.SSEvent("notification", note)
			return true
		case <-ticker.C:
			c.SSEvent("ping", gin.H{"at": time.Now().UTC()})
			return true
		case <-c.Request.Context().Done():
			return false
		}
	})
}
