package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/yigit/acetrack/internal/app/models/dto"
	"github.com/yigit/acetrack/internal/app/services"
	"github.com/yigit/acetrack/internal/middleware"
)

// Streamer upgrades a request into a live notification stream for userID
type Streamer interface {
	Serve(w http.ResponseWriter, r *http.Request, userID int64) error
}

// NotificationController serves the notification feed
type NotificationController struct {
	notificationService *services.NotificationService
	streamer            Streamer
	logger              zerolog.Logger
}

// NewNotificationController creates a new NotificationController
func NewNotificationController(notificationService *services.NotificationService, streamer Streamer, logger zerolog.Logger) *NotificationController {
	return &NotificationController{notificationService: notificationService, streamer: streamer, logger: logger}
}

// Feed returns global and personal notifications
// @Summary Notification feed
// @Tags notifications
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=[]models.Notification}
// @Router /notifications [get]
func (c *NotificationController) Feed(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}

	feed, err := c.notificationService.Feed(ctx.Request.Context(), userID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(feed, ""))
}

// MarkRead marks a notification as read
// @Summary Mark notification read
// @Tags notifications
// @Produce json
// @Security BearerAuth
// @Param id path int true "Notification ID"
// @Success 200 {object} dto.APIResponse "Notification marked as read"
// @Failure 404 {object} dto.APIResponse "Notification not found"
// @Router /notifications/{id}/read [put]
func (c *NotificationController) MarkRead(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	id, ok := pathID(ctx, "id", "Notification")
	if !ok {
		return
	}

	if err := c.notificationService.MarkRead(ctx.Request.Context(), userID, id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(nil, "Notification marked as read"))
}

// Stream pushes new notifications over a WebSocket connection. Browsers pass
// the token as the token query parameter.
// @Summary Live notification stream
// @Tags notifications
// @Security BearerAuth
// @Param token query string false "JWT when headers cannot be set"
// @Success 101 "Switching Protocols"
// @Failure 401 {object} dto.APIResponse "Unauthorized"
// @Router /notifications/ws [get]
func (c *NotificationController) Stream(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}

	// The upgrader has already answered the client when Serve fails.
	if err := c.streamer.Serve(ctx.Writer, ctx.Request, userID); err != nil {
		c.logger.Warn().Err(err).Int64("userID", userID).Msg("WebSocket upgrade failed")
	}
}
