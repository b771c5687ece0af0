package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/yigit/acetrack/internal/app/models/dto"
	"github.com/yigit/acetrack/internal/app/services"
	"github.com/yigit/acetrack/internal/middleware"
)

// ProgressController handles per-topic progress
type ProgressController struct {
	progressService *services.ProgressService
	logger          zerolog.Logger
}

// NewProgressController creates a new ProgressController
func NewProgressController(progressService *services.ProgressService, logger zerolog.Logger) *ProgressController {
	return &ProgressController{progressService: progressService, logger: logger}
}

// List returns the caller's topic progress
// @Summary List progress
// @Tags progress
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=[]models.Progress}
// @Router /progress [get]
func (c *ProgressController) List(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}

	progress, err := c.progressService.List(ctx.Request.Context(), userID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(progress, ""))
}

// Record adds study time to a topic
// @Summary Record progress
// @Description Accumulates time_spent, sets mastery_level when given and advances the study streak.
// @Tags progress
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.UpdateProgressRequest true "Progress"
// @Success 201 {object} dto.APIResponse{data=models.Progress} "Progress record created"
// @Success 200 {object} dto.APIResponse{data=models.Progress} "Progress updated"
// @Failure 400 {object} dto.APIResponse "Topic ID is required"
// @Router /progress [post]
func (c *ProgressController) Record(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}

	var req dto.UpdateProgressRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	progress, created, err := c.progressService.Record(ctx.Request.Context(), userID, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	if created {
		ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(progress, "Progress record created"))
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(progress, "Progress updated"))
}
