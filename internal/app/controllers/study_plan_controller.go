package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/yigit/acetrack/internal/app/models/dto"
	"github.com/yigit/acetrack/internal/app/services"
	"github.com/yigit/acetrack/internal/middleware"
)

// StudyPlanController handles study plans and their sessions
type StudyPlanController struct {
	studyPlanService *services.StudyPlanService
	logger           zerolog.Logger
}

// NewStudyPlanController creates a new StudyPlanController
func NewStudyPlanController(studyPlanService *services.StudyPlanService, logger zerolog.Logger) *StudyPlanController {
	return &StudyPlanController{studyPlanService: studyPlanService, logger: logger}
}

// CreatePlan generates a study plan
// @Summary Create a study plan
// @Description Stores explicit days when given, otherwise one 60 minute session per subject for every date in the range.
// @Tags study-plan
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateStudyPlanRequest true "Plan"
// @Success 201 {object} dto.APIResponse{data=dto.IDResponse} "Study plan created"
// @Failure 400 {object} dto.APIResponse "Missing or invalid fields"
// @Failure 401 {object} dto.APIResponse "Unauthorized"
// @Failure 500 {object} dto.APIResponse "Server error"
// @Router /study-plan [post]
func (c *StudyPlanController) CreatePlan(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}

	var req dto.CreateStudyPlanRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	id, err := c.studyPlanService.Create(ctx.Request.Context(), userID, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	c.logger.Info().Int64("userID", userID).Int64("planID", id).Msg("Study plan created")
	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(dto.IDResponse{ID: id}, "Study plan created"))
}

// GetCurrentPlan returns the latest plan with its days and sessions
// @Summary Get the current study plan
// @Tags study-plan
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=models.StudyPlan}
// @Failure 401 {object} dto.APIResponse "Unauthorized"
// @Failure 404 {object} dto.APIResponse "No active study plan found"
// @Router /study-plan [get]
func (c *StudyPlanController) GetCurrentPlan(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}

	plan, err := c.studyPlanService.GetCurrent(ctx.Request.Context(), userID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(plan, ""))
}

// UpdateSession marks a session completed or changes its duration
// @Summary Update a study session
// @Tags study-plan
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param sessionId path int true "Session ID"
// @Param request body dto.UpdateSessionRequest true "Changes"
// @Success 200 {object} dto.APIResponse{data=models.StudySession} "Session updated"
// @Failure 400 {object} dto.APIResponse "No updates provided"
// @Failure 404 {object} dto.APIResponse "Session not found"
// @Router /study-plan/session/{sessionId} [patch]
// @Router /study-plan/session/{sessionId} [put]
func (c *StudyPlanController) UpdateSession(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	sessionID, ok := pathID(ctx, "sessionId", "Session")
	if !ok {
		return
	}

	var req dto.UpdateSessionRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	session, err := c.studyPlanService.UpdateSession(ctx.Request.Context(), userID, sessionID, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(session, "Session updated"))
}
