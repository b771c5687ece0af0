package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/yigit/acetrack/internal/app/models/dto"
	"github.com/yigit/acetrack/internal/app/services"
	"github.com/yigit/acetrack/internal/middleware"
)

// ParentController serves the parent view of a linked student
type ParentController struct {
	parentService *services.ParentService
	logger        zerolog.Logger
}

// NewParentController creates a new ParentController
func NewParentController(parentService *services.ParentService, logger zerolog.Logger) *ParentController {
	return &ParentController{parentService: parentService, logger: logger}
}

// LinkStudent links the caller to a student by code
// @Summary Link a student
// @Tags parent
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.LinkStudentRequest true "Student code"
// @Success 200 {object} dto.APIResponse{data=dto.IDResponse} "Student linked"
// @Failure 400 {object} dto.APIResponse "Student code is required"
// @Failure 401 {object} dto.APIResponse "Unauthorized"
// @Failure 404 {object} dto.APIResponse "Student not found"
// @Router /parent/link [post]
func (c *ParentController) LinkStudent(ctx *gin.Context) {
	parentID, ok := currentUserID(ctx)
	if !ok {
		return
	}

	var req dto.LinkStudentRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	studentID, err := c.parentService.LinkStudent(ctx.Request.Context(), parentID, &req)
	if err != nil {
		c.logger.Warn().Err(err).Int64("parentID", parentID).Msg("Failed to link student")
		middleware.HandleAPIError(ctx, err)
		return
	}

	c.logger.Info().Int64("parentID", parentID).Int64("studentID", studentID).Msg("Student linked")
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.IDResponse{ID: studentID}, "Student linked successfully"))
}

// ChildData returns everything the parent may see about the linked student
// @Summary Linked student data
// @Tags parent
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=dto.ChildDataResponse}
// @Failure 401 {object} dto.APIResponse "Unauthorized"
// @Failure 404 {object} dto.APIResponse "No linked student found"
// @Router /parent/child-data [get]
func (c *ParentController) ChildData(ctx *gin.Context) {
	parentID, ok := currentUserID(ctx)
	if !ok {
		return
	}

	data, err := c.parentService.ChildData(ctx.Request.Context(), parentID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(data, ""))
}
