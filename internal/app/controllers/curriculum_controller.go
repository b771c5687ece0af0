package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/yigit/acetrack/internal/app/models/dto"
	"github.com/yigit/acetrack/internal/app/services"
	"github.com/yigit/acetrack/internal/middleware"
)

// CurriculumController handles the shared curriculum
type CurriculumController struct {
	curriculumService *services.CurriculumService
	logger            zerolog.Logger
}

// NewCurriculumController creates a new CurriculumController
func NewCurriculumController(curriculumService *services.CurriculumService, logger zerolog.Logger) *CurriculumController {
	return &CurriculumController{curriculumService: curriculumService, logger: logger}
}

// List returns every curriculum topic
// @Summary List curriculum
// @Tags curriculum
// @Produce json
// @Success 200 {object} dto.APIResponse{data=[]models.CurriculumTopic}
// @Router /curriculum [get]
func (c *CurriculumController) List(ctx *gin.Context) {
	topics, err := c.curriculumService.List(ctx.Request.Context())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(topics, ""))
}

// AddTopic adds a topic and notifies everyone
// @Summary Add a curriculum topic
// @Tags curriculum
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateTopicRequest true "Topic"
// @Success 201 {object} dto.APIResponse{data=models.CurriculumTopic} "Topic added"
// @Failure 400 {object} dto.APIResponse "Missing required fields"
// @Failure 401 {object} dto.APIResponse "Faculty only"
// @Failure 409 {object} dto.APIResponse "Topic already exists in curriculum"
// @Router /curriculum [post]
func (c *CurriculumController) AddTopic(ctx *gin.Context) {
	var req dto.CreateTopicRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	topic, err := c.curriculumService.AddTopic(ctx.Request.Context(), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	c.logger.Info().Int64("topicID", topic.ID).Str("subject", topic.Subject).Msg("Curriculum topic added")
	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(topic, "Topic added to curriculum"))
}

// DeleteTopic removes a topic
// @Summary Delete a curriculum topic
// @Tags curriculum
// @Produce json
// @Security BearerAuth
// @Param id path int true "Topic ID"
// @Success 200 {object} dto.APIResponse "Topic deleted"
// @Failure 401 {object} dto.APIResponse "Faculty only"
// @Failure 404 {object} dto.APIResponse "Topic not found"
// @Router /curriculum/{id} [delete]
func (c *CurriculumController) DeleteTopic(ctx *gin.Context) {
	id, ok := pathID(ctx, "id", "Topic")
	if !ok {
		return
	}

	if err := c.curriculumService.DeleteTopic(ctx.Request.Context(), id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	c.logger.Info().Int64("topicID", id).Msg("Curriculum topic deleted")
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(nil, "Topic deleted"))
}
