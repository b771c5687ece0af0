package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/yigit/acetrack/internal/app/models/dto"
	"github.com/yigit/acetrack/internal/app/services"
	"github.com/yigit/acetrack/internal/middleware"
	"github.com/yigit/acetrack/internal/pkg/helpers"
)

// QuizController handles quiz attempts and the quiz catalog
type QuizController struct {
	quizService *services.QuizService
	logger      zerolog.Logger
}

// NewQuizController creates a new QuizController
func NewQuizController(quizService *services.QuizService, logger zerolog.Logger) *QuizController {
	return &QuizController{quizService: quizService, logger: logger}
}

// RecordAttempt stores a finished quiz
// @Summary Record a quiz attempt
// @Description Score defaults to the percentage of correct answers. Updates the caller's quiz statistics.
// @Tags quiz
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.RecordQuizAttemptRequest true "Attempt"
// @Success 201 {object} dto.APIResponse{data=dto.IDResponse} "Quiz attempt recorded"
// @Failure 400 {object} dto.APIResponse "Missing required fields"
// @Failure 401 {object} dto.APIResponse "Unauthorized"
// @Router /quiz/attempt [post]
func (c *QuizController) RecordAttempt(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}

	var req dto.RecordQuizAttemptRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	id, err := c.quizService.RecordAttempt(ctx.Request.Context(), userID, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(dto.IDResponse{ID: id}, "Quiz attempt recorded"))
}

// History lists the caller's attempts
// @Summary Quiz history
// @Tags quiz
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number" default(1)
// @Param size query int false "Page size" default(10)
// @Success 200 {object} dto.APIResponse{data=dto.PaginatedResponse}
// @Failure 401 {object} dto.APIResponse "Unauthorized"
// @Router /quiz/history [get]
func (c *QuizController) History(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}

	page, size := helpers.ParsePaginationParams(ctx)
	history, err := c.quizService.History(ctx.Request.Context(), userID, page, size)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(history, ""))
}

// ListQuizzes lists catalog quizzes
// @Summary List quizzes
// @Tags quiz
// @Produce json
// @Security BearerAuth
// @Param subject_id query string false "Subject filter"
// @Success 200 {object} dto.APIResponse{data=[]models.Quiz}
// @Router /quiz/quizzes [get]
func (c *QuizController) ListQuizzes(ctx *gin.Context) {
	quizzes, err := c.quizService.ListQuizzes(ctx.Request.Context(), ctx.Query("subject_id"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(quizzes, ""))
}

// GetQuiz returns a catalog quiz with its questions
// @Summary Get a quiz
// @Tags quiz
// @Produce json
// @Security BearerAuth
// @Param id path int true "Quiz ID"
// @Success 200 {object} dto.APIResponse{data=models.Quiz}
// @Failure 404 {object} dto.APIResponse "Quiz not found"
// @Router /quiz/quizzes/{id} [get]
func (c *QuizController) GetQuiz(ctx *gin.Context) {
	id, ok := pathID(ctx, "id", "Quiz")
	if !ok {
		return
	}

	quiz, err := c.quizService.GetQuiz(ctx.Request.Context(), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(quiz, ""))
}
