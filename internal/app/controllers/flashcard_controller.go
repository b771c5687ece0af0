package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/yigit/acetrack/internal/app/models/dto"
	"github.com/yigit/acetrack/internal/app/services"
	"github.com/yigit/acetrack/internal/middleware"
)

// FlashcardController handles the caller's flashcards
type FlashcardController struct {
	flashcardService *services.FlashcardService
	logger           zerolog.Logger
}

// NewFlashcardController creates a new FlashcardController
func NewFlashcardController(flashcardService *services.FlashcardService, logger zerolog.Logger) *FlashcardController {
	return &FlashcardController{flashcardService: flashcardService, logger: logger}
}

// Subjects lists the subjects the caller has cards for
// @Summary Flashcard subjects
// @Tags flashcards
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=[]string}
// @Router /flashcards/subjects [get]
func (c *FlashcardController) Subjects(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}

	subjects, err := c.flashcardService.Subjects(ctx.Request.Context(), userID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(subjects, ""))
}

// BySubject lists the caller's cards of one subject
// @Summary Flashcards of a subject
// @Tags flashcards
// @Produce json
// @Security BearerAuth
// @Param subjectId path string true "Subject ID"
// @Success 200 {object} dto.APIResponse{data=[]models.Flashcard}
// @Router /flashcards/subject/{subjectId} [get]
func (c *FlashcardController) BySubject(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}

	cards, err := c.flashcardService.BySubject(ctx.Request.Context(), userID, ctx.Param("subjectId"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(cards, ""))
}

// Create adds a flashcard due today
// @Summary Create a flashcard
// @Tags flashcards
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateFlashcardRequest true "Card"
// @Success 201 {object} dto.APIResponse{data=models.Flashcard} "Flashcard created"
// @Failure 400 {object} dto.APIResponse "Invalid request"
// @Router /flashcards [post]
func (c *FlashcardController) Create(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}

	var req dto.CreateFlashcardRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	card, err := c.flashcardService.Create(ctx.Request.Context(), userID, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(card, "Flashcard created"))
}

// Review records a review and schedules the next one
// @Summary Review a flashcard
// @Tags flashcards
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Flashcard ID"
// @Param request body dto.ReviewFlashcardRequest true "Outcome"
// @Success 200 {object} dto.APIResponse{data=models.Flashcard} "Flashcard reviewed"
// @Failure 404 {object} dto.APIResponse "Flashcard not found"
// @Router /flashcards/{id}/review [put]
func (c *FlashcardController) Review(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	cardID, ok := pathID(ctx, "id", "Flashcard")
	if !ok {
		return
	}

	var req dto.ReviewFlashcardRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	card, err := c.flashcardService.Review(ctx.Request.Context(), userID, cardID, *req.Correct)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(card, "Flashcard reviewed"))
}

// Delete removes a flashcard
// @Summary Delete a flashcard
// @Tags flashcards
// @Produce json
// @Security BearerAuth
// @Param id path int true "Flashcard ID"
// @Success 200 {object} dto.APIResponse "Flashcard deleted"
// @Failure 404 {object} dto.APIResponse "Flashcard not found"
// @Router /flashcards/{id} [delete]
func (c *FlashcardController) Delete(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	cardID, ok := pathID(ctx, "id", "Flashcard")
	if !ok {
		return
	}

	if err := c.flashcardService.Delete(ctx.Request.Context(), userID, cardID); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(nil, "Flashcard deleted"))
}
