package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/yigit/acetrack/internal/app/models/dto"
	"github.com/yigit/acetrack/internal/pkg/apperrors"
	"github.com/yigit/acetrack/internal/pkg/logger"
)

type errorMapping struct {
	target  error
	status  int
	code    dto.ErrorCode
	message string
}

// Specific errors are matched first, in order; the generic classes at the
// end catch anything wrapped with them.
var errorMappings = []errorMapping{
	{apperrors.ErrNoUpdates, http.StatusBadRequest, dto.ErrorCodeNoUpdates, "No updates provided"},
	{apperrors.ErrStudentCodeMissing, http.StatusBadRequest, dto.ErrorCodeValidationFailed, "Student code is required"},

	{apperrors.ErrEmailAlreadyExists, http.StatusConflict, dto.ErrorCodeResourceAlreadyExists, "User already exists"},
	{apperrors.ErrStudentCodeTaken, http.StatusConflict, dto.ErrorCodeConflict, "Student code already in use"},

	{apperrors.ErrInvalidCredentials, http.StatusUnauthorized, dto.ErrorCodeInvalidCredentials, "Invalid credentials"},
	{apperrors.ErrRoleMismatch, http.StatusUnauthorized, dto.ErrorCodeRoleMismatch, "Invalid credentials for this user type"},
	{apperrors.ErrTokenExpired, http.StatusUnauthorized, dto.ErrorCodeExpiredToken, "Token expired"},
	{apperrors.ErrTokenInvalid, http.StatusUnauthorized, dto.ErrorCodeInvalidToken, "Invalid token"},
	{apperrors.ErrPermissionDenied, http.StatusUnauthorized, dto.ErrorCodeForbidden, "Access denied"},
	{apperrors.ErrUnauthorized, http.StatusUnauthorized, dto.ErrorCodeUnauthorized, "Authentication required"},

	{apperrors.ErrStudyPlanNotFound, http.StatusNotFound, dto.ErrorCodeResourceNotFound, "No active study plan found"},
	{apperrors.ErrSessionNotFound, http.StatusNotFound, dto.ErrorCodeResourceNotFound, "Session not found"},
	{apperrors.ErrStudentNotFound, http.StatusNotFound, dto.ErrorCodeResourceNotFound, "Student not found with this code"},
	{apperrors.ErrNoLinkedStudent, http.StatusNotFound, dto.ErrorCodeResourceNotFound, "No linked student found"},
	{apperrors.ErrProfileNotFound, http.StatusNotFound, dto.ErrorCodeResourceNotFound, "Profile not found"},
	{apperrors.ErrFlashcardNotFound, http.StatusNotFound, dto.ErrorCodeResourceNotFound, "Flashcard not found"},
	{apperrors.ErrQuizNotFound, http.StatusNotFound, dto.ErrorCodeResourceNotFound, "Quiz not found"},
	{apperrors.ErrNotificationNotFound, http.StatusNotFound, dto.ErrorCodeResourceNotFound, "Notification not found"},
	{apperrors.ErrTopicNotFound, http.StatusNotFound, dto.ErrorCodeResourceNotFound, "Topic not found"},
	{apperrors.ErrUserNotFound, http.StatusNotFound, dto.ErrorCodeResourceNotFound, "User not found"},

	{apperrors.ErrResourceNotFound, http.StatusNotFound, dto.ErrorCodeResourceNotFound, "Resource not found"},
	{apperrors.ErrResourceAlreadyExists, http.StatusConflict, dto.ErrorCodeResourceAlreadyExists, "Resource already exists"},
	{apperrors.ErrConflict, http.StatusConflict, dto.ErrorCodeConflict, "Conflict"},
	{apperrors.ErrBadRequest, http.StatusBadRequest, dto.ErrorCodeValidationFailed, "Bad request"},
}

// ErrorStatus resolves err to its HTTP status and error detail.
func ErrorStatus(err error) (int, *dto.ErrorDetail) {
	for _, m := range errorMappings {
		if errors.Is(err, m.target) {
			return m.status, dto.NewErrorDetail(m.code, apperrors.PublicMessage(err, m.message))
		}
	}

	if errors.Is(err, apperrors.ErrValidationFailed) {
		msg := strings.TrimPrefix(err.Error(), apperrors.ErrValidationFailed.Error()+": ")
		if msg == apperrors.ErrValidationFailed.Error() {
			msg = "Validation failed"
		}
		return http.StatusBadRequest, dto.NewErrorDetail(dto.ErrorCodeValidationFailed, apperrors.PublicMessage(err, msg))
	}

	return http.StatusInternalServerError, dto.NewErrorDetail(dto.ErrorCodeInternalServer, "Server error")
}

// HandleAPIError writes the envelope for err. Storage and other unexpected
// errors become a generic 500 and are only logged.
func HandleAPIError(c *gin.Context, err error) {
	status, detail := ErrorStatus(err)
	if status == http.StatusInternalServerError {
		logger.Error().Err(err).
			Str("method", c.Request.Method).
			Str("path", c.FullPath()).
			Msg("Request failed")
	}
	c.AbortWithStatusJSON(status, dto.NewErrorResponse(detail))
}
