package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/acetrack/internal/app/models/dto"
)

// BindJSON binds the request body into obj and runs its binding rules. On
// failure it writes a 400 envelope and returns false.
func BindJSON(c *gin.Context, obj interface{}) bool {
	if err := c.ShouldBindJSON(obj); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, dto.NewErrorResponse(dto.HandleValidationError(err)))
		return false
	}
	return true
}
