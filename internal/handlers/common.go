// internal/handlers/common.go
package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/zaukho/zaukho-backend/internal/services"
	"github.com/zaukho/zaukho-backend/internal/utils"
)

// respondServiceError maps the service error taxonomy onto HTTP statuses.
func respondServiceError(c *gin.Context, err error) {
	var validationErrs services.ValidationErrors
	switch {
	case errors.As(err, &validationErrs):
		utils.ErrorResponse(c, 400, "VALIDATION_ERROR", "Invalid input", validationErrs)
	case errors.Is(err, services.ErrNotFound):
		utils.NotFoundResponse(c, "")
	case errors.Is(err, services.ErrConflict):
		utils.ConflictResponse(c, err.Error())
	case errors.Is(err, services.ErrForbidden):
		utils.ForbiddenResponse(c, "")
	case errors.Is(err, services.ErrInvalidCredentials),
		errors.Is(err, services.ErrInvalidToken),
		errors.Is(err, services.ErrTokenRevoked):
		utils.UnauthorizedResponse(c, err.Error())
	default:
		utils.InternalErrorResponse(c, "")
	}
}

// parseIDParam reads and validates the :id path segment.
func parseIDParam(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid id", nil)
		return uuid.Nil, false
	}
	return id, true
}
