package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gustoapp/auth-service/internal/domain"
	"github.com/gustoapp/auth-service/internal/dto"
)

// writeError maps a typed auth failure to its HTTP status. Messages stay
// generic: credential failures never reveal whether the account exists, and
// OAuth failures never leak provider internals.
func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrValidationFailed):
		c.JSON(http.StatusUnprocessableEntity, dto.ErrorResponse{
			Error:   "Validation failed",
			Message: err.Error(),
		})
	case errors.Is(err, domain.ErrAlreadyExists):
		c.JSON(http.StatusConflict, dto.ErrorResponse{
			Error:   "Conflict",
			Message: "user with this email already exists",
		})
	case errors.Is(err, domain.ErrProviderMismatch):
		c.JSON(http.StatusConflict, dto.ErrorResponse{
			Error:   "Conflict",
			Message: "account uses a different sign-in method",
		})
	case errors.Is(err, domain.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, dto.ErrorResponse{
			Error:   "Unauthorized",
			Message: "invalid email or password",
		})
	case errors.Is(err, domain.ErrInvalidToken), errors.Is(err, domain.ErrUserNotFound):
		c.JSON(http.StatusUnauthorized, dto.ErrorResponse{
			Error:   "Unauthorized",
			Message: "invalid or expired token",
		})
	case errors.Is(err, domain.ErrOAuthExchangeFailed):
		c.JSON(http.StatusUnauthorized, dto.ErrorResponse{
			Error:   "Unauthorized",
			Message: "sign-in with the provider failed, restart the flow",
		})
	case errors.Is(err, domain.ErrInactiveAccount):
		c.JSON(http.StatusForbidden, dto.ErrorResponse{
			Error:   "Forbidden",
			Message: "account is inactive",
		})
	case errors.Is(err, domain.ErrForbidden):
		c.JSON(http.StatusForbidden, dto.ErrorResponse{
			Error:   "Forbidden",
			Message: "insufficient role",
		})
	default:
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{
			Error:   "Internal server error",
			Message: "something went wrong",
		})
	}
}
