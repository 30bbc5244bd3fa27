package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/library-management/internal/auth"
)

// writeAuthError is the single translation point from core auth errors
// to HTTP responses. The core never constructs transport responses; any
// new error kind gets a row here and nowhere else.
func writeAuthError(c echo.Context, err error) error {
	var verr *auth.ValidationError
	if errors.As(err, &verr) {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error":   "validation failed",
			"details": verr.Violations,
		})
	}
	switch {
	case errors.Is(err, auth.ErrDuplicateEmail):
		return c.JSON(http.StatusConflict, echo.Map{"error": "email already exists"})
	case errors.Is(err, auth.ErrInvalidCredentials):
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
	case errors.Is(err, auth.ErrAccountDisabled), errors.Is(err, auth.ErrUserDisabled):
		return c.JSON(http.StatusForbidden, echo.Map{"error": "account disabled"})
	case errors.Is(err, auth.ErrInvalidSignature),
		errors.Is(err, auth.ErrMalformedToken),
		errors.Is(err, auth.ErrWrongTokenKind),
		errors.Is(err, auth.ErrTokenExpired),
		errors.Is(err, auth.ErrTokenRevoked):
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid token"})
	case errors.Is(err, auth.ErrUserNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
	case errors.Is(err, auth.ErrInsufficientPrivilege):
		return c.JSON(http.StatusForbidden, echo.Map{"error": "insufficient privilege"})
	case errors.Is(err, auth.ErrSigning):
		c.Logger().Errorf("token signing unavailable: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	default:
		c.Logger().Errorf("auth operation failed: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}
}
