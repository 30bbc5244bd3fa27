package middleware // middleware provides reusable HTTP middleware for the API

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/library-management/internal/auth"
	"github.com/iliyamo/library-management/internal/model"
)

// identityKey is the context key under which the resolved identity is
// stored for handlers and downstream middleware.
const identityKey = "identity"

// Authenticator resolves a raw bearer token of the expected kind to an
// identity. Implemented by the auth service; validation covers the
// signature, expiry, the revocation ledger and the account state.
type Authenticator interface {
	Validate(ctx context.Context, raw, kind string) (auth.Identity, error)
}

// JWTAuth returns middleware that requires a valid access token on every
// request. The resolved identity is stored in the context; use
// CurrentIdentity to read it back. Validation failures map to 401,
// except a disabled account which maps to 403.
func JWTAuth(a Authenticator) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get("Authorization")
			if !strings.HasPrefix(header, "Bearer ") {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing bearer token"})
			}
			raw := strings.TrimPrefix(header, "Bearer ")

			ident, err := a.Validate(c.Request().Context(), raw, model.TokenKindAccess)
			if err != nil {
				if errors.Is(err, auth.ErrUserDisabled) {
					return c.JSON(http.StatusForbidden, echo.Map{"error": "account disabled"})
				}
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid token"})
			}

			c.Set(identityKey, ident)
			return next(c)
		}
	}
}

// CurrentIdentity returns the identity stored by JWTAuth, if any.
func CurrentIdentity(c echo.Context) (auth.Identity, bool) {
	ident, ok := c.Get(identityKey).(auth.Identity)
	return ident, ok
}
