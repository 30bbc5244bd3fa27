package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/library-management/internal/auth"
)

// RequirePermission returns middleware that rejects requests whose
// authenticated role does not grant every listed permission. It assumes
// JWTAuth ran earlier and stored the identity in the context; a missing
// identity is treated as forbidden.
func RequirePermission(perms ...auth.Permission) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ident, ok := CurrentIdentity(c)
			if !ok {
				return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
			}
			for _, p := range perms {
				if !auth.HasPermission(ident.Role, p) {
					return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
				}
			}
			return next(c)
		}
	}
}
