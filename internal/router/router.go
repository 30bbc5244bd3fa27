// Package router wires HTTP routes to their handlers and middleware.
package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/library-management/internal/auth"
	"github.com/iliyamo/library-management/internal/handler"
	"github.com/iliyamo/library-management/internal/middleware"
)

// RegisterRoutes registers every route of the service.
//
// Unauthenticated session operations live under /v1/auth and carry the
// rate limiter so login cannot be brute-forced. Protected endpoints live
// under /v1 behind the JWT middleware; the admin account operations are
// additionally gated by permissions derived from the caller's role.
func RegisterRoutes(e *echo.Echo, a *handler.AuthHandler, adm *handler.AdminHandler, svc *auth.Service, rateLimit echo.MiddlewareFunc) {
	e.GET("/healthz", handler.Health)

	// Session endpoints: no JWT required, rate limited.
	g := e.Group("/v1/auth")
	if rateLimit != nil {
		g.Use(rateLimit)
	}
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)
	g.POST("/refresh", a.Refresh)
	// Logout accepts either a bearer access token or a refresh token in
	// the body, so it stays outside the JWT middleware.
	g.POST("/logout", a.Logout)

	// Protected endpoints: a valid, unrevoked access token is required.
	v1 := e.Group("/v1")
	v1.Use(middleware.JWTAuth(svc))
	v1.GET("/me", a.Me)
	v1.PUT("/me/password", a.ChangePassword)
	v1.POST("/logout-all", a.LogoutAll)

	// Admin account operations. The permission gate is the first check;
	// the auth service re-verifies rank rules against the target.
	users := v1.Group("/users")
	users.PUT("/:id/role", adm.ChangeRole, middleware.RequirePermission(auth.PermAdminUpdate))
	users.PUT("/:id/enabled", adm.SetEnabled, middleware.RequirePermission(auth.PermAdminUpdate))
	users.DELETE("/:id", adm.DeleteUser, middleware.RequirePermission(auth.PermAdminDelete))
}
