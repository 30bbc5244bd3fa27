package handler

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/library-management/internal/auth"
	"github.com/iliyamo/library-management/internal/middleware"
	"github.com/iliyamo/library-management/internal/model"
	"github.com/iliyamo/library-management/internal/queue"
	queue_publisher "github.com/iliyamo/library-management/internal/service"
)

const dbTimeout = 5 * time.Second

// AuthHandler bundles dependencies for the auth endpoints. Events is the
// security event publisher; it is best-effort and may be replaced in
// tests.
type AuthHandler struct {
	Auth   *auth.Service
	Events func(ctx context.Context, ev queue.AuthEvent) error
}

func NewAuthHandler(svc *auth.Service) *AuthHandler {
	return &AuthHandler{Auth: svc, Events: queue_publisher.PublishAuthEvent}
}

// ----- DTOs -----

type registerReq struct {
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
	FirstName       string `json:"first_name"`
	LastName        string `json:"last_name"`
	Role            string `json:"role"` // USER | MODERATOR | ADMIN (default USER)
}
type loginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}
type refreshReq struct {
	RefreshToken string `json:"refresh_token"`
}
type changePasswordReq struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
	ConfirmPassword string `json:"confirm_password"`
}

type tokenPart struct {
	Token   string    `json:"token"`
	Expires time.Time `json:"expires"`
}
type userPart struct {
	ID        uint64 `json:"id"`
	Email     string `json:"email"`
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
	Role      string `json:"role"`
}
type authResp struct {
	User    userPart  `json:"user"`
	Access  tokenPart `json:"access"`
	Refresh tokenPart `json:"refresh"`
}

func userPartOf(u model.User) userPart {
	return userPart{ID: u.ID, Email: u.Email, FirstName: u.FirstName, LastName: u.LastName, Role: u.Role}
}

func pairResp(u model.User, pair auth.TokenPair) authResp {
	return authResp{
		User:    userPartOf(u),
		Access:  tokenPart{Token: pair.Access.Token, Expires: pair.Access.ExpiresAt},
		Refresh: tokenPart{Token: pair.Refresh.Token, Expires: pair.Refresh.ExpiresAt},
	}
}

// publish fires a security event without blocking the request. Failures
// are the publisher's problem; it logs them.
func (h *AuthHandler) publish(ev queue.AuthEvent) {
	if h.Events == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = h.Events(ctx, ev)
	}()
}

// Register creates a new enabled account. No tokens are returned; the
// client logs in afterwards.
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	u, err := h.Auth.Register(ctx, auth.RegisterInput{
		Email:           req.Email,
		Password:        req.Password,
		ConfirmPassword: req.ConfirmPassword,
		FirstName:       req.FirstName,
		LastName:        req.LastName,
		Role:            req.Role,
	})
	if err != nil {
		return writeAuthError(c, err)
	}

	h.publish(queue.AuthEvent{Type: queue.TypeUserRegistered, UserID: u.ID, Email: u.Email, Role: u.Role, At: time.Now().UTC().Format(time.RFC3339)})
	return c.JSON(http.StatusCreated, echo.Map{"user": userPartOf(u)})
}

// Login verifies credentials and returns a fresh access+refresh pair.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if strings.TrimSpace(req.Email) == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "email/password required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	u, pair, err := h.Auth.Login(ctx, req.Email, req.Password)
	if err != nil {
		return writeAuthError(c, err)
	}

	h.publish(queue.AuthEvent{Type: queue.TypeUserLogin, UserID: u.ID, Email: u.Email, Role: u.Role, At: time.Now().UTC().Format(time.RFC3339)})
	return c.JSON(http.StatusOK, pairResp(u, pair))
}

// Refresh exchanges a refresh token for a new pair. The presented
// refresh token is revoked in the process.
func (h *AuthHandler) Refresh(c echo.Context) error {
	var req refreshReq
	if err := c.Bind(&req); err != nil || strings.TrimSpace(req.RefreshToken) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "refresh_token required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	u, pair, err := h.Auth.Refresh(ctx, strings.TrimSpace(req.RefreshToken))
	if err != nil {
		return writeAuthError(c, err)
	}
	return c.JSON(http.StatusOK, pairResp(u, pair))
}

// Logout revokes a single token: the bearer access token when present,
// otherwise the refresh token from the body.
func (h *AuthHandler) Logout(c echo.Context) error {
	raw := ""
	if header := c.Request().Header.Get("Authorization"); strings.HasPrefix(header, "Bearer ") {
		raw = strings.TrimPrefix(header, "Bearer ")
	}
	if raw == "" {
		var req refreshReq
		_ = c.Bind(&req)
		raw = strings.TrimSpace(req.RefreshToken)
	}
	if raw == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "provide Authorization header or refresh_token"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	if err := h.Auth.Logout(ctx, raw); err != nil {
		return writeAuthError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// LogoutAll revokes every token of the authenticated user (protected).
func (h *AuthHandler) LogoutAll(c echo.Context) error {
	ident, ok := middleware.CurrentIdentity(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	if err := h.Auth.LogoutAll(ctx, ident.UserID); err != nil {
		return writeAuthError(c, err)
	}
	h.publish(queue.AuthEvent{Type: queue.TypeTokensRevoked, UserID: ident.UserID, Email: ident.Email, At: time.Now().UTC().Format(time.RFC3339)})
	return c.NoContent(http.StatusNoContent)
}

// ChangePassword re-hashes the password and revokes all existing tokens,
// forcing re-login on every device (protected).
func (h *AuthHandler) ChangePassword(c echo.Context) error {
	ident, ok := middleware.CurrentIdentity(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req changePasswordReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	if err := h.Auth.ChangePassword(ctx, ident.UserID, req.CurrentPassword, req.NewPassword, req.ConfirmPassword); err != nil {
		return writeAuthError(c, err)
	}
	h.publish(queue.AuthEvent{Type: queue.TypeTokensRevoked, UserID: ident.UserID, Email: ident.Email, At: time.Now().UTC().Format(time.RFC3339)})
	return c.NoContent(http.StatusNoContent)
}

// Me returns the authenticated identity (protected).
func (h *AuthHandler) Me(c echo.Context) error {
	ident, ok := middleware.CurrentIdentity(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"user_id":     ident.UserID,
		"email":       ident.Email,
		"role":        string(ident.Role),
		"permissions": auth.PermissionsFor(ident.Role),
	})
}
