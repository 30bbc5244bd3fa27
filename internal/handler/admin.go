package handler

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/library-management/internal/auth"
	"github.com/iliyamo/library-management/internal/middleware"
	"github.com/iliyamo/library-management/internal/queue"
	queue_publisher "github.com/iliyamo/library-management/internal/service"
)

// AdminHandler exposes the admin-only account operations. Rank rules are
// enforced in the auth service; the permission middleware on the route
// group is just the first gate.
type AdminHandler struct {
	Auth   *auth.Service
	Events func(ctx context.Context, ev queue.AuthEvent) error
}

func NewAdminHandler(svc *auth.Service) *AdminHandler {
	return &AdminHandler{Auth: svc, Events: queue_publisher.PublishAuthEvent}
}

type changeRoleReq struct {
	Role string `json:"role"`
}
type setEnabledReq struct {
	Enabled *bool `json:"enabled"`
}

func targetID(c echo.Context) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	return id, err == nil && id != 0
}

func (h *AdminHandler) publish(ev queue.AuthEvent) {
	if h.Events == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = h.Events(ctx, ev)
	}()
}

// ChangeRole moves a user to a new role and revokes their tokens.
func (h *AdminHandler) ChangeRole(c echo.Context) error {
	ident, ok := middleware.CurrentIdentity(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, ok := targetID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid user id"})
	}
	var req changeRoleReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	if err := h.Auth.ChangeRole(ctx, ident, id, auth.Role(req.Role)); err != nil {
		return writeAuthError(c, err)
	}
	h.publish(queue.AuthEvent{Type: queue.TypeRoleChanged, UserID: id, Role: req.Role, ActorID: ident.UserID, At: time.Now().UTC().Format(time.RFC3339)})
	return c.NoContent(http.StatusNoContent)
}

// SetEnabled enables or disables an account. Disabling also revokes all
// of the account's tokens.
func (h *AdminHandler) SetEnabled(c echo.Context) error {
	ident, ok := middleware.CurrentIdentity(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, ok := targetID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid user id"})
	}
	var req setEnabledReq
	if err := c.Bind(&req); err != nil || req.Enabled == nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "enabled required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	if err := h.Auth.SetEnabled(ctx, ident, id, *req.Enabled); err != nil {
		return writeAuthError(c, err)
	}
	if !*req.Enabled {
		h.publish(queue.AuthEvent{Type: queue.TypeUserDisabled, UserID: id, ActorID: ident.UserID, At: time.Now().UTC().Format(time.RFC3339)})
	}
	return c.NoContent(http.StatusNoContent)
}

// DeleteUser hard-deletes an account; token rows cascade with it.
func (h *AdminHandler) DeleteUser(c echo.Context) error {
	ident, ok := middleware.CurrentIdentity(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, ok := targetID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid user id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	if err := h.Auth.DeleteUser(ctx, ident, id); err != nil {
		return writeAuthError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
