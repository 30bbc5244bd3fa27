package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/library-management/internal/auth"
)

// stubAuthenticator returns a fixed identity or error.
type stubAuthenticator struct {
	ident auth.Identity
	err   error
	raw   string
	kind  string
}

func (s *stubAuthenticator) Validate(_ context.Context, raw, kind string) (auth.Identity, error) {
	s.raw, s.kind = raw, kind
	return s.ident, s.err
}

func runJWT(t *testing.T, a Authenticator, header string) (*httptest.ResponseRecorder, bool) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/v1/me", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	called := false
	next := func(c echo.Context) error {
		called = true
		return c.NoContent(http.StatusOK)
	}
	require.NoError(t, JWTAuth(a)(next)(c))
	return rec, called
}

func TestJWTAuthAcceptsValidToken(t *testing.T) {
	ident := auth.Identity{UserID: 7, Email: "a@x.com", Role: auth.RoleModerator}
	stub := &stubAuthenticator{ident: ident}

	rec, called := runJWT(t, stub, "Bearer sometoken")
	assert.True(t, called)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "sometoken", stub.raw)
	assert.Equal(t, "access", stub.kind)
}

func TestJWTAuthStoresIdentity(t *testing.T) {
	ident := auth.Identity{UserID: 7, Email: "a@x.com", Role: auth.RoleAdmin}
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer tok")
	c := e.NewContext(req, httptest.NewRecorder())

	next := func(c echo.Context) error {
		got, ok := CurrentIdentity(c)
		assert.True(t, ok)
		assert.Equal(t, ident, got)
		return nil
	}
	require.NoError(t, JWTAuth(&stubAuthenticator{ident: ident})(next)(c))
}

func TestJWTAuthRejections(t *testing.T) {
	tests := []struct {
		name   string
		header string
		err    error
		status int
	}{
		{"missing header", "", nil, http.StatusUnauthorized},
		{"not bearer", "Basic abc", nil, http.StatusUnauthorized},
		{"revoked token", "Bearer tok", auth.ErrTokenRevoked, http.StatusUnauthorized},
		{"expired token", "Bearer tok", auth.ErrTokenExpired, http.StatusUnauthorized},
		{"disabled account", "Bearer tok", auth.ErrUserDisabled, http.StatusForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, called := runJWT(t, &stubAuthenticator{err: tt.err}, tt.header)
			assert.False(t, called)
			assert.Equal(t, tt.status, rec.Code)
		})
	}
}

func TestRequirePermission(t *testing.T) {
	run := func(ident *auth.Identity, perm auth.Permission) (int, bool) {
		e := echo.New()
		c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())
		if ident != nil {
			c.Set("identity", *ident)
		}
		called := false
		next := func(c echo.Context) error {
			called = true
			return c.NoContent(http.StatusOK)
		}
		rec := c.Response().Writer.(*httptest.ResponseRecorder)
		require.NoError(t, RequirePermission(perm)(next)(c))
		return rec.Code, called
	}

	admin := auth.Identity{UserID: 1, Role: auth.RoleAdmin}
	mod := auth.Identity{UserID: 2, Role: auth.RoleModerator}

	code, called := run(&admin, auth.PermAdminDelete)
	assert.True(t, called)
	assert.Equal(t, http.StatusOK, code)

	code, called = run(&mod, auth.PermAdminDelete)
	assert.False(t, called)
	assert.Equal(t, http.StatusForbidden, code)

	code, called = run(nil, auth.PermModeratorRead)
	assert.False(t, called)
	assert.Equal(t, http.StatusForbidden, code)
}
