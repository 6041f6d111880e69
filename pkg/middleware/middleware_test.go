package middleware_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Astemirdum/library-management/pkg/auth"
	md "github.com/Astemirdum/library-management/pkg/middleware"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
)

// sessions maps an open session id to the user's stored role.
type sessions map[string]string

func (s sessions) SessionRole(_ context.Context, sessionID string, _ int) (string, bool, error) {
	role, ok := s[sessionID]
	return role, ok, nil
}

func TestJwtAuthentication(t *testing.T) {
	t.Parallel()
	tokens := auth.NewTokenManager(auth.Config{Secret: "secret"})
	open, err := tokens.Issue(3, auth.RoleStudent)
	require.NoError(t, err)
	closed, err := tokens.Issue(3, auth.RoleStudent)
	require.NoError(t, err)
	store := sessions{open.SessionID.String(): auth.RoleStudent}

	tests := []struct {
		name       string
		header     string
		expectCode int
	}{
		{name: "ok", header: "Bearer " + open.Value, expectCode: http.StatusOK},
		{name: "no header", header: "", expectCode: http.StatusUnauthorized},
		{name: "not bearer", header: "Basic abc", expectCode: http.StatusUnauthorized},
		{name: "bad token", header: "Bearer abc", expectCode: http.StatusUnauthorized},
		{name: "logged out", header: "Bearer " + closed.Value, expectCode: http.StatusUnauthorized},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			e := echo.New()
			e.GET("/user", func(c echo.Context) error {
				id, ok := auth.FromContext(c.Request().Context())
				require.True(t, ok)
				require.Equal(t, 3, id.UserID)
				return c.NoContent(http.StatusOK)
			}, md.JwtAuthentication(tokens, store))

			r := httptest.NewRequest(http.MethodGet, "/user", http.NoBody)
			if tt.header != "" {
				r.Header.Set(md.AuthorizationHeader, tt.header)
			}
			w := httptest.NewRecorder()
			e.ServeHTTP(w, r)
			require.Equal(t, tt.expectCode, w.Code)
		})
	}
}

func TestRequireRole(t *testing.T) {
	t.Parallel()
	e := echo.New()
	e.GET("/all", func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	}, func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			role := c.Request().Header.Get("X-Role")
			ctx := auth.SetAuthContext(c.Request().Context(), auth.Identity{UserID: 1, Role: role})
			c.SetRequest(c.Request().WithContext(ctx))
			return next(c)
		}
	}, md.RequireRole(auth.RoleAdmin, auth.RoleLibrarian))

	for role, code := range map[string]int{
		auth.RoleAdmin:     http.StatusOK,
		auth.RoleLibrarian: http.StatusOK,
		auth.RoleStudent:   http.StatusForbidden,
	} {
		r := httptest.NewRequest(http.MethodGet, "/all", http.NoBody)
		r.Header.Set("X-Role", role)
		w := httptest.NewRecorder()
		e.ServeHTTP(w, r)
		require.Equal(t, code, w.Code, role)
	}
}

func TestJwtAuthentication_StoredRoleWins(t *testing.T) {
	t.Parallel()
	tokens := auth.NewTokenManager(auth.Config{Secret: "secret"})
	tok, err := tokens.Issue(7, auth.RoleLibrarian)
	require.NoError(t, err)
	store := sessions{tok.SessionID.String(): auth.RoleStudent}

	e := echo.New()
	e.GET("/all", func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	}, md.JwtAuthentication(tokens, store), md.RequireRole(auth.RoleAdmin, auth.RoleLibrarian))
	e.GET("/user", func(c echo.Context) error {
		id, ok := auth.FromContext(c.Request().Context())
		require.True(t, ok)
		return c.String(http.StatusOK, id.Role)
	}, md.JwtAuthentication(tokens, store))

	r := httptest.NewRequest(http.MethodGet, "/all", http.NoBody)
	r.Header.Set(md.AuthorizationHeader, "Bearer "+tok.Value)
	w := httptest.NewRecorder()
	e.ServeHTTP(w, r)
	require.Equal(t, http.StatusForbidden, w.Code)

	r = httptest.NewRequest(http.MethodGet, "/user", http.NoBody)
	r.Header.Set(md.AuthorizationHeader, "Bearer "+tok.Value)
	w = httptest.NewRecorder()
	e.ServeHTTP(w, r)
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, auth.RoleStudent, w.Body.String())
}
