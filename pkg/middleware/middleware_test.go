package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	"github.com/ibragimovrs/library-catalog/pkg/auth"
	md "github.com/ibragimovrs/library-catalog/pkg/middleware"
)

func issueToken(t *testing.T, username, role string, expiresAt time.Time) string {
	t.Helper()
	claims := &auth.Claims{}
	claims.Profile.Username = username
	claims.Profile.Role = role
	claims.RegisteredClaims = jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(expiresAt),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(auth.JWTKey)
	require.NoError(t, err)
	return token
}

func newEcho(handler echo.HandlerFunc, mw ...echo.MiddlewareFunc) *echo.Echo {
	e := echo.New()
	e.GET("/protected", handler, mw...)
	return e
}

func TestJwtAuthentication(t *testing.T) {
	t.Parallel()

	e := newEcho(func(c echo.Context) error {
		username, role := auth.UserFromContext(c.Request().Context())
		return c.String(http.StatusOK, username+"/"+role)
	}, md.JwtAuthentication)

	t.Run("valid token", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/protected", http.NoBody)
		r.Header.Set(md.AuthorizationHeader, "Bearer "+issueToken(t, "alice", auth.RoleMember, time.Now().Add(time.Hour)))
		w := httptest.NewRecorder()
		e.ServeHTTP(w, r)
		require.Equal(t, http.StatusOK, w.Code)
		require.Equal(t, "alice/member", w.Body.String())
	})

	t.Run("no header", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/protected", http.NoBody)
		w := httptest.NewRecorder()
		e.ServeHTTP(w, r)
		require.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("garbage token", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/protected", http.NoBody)
		r.Header.Set(md.AuthorizationHeader, "Bearer not-a-token")
		w := httptest.NewRecorder()
		e.ServeHTTP(w, r)
		require.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("expired token", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/protected", http.NoBody)
		r.Header.Set(md.AuthorizationHeader, "Bearer "+issueToken(t, "alice", auth.RoleMember, time.Now().Add(-time.Hour)))
		w := httptest.NewRecorder()
		e.ServeHTTP(w, r)
		require.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestAdminRequired(t *testing.T) {
	t.Parallel()

	e := newEcho(func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	}, md.JwtAuthentication, md.AdminRequired)

	t.Run("admin passes", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/protected", http.NoBody)
		r.Header.Set(md.AuthorizationHeader, "Bearer "+issueToken(t, "admin", auth.RoleAdmin, time.Now().Add(time.Hour)))
		w := httptest.NewRecorder()
		e.ServeHTTP(w, r)
		require.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("member rejected", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/protected", http.NoBody)
		r.Header.Set(md.AuthorizationHeader, "Bearer "+issueToken(t, "alice", auth.RoleMember, time.Now().Add(time.Hour)))
		w := httptest.NewRecorder()
		e.ServeHTTP(w, r)
		require.Equal(t, http.StatusForbidden, w.Code)
	})
}
