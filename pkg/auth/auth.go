package auth

import (
	"context"

	"github.com/golang-jwt/jwt/v4"
)

var JWTKey = []byte("library-management-secret-key-2024")

const (
	XUserNameHeader = "X-User-Name"
	XUserRoleHeader = "X-User-Role"
)

const (
	RoleAdmin  = "admin"
	RoleMember = "member"
)

type Claims struct {
	Profile struct {
		Username string `json:"username"`
		Role     string `json:"role"`
	} `json:"profile"`
	jwt.RegisteredClaims
}

type ctxKey int

const authKey ctxKey = iota

type identity struct {
	username string
	role     string
}

func SetAuthContext(ctx context.Context, username, role string) context.Context {
	return context.WithValue(ctx, authKey, identity{username: username, role: role})
}

// UserFromContext returns the authenticated username and role,
// empty strings if the request never passed authentication.
func UserFromContext(ctx context.Context) (string, string) {
	id, ok := ctx.Value(authKey).(identity)
	if !ok {
		return "", ""
	}
	return id.username, id.role
}
