package auth

import (
	"errors"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

// ErrNoToken is returned when the request context holds no parsed JWT.
var ErrNoToken = errors.New("no token in request context")

// ContextClaims is the caller identity extracted from a validated access token.
type ContextClaims struct {
	UserID   uint
	Username string
	IsStaff  bool
}

// FromContext extracts caller claims from the JWT the echo-jwt middleware
// stored on the request context.
func FromContext(c echo.Context) (*ContextClaims, error) {
	token, ok := c.Get("user").(*jwt.Token)
	if !ok {
		return nil, ErrNoToken
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrNoToken
	}

	uid, ok := claims["user_id"].(float64)
	if !ok {
		return nil, ErrNoToken
	}

	username, _ := claims["username"].(string)
	isStaff, _ := claims["is_staff"].(bool)

	return &ContextClaims{
		UserID:   uint(uid),
		Username: username,
		IsStaff:  isStaff,
	}, nil
}
