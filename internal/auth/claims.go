package auth

import "github.com/golang-jwt/jwt/v5"

// Claims are the only supported session token claims shape.
// The token proves identity only; tenant selection travels separately.
type Claims struct {
	jwt.RegisteredClaims

	Username string `json:"username"`
	Role     string `json:"role"`
}
