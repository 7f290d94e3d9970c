package auth

import "github.com/golang-jwt/jwt/v5"

// Claims are the only supported JWT claims shape for this service.
// A single administrative identity is embedded as Username; there is no
// role or tenant dimension.
type Claims struct {
	jwt.RegisteredClaims

	Username string `json:"username"`
}
