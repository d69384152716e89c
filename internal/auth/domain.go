package auth

import "github.com/golang-jwt/jwt/v5"

// Claims is the bearer token payload issued by the platform's identity
// service. The tenant and impersonation flags are custom claims; the
// subject is the user ID.
type Claims struct {
	TenantID      string `json:"tid"`
	Role          string `json:"role,omitempty"`
	Impersonating bool   `json:"imp,omitempty"`
	jwt.RegisteredClaims
}
