package models

import "github.com/golang-jwt/jwt/v5"

// AccessClaims is the JWT claims structure issued by the identity provider.
type AccessClaims struct {
	jwt.RegisteredClaims        // Standard JWT claims (sub, iss, aud, exp, iat, etc.)
	Email                string `json:"email"`
	Username             string `json:"username"`
	Role                 string `json:"role"`     // "authenticated" or "anon"
	IsStaff              bool   `json:"is_staff"` // moderation privilege
}

// GetUserID returns the user ID from the JWT subject claim.
func (c *AccessClaims) GetUserID() string {
	return c.Subject
}
