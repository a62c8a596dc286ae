package models

import "github.com/golang-jwt/jwt/v5"

// Claims is the JWT claims structure issued by the identity provider.
// Only the fields the server actually inspects are declared; anything else
// in the token is ignored.
type Claims struct {
	jwt.RegisteredClaims
	Email string `json:"email"`
	Role  string `json:"role"` // "authenticated" or "anon"
}

// GetUserID returns the user id from the subject claim. This is the value
// recorded in page attribution fields (created_by, last_edited_by).
func (c *Claims) GetUserID() string {
	return c.Subject
}
