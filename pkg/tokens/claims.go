package tokens

import "github.com/golang-jwt/jwt/v5"

// Claims is the payload shared by access and refresh tokens:
// {username, email, id?, role, iat, exp}.
type Claims struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	ID       string `json:"id,omitempty"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

// Complete reports whether every identity claim the authorization checks rely on is present.
func (c *Claims) Complete() bool {
	return c.Username != "" && c.Email != "" && c.Role != ""
}

// SameIdentity compares username, email and role.
func (c *Claims) SameIdentity(o *Claims) bool {
	return c.Username == o.Username && c.Email == o.Email && c.Role == o.Role
}

// Identity returns a copy carrying only the identity claims, ready to be re-signed.
func (c *Claims) Identity() Claims {
	return Claims{Username: c.Username, Email: c.Email, ID: c.ID, Role: c.Role}
}
