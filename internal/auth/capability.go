package auth

import (
	"slices"

	"github.com/Skotchmaster/ezwallet/pkg/tokens"
)

const RoleAdmin = "Admin"

// Capability is the closed set of authorization modes a handler can request:
// Simple, User, Admin and Group. The unexported method seals the set.
type Capability interface {
	check(claims *tokens.Claims) (ok bool, cause string)
}

// Simple only requires a valid, consistent session.
type Simple struct{}

// User requires the session to belong to Username (case-sensitive).
type User struct {
	Username string
}

// Admin requires role == "Admin".
type Admin struct{}

// Group requires the session email to be one of Emails.
type Group struct {
	Emails []string
}

const (
	CauseNotOwner   = "username does not match the related user's token"
	CauseNotAdmin   = "function reserved for admins only"
	CauseNotInGroup = "unauthorized, you are not part of the requested group"
	CauseAuthorized = "Authorized"
	CauseNoSession  = "Unauthorized"
	CauseIncomplete = "Token is missing information"
	CauseMismatch   = "Mismatched users"
	CauseLoginAgain = "Perform login again"
)

func (Simple) check(*tokens.Claims) (bool, string) {
	return true, CauseAuthorized
}

func (u User) check(c *tokens.Claims) (bool, string) {
	if c.Username != u.Username {
		return false, CauseNotOwner
	}
	return true, CauseAuthorized
}

func (Admin) check(c *tokens.Claims) (bool, string) {
	if c.Role != RoleAdmin {
		return false, CauseNotAdmin
	}
	return true, CauseAuthorized
}

func (g Group) check(c *tokens.Claims) (bool, string) {
	if !slices.Contains(g.Emails, c.Email) {
		return false, CauseNotInGroup
	}
	return true, CauseAuthorized
}
