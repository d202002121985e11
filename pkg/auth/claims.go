package auth

import (
	"slices"

	"github.com/golang-jwt/jwt/v5"
)

// Claims are the JWT claims issued by the marketplace identity provider. The
// subject is the marketplace user ID.
type Claims struct {
	jwt.RegisteredClaims
	Roles []string `json:"roles"`
}

// UserID returns the token subject.
func (c Claims) UserID() string { return c.Subject }

// HasRole checks if the claims include the specified role.
func (c Claims) HasRole(role string) bool {
	return slices.Contains(c.Roles, role)
}

// Marketplace roles.
const (
	RoleBuyer   = "buyer"
	RoleOwner   = "owner"
	RoleAgent   = "agent"
	RoleBuilder = "builder"
	RoleAdmin   = "admin"
)
