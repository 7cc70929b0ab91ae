package auth

import "github.com/mdrrmo/respond/internal/shared/types"

// Role identifies the actor's position in the reporting hierarchy.
type Role string

const (
	RoleAdmin    Role = "admin"
	RoleBarangay Role = "barangay"
)

// Actor represents the authenticated user from JWT claims
type Actor struct {
	ID           types.ID `json:"sub"`
	Role         Role     `json:"role"`
	BarangayName string   `json:"barangay_name"`
	Municipality string   `json:"municipality"`
}

// HasRole checks if the actor holds the given role
func (a *Actor) HasRole(role Role) bool {
	return a != nil && a.Role == role
}

// IsAdmin checks if the actor is a municipal administrator
func (a *Actor) IsAdmin() bool {
	return a.HasRole(RoleAdmin)
}
