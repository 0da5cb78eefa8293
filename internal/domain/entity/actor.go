package entity

import "strings"

// Role of an authenticated actor
type Role string

const (
	RoleExplorer Role = "explorer"
	RoleManager  Role = "manager"
	RoleSponsor  Role = "sponsor"
	RoleAdmin    Role = "admin"
)

// ParseRole normalizes a role claim. The second value is false for unknown roles.
func ParseRole(s string) (Role, bool) {
	switch r := Role(strings.ToLower(strings.TrimSpace(s))); r {
	case RoleExplorer, RoleManager, RoleSponsor, RoleAdmin:
		return r, true
	}
	return "", false
}

// Actor is an already-verified identity handed to the core by the auth layer
type Actor struct {
	ID   string
	Role Role
}

func (a Actor) IsAdmin() bool { return a.Role == RoleAdmin }
func (a Actor) IsManager() bool { return a.Role == RoleManager }
func (a Actor) IsExplorer() bool { return a.Role == RoleExplorer }

// ActorSummary is the client-safe projection of an actor used when populating references
type ActorSummary struct {
	ID      string `json:"id"`
	Name    string `json:"name,omitempty"`
	Surname string `json:"surname,omitempty"`
	Email   string `json:"email,omitempty"`
}
