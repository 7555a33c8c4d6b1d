package user

import "time"

// Roles
const (
	RoleStudent = "student"
	RoleAdmin   = "admin"
)

var AllRoles = []string{RoleStudent, RoleAdmin}

// Profile maps a verified identity to its application role and display name.
// ID is the account ID issued by the identity provider; every other entity
// referencing a user does so through this ID.
type Profile struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"createdAt"` // UTC
}

func (p *Profile) IsAdmin() bool {
	return p.Role == RoleAdmin
}

func (p *Profile) IsStudent() bool {
	return p.Role == RoleStudent
}
