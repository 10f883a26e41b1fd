package domain

// Role is the closed set of actor roles. Access rules switch on it
// exhaustively; adding a role means touching every switch.
type Role string

const (
	RolePractitioner Role = "practitioner"
	RoleReviewer     Role = "reviewer"
	RoleAdmin        Role = "admin"
)

// ParseRole maps a stored role string onto the closed set. Anything
// unrecognized degrades to practitioner (least privilege).
func ParseRole(s string) Role {
	switch Role(s) {
	case RoleReviewer:
		return RoleReviewer
	case RoleAdmin:
		return RoleAdmin
	default:
		return RolePractitioner
	}
}
