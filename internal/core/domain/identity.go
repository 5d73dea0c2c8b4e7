package domain

// Role is a coarse permission level attached to an authenticated identity.
type Role string

const (
	RoleUser     Role = "user"
	RoleOperator Role = "operator"
	RoleAdmin    Role = "admin"
)

// Identity is the resolved caller of an operation. Operators are scoped
// to the marketplace domains they manage.
type Identity struct {
	SubjectID       string   `json:"subject_id"`
	Roles           []Role   `json:"roles"`
	OperatorDomains []string `json:"operator_domains,omitempty"`
}

// Authenticated reports whether the identity was resolved at all.
func (id Identity) Authenticated() bool {
	return id.SubjectID != ""
}

// IsAdmin reports whether the identity carries the admin role.
func (id Identity) IsAdmin() bool {
	return id.hasRole(RoleAdmin)
}

// IsOperatorFor reports whether the identity may operate orders in the
// given domain. Admins pass every operator gate.
func (id Identity) IsOperatorFor(domain string) bool {
	if id.IsAdmin() {
		return true
	}
	if !id.hasRole(RoleOperator) {
		return false
	}
	for _, d := range id.OperatorDomains {
		if d == domain {
			return true
		}
	}
	return false
}

func (id Identity) hasRole(role Role) bool {
	for _, r := range id.Roles {
		if r == role {
			return true
		}
	}
	return false
}
