package entity

// Role represents an authorization role persisted on the users table.
// Access tokens carry the role resolved at login time.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// Valid reports whether the role is one of the known values.
func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAdmin
}

// Roles is a collection of roles.
type Roles []Role

// ToStrings converts the roles to their string representations.
func (rs Roles) ToStrings() []string {
	out := make([]string, 0, len(rs))
	for _, r := range rs {
		out = append(out, string(r))
	}

	return out
}
