// Package ctxkeys defines typed context keys shared between middleware and
// handlers. Both packages import this one, so neither needs the other for
// context key types.
package ctxkeys

// Key is a typed string used as context key to prevent collisions.
type Key string

const (
	UserID   Key = "userID"
	UserRole Key = "userRole"
)

// ValidRoles lists all valid role strings.
var ValidRoles = map[string]bool{
	"viewer":      true,
	"hr_officer":  true,
	"hr_manager":  true,
	"admin":       true,
	"super_admin": true,
}

// RoleLevel maps role names to permission levels.
// Hierarchy: super_admin > admin > hr_manager > hr_officer > viewer.
var RoleLevel = map[string]int{
	"viewer":      1,
	"hr_officer":  2,
	"hr_manager":  3,
	"admin":       4,
	"super_admin": 5,
}
