package auth

import "slices"

// HasRole reports whether user holds one of the required roles.
// A nil user never passes.
func HasRole(user *User, required ...Role) bool {
	if user == nil {
		return false
	}
	return slices.Contains(required, user.Role)
}
