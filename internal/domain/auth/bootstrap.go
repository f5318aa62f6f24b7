package auth

import (
	"regexp"
	"strings"
)

// BootstrapAccount is a fixed identifier whose profile is seeded on first login.
type BootstrapAccount struct {
	Identifier string
	Secret     string
	Role       Role
}

// Default bootstrap credentials. These are known literals; bootstrap logs a warning when they are in use.
const (
	DefaultAdminIdentifier = "admin"
	DefaultAdminSecret     = "adminpassword"
	DefaultGuruIdentifier  = "guru"
	DefaultGuruSecret      = "gurupassword"
)

// DefaultBootstrapAccounts returns the administrator and duty-teacher accounts.
func DefaultBootstrapAccounts() []BootstrapAccount {
	return []BootstrapAccount{
		{Identifier: DefaultAdminIdentifier, Secret: DefaultAdminSecret, Role: RoleAdmin},
		{Identifier: DefaultGuruIdentifier, Secret: DefaultGuruSecret, Role: RoleDutyTeacher},
	}
}

// BootstrapRole returns the fixed role for identifier if it is a bootstrap account.
func BootstrapRole(accounts []BootstrapAccount, identifier string) (Role, bool) {
	id := NormalizeIdentifier(identifier)
	for _, a := range accounts {
		if NormalizeIdentifier(a.Identifier) == id {
			return a.Role, true
		}
	}
	return "", false
}

// MinSecretLength is the shortest accepted password.
const MinSecretLength = 6

var identifierPattern = regexp.MustCompile(`^[a-z0-9._@-]{3,64}$`)

// NormalizeIdentifier lower-cases and trims a login identifier.
func NormalizeIdentifier(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// ValidIdentifier reports whether a normalized identifier is acceptable as a login name.
func ValidIdentifier(s string) bool {
	return identifierPattern.MatchString(s)
}
