package httpx

import "time"

const (
	// SessionCookieName carries the provider session token for browser clients.
	SessionCookieName = "spps_session"

	bearerPrefix = "Bearer "

	// maxJSONBody bounds decoded request bodies.
	maxJSONBody = 1 << 20
	// maxImportBody bounds roster import uploads.
	maxImportBody = 10 << 20

	defaultViolationLimit = 100
	maxViolationLimit     = 1000

	contentTypeJSON = "application/json"
	contentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

	// loginLimiterTTL is how long an idle client's bucket is kept.
	loginLimiterTTL = 10 * time.Minute
)
