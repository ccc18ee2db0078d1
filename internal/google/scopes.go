package google

// DefaultOAuthScopes are the Google OAuth scopes the calendar service requires.
// These scopes are used consistently across the application for OAuth configurations.
//
// The scopes provide access to:
//   - Google Calendar: full access (list, create, update, delete events)
//   - OpenID Connect: user identity for per-account token files
var DefaultOAuthScopes = []string{
	// OpenID Connect scopes (required for user info)
	"openid",
	"https://www.googleapis.com/auth/userinfo.email",

	// Google Calendar scope
	"https://www.googleapis.com/auth/calendar",
}
