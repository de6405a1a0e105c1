package google

// DefaultOAuthScopes are the Google OAuth scopes the agent requests.
// The agent only ever reads calendar events and task reminders, so every
// data scope is read-only.
var DefaultOAuthScopes = []string{
	// OpenID Connect scopes (required for user info)
	"openid",
	"https://www.googleapis.com/auth/userinfo.email",

	// Google Calendar scope
	"https://www.googleapis.com/auth/calendar.readonly",

	// Google Tasks scope
	"https://www.googleapis.com/auth/tasks.readonly",
}
