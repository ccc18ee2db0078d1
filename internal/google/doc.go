// Package google provides OAuth2 authentication and token management for the
// Google Calendar API.
//
// Tokens are stored on disk under the user cache directory, one file per
// account, so several Google accounts can be authorized side by side. The
// out-of-band flow is used: the auth command prints a consent URL and the
// user pastes the resulting code back into the terminal.
//
// The TokenProvider interface allows different token sources to be plugged in,
// keeping the calendar client constructible in tests without real tokens.
package google
