package common

import "strings"

// GetAccountFromArgs extracts the account name from request arguments.
// Tokens are stored per account, so tools accept an optional "account"
// argument to address secondary accounts (e.g. "work", "personal").
//
// Falls back to "default" when the argument is absent or empty.
func GetAccountFromArgs(args map[string]interface{}) string {
	if account, ok := args["account"].(string); ok && account != "" {
		return account
	}
	return "default"
}

// GetEventIDFromArgs extracts the target event ID from request arguments,
// or "" when the tool does not address a specific event.
func GetEventIDFromArgs(args map[string]interface{}) string {
	eventID, _ := args["event_id"].(string)
	return eventID
}

// GetAttendeesFromArgs extracts attendee addresses from the comma-separated
// "attendees" argument. Returns nil when the argument is absent or empty.
func GetAttendeesFromArgs(args map[string]interface{}) []string {
	attendees, ok := args["attendees"].(string)
	if !ok {
		return nil
	}
	return SplitEmailList(attendees)
}

// SplitEmailList splits a comma-separated address list, trimming whitespace
// and dropping empty entries. Returns nil when nothing remains.
func SplitEmailList(s string) []string {
	parts := strings.Split(s, ",")
	emails := make([]string, 0, len(parts))
	for _, part := range parts {
		if email := strings.TrimSpace(part); email != "" {
			emails = append(emails, email)
		}
	}
	if len(emails) == 0 {
		return nil
	}
	return emails
}
