package instrumentation

import "strings"

// Attendee addresses are unbounded and personal. Metrics and general logs
// must never carry them raw; use the domain helpers below instead and keep
// the full addresses for audit streams only.

// EmailDomain returns the domain of an email address, or "unknown" when the
// value does not look like an address.
//
//	EmailDomain("jane@example.com") // "example.com"
//	EmailDomain("not-an-email")     // "unknown"
func EmailDomain(email string) string {
	at := strings.LastIndexByte(email, '@')
	if at <= 0 || at == len(email)-1 {
		return "unknown"
	}
	return email[at+1:]
}

// EmailDomains reduces a recipient list to its distinct domains, preserving
// first-seen order. The result is bounded by the number of organizations
// involved rather than the number of people.
func EmailDomains(emails []string) []string {
	if len(emails) == 0 {
		return nil
	}

	seen := make(map[string]bool, len(emails))
	domains := make([]string, 0, len(emails))
	for _, email := range emails {
		domain := EmailDomain(email)
		if seen[domain] {
			continue
		}
		seen[domain] = true
		domains = append(domains, domain)
	}
	return domains
}
