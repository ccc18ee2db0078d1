// Package agent orchestrates calendar operations and their follow-up email
// notifications.
//
// The Agent is constructed with its dependencies (a calendar port and a
// notifier) rather than reaching for globals, so the HTTP facade and tests
// inject what they need. Every mutating operation follows the same pipeline:
// validate the input, call the provider, and only after the provider accepted
// the change fan the notifications out. Notification failures are collected
// into a delivery report and logged; they never fail the operation that
// triggered them.
//
// Errors returned by operations belong to a small taxonomy (ValidationError,
// NotFoundError, ProviderError) that callers translate into transport status
// codes with errors.As.
package agent
