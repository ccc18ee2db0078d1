// Package logging holds the shared slog conventions of the calendar agent:
// attribute keys every package spells the same way, helpers for tagging
// records, and PII handling for attendee addresses.
//
// Components that log for their whole lifetime wrap their logger once:
//
//	logger := logging.WithService(slog.Default(), "notify")
//	logger.Info("notification sent")
//
// Attendee emails are PII and never appear verbatim in operational logs.
// UserHash replaces them with a stable hash so entries for the same
// recipient still correlate:
//
//	logger.Info("invitation sent", logging.UserHash(attendee))
package logging
