package logging

import (
	"crypto/sha256"
	"encoding/hex"
	"log/slog"
)

// Attribute keys shared across packages, so log queries can rely on a
// single spelling.
const (
	KeyOperation  = "operation"
	KeyService    = "service"
	KeyAccount    = "account"
	KeyEventID    = "event_id"
	KeyRecipients = "recipients"
	KeyUserHash   = "user_hash"
	KeyStatus     = "status"
	KeyError      = "error"
)

// WithService returns a logger with the service attribute set. Components
// that own a logger for their lifetime (such as the mailer) wrap it once at
// construction instead of repeating the attribute on every call.
func WithService(logger *slog.Logger, service string) *slog.Logger {
	return logger.With(slog.String(KeyService, service))
}

// Operation tags a record with the operation name.
func Operation(op string) slog.Attr {
	return slog.String(KeyOperation, op)
}

// Account tags a record with the token account name.
func Account(account string) slog.Attr {
	return slog.String(KeyAccount, account)
}

// Err returns a slog attribute for an error. A nil err yields an empty
// group, which slog drops from the output, so call sites can pass a
// maybe-nil error without checking first.
func Err(err error) slog.Attr {
	if err == nil {
		return slog.Group("")
	}
	return slog.String(KeyError, err.Error())
}

// AnonymizeEmail returns a hashed representation of an email for logging.
// Attendee addresses are PII; the hash still lets log entries for the same
// recipient be correlated.
func AnonymizeEmail(email string) string {
	if email == "" {
		return ""
	}
	hash := sha256.Sum256([]byte(email))
	return "user:" + hex.EncodeToString(hash[:8])
}

// UserHash returns a slog attribute with the anonymized email address.
//
// Usage:
//
//	logger.Info("invitation sent", logging.UserHash(attendee))
func UserHash(email string) slog.Attr {
	return slog.String(KeyUserHash, AnonymizeEmail(email))
}
