// Package notify sends event notification emails over SMTP.
//
// The Mailer delivers one plain-text message per recipient through the
// configured SMTP server (Gmail's smtp.gmail.com:465 by default, using an app
// password). Message content for the three notification kinds the service
// sends (invitation, update, cancellation) is built by the Message helpers.
//
// Delivery outcomes are collected into a Report rather than returned as
// errors: a failed notification must never fail the calendar operation that
// triggered it.
package notify
