package notify

import (
	"fmt"
	"strings"
)

// Notification kinds, used as metric and log labels for delivery outcomes.
const (
	KindInvitation   = "invitation"
	KindUpdate       = "update"
	KindCancellation = "cancellation"
)

// EventDetails carries the event fields rendered into notification emails.
// Start and End are display strings, already formatted by the caller.
type EventDetails struct {
	Summary     string
	Start       string
	End         string
	Description string
	EventLink   string
	MeetLink    string
}

// InvitationMessage builds the subject and body for an event invitation.
func InvitationMessage(ev EventDetails) (subject, body string) {
	subject = "Invitation: " + ev.Summary

	var b strings.Builder
	fmt.Fprintf(&b, "You have been invited to: %s\n\n", ev.Summary)
	writeSchedule(&b, ev)
	if ev.Description != "" {
		fmt.Fprintf(&b, "\n%s\n", ev.Description)
	}
	writeLinks(&b, ev)

	return subject, b.String()
}

// UpdatedMessage builds the subject and body for an event change notice.
func UpdatedMessage(ev EventDetails) (subject, body string) {
	subject = "UPDATED: " + ev.Summary

	var b strings.Builder
	fmt.Fprintf(&b, "The event %q has been updated.\n\n", ev.Summary)
	writeSchedule(&b, ev)
	if ev.Description != "" {
		fmt.Fprintf(&b, "\n%s\n", ev.Description)
	}
	writeLinks(&b, ev)

	return subject, b.String()
}

// CancelledMessage builds the subject and body for an event cancellation.
func CancelledMessage(ev EventDetails) (subject, body string) {
	subject = "CANCELLED: " + ev.Summary

	var b strings.Builder
	fmt.Fprintf(&b, "The event %q has been cancelled.\n", ev.Summary)
	if ev.Start != "" {
		fmt.Fprintf(&b, "\nIt was scheduled for %s.\n", ev.Start)
	}

	return subject, b.String()
}

func writeSchedule(b *strings.Builder, ev EventDetails) {
	if ev.Start != "" {
		fmt.Fprintf(b, "Start: %s\n", ev.Start)
	}
	if ev.End != "" {
		fmt.Fprintf(b, "End:   %s\n", ev.End)
	}
}

func writeLinks(b *strings.Builder, ev EventDetails) {
	if ev.EventLink != "" {
		fmt.Fprintf(b, "\nView the event: %s\n", ev.EventLink)
	}
	if ev.MeetLink != "" {
		fmt.Fprintf(b, "Join with Google Meet: %s\n", ev.MeetLink)
	}
}
