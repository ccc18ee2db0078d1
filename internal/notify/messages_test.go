package notify

import (
	"strings"
	"testing"
)

func TestInvitationMessage(t *testing.T) {
	ev := EventDetails{
		Summary:     "Team Sync",
		Start:       "2026-03-02T10:00:00-08:00",
		End:         "2026-03-02T11:00:00-08:00",
		Description: "Weekly planning session",
		EventLink:   "https://calendar.google.com/event?eid=abc",
		MeetLink:    "https://meet.google.com/abc-defg-hij",
	}

	subject, body := InvitationMessage(ev)

	if subject != "Invitation: Team Sync" {
		t.Errorf("subject = %q, want %q", subject, "Invitation: Team Sync")
	}
	for _, want := range []string{
		"Team Sync",
		"2026-03-02T10:00:00-08:00",
		"Weekly planning session",
		"https://calendar.google.com/event?eid=abc",
		"https://meet.google.com/abc-defg-hij",
	} {
		if !strings.Contains(body, want) {
			t.Errorf("body should contain %q\nbody:\n%s", want, body)
		}
	}
}

func TestInvitationMessage_OmitsEmptySections(t *testing.T) {
	subject, body := InvitationMessage(EventDetails{Summary: "Quick Chat"})

	if subject != "Invitation: Quick Chat" {
		t.Errorf("subject = %q", subject)
	}
	if strings.Contains(body, "View the event") {
		t.Error("body should omit the event link section when no link is set")
	}
	if strings.Contains(body, "Google Meet") {
		t.Error("body should omit the meet link section when no link is set")
	}
}

func TestUpdatedMessage(t *testing.T) {
	subject, body := UpdatedMessage(EventDetails{
		Summary:   "Team Sync",
		Start:     "2026-03-03T10:00:00-08:00",
		EventLink: "https://calendar.google.com/event?eid=abc",
	})

	if subject != "UPDATED: Team Sync" {
		t.Errorf("subject = %q, want %q", subject, "UPDATED: Team Sync")
	}
	if !strings.Contains(body, "has been updated") {
		t.Errorf("body should explain the event changed\nbody:\n%s", body)
	}
	if !strings.Contains(body, "2026-03-03T10:00:00-08:00") {
		t.Error("body should carry the new start time")
	}
}

func TestCancelledMessage(t *testing.T) {
	subject, body := CancelledMessage(EventDetails{
		Summary: "Team Sync",
		Start:   "2026-03-02T10:00:00-08:00",
	})

	if subject != "CANCELLED: Team Sync" {
		t.Errorf("subject = %q, want %q", subject, "CANCELLED: Team Sync")
	}
	if !strings.Contains(body, "has been cancelled") {
		t.Errorf("body should state the cancellation\nbody:\n%s", body)
	}
	if !strings.Contains(body, "2026-03-02T10:00:00-08:00") {
		t.Error("body should mention the original start time")
	}
}
