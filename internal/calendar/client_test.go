package calendar

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"golang.org/x/oauth2"
	calendar "google.golang.org/api/calendar/v3"
	"google.golang.org/api/googleapi"

	"github.com/ssprakash1302/google-calender-mcp-server/internal/google"
)

func TestNewClientWithProvider_Defaults(t *testing.T) {
	provider := google.NewStaticTokenProvider(&oauth2.Token{
		AccessToken: "test-access",
		Expiry:      time.Now().Add(time.Hour),
	})

	c, err := NewClientWithProvider(context.Background(), Config{}, provider)
	if err != nil {
		t.Fatalf("NewClientWithProvider() error = %v", err)
	}

	if c.Account() != "default" {
		t.Errorf("Account() = %q, want %q", c.Account(), "default")
	}
	if c.calendarID != "primary" {
		t.Errorf("calendarID = %q, want %q", c.calendarID, "primary")
	}
	if c.timezone != "UTC" {
		t.Errorf("timezone = %q, want %q", c.timezone, "UTC")
	}
}

func TestNewClientWithProvider_AppliesConfig(t *testing.T) {
	provider := google.NewStaticTokenProvider(&oauth2.Token{
		AccessToken: "test-access",
		Expiry:      time.Now().Add(time.Hour),
	})

	c, err := NewClientWithProvider(context.Background(), Config{
		Account:    "work",
		CalendarID: "team-calendar",
		TimeZone:   "Europe/Berlin",
	}, provider)
	if err != nil {
		t.Fatalf("NewClientWithProvider() error = %v", err)
	}

	if c.Account() != "work" {
		t.Errorf("Account() = %q, want %q", c.Account(), "work")
	}
	if c.calendarID != "team-calendar" {
		t.Errorf("calendarID = %q, want %q", c.calendarID, "team-calendar")
	}
	if c.timezone != "Europe/Berlin" {
		t.Errorf("timezone = %q, want %q", c.timezone, "Europe/Berlin")
	}
}

func TestNewClientWithProvider_NilProvider(t *testing.T) {
	if _, err := NewClientWithProvider(context.Background(), Config{}, nil); err == nil {
		t.Error("expected an error for a nil token provider")
	}
}

func TestNewClientWithProvider_NoToken(t *testing.T) {
	provider := google.NewStaticTokenProvider(nil)

	if _, err := NewClientWithProvider(context.Background(), Config{Account: "work"}, provider); err == nil {
		t.Error("expected an error when the provider has no token")
	}
}

func TestToEventSummary_Nil(t *testing.T) {
	summary := toEventSummary(nil)
	if summary.ID != "" {
		t.Errorf("Expected empty ID for nil event, got %s", summary.ID)
	}
}

func TestToEventSummary_TimedEvent(t *testing.T) {
	event := &calendar.Event{
		Id:          "evt123",
		Summary:     "Team Sync",
		Description: "Weekly sync",
		Status:      "confirmed",
		HtmlLink:    "https://calendar.google.com/event?eid=evt123",
		Start: &calendar.EventDateTime{
			DateTime: "2026-03-02T10:00:00-08:00",
			TimeZone: "America/Los_Angeles",
		},
		End: &calendar.EventDateTime{
			DateTime: "2026-03-02T11:00:00-08:00",
			TimeZone: "America/Los_Angeles",
		},
		Attendees: []*calendar.EventAttendee{
			{Email: "jane@example.com"},
			{Email: "john@example.com"},
		},
		ConferenceData: &calendar.ConferenceData{
			EntryPoints: []*calendar.EntryPoint{
				{EntryPointType: "phone", Uri: "tel:+1-555-0100"},
				{EntryPointType: "video", Uri: "https://meet.google.com/abc-defg-hij"},
			},
		},
	}

	summary := toEventSummary(event)

	if summary.ID != "evt123" {
		t.Errorf("ID = %q, want %q", summary.ID, "evt123")
	}
	if summary.StartRaw != "2026-03-02T10:00:00-08:00" {
		t.Errorf("StartRaw = %q, want the provider datetime", summary.StartRaw)
	}
	if summary.AllDay {
		t.Error("AllDay should be false for a timed event")
	}
	if summary.Start.IsZero() {
		t.Error("Start should be parsed for a timed event")
	}
	if summary.EventLink != "https://calendar.google.com/event?eid=evt123" {
		t.Errorf("EventLink = %q, want the html link", summary.EventLink)
	}
	if summary.MeetLink != "https://meet.google.com/abc-defg-hij" {
		t.Errorf("MeetLink = %q, want the video entry point", summary.MeetLink)
	}
	if len(summary.Attendees) != 2 {
		t.Errorf("Attendees = %d, want 2", len(summary.Attendees))
	}
}

func TestToEventSummary_AllDayEvent(t *testing.T) {
	event := &calendar.Event{
		Id:      "evt456",
		Summary: "Company Holiday",
		Start:   &calendar.EventDateTime{Date: "2026-07-04"},
		End:     &calendar.EventDateTime{Date: "2026-07-05"},
	}

	summary := toEventSummary(event)

	if !summary.AllDay {
		t.Error("AllDay should be true for a date-only event")
	}
	if summary.StartRaw != "2026-07-04" {
		t.Errorf("StartRaw = %q, want the plain date", summary.StartRaw)
	}
	if summary.Start.IsZero() {
		t.Error("Start should be parsed from the plain date")
	}
}

func TestMeetLink(t *testing.T) {
	tests := []struct {
		name  string
		event *calendar.Event
		want  string
	}{
		{
			name: "video entry point",
			event: &calendar.Event{
				ConferenceData: &calendar.ConferenceData{
					EntryPoints: []*calendar.EntryPoint{
						{EntryPointType: "video", Uri: "https://meet.google.com/abc"},
					},
				},
			},
			want: "https://meet.google.com/abc",
		},
		{
			name: "hangout link fallback",
			event: &calendar.Event{
				HangoutLink: "https://meet.google.com/legacy",
			},
			want: "https://meet.google.com/legacy",
		},
		{
			name: "non-video entry points only",
			event: &calendar.Event{
				ConferenceData: &calendar.ConferenceData{
					EntryPoints: []*calendar.EntryPoint{
						{EntryPointType: "phone", Uri: "tel:+1-555-0100"},
					},
				},
			},
			want: "",
		},
		{
			name:  "no conference data",
			event: &calendar.Event{},
			want:  "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := meetLink(tt.event); got != tt.want {
				t.Errorf("meetLink() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestBuildEvent(t *testing.T) {
	c := &Client{timezone: "America/Los_Angeles"}

	start := time.Date(2026, 3, 2, 10, 0, 0, 0, time.FixedZone("PST", -8*3600))
	end := start.Add(time.Hour)

	event := c.buildEvent(EventInput{
		Summary:     "Planning",
		Description: "Q2 planning",
		Start:       start,
		End:         end,
		Attendees:   []string{"jane@example.com"},
	})

	if event.Summary != "Planning" {
		t.Errorf("Summary = %q, want %q", event.Summary, "Planning")
	}
	if event.Start.TimeZone != "America/Los_Angeles" {
		t.Errorf("Start.TimeZone = %q, want the client default", event.Start.TimeZone)
	}
	if event.Start.DateTime != start.Format(time.RFC3339) {
		t.Errorf("Start.DateTime = %q, want %q", event.Start.DateTime, start.Format(time.RFC3339))
	}
	if len(event.Attendees) != 1 || event.Attendees[0].Email != "jane@example.com" {
		t.Errorf("Attendees not carried over: %+v", event.Attendees)
	}
	if event.Reminders == nil {
		t.Fatal("Reminders should be set")
	}
}

func TestBuildEvent_TimeZoneOverride(t *testing.T) {
	c := &Client{timezone: "UTC"}

	event := c.buildEvent(EventInput{
		Summary:  "Call",
		Start:    time.Now(),
		End:      time.Now().Add(time.Hour),
		TimeZone: "Europe/Berlin",
	})

	if event.Start.TimeZone != "Europe/Berlin" {
		t.Errorf("Start.TimeZone = %q, want the input override", event.Start.TimeZone)
	}
}

func TestDefaultReminders(t *testing.T) {
	reminders := defaultReminders()

	if reminders.UseDefault {
		t.Error("UseDefault should be false")
	}
	if len(reminders.ForceSendFields) == 0 {
		t.Error("UseDefault=false must be force-sent or the API ignores the overrides")
	}
	if len(reminders.Overrides) != 2 {
		t.Fatalf("Overrides = %d, want 2", len(reminders.Overrides))
	}

	byMethod := map[string]int64{}
	for _, o := range reminders.Overrides {
		byMethod[o.Method] = o.Minutes
	}
	if byMethod["email"] != 24*60 {
		t.Errorf("email reminder = %d minutes, want %d", byMethod["email"], 24*60)
	}
	if byMethod["popup"] != 10 {
		t.Errorf("popup reminder = %d minutes, want 10", byMethod["popup"])
	}
}

func TestIsNotFound(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"plain error", errors.New("boom"), false},
		{"googleapi 404", &googleapi.Error{Code: 404}, true},
		{"wrapped googleapi 404", fmt.Errorf("failed to get event: %w", &googleapi.Error{Code: 404}), true},
		{"googleapi 403", &googleapi.Error{Code: 403}, false},
		{"wrapped googleapi 500", fmt.Errorf("failed: %w", &googleapi.Error{Code: 500}), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsNotFound(tt.err); got != tt.want {
				t.Errorf("IsNotFound() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestEventInput_Structure(t *testing.T) {
	tests := []struct {
		name  string
		input EventInput
	}{
		{
			name: "basic event",
			input: EventInput{
				Summary: "Test Event",
				Start:   time.Now(),
				End:     time.Now().Add(time.Hour),
			},
		},
		{
			name: "event with attendees",
			input: EventInput{
				Summary:   "Team Meeting",
				Start:     time.Now(),
				End:       time.Now().Add(time.Hour),
				Attendees: []string{"user1@example.com", "user2@example.com"},
			},
		},
		{
			name: "event with Google Meet",
			input: EventInput{
				Summary: "Video Call",
				Start:   time.Now(),
				End:     time.Now().Add(time.Hour),
				AddMeet: true,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.input.Summary == "" {
				t.Error("Expected non-empty summary")
			}
			if tt.input.Start.IsZero() {
				t.Error("Expected non-zero start time")
			}
			if tt.input.End.Before(tt.input.Start) {
				t.Error("End time should be after start time")
			}
		})
	}
}
