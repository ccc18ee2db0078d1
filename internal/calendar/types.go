package calendar

import (
	"time"

	calendar "google.golang.org/api/calendar/v3"
)

// EventInput is the complete desired state for an event write.
// Update callers are expected to pass the merged state of the event, not a
// partial patch; fields left at their zero value are written as such.
type EventInput struct {
	Summary     string
	Description string
	Start       time.Time
	End         time.Time
	TimeZone    string // IANA zone label sent with the times, client default when empty
	Attendees   []string

	// AddMeet requests a Google Meet conference for this write
	AddMeet bool
}

// EventSummary is the provider-neutral view of a calendar event.
type EventSummary struct {
	ID          string
	Summary     string
	Description string
	Start       time.Time
	End         time.Time
	// StartRaw preserves the provider's original start string, which is an
	// RFC 3339 datetime for timed events and a plain date for all-day events.
	StartRaw  string
	AllDay    bool
	Attendees []string
	EventLink string
	MeetLink  string
	Status    string
}

// toEventSummary flattens a provider event into the fields this service
// exposes.
func toEventSummary(event *calendar.Event) EventSummary {
	if event == nil {
		return EventSummary{}
	}

	summary := EventSummary{
		ID:          event.Id,
		Summary:     event.Summary,
		Description: event.Description,
		Status:      event.Status,
		EventLink:   event.HtmlLink,
		MeetLink:    meetLink(event),
	}

	summary.Start, summary.StartRaw, summary.AllDay = parseEventTime(event.Start)
	summary.End, _, _ = parseEventTime(event.End)

	for _, att := range event.Attendees {
		if att.Email != "" {
			summary.Attendees = append(summary.Attendees, att.Email)
		}
	}

	return summary
}

// parseEventTime reads a provider EventDateTime, which carries either an
// RFC 3339 datetime or a bare date for all-day events. An unparseable value
// yields a zero time but still reports the raw string.
func parseEventTime(edt *calendar.EventDateTime) (t time.Time, raw string, allDay bool) {
	switch {
	case edt == nil:
		return time.Time{}, "", false
	case edt.DateTime != "":
		t, _ = time.Parse(time.RFC3339, edt.DateTime)
		return t, edt.DateTime, false
	case edt.Date != "":
		t, _ = time.Parse("2006-01-02", edt.Date)
		return t, edt.Date, true
	}
	return time.Time{}, "", false
}

// meetLink extracts the Google Meet URL from an event. The conference entry
// points are preferred; the legacy HangoutLink field is the fallback.
func meetLink(event *calendar.Event) string {
	if event.ConferenceData != nil {
		for _, ep := range event.ConferenceData.EntryPoints {
			if ep.EntryPointType == "video" {
				return ep.Uri
			}
		}
	}
	return event.HangoutLink
}
