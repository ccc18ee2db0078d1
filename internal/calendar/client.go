package calendar

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"golang.org/x/oauth2"
	calendar "google.golang.org/api/calendar/v3"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"

	"github.com/ssprakash1302/google-calender-mcp-server/internal/google"
)

// Config configures a calendar Client.
type Config struct {
	Account    string // OAuth account name; "default" when empty
	CalendarID string // target calendar; "primary" when empty
	TimeZone   string // IANA zone label applied to event times; "UTC" when empty
}

// Client wraps the Google Calendar service for a single calendar.
type Client struct {
	svc        *calendar.Service
	account    string
	calendarID string
	timezone   string
	now        func() time.Time
}

// Account returns the OAuth account name the client authenticates as.
func (c *Client) Account() string {
	return c.account
}

// NewClient creates a Calendar client using the file-based token provider.
func NewClient(ctx context.Context, cfg Config) (*Client, error) {
	return NewClientWithProvider(ctx, cfg, google.NewFileTokenProvider())
}

// NewClientWithProvider creates a Calendar client with OAuth2 authentication.
// The OAuth token is retrieved from the provided token provider.
func NewClientWithProvider(ctx context.Context, cfg Config, tokenProvider google.TokenProvider) (*Client, error) {
	if tokenProvider == nil {
		return nil, fmt.Errorf("token provider cannot be nil")
	}

	account := cfg.Account
	if account == "" {
		account = "default"
	}

	token, err := tokenProvider.GetTokenForAccount(ctx, account)
	if err != nil {
		return nil, fmt.Errorf("failed to get Google OAuth token for account %s: %w", account, err)
	}

	conf := google.GetOAuthConfig()
	tokenSource := conf.TokenSource(ctx, token)

	client := oauth2.NewClient(ctx, tokenSource)

	// Stale HTTP/2 connections to googleapis.com have caused hung calls;
	// stick to HTTP/1.1
	transport := client.Transport.(*oauth2.Transport)
	transport.Base = &http.Transport{
		ForceAttemptHTTP2: false,
	}

	svc, err := calendar.NewService(ctx, option.WithHTTPClient(client))
	if err != nil {
		return nil, fmt.Errorf("failed to create Calendar service: %w", err)
	}

	c := &Client{
		svc:        svc,
		account:    account,
		calendarID: cfg.CalendarID,
		timezone:   cfg.TimeZone,
		now:        time.Now,
	}
	if c.calendarID == "" {
		c.calendarID = "primary"
	}
	if c.timezone == "" {
		c.timezone = "UTC"
	}

	return c, nil
}

// ListUpcoming lists the next events on the calendar, starting from now and
// ordered by start time.
func (c *Client) ListUpcoming(ctx context.Context, maxResults int64) ([]EventSummary, error) {
	call := c.svc.Events.List(c.calendarID).
		TimeMin(c.now().Format(time.RFC3339)).
		SingleEvents(true).
		OrderBy("startTime").
		MaxResults(maxResults)

	events, err := call.Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}

	var summaries []EventSummary
	for _, event := range events.Items {
		summaries = append(summaries, toEventSummary(event))
	}

	return summaries, nil
}

// GetEvent fetches a single event by its provider id.
func (c *Client) GetEvent(ctx context.Context, eventID string) (*EventSummary, error) {
	event, err := c.svc.Events.Get(c.calendarID, eventID).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to get event: %w", err)
	}

	summary := toEventSummary(event)
	return &summary, nil
}

// CreateEvent inserts a new event and returns the stored copy, which carries
// provider-assigned fields like the event link.
func (c *Client) CreateEvent(ctx context.Context, input EventInput) (*EventSummary, error) {
	event := c.buildEvent(input)

	call := c.svc.Events.Insert(c.calendarID, event)
	if input.AddMeet {
		attachMeetRequest(event)
		call = call.ConferenceDataVersion(1)
	}

	created, err := call.Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to create event: %w", err)
	}

	summary := toEventSummary(created)
	return &summary, nil
}

// UpdateEvent replaces the managed fields of an existing event with input and
// pushes the result. Callers pass the full merged state; fields this service
// does not manage (recurrence, visibility, colors) are preserved from the
// stored event.
func (c *Client) UpdateEvent(ctx context.Context, eventID string, input EventInput) (*EventSummary, error) {
	existing, err := c.svc.Events.Get(c.calendarID, eventID).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to get existing event: %w", err)
	}

	tz := input.TimeZone
	if tz == "" {
		tz = c.timezone
	}

	existing.Summary = input.Summary
	existing.Description = input.Description
	existing.Start = &calendar.EventDateTime{
		DateTime: input.Start.Format(time.RFC3339),
		TimeZone: tz,
	}
	existing.End = &calendar.EventDateTime{
		DateTime: input.End.Format(time.RFC3339),
		TimeZone: tz,
	}

	attendees := make([]*calendar.EventAttendee, 0, len(input.Attendees))
	for _, email := range input.Attendees {
		attendees = append(attendees, &calendar.EventAttendee{Email: email})
	}
	existing.Attendees = attendees

	call := c.svc.Events.Update(c.calendarID, eventID, existing)
	if input.AddMeet && meetLink(existing) == "" {
		attachMeetRequest(existing)
		call = call.ConferenceDataVersion(1)
	}

	updated, err := call.Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to update event: %w", err)
	}

	summary := toEventSummary(updated)
	return &summary, nil
}

// DeleteEvent removes the event from the calendar. Deleting an event that is
// already gone surfaces as a not-found error from the provider.
func (c *Client) DeleteEvent(ctx context.Context, eventID string) error {
	err := c.svc.Events.Delete(c.calendarID, eventID).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("failed to delete event: %w", err)
	}
	return nil
}

// attachMeetRequest asks the provider to provision a Meet conference for the
// event. The RequestId is required by the API; any unique string works.
func attachMeetRequest(event *calendar.Event) {
	event.ConferenceData = &calendar.ConferenceData{
		CreateRequest: &calendar.CreateConferenceRequest{
			RequestId: "meet-" + uuid.NewString(),
		},
	}
}

// buildEvent renders an EventInput into the provider representation.
func (c *Client) buildEvent(input EventInput) *calendar.Event {
	tz := input.TimeZone
	if tz == "" {
		tz = c.timezone
	}

	event := &calendar.Event{
		Summary:     input.Summary,
		Description: input.Description,
		Start: &calendar.EventDateTime{
			DateTime: input.Start.Format(time.RFC3339),
			TimeZone: tz,
		},
		End: &calendar.EventDateTime{
			DateTime: input.End.Format(time.RFC3339),
			TimeZone: tz,
		},
		Reminders: defaultReminders(),
	}

	for _, email := range input.Attendees {
		event.Attendees = append(event.Attendees, &calendar.EventAttendee{Email: email})
	}

	return event
}

// defaultReminders reproduces the service's reminder policy: an email a day
// before and a popup ten minutes before each event.
func defaultReminders() *calendar.EventReminders {
	return &calendar.EventReminders{
		UseDefault: false,
		Overrides: []*calendar.EventReminder{
			{Method: "email", Minutes: 24 * 60},
			{Method: "popup", Minutes: 10},
		},
		// UseDefault is false, which the JSON encoder would otherwise omit
		ForceSendFields: []string{"UseDefault"},
	}
}

// IsNotFound reports whether err represents a 404 from the Calendar API.
func IsNotFound(err error) bool {
	var gerr *googleapi.Error
	return errors.As(err, &gerr) && gerr.Code == http.StatusNotFound
}
