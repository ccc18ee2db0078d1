package agent

import (
	"context"
	"fmt"
	"net/mail"
	"sort"
	"strings"
	"time"

	"github.com/ssprakash1302/google-calender-mcp-server/internal/calendar"
	"github.com/ssprakash1302/google-calender-mcp-server/internal/logging"
	"github.com/ssprakash1302/google-calender-mcp-server/internal/notify"
)

// DefaultListLimit caps event listings when the caller does not ask for a
// specific number.
const DefaultListLimit = 10

// CalendarPort is the provider surface the agent depends on. It is satisfied
// by calendar.Client.
type CalendarPort interface {
	ListUpcoming(ctx context.Context, maxResults int64) ([]calendar.EventSummary, error)
	GetEvent(ctx context.Context, eventID string) (*calendar.EventSummary, error)
	CreateEvent(ctx context.Context, input calendar.EventInput) (*calendar.EventSummary, error)
	UpdateEvent(ctx context.Context, eventID string, input calendar.EventInput) (*calendar.EventSummary, error)
	DeleteEvent(ctx context.Context, eventID string) error
}

// Notifier delivers a single notification email. It is satisfied by
// notify.Mailer.
type Notifier interface {
	Send(ctx context.Context, to, subject, body string) error
}

// NotificationMetrics counts notification delivery outcomes. It is satisfied
// by instrumentation.Metrics.
type NotificationMetrics interface {
	RecordNotification(ctx context.Context, kind, status string)
}

// Agent runs calendar operations and sends the follow-up notifications.
type Agent struct {
	calendar CalendarPort
	notifier Notifier
	logger   logging.Logger
	metrics  NotificationMetrics
}

// Option configures an Agent.
type Option func(*Agent)

// WithLogger sets the logger that receives operation and delivery outcomes.
func WithLogger(logger logging.Logger) Option {
	return func(a *Agent) {
		if logger != nil {
			a.logger = logger
		}
	}
}

// WithMetrics sets the recorder for notification delivery metrics.
func WithMetrics(metrics NotificationMetrics) Option {
	return func(a *Agent) {
		a.metrics = metrics
	}
}

// New creates an Agent backed by the given calendar port and notifier.
func New(cal CalendarPort, notifier Notifier, opts ...Option) *Agent {
	a := &Agent{
		calendar: cal,
		notifier: notifier,
		logger:   logging.DefaultLogger(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// ListUpcoming returns up to limit upcoming events in ascending start order.
// A non-positive limit falls back to DefaultListLimit.
func (a *Agent) ListUpcoming(ctx context.Context, limit int64) ([]calendar.EventSummary, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}

	events, err := a.calendar.ListUpcoming(ctx, limit)
	if err != nil {
		return nil, &ProviderError{Op: "list", Err: err}
	}

	// The provider is asked for start-time ordering; sort again so the
	// guarantee does not depend on it.
	sort.SliceStable(events, func(i, j int) bool {
		return events[i].Start.Before(events[j].Start)
	})
	if int64(len(events)) > limit {
		events = events[:limit]
	}

	return events, nil
}

// CreateEvent creates a calendar event and then invites every attendee by
// email. Invitations go out only after the provider accepted the event, and a
// failed invitation never fails the creation.
func (a *Agent) CreateEvent(ctx context.Context, req CreateRequest) (*CreateResult, error) {
	if err := validateCreate(req); err != nil {
		return nil, err
	}

	created, err := a.calendar.CreateEvent(ctx, calendar.EventInput{
		Summary:     req.Summary,
		Description: req.Description,
		Start:       req.Start,
		End:         req.End,
		Attendees:   req.Attendees,
		AddMeet:     req.WantMeetLink,
	})
	if err != nil {
		return nil, &ProviderError{Op: "create", Err: err}
	}

	subject, body := notify.InvitationMessage(eventDetails(created))
	report := a.notifyAll(ctx, notify.KindInvitation, req.Attendees, subject, body)
	a.logReport("create", created.ID, report)

	return &CreateResult{
		EventID:   created.ID,
		EventLink: created.EventLink,
		MeetLink:  created.MeetLink,
	}, nil
}

// UpdateEvent applies a partial update to an existing event. Fields absent
// from req keep their stored values. After the provider accepted the write,
// every attendee of the updated event receives an update notice.
func (a *Agent) UpdateEvent(ctx context.Context, eventID string, req UpdateRequest) (*UpdateResult, error) {
	if eventID == "" {
		return nil, &ValidationError{Field: "event_id", Reason: "must not be empty"}
	}
	if req.IsEmpty() {
		return nil, &ValidationError{Reason: "at least one field must be provided"}
	}
	if err := validateUpdate(req); err != nil {
		return nil, err
	}

	existing, err := a.calendar.GetEvent(ctx, eventID)
	if err != nil {
		return nil, mapProviderError("update", eventID, err)
	}

	merged := mergeUpdate(*existing, req)
	if !merged.End.After(merged.Start) {
		return nil, &ValidationError{Field: "end", Reason: "must be after start"}
	}

	updated, err := a.calendar.UpdateEvent(ctx, eventID, merged)
	if err != nil {
		return nil, mapProviderError("update", eventID, err)
	}

	subject, body := notify.UpdatedMessage(eventDetails(updated))
	report := a.notifyAll(ctx, notify.KindUpdate, updated.Attendees, subject, body)
	a.logReport("update", updated.ID, report)

	return &UpdateResult{
		EventID:   updated.ID,
		EventLink: updated.EventLink,
		MeetLink:  updated.MeetLink,
	}, nil
}

// DeleteEvent removes an event and then tells its attendees. The attendee
// list is captured before the delete because the provider no longer has it
// afterwards; cancellation notices go out only once the delete succeeded.
func (a *Agent) DeleteEvent(ctx context.Context, eventID string) (*DeleteResult, error) {
	if eventID == "" {
		return nil, &ValidationError{Field: "event_id", Reason: "must not be empty"}
	}

	existing, err := a.calendar.GetEvent(ctx, eventID)
	if err != nil {
		return nil, mapProviderError("delete", eventID, err)
	}

	if err := a.calendar.DeleteEvent(ctx, eventID); err != nil {
		return nil, mapProviderError("delete", eventID, err)
	}

	if len(existing.Attendees) > 0 {
		subject, body := notify.CancelledMessage(eventDetails(existing))
		report := a.notifyAll(ctx, notify.KindCancellation, existing.Attendees, subject, body)
		a.logReport("delete", eventID, report)
	}

	return &DeleteResult{EventID: eventID}, nil
}

// notifyAll fans a notification out to every recipient, one email each.
// Failures are captured in the returned report instead of propagating.
func (a *Agent) notifyAll(ctx context.Context, kind string, recipients []string, subject, body string) *notify.Report {
	report := &notify.Report{}
	for _, recipient := range recipients {
		if err := a.notifier.Send(ctx, recipient, subject, body); err != nil {
			nerr := &NotificationError{Recipient: recipient, Err: err}
			a.logger.Warn("notification failed",
				logging.KeyUserHash, logging.AnonymizeEmail(recipient),
				logging.KeyError, nerr.Error())
			report.Add(recipient, nerr)
			a.recordNotification(ctx, kind, false)
			continue
		}
		report.Add(recipient, nil)
		a.recordNotification(ctx, kind, true)
	}
	return report
}

func (a *Agent) recordNotification(ctx context.Context, kind string, ok bool) {
	if a.metrics == nil {
		return
	}
	status := "success"
	if !ok {
		status = "error"
	}
	a.metrics.RecordNotification(ctx, kind, status)
}

func (a *Agent) logReport(op, eventID string, report *notify.Report) {
	if report.Total == 0 {
		return
	}
	status := "success"
	if !report.AllDelivered() {
		status = "partial"
	}
	a.logger.Info("notification report",
		logging.KeyOperation, op,
		logging.KeyEventID, eventID,
		logging.KeyRecipients, report.Total,
		logging.KeyStatus, status,
		"summary", report.String())
}

func validateCreate(req CreateRequest) error {
	if strings.TrimSpace(req.Summary) == "" {
		return &ValidationError{Field: "summary", Reason: "must not be empty"}
	}
	if req.Start.IsZero() {
		return &ValidationError{Field: "start", Reason: "must be set"}
	}
	if req.End.IsZero() {
		return &ValidationError{Field: "end", Reason: "must be set"}
	}
	if !req.End.After(req.Start) {
		return &ValidationError{Field: "end", Reason: "must be after start"}
	}
	return validateAttendees(req.Attendees)
}

func validateUpdate(req UpdateRequest) error {
	if req.Summary != nil && strings.TrimSpace(*req.Summary) == "" {
		return &ValidationError{Field: "summary", Reason: "must not be empty"}
	}
	if req.Start != nil && req.Start.IsZero() {
		return &ValidationError{Field: "start", Reason: "must be a valid time"}
	}
	if req.End != nil && req.End.IsZero() {
		return &ValidationError{Field: "end", Reason: "must be a valid time"}
	}
	return validateAttendees(req.Attendees)
}

func validateAttendees(attendees []string) error {
	for _, attendee := range attendees {
		if _, err := mail.ParseAddress(attendee); err != nil {
			return &ValidationError{
				Field:  "attendees",
				Reason: fmt.Sprintf("%q is not a valid email address", attendee),
			}
		}
	}
	return nil
}

// mergeUpdate overlays the fields present in req onto the stored event,
// producing the full desired state for the provider write.
func mergeUpdate(existing calendar.EventSummary, req UpdateRequest) calendar.EventInput {
	input := calendar.EventInput{
		Summary:     existing.Summary,
		Description: existing.Description,
		Start:       existing.Start,
		End:         existing.End,
		Attendees:   existing.Attendees,
	}

	if req.Summary != nil {
		input.Summary = *req.Summary
	}
	if req.Description != nil {
		input.Description = *req.Description
	}
	if req.Start != nil {
		input.Start = *req.Start
	}
	if req.End != nil {
		input.End = *req.End
	}
	if req.Attendees != nil {
		input.Attendees = req.Attendees
	}
	if req.WantMeetLink != nil {
		input.AddMeet = *req.WantMeetLink
	}

	return input
}

func mapProviderError(op, eventID string, err error) error {
	if calendar.IsNotFound(err) {
		return &NotFoundError{EventID: eventID}
	}
	return &ProviderError{Op: op, Err: err}
}

// eventDetails maps a provider event onto the email template fields. Times
// are rendered as the provider returned them where possible.
func eventDetails(ev *calendar.EventSummary) notify.EventDetails {
	details := notify.EventDetails{
		Summary:     ev.Summary,
		Description: ev.Description,
		EventLink:   ev.EventLink,
		MeetLink:    ev.MeetLink,
		Start:       ev.StartRaw,
	}
	if details.Start == "" && !ev.Start.IsZero() {
		details.Start = ev.Start.Format(time.RFC3339)
	}
	if !ev.End.IsZero() {
		details.End = ev.End.Format(time.RFC3339)
	}
	return details
}
