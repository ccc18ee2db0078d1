package service

// EventItem is one event in a listing, with the start string exactly as the
// calendar provider returned it (datetime or all-day date).
type EventItem struct {
	ID      string `json:"id"`
	Summary string `json:"summary"`
	Start   string `json:"start"`
}

// ListEventsResult is the facade's response to GET /events.
type ListEventsResult struct {
	Message string      `json:"message"`
	Events  []EventItem `json:"events"`
}

// MutationResult is the facade's response to schedule and update calls.
// HangoutLink is nil when the event has no conference link.
type MutationResult struct {
	Message     string  `json:"message"`
	EventLink   string  `json:"event_link"`
	HangoutLink *string `json:"hangoutLink"`
}

// MessageResult is the facade's bare confirmation envelope.
type MessageResult struct {
	Message string `json:"message"`
}

// ScheduleRequest is the payload for POST /schedule. Times are RFC 3339
// strings with an offset.
type ScheduleRequest struct {
	Summary     string   `json:"summary"`
	StartTime   string   `json:"start_time"`
	EndTime     string   `json:"end_time"`
	Attendees   []string `json:"attendees,omitempty"`
	Description string   `json:"description,omitempty"`
	AddMeetLink bool     `json:"add_meet_link,omitempty"`
}

// UpdateRequest is the payload for PUT /event/update. Nil fields are omitted
// from the JSON body, so the facade leaves them unchanged.
type UpdateRequest struct {
	EventID     string   `json:"event_id"`
	Summary     *string  `json:"summary,omitempty"`
	StartTime   *string  `json:"start_time,omitempty"`
	EndTime     *string  `json:"end_time,omitempty"`
	Attendees   []string `json:"attendees,omitempty"`
	Description *string  `json:"description,omitempty"`
	AddMeetLink *bool    `json:"add_meet_link,omitempty"`
}
