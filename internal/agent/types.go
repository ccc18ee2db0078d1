package agent

import "time"

// CreateRequest carries the full description of a new event.
type CreateRequest struct {
	Summary      string
	Start        time.Time
	End          time.Time
	Attendees    []string
	Description  string
	WantMeetLink bool
}

// CreateResult reports a successfully created event.
type CreateResult struct {
	EventID   string
	EventLink string
	// MeetLink is empty when the provider attached no conference link.
	MeetLink string
}

// UpdateRequest is a partial update. A nil field means "leave the stored
// value as it is"; a non-nil pointer to the zero value clears the field. The
// attendee list is replaced wholesale when Attendees is non-nil.
type UpdateRequest struct {
	Summary      *string
	Description  *string
	Start        *time.Time
	End          *time.Time
	Attendees    []string
	WantMeetLink *bool
}

// IsEmpty reports whether the request names no field at all.
func (r UpdateRequest) IsEmpty() bool {
	return r.Summary == nil &&
		r.Description == nil &&
		r.Start == nil &&
		r.End == nil &&
		r.Attendees == nil &&
		r.WantMeetLink == nil
}

// UpdateResult reports a successfully updated event.
type UpdateResult struct {
	EventID   string
	EventLink string
	MeetLink  string
}

// DeleteResult confirms a deletion.
type DeleteResult struct {
	EventID string
}
