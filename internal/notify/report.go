package notify

import "fmt"

// Delivery is the outcome of one notification send.
type Delivery struct {
	Recipient string
	Status    string // "success" or "error"
	Error     string
}

// Report aggregates the outcomes of a notification fan-out. It is a logged
// outcome value: failed sends are recorded here and never surface as errors
// from the calendar operation that triggered them.
type Report struct {
	Total      int
	Successful int
	Failed     int
	Deliveries []Delivery
}

// Add records the outcome of sending to one recipient.
func (r *Report) Add(recipient string, err error) {
	d := Delivery{Recipient: recipient, Status: "success"}
	if err != nil {
		d.Status = "error"
		d.Error = err.Error()
		r.Failed++
	} else {
		r.Successful++
	}
	r.Total++
	r.Deliveries = append(r.Deliveries, d)
}

// AllDelivered reports whether every send succeeded.
func (r *Report) AllDelivered() bool {
	return r.Failed == 0
}

// String returns a compact summary suitable for log messages. Recipient
// addresses never appear here; the summary is safe for operational logs.
func (r *Report) String() string {
	return fmt.Sprintf("sent %d/%d notifications", r.Successful, r.Total)
}
