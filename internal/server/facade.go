package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"google.golang.org/api/googleapi"

	"github.com/ssprakash1302/google-calender-mcp-server/internal/agent"
	"github.com/ssprakash1302/google-calender-mcp-server/internal/calendar"
	"github.com/ssprakash1302/google-calender-mcp-server/internal/instrumentation"
	"github.com/ssprakash1302/google-calender-mcp-server/internal/logging"
)

const (
	// DefaultFacadeAddr is the default listen address for the facade API.
	DefaultFacadeAddr = ":5002"

	// DefaultFacadeReadTimeout is the default read header timeout for the facade.
	DefaultFacadeReadTimeout = 10 * time.Second

	// DefaultFacadeWriteTimeout is the default write timeout for the facade.
	DefaultFacadeWriteTimeout = 10 * time.Second

	// DefaultFacadeIdleTimeout is the default idle timeout for the facade.
	DefaultFacadeIdleTimeout = 120 * time.Second
)

// AgentAPI is the agent surface the facade exposes over HTTP.
type AgentAPI interface {
	ListUpcoming(ctx context.Context, limit int64) ([]calendar.EventSummary, error)
	CreateEvent(ctx context.Context, req agent.CreateRequest) (*agent.CreateResult, error)
	UpdateEvent(ctx context.Context, eventID string, req agent.UpdateRequest) (*agent.UpdateResult, error)
	DeleteEvent(ctx context.Context, eventID string) (*agent.DeleteResult, error)
}

// FacadeConfig holds configuration for the facade server.
type FacadeConfig struct {
	// Addr is the address to bind the facade to (e.g., ":5002").
	Addr string

	// Agent handles the calendar operations behind the routes.
	Agent AgentAPI

	// Logger receives request-level logs. Defaults to slog.Default().
	Logger *slog.Logger
}

// FacadeServer exposes the calendar agent as a small JSON-over-HTTP API.
// Every response carries Content-Type application/json and a "message" field.
type FacadeServer struct {
	agent      AgentAPI
	logger     *slog.Logger
	metrics    *instrumentation.Metrics
	addr       string
	httpServer *http.Server
}

// NewFacadeServer creates a facade server for the given agent.
func NewFacadeServer(config FacadeConfig) (*FacadeServer, error) {
	if config.Agent == nil {
		return nil, fmt.Errorf("agent is required for facade server")
	}
	if config.Addr == "" {
		config.Addr = DefaultFacadeAddr
	}
	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &FacadeServer{
		agent:  config.Agent,
		logger: logger,
		addr:   config.Addr,
	}, nil
}

// SetMetrics enables HTTP request metrics for the facade routes.
func (s *FacadeServer) SetMetrics(metrics *instrumentation.Metrics) {
	s.metrics = metrics
}

// Handler returns the facade's HTTP handler. The mux relies on method
// patterns, so requests with the wrong method get a 405 automatically.
func (s *FacadeServer) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /{$}", s.handleRoot)
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /events", s.handleListEvents)
	mux.HandleFunc("POST /schedule", s.handleSchedule)
	mux.HandleFunc("PUT /event/update", s.handleUpdate)
	mux.HandleFunc("DELETE /event", s.handleDelete)

	return s.withMetrics(mux)
}

// withMetrics records request count and duration when metrics are configured.
func (s *FacadeServer) withMetrics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.metrics == nil {
			next.ServeHTTP(w, r)
			return
		}

		start := time.Now()
		rw := newResponseWriter(w)
		next.ServeHTTP(rw, r)
		s.metrics.RecordHTTPRequest(r.Context(), r.Method, r.URL.Path, rw.statusCode, time.Since(start))
	})
}

// Start starts the facade server in a blocking manner.
// Call this in a goroutine if you need non-blocking operation.
func (s *FacadeServer) Start() error {
	s.httpServer = &http.Server{
		Addr:              s.addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: DefaultFacadeReadTimeout,
		WriteTimeout:      DefaultFacadeWriteTimeout,
		IdleTimeout:       DefaultFacadeIdleTimeout,
	}

	s.logger.Info("starting facade server", "addr", s.addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully shuts down the facade server.
func (s *FacadeServer) Shutdown(ctx context.Context) error {
	if s.httpServer != nil {
		s.logger.Info("shutting down facade server")
		return s.httpServer.Shutdown(ctx)
	}
	return nil
}

// Addr returns the configured listen address.
func (s *FacadeServer) Addr() string {
	return s.addr
}

type scheduleRequest struct {
	Summary     string   `json:"summary"`
	StartTime   string   `json:"start_time"`
	EndTime     string   `json:"end_time"`
	Attendees   []string `json:"attendees"`
	Description string   `json:"description"`
	AddMeetLink bool     `json:"add_meet_link"`
}

type updateEventRequest struct {
	EventID     string   `json:"event_id"`
	Summary     *string  `json:"summary"`
	StartTime   *string  `json:"start_time"`
	EndTime     *string  `json:"end_time"`
	Attendees   []string `json:"attendees"`
	Description *string  `json:"description"`
	AddMeetLink *bool    `json:"add_meet_link"`
}

type deleteEventRequest struct {
	EventID string `json:"event_id"`
}

type eventItem struct {
	ID      string `json:"id"`
	Summary string `json:"summary"`
	Start   string `json:"start"`
}

type listEventsResponse struct {
	Message string      `json:"message"`
	Events  []eventItem `json:"events"`
}

// mutationResponse is the envelope for schedule and update. HangoutLink is a
// pointer so that "no conference link" serializes as JSON null.
type mutationResponse struct {
	Message     string  `json:"message"`
	EventLink   string  `json:"event_link"`
	HangoutLink *string `json:"hangoutLink"`
}

type messageResponse struct {
	Message string `json:"message"`
}

func (s *FacadeServer) handleRoot(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, messageResponse{Message: "Calendar Agent API is running"})
}

func (s *FacadeServer) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

func (s *FacadeServer) handleListEvents(w http.ResponseWriter, r *http.Request) {
	events, err := s.agent.ListUpcoming(r.Context(), agent.DefaultListLimit)
	if err != nil {
		s.writeError(w, "list", err)
		return
	}

	items := make([]eventItem, 0, len(events))
	for _, ev := range events {
		items = append(items, eventItem{
			ID:      ev.ID,
			Summary: ev.Summary,
			Start:   ev.StartRaw,
		})
	}

	writeJSON(w, http.StatusOK, listEventsResponse{
		Message: fmt.Sprintf("Found %d upcoming events", len(items)),
		Events:  items,
	})
}

func (s *FacadeServer) handleSchedule(w http.ResponseWriter, r *http.Request) {
	var req scheduleRequest
	if err := decodeJSON(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, messageResponse{Message: err.Error()})
		return
	}

	start, err := parseEventTime("start_time", req.StartTime)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, messageResponse{Message: err.Error()})
		return
	}
	end, err := parseEventTime("end_time", req.EndTime)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, messageResponse{Message: err.Error()})
		return
	}

	result, err := s.agent.CreateEvent(r.Context(), agent.CreateRequest{
		Summary:      req.Summary,
		Start:        start,
		End:          end,
		Attendees:    req.Attendees,
		Description:  req.Description,
		WantMeetLink: req.AddMeetLink,
	})
	if err != nil {
		s.writeError(w, "schedule", err)
		return
	}

	writeJSON(w, http.StatusOK, mutationResponse{
		Message:     "Event scheduled successfully",
		EventLink:   result.EventLink,
		HangoutLink: optionalLink(result.MeetLink),
	})
}

func (s *FacadeServer) handleUpdate(w http.ResponseWriter, r *http.Request) {
	var req updateEventRequest
	if err := decodeJSON(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, messageResponse{Message: err.Error()})
		return
	}

	update := agent.UpdateRequest{
		Summary:      req.Summary,
		Description:  req.Description,
		Attendees:    req.Attendees,
		WantMeetLink: req.AddMeetLink,
	}
	if req.StartTime != nil {
		start, err := parseEventTime("start_time", *req.StartTime)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, messageResponse{Message: err.Error()})
			return
		}
		update.Start = &start
	}
	if req.EndTime != nil {
		end, err := parseEventTime("end_time", *req.EndTime)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, messageResponse{Message: err.Error()})
			return
		}
		update.End = &end
	}

	result, err := s.agent.UpdateEvent(r.Context(), req.EventID, update)
	if err != nil {
		s.writeError(w, "update", err)
		return
	}

	writeJSON(w, http.StatusOK, mutationResponse{
		Message:     "Event updated successfully",
		EventLink:   result.EventLink,
		HangoutLink: optionalLink(result.MeetLink),
	})
}

func (s *FacadeServer) handleDelete(w http.ResponseWriter, r *http.Request) {
	var req deleteEventRequest
	if err := decodeJSON(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, messageResponse{Message: err.Error()})
		return
	}

	result, err := s.agent.DeleteEvent(r.Context(), req.EventID)
	if err != nil {
		s.writeError(w, "delete", err)
		return
	}

	writeJSON(w, http.StatusOK, messageResponse{
		Message: fmt.Sprintf("Event %s deleted successfully", result.EventID),
	})
}

// writeError translates agent errors into HTTP status codes: validation 400,
// unknown event 404, provider failures 502, broken credentials 500.
func (s *FacadeServer) writeError(w http.ResponseWriter, op string, err error) {
	status := http.StatusInternalServerError

	var valErr *agent.ValidationError
	var nfErr *agent.NotFoundError
	var provErr *agent.ProviderError
	switch {
	case errors.As(err, &valErr):
		status = http.StatusBadRequest
	case errors.As(err, &nfErr):
		status = http.StatusNotFound
	case errors.As(err, &provErr):
		status = providerStatus(provErr)
	}

	if status >= http.StatusInternalServerError {
		s.logger.Error("facade request failed",
			logging.Operation(op),
			logging.Err(err))
	}

	writeJSON(w, status, messageResponse{Message: err.Error()})
}

// providerStatus picks 500 for auth failures, which mean the server's own
// credentials are broken, and 502 for everything else upstream.
func providerStatus(provErr *agent.ProviderError) int {
	var apiErr *googleapi.Error
	if errors.As(provErr.Err, &apiErr) && apiErr.Code == http.StatusUnauthorized {
		return http.StatusInternalServerError
	}
	return http.StatusBadGateway
}

func decodeJSON(r *http.Request, v interface{}) error {
	defer func() { _ = r.Body.Close() }()
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("invalid request body: %v", err)
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func parseEventTime(field, value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, fmt.Errorf("%s is required", field)
	}
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("%s must be an RFC 3339 timestamp, got %q", field, value)
	}
	return t, nil
}

func optionalLink(link string) *string {
	if link == "" {
		return nil
	}
	return &link
}
