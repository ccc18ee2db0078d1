package service

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewClient_Defaults(t *testing.T) {
	c := NewClient("")
	assert.Equal(t, DefaultBaseURL, c.BaseURL())
}

func TestNewClient_TrimsTrailingSlash(t *testing.T) {
	c := NewClient("http://localhost:5002/")
	assert.Equal(t, "http://localhost:5002", c.BaseURL())
}

func TestClient_Health(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/health", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status": "healthy"}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	require.NoError(t, c.Health(context.Background()))
}

func TestClient_ListEvents(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/events", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"message": "Found 1 upcoming events",
			"events": [{"id": "evt-1", "summary": "Standup", "start": "2026-03-10T09:00:00-07:00"}]
		}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	result, err := c.ListEvents(context.Background())

	require.NoError(t, err)
	require.Len(t, result.Events, 1)
	assert.Equal(t, "evt-1", result.Events[0].ID)
	assert.Equal(t, "2026-03-10T09:00:00-07:00", result.Events[0].Start)
}

func TestClient_Schedule(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/schedule", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var req ScheduleRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "Planning", req.Summary)
		assert.True(t, req.AddMeetLink)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"message": "Event scheduled successfully",
			"event_link": "https://calendar.google.com/event?eid=abc",
			"hangoutLink": "https://meet.google.com/xyz-abcd-efg"
		}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	result, err := c.Schedule(context.Background(), ScheduleRequest{
		Summary:     "Planning",
		StartTime:   "2026-03-10T09:00:00Z",
		EndTime:     "2026-03-10T10:00:00Z",
		AddMeetLink: true,
	})

	require.NoError(t, err)
	assert.Equal(t, "Event scheduled successfully", result.Message)
	require.NotNil(t, result.HangoutLink)
	assert.Equal(t, "https://meet.google.com/xyz-abcd-efg", *result.HangoutLink)
}

func TestClient_Schedule_NullHangoutLink(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"message": "Event scheduled successfully", "event_link": "https://example.com", "hangoutLink": null}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	result, err := c.Schedule(context.Background(), ScheduleRequest{
		Summary:   "1:1",
		StartTime: "2026-03-10T09:00:00Z",
		EndTime:   "2026-03-10T09:30:00Z",
	})

	require.NoError(t, err)
	assert.Nil(t, result.HangoutLink)
}

func TestClient_UpdateEvent_OmitsAbsentFields(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/event/update", r.URL.Path)

		var raw map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&raw))
		assert.Equal(t, "evt-2", raw["event_id"])
		assert.Contains(t, raw, "description")
		assert.NotContains(t, raw, "summary")
		assert.NotContains(t, raw, "start_time")

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"message": "Event updated successfully", "event_link": "https://example.com", "hangoutLink": null}`))
	}))
	defer srv.Close()

	description := "New agenda"
	c := NewClient(srv.URL)
	result, err := c.UpdateEvent(context.Background(), UpdateRequest{
		EventID:     "evt-2",
		Description: &description,
	})

	require.NoError(t, err)
	assert.Equal(t, "Event updated successfully", result.Message)
}

func TestClient_DeleteEvent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		assert.Equal(t, "/event", r.URL.Path)

		var raw map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&raw))
		assert.Equal(t, "evt-3", raw["event_id"])

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"message": "Event evt-3 deleted successfully"}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	result, err := c.DeleteEvent(context.Background(), "evt-3")

	require.NoError(t, err)
	assert.Equal(t, "Event evt-3 deleted successfully", result.Message)
}

func TestClient_APIErrorCarriesStatusAndMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"message": "event \"missing\" not found"}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	_, err := c.DeleteEvent(context.Background(), "missing")

	require.Error(t, err)
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusNotFound, apiErr.Status)
	assert.Contains(t, apiErr.Message, "not found")
}

func TestClient_APIErrorWithoutJSONBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte("upstream exploded"))
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	_, err := c.ListEvents(context.Background())

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadGateway, apiErr.Status)
	assert.Equal(t, "upstream exploded", apiErr.Message)
}

func TestClient_TransportFailureIsNotAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	srv.Close() // refuse connections

	c := NewClient(srv.URL)
	_, err := c.ListEvents(context.Background())

	require.Error(t, err)
	var apiErr *APIError
	assert.False(t, errors.As(err, &apiErr))
	assert.Contains(t, err.Error(), "failed to reach calendar service")
}
