package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"studiobook/models"
	"studiobook/utils"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type stubAvailability struct {
	start, end string
	result     *models.AvailableTimesResult
	err        error
}

func (s *stubAvailability) AvailableTimes(_ context.Context, start, end string) (*models.AvailableTimesResult, error) {
	s.start, s.end = start, end
	return s.result, s.err
}

func getAvailable(svc *stubAvailability, query string) *httptest.ResponseRecorder {
	r := gin.New()
	r.GET("/api/available-times", NewAvailabilityHandler(svc, zap.NewNop()).GetAvailableTimes)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/available-times"+query, nil))
	return w
}

func TestGetAvailableTimes(t *testing.T) {
	svc := &stubAvailability{result: &models.AvailableTimesResult{
		Collection:     []models.AvailableSlot{{StartTime: "2026-03-02T09:00:00Z", Status: "available"}},
		MinNoticeHours: 4,
		MaxDaysAhead:   31,
	}}

	w := getAvailable(svc, "?start_time=2026-03-02T00:00:00Z&end_time=2026-03-05T00:00:00Z")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "2026-03-02T00:00:00Z", svc.start)
	assert.Equal(t, "2026-03-05T00:00:00Z", svc.end)
	assert.JSONEq(t, `{
		"collection":[{"start_time":"2026-03-02T09:00:00Z","status":"available"}],
		"min_notice_hours":4,
		"max_days_ahead":31
	}`, w.Body.String())
}

func TestGetAvailableTimesErrors(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		body   string
	}{
		{
			name:   "bad bounds",
			err:    &utils.ValidationError{Message: "Invalid time range", Invalid: []string{"start_time"}},
			status: http.StatusBadRequest,
			body:   `{"error":"Invalid time range","missing":[],"invalid":["start_time"]}`,
		},
		{
			name:   "upstream passthrough",
			err:    &utils.UpstreamError{Provider: "calendly", StatusCode: http.StatusForbidden, Body: []byte(`{"title":"Permission Denied"}`)},
			status: http.StatusForbidden,
			body:   `{"title":"Permission Denied"}`,
		},
		{
			name:   "transport failure",
			err:    &utils.TransportError{Provider: "calendly", Op: "failed to fetch available times", Err: context.DeadlineExceeded},
			status: http.StatusInternalServerError,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := getAvailable(&stubAvailability{err: tt.err}, "")
			assert.Equal(t, tt.status, w.Code)
			if tt.body != "" {
				assert.JSONEq(t, tt.body, w.Body.String())
			}
		})
	}
}

func TestGetAvailableTimesNotConfigured(t *testing.T) {
	w := getAvailable(&stubAvailability{err: &utils.ConfigurationError{Setting: "CALENDLY_API_TOKEN"}}, "")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "CALENDLY_API_TOKEN")
}

func TestHealthHandlerWithoutMonitor(t *testing.T) {
	r := gin.New()
	r.GET("/health", HealthHandler(nil))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}
