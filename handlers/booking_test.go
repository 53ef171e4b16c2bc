package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"studiobook/models"
	"studiobook/services/booking"
	"studiobook/utils"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type stubSubmissions struct {
	submitted []models.SubmissionPayload
	resp      json.RawMessage
	err       error
}

func (s *stubSubmissions) Submit(_ context.Context, p models.SubmissionPayload) (string, error) {
	s.submitted = append(s.submitted, p)
	return "sub-1", s.err
}

func (s *stubSubmissions) CreateBooking(context.Context, models.CreateBookingRequest) (json.RawMessage, error) {
	return s.resp, s.err
}

func (s *stubSubmissions) CreateTask(context.Context, models.CreateTaskRequest) (json.RawMessage, error) {
	return s.resp, s.err
}

func newBookingRouter(svc booking.SubmissionService) *gin.Engine {
	h := NewBookingHandler(svc, zap.NewNop())
	r := gin.New()
	r.POST("/api/submit-booking", h.SubmitBooking)
	r.POST("/api/create-booking", h.CreateBooking)
	r.POST("/api/create-task", h.CreateTask)
	return r
}

func postJSON(r http.Handler, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

// realSubmissions has every follow-up disabled, so Submit only validates.
func realSubmissions() *booking.DefaultSubmissionService {
	return &booking.DefaultSubmissionService{
		FollowUps: &booking.FollowUpRunner{Logger: zap.NewNop()},
		Logger:    zap.NewNop(),
	}
}

func TestSubmitBookingMissingFields(t *testing.T) {
	r := newBookingRouter(realSubmissions())

	tests := []struct {
		name    string
		body    string
		missing []string
	}{
		{
			name:    "no slot",
			body:    `{"selectedDateTime":"","intakeData":null,"formData":{"name":"a","email":"a@b.c"}}`,
			missing: []string{"selectedDateTime"},
		},
		{
			name:    "no contact",
			body:    `{"selectedDateTime":"2026-03-10T14:00:00Z","formData":{"name":"","email":""}}`,
			missing: []string{"formData.name", "formData.email"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := postJSON(r, "/api/submit-booking", tt.body)
			require.Equal(t, http.StatusBadRequest, w.Code)

			var body struct {
				Error   string   `json:"error"`
				Missing []string `json:"missing"`
			}
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Equal(t, "Missing required fields", body.Error)
			for _, m := range tt.missing {
				assert.Contains(t, body.Missing, m)
			}
		})
	}
}

func TestSubmitBookingInvalidEmail(t *testing.T) {
	r := newBookingRouter(realSubmissions())

	w := postJSON(r, "/api/submit-booking", `{"selectedDateTime":"2026-03-10T14:00:00Z","formData":{"name":"Jane","email":"jane"}}`)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"Missing required fields","missing":[],"invalid":["formData.email"]}`, w.Body.String())
}

func TestSubmitBookingOK(t *testing.T) {
	r := newBookingRouter(realSubmissions())

	w := postJSON(r, "/api/submit-booking", `{
		"selectedDateTime":"2026-03-10T14:00:00Z",
		"intakeData":{"companyName":"Bakkerij Jansen","projectType":"new","services":["Webdesign"]},
		"formData":{"name":"Jane","email":"jane@x.nl"}
	}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"ok":true}`, w.Body.String())
}

func TestSubmitBookingMalformedBody(t *testing.T) {
	stub := &stubSubmissions{}
	r := newBookingRouter(stub)

	w := postJSON(r, "/api/submit-booking", `{"selectedDateTime":`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"Invalid request body"}`, w.Body.String())
	assert.Empty(t, stub.submitted)
}

func TestCreateBookingRelaysResponse(t *testing.T) {
	stub := &stubSubmissions{resp: json.RawMessage(`{"resource":{"uri":"inv"}}`)}
	r := newBookingRouter(stub)

	w := postJSON(r, "/api/create-booking", `{"startTime":"2026-03-10T14:00:00Z","name":"Jane","email":"jane@x.nl"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"resource":{"uri":"inv"}}`, w.Body.String())
}

func TestCreateBookingUpstreamError(t *testing.T) {
	stub := &stubSubmissions{err: &utils.UpstreamError{
		Provider:   "calendly",
		StatusCode: http.StatusBadRequest,
		Body:       []byte(`{"title":"Invalid Argument"}`),
	}}
	r := newBookingRouter(stub)

	w := postJSON(r, "/api/create-booking", `{"startTime":"2026-03-10T14:00:00Z","name":"Jane","email":"jane@x.nl"}`)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"Failed to create booking","details":{"title":"Invalid Argument"}}`, w.Body.String())
}

func TestCreateTaskNotConfigured(t *testing.T) {
	r := newBookingRouter(realSubmissions())

	w := postJSON(r, "/api/create-task", `{"name":"Jane","email":"jane@x.nl","meetingStartTime":"2026-03-10T14:00:00Z"}`)
	require.Equal(t, http.StatusInternalServerError, w.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Contains(t, body["error"], "CLICKUP_API_TOKEN")
}

func TestCreateTaskUpstreamNonJSONDetails(t *testing.T) {
	stub := &stubSubmissions{err: &utils.UpstreamError{
		Provider:   "clickup",
		StatusCode: http.StatusBadGateway,
		Body:       []byte("bad gateway"),
	}}
	r := newBookingRouter(stub)

	w := postJSON(r, "/api/create-task", `{}`)
	require.Equal(t, http.StatusBadGateway, w.Code)
	assert.JSONEq(t, `{"error":"Failed to create task","details":"bad gateway"}`, w.Body.String())
}
