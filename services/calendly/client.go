package calendly

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"studiobook/models"
	"studiobook/utils"

	"go.uber.org/zap"
)

const (
	providerName = "calendly"

	// Calendly expects microsecond UTC timestamps.
	timeLayout = "2006-01-02T15:04:05.000000Z"
)

// Client is a Calendly API client bound to one personal access token.
type Client struct {
	httpClient *http.Client
	baseURL    string
	token      string
	logger     *zap.Logger
}

// NewClient creates a client with a 15s request timeout.
func NewClient(baseURL, token string, logger *zap.Logger) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 15 * time.Second},
		baseURL:    strings.TrimRight(baseURL, "/"),
		token:      token,
		logger:     logger.Named("calendly"),
	}
}

// FormatTime renders t the way Calendly query parameters expect it.
func FormatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

// ListAvailableTimes lists open slots of an event type in [start, end).
func (c *Client) ListAvailableTimes(ctx context.Context, eventTypeURI string, start, end time.Time) ([]models.AvailableSlot, error) {
	q := url.Values{}
	q.Set("event_type", eventTypeURI)
	q.Set("start_time", FormatTime(start))
	q.Set("end_time", FormatTime(end))

	body, err := c.do(ctx, http.MethodGet, "/event_type_available_times?"+q.Encode(), nil)
	if err != nil {
		return nil, err
	}

	var resp availableTimesResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, &utils.TransportError{Provider: providerName, Op: "parse available times", Err: err}
	}
	c.logger.Debug("listed available times",
		zap.Int("count", len(resp.Collection)),
		zap.Time("start", start), zap.Time("end", end))
	return resp.Collection, nil
}

// CreateInvitee books the invitee into the given slot and returns the raw
// Calendly response.
func (c *Client) CreateInvitee(ctx context.Context, req InviteeRequest) (json.RawMessage, error) {
	payload, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("calendly: marshal invitee: %w", err)
	}
	body, err := c.do(ctx, http.MethodPost, "/invitees", payload)
	if err != nil {
		return nil, err
	}
	if !json.Valid(body) {
		return nil, &utils.TransportError{Provider: providerName, Op: "parse invitee response", Err: fmt.Errorf("response is not JSON")}
	}
	return json.RawMessage(body), nil
}

// do performs an authenticated call and returns the body of a 2xx answer.
func (c *Client) do(ctx context.Context, method, path string, payload []byte) ([]byte, error) {
	if c.token == "" {
		return nil, &utils.ConfigurationError{Setting: "CALENDLY_API_TOKEN"}
	}

	var reqBody io.Reader
	if payload != nil {
		reqBody = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return nil, fmt.Errorf("calendly: create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		utils.ObserveUpstream(providerName, 0)
		return nil, &utils.TransportError{Provider: providerName, Op: method + " " + strings.SplitN(path, "?", 2)[0], Err: err}
	}
	defer resp.Body.Close()
	utils.ObserveUpstream(providerName, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &utils.TransportError{Provider: providerName, Op: "read response", Err: err}
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.logger.Warn("calendly returned an error",
			zap.Int("status", resp.StatusCode),
			zap.String("path", strings.SplitN(path, "?", 2)[0]))
		return nil, &utils.UpstreamError{Provider: providerName, StatusCode: resp.StatusCode, Body: body}
	}
	return body, nil
}
