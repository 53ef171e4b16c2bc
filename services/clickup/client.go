package clickup

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

	"studiobook/utils"

	"go.uber.org/zap"
)

const providerName = "clickup"

// Client is a ClickUp API client bound to one personal API token.
type Client struct {
	httpClient *http.Client
	baseURL    string
	token      string
	logger     *zap.Logger
}

// NewClient creates a new ClickUp API client
func NewClient(baseURL, token string, logger *zap.Logger) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		baseURL:    strings.TrimRight(baseURL, "/"),
		token:      token,
		logger:     logger.Named("clickup"),
	}
}

// CreateTask creates a task in the given list and returns ClickUp's raw response.
func (c *Client) CreateTask(ctx context.Context, listID string, task TaskRequest) (json.RawMessage, error) {
	if c.token == "" {
		return nil, &utils.ConfigurationError{Setting: "CLICKUP_API_TOKEN"}
	}
	if listID == "" {
		return nil, &utils.ConfigurationError{Setting: "CLICKUP_LIST_ID"}
	}

	payload, err := json.Marshal(task)
	if err != nil {
		return nil, fmt.Errorf("clickup: marshal task: %w", err)
	}

	urlStr := fmt.Sprintf("%s/list/%s/task", c.baseURL, url.PathEscape(listID))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, urlStr, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("clickup: create request: %w", err)
	}
	req.Header.Set("Authorization", c.token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		utils.ObserveUpstream(providerName, 0)
		return nil, &utils.TransportError{Provider: providerName, Op: "create task", Err: err}
	}
	defer resp.Body.Close()
	utils.ObserveUpstream(providerName, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &utils.TransportError{Provider: providerName, Op: "read response", Err: err}
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &utils.UpstreamError{Provider: providerName, StatusCode: resp.StatusCode, Body: body}
	}

	var created taskResponse
	if err := json.Unmarshal(body, &created); err != nil {
		return nil, &utils.TransportError{Provider: providerName, Op: "parse task response", Err: err}
	}
	c.logger.Info("task created", zap.String("taskId", created.ID), zap.String("url", created.URL))
	return json.RawMessage(body), nil
}
