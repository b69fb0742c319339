// Package board holds the client-side view of the task board: an HTTP
// client for the server API, a local task snapshot, and the optimistic
// move flow that mutates the snapshot before the server confirms.
package board

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/zulandar/taskdeck/internal/models"
)

// Client talks to a taskdeck server. Every request is attempted under
// the /api prefix first and bare second, so it works against servers
// from either generation.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a client for the server at baseURL.
func NewClient(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
	}
}

// CreateTaskRequest is the payload for creating a task.
type CreateTaskRequest struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Column      string `json:"column,omitempty"`
	Assignee    string `json:"assignee,omitempty"`
	Metadata    string `json:"metadata,omitempty"`
}

// UpdateTaskRequest is the payload for a partial task update. Nil
// fields are left untouched by the server.
type UpdateTaskRequest struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
	Column      *string `json:"column,omitempty"`
	Assignee    *string `json:"assignee,omitempty"`
	Metadata    *string `json:"metadata,omitempty"`
}

// ModeStatus reports the server's current task routing state.
type ModeStatus struct {
	Mode            string `json:"mode"`
	CloudConfigured bool   `json:"cloudConfigured"`
}

// ErrNotFound is returned when the server answers 404 on a task that
// should exist.
var ErrNotFound = fmt.Errorf("board: not found")

// requestWithFallback issues method+endpoint against /api first and
// bare second. A 404 moves on to the next candidate without recording
// an error; any other failure is remembered and reported only if no
// candidate succeeds.
func (c *Client) requestWithFallback(ctx context.Context, method, endpoint string, body interface{}) ([]byte, int, error) {
	var payload []byte
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, 0, fmt.Errorf("board: encode request: %w", err)
		}
		payload = data
	}

	candidates := []string{
		c.baseURL + "/api" + endpoint,
		c.baseURL + endpoint,
	}

	var lastErr error
	for _, url := range candidates {
		var reader io.Reader
		if payload != nil {
			reader = bytes.NewReader(payload)
		}
		req, err := http.NewRequestWithContext(ctx, method, url, reader)
		if err != nil {
			return nil, 0, fmt.Errorf("board: build request: %w", err)
		}
		if payload != nil {
			req.Header.Set("Content-Type", "application/json")
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = fmt.Errorf("board: %s %s: %w", method, endpoint, err)
			continue
		}
		data, readErr := io.ReadAll(resp.Body)
		resp.Body.Close()
		if readErr != nil {
			lastErr = fmt.Errorf("board: read response: %w", readErr)
			continue
		}

		if resp.StatusCode == http.StatusNotFound {
			continue
		}
		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			lastErr = fmt.Errorf("board: %s %s: %s", method, endpoint, extractError(data, resp.StatusCode))
			continue
		}
		return data, resp.StatusCode, nil
	}

	if lastErr != nil {
		return nil, 0, lastErr
	}
	return nil, http.StatusNotFound, ErrNotFound
}

func extractError(data []byte, status int) string {
	var payload struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(data, &payload); err == nil && payload.Error != "" {
		return payload.Error
	}
	return fmt.Sprintf("status %d", status)
}

// ListTasks fetches every task on the board.
func (c *Client) ListTasks(ctx context.Context) ([]models.Task, error) {
	data, _, err := c.requestWithFallback(ctx, http.MethodGet, "/tasks", nil)
	if err != nil {
		if err == ErrNotFound {
			return nil, fmt.Errorf("board: unable to reach task endpoints")
		}
		return nil, err
	}

	var payload struct {
		Tasks []models.Task `json:"tasks"`
	}
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, fmt.Errorf("board: decode task list: %w", err)
	}
	return payload.Tasks, nil
}

// GetTask fetches a single task. Returns ErrNotFound when both
// endpoint candidates answer 404.
func (c *Client) GetTask(ctx context.Context, id uint) (*models.Task, error) {
	data, _, err := c.requestWithFallback(ctx, http.MethodGet, fmt.Sprintf("/tasks/%d", id), nil)
	if err != nil {
		return nil, err
	}
	return decodeTask(data)
}

// CreateTask creates a task and returns the server record.
func (c *Client) CreateTask(ctx context.Context, req CreateTaskRequest) (*models.Task, error) {
	data, _, err := c.requestWithFallback(ctx, http.MethodPost, "/tasks", req)
	if err != nil {
		return nil, err
	}
	return decodeTask(data)
}

// UpdateTask applies a partial update and returns the server record.
func (c *Client) UpdateTask(ctx context.Context, id uint, req UpdateTaskRequest) (*models.Task, error) {
	data, _, err := c.requestWithFallback(ctx, http.MethodPut, fmt.Sprintf("/tasks/%d", id), req)
	if err != nil {
		return nil, err
	}
	return decodeTask(data)
}

// MoveTask moves a task to column and returns the server record.
func (c *Client) MoveTask(ctx context.Context, id uint, column string) (*models.Task, error) {
	body := map[string]string{"column": column}
	data, _, err := c.requestWithFallback(ctx, http.MethodPut, fmt.Sprintf("/tasks/%d/move", id), body)
	if err != nil {
		return nil, err
	}
	return decodeTask(data)
}

// DeleteTask deletes a task.
func (c *Client) DeleteTask(ctx context.Context, id uint) error {
	_, _, err := c.requestWithFallback(ctx, http.MethodDelete, fmt.Sprintf("/tasks/%d", id), nil)
	return err
}

// ListActivities fetches the most recent activities, newest first.
func (c *Client) ListActivities(ctx context.Context, limit int) ([]models.Activity, error) {
	endpoint := "/activities"
	if limit > 0 {
		endpoint = fmt.Sprintf("/activities?limit=%d", limit)
	}
	data, _, err := c.requestWithFallback(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}

	var payload struct {
		Activities []models.Activity `json:"activities"`
	}
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, fmt.Errorf("board: decode activities: %w", err)
	}
	return payload.Activities, nil
}

// Mode fetches the server's current routing mode.
func (c *Client) Mode(ctx context.Context) (*ModeStatus, error) {
	data, _, err := c.requestWithFallback(ctx, http.MethodGet, "/db-mode", nil)
	if err != nil {
		return nil, err
	}
	var status ModeStatus
	if err := json.Unmarshal(data, &status); err != nil {
		return nil, fmt.Errorf("board: decode mode: %w", err)
	}
	return &status, nil
}

// SetMode pins the server's routing mode. An empty mode clears the
// override.
func (c *Client) SetMode(ctx context.Context, mode string) (*ModeStatus, error) {
	body := map[string]interface{}{"mode": nil}
	if mode != "" {
		body["mode"] = mode
	}
	data, _, err := c.requestWithFallback(ctx, http.MethodPost, "/db-mode", body)
	if err != nil {
		return nil, err
	}
	var status ModeStatus
	if err := json.Unmarshal(data, &status); err != nil {
		return nil, fmt.Errorf("board: decode mode: %w", err)
	}
	return &status, nil
}

func decodeTask(data []byte) (*models.Task, error) {
	if len(data) == 0 {
		return nil, nil
	}
	var t models.Task
	if err := json.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("board: decode task: %w", err)
	}
	return &t, nil
}
