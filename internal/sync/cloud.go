package sync

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
	"github.com/zulandar/taskdeck/internal/task"
)

const defaultCloudTimeout = 30 * time.Second

// CloudOpts holds parameters for creating a CloudAdapter.
type CloudOpts struct {
	BaseURL string
	Client  *http.Client
	Headers map[string]string
}

// CloudAdapter implements the adapter contract over HTTP against a peer
// instance exposing the same task endpoints, with and without an /api
// path prefix.
type CloudAdapter struct {
	baseURL string
	client  *http.Client
	headers map[string]string
}

// NewCloudAdapter builds a cloud adapter for the given base URL.
func NewCloudAdapter(opts CloudOpts) (*CloudAdapter, error) {
	baseURL := sanitizeBaseURL(opts.BaseURL)
	if baseURL == "" {
		return nil, fmt.Errorf("sync: cloud base URL is required")
	}
	client := opts.Client
	if client == nil {
		client = &http.Client{Timeout: defaultCloudTimeout}
	}
	return &CloudAdapter{baseURL: baseURL, client: client, headers: opts.Headers}, nil
}

func (a *CloudAdapter) Mode() Mode { return ModeCloud }

func (a *CloudAdapter) ListTasks(ctx context.Context) ([]models.Task, error) {
	payload, _, err := a.request(ctx, http.MethodGet, "/tasks", nil, false)
	if err != nil {
		return nil, err
	}
	return parseTaskList(payload), nil
}

func (a *CloudAdapter) GetTask(ctx context.Context, id uint) (*models.Task, error) {
	payload, notFound, err := a.request(ctx, http.MethodGet, fmt.Sprintf("/tasks/%d", id), nil, true)
	if err != nil || notFound {
		return nil, err
	}
	if parsed := parseSingleTask(payload); parsed.kind == parsedTask {
		t := parsed.task
		return &t, nil
	}
	return nil, nil
}

func (a *CloudAdapter) CreateTask(ctx context.Context, opts task.CreateOpts) (*models.Task, error) {
	body := map[string]string{"name": opts.Name}
	if opts.Description != "" {
		body["description"] = opts.Description
	}
	if opts.Column != "" {
		body["column"] = opts.Column
	}
	if opts.Assignee != "" {
		body["assignee"] = opts.Assignee
	}
	if opts.Metadata != "" {
		body["metadata"] = opts.Metadata
	}

	payload, _, err := a.request(ctx, http.MethodPost, "/tasks", body, false)
	if err != nil {
		return nil, err
	}
	parsed := parseSingleTask(payload)
	if parsed.kind != parsedTask {
		return nil, fmt.Errorf("sync: cloud createTask returned an invalid task payload")
	}
	t := parsed.task
	return &t, nil
}

func (a *CloudAdapter) UpdateTask(ctx context.Context, id uint, opts task.UpdateOpts) (*models.Task, error) {
	body := map[string]string{}
	if opts.Name != nil {
		body["name"] = *opts.Name
	}
	if opts.Description != nil {
		body["description"] = *opts.Description
	}
	if opts.Column != nil {
		body["column"] = *opts.Column
	}
	if opts.Assignee != nil {
		body["assignee"] = *opts.Assignee
	}
	if opts.Metadata != nil {
		body["metadata"] = *opts.Metadata
	}

	payload, notFound, err := a.request(ctx, http.MethodPut, fmt.Sprintf("/tasks/%d", id), body, true)
	if err != nil || notFound {
		return nil, err
	}
	if parsed := parseSingleTask(payload); parsed.kind == parsedTask {
		t := parsed.task
		return &t, nil
	}
	return nil, nil
}

func (a *CloudAdapter) MoveTask(ctx context.Context, id uint, column string) (*models.Task, error) {
	body := map[string]string{"column": column}
	payload, notFound, err := a.request(ctx, http.MethodPut, fmt.Sprintf("/tasks/%d/move", id), body, true)
	if err != nil || notFound {
		return nil, err
	}
	if parsed := parseSingleTask(payload); parsed.kind == parsedTask {
		t := parsed.task
		return &t, nil
	}
	return nil, nil
}

func (a *CloudAdapter) DeleteTask(ctx context.Context, id uint) (bool, error) {
	_, notFound, err := a.request(ctx, http.MethodDelete, fmt.Sprintf("/tasks/%d", id), nil, true)
	if err != nil {
		return false, err
	}
	return !notFound, nil
}

// request tries the /api-prefixed path first, then the bare path. A 404
// from a non-final candidate moves on to the next one; a final 404 is
// either a tolerated not-found or an error depending on allowNotFound.
// Any other failure is remembered and the next candidate tried.
func (a *CloudAdapter) request(ctx context.Context, method, endpoint string, body interface{}, allowNotFound bool) (interface{}, bool, error) {
	var encoded []byte
	if body != nil {
		var err error
		encoded, err = json.Marshal(body)
		if err != nil {
			return nil, false, fmt.Errorf("sync: encode request: %w", err)
		}
	}

	urls := []string{a.baseURL + "/api" + endpoint, a.baseURL + endpoint}
	var lastErr error

	for i, url := range urls {
		payload, status, err := a.do(ctx, method, url, encoded)
		if err != nil {
			lastErr = err
			continue
		}

		if status == http.StatusNotFound && i < len(urls)-1 {
			continue
		}
		if status == http.StatusNotFound && allowNotFound {
			return nil, true, nil
		}
		if status < 200 || status >= 300 {
			lastErr = extractError(payload, status)
			continue
		}

		return payload, false, nil
	}

	if allowNotFound {
		return nil, true, nil
	}
	if lastErr != nil {
		return nil, false, lastErr
	}
	return nil, false, fmt.Errorf("sync: cloud request failed")
}

// do executes one HTTP attempt and decodes the JSON body, if any.
func (a *CloudAdapter) do(ctx context.Context, method, url string, body []byte) (interface{}, int, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return nil, 0, fmt.Errorf("sync: build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for key, value := range a.headers {
		req.Header.Set(key, value)
	}

	resp, err := a.client.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("sync: cloud request: %w", err)
	}
	defer resp.Body.Close()

	text, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, 0, fmt.Errorf("sync: read response: %w", err)
	}
	if len(bytes.TrimSpace(text)) == 0 {
		return nil, resp.StatusCode, nil
	}

	var payload interface{}
	if err := json.Unmarshal(text, &payload); err != nil {
		return nil, 0, fmt.Errorf("sync: cloud adapter received invalid JSON")
	}
	return payload, resp.StatusCode, nil
}

// extractError surfaces the peer's error message when present.
func extractError(payload interface{}, status int) error {
	if record, ok := payload.(map[string]interface{}); ok {
		if msg, ok := record["error"].(string); ok && strings.TrimSpace(msg) != "" {
			return fmt.Errorf("sync: %s", strings.TrimSpace(msg))
		}
	}
	return fmt.Errorf("sync: cloud request failed with status %d", status)
}

func sanitizeBaseURL(baseURL string) string {
	return strings.TrimRight(strings.TrimSpace(baseURL), "/")
}
