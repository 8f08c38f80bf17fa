package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/oyolcinar/dus-notify/internal/models"
)

// Client is a thin HTTP client for the notification API. Each conceptual
// operation maps to exactly one request; failures surface as the typed
// errors in this package and retry policy is left to the caller.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// NewClient creates a notification API client. baseURL is the API root
// (e.g. https://api.dusapp.io/api/v1) and token the bearer credential.
func NewClient(baseURL, token string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// do builds the request, handles auth headers, JSON (de)serialization and
// the status-code to error-category mapping shared by every operation.
func (c *Client) do(ctx context.Context, method, path string, body, result any) error {
	var bodyReader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshaling request body: %w", err)
		}
		bodyReader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &NetworkError{Op: method + " " + path, Wrapped: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return &NetworkError{Op: method + " " + path, Wrapped: err}
	}

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		if result != nil && len(respBody) > 0 {
			if err := json.Unmarshal(respBody, result); err != nil {
				return fmt.Errorf("decoding response for %s %s: %w", method, path, err)
			}
		}
		return nil
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return &AuthError{Status: resp.StatusCode, Message: errorMessage(respBody)}
	case resp.StatusCode == http.StatusNotFound:
		return &NotFoundError{Resource: path}
	case resp.StatusCode == http.StatusBadRequest || resp.StatusCode == http.StatusUnprocessableEntity:
		return &ValidationError{Status: resp.StatusCode, Message: errorMessage(respBody)}
	default:
		return &NetworkError{Op: method + " " + path, Status: resp.StatusCode}
	}
}

func errorMessage(body []byte) string {
	var payload struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &payload); err == nil && payload.Message != "" {
		return payload.Message
	}
	return strings.TrimSpace(string(body))
}

// ListNotifications fetches one page. limit must be positive and offset
// non-negative; the server rejects anything else.
func (c *Client) ListNotifications(ctx context.Context, limit, offset int, unreadOnly bool) (*models.NotificationListResponse, error) {
	if limit <= 0 {
		return nil, &ValidationError{Message: "limit must be positive"}
	}
	if offset < 0 {
		return nil, &ValidationError{Message: "offset must be non-negative"}
	}

	q := url.Values{}
	q.Set("limit", strconv.Itoa(limit))
	q.Set("offset", strconv.Itoa(offset))
	if unreadOnly {
		q.Set("unread_only", "true")
	}

	var out models.NotificationListResponse
	if err := c.do(ctx, http.MethodGet, "/notifications?"+q.Encode(), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UnreadCount fetches the server's unread total. Eventually consistent
// with the locally derived count.
func (c *Client) UnreadCount(ctx context.Context) (int, error) {
	var out models.UnreadCountResponse
	if err := c.do(ctx, http.MethodGet, "/notifications/unread-count", nil, &out); err != nil {
		return 0, err
	}
	return out.UnreadCount, nil
}

// MarkAsRead marks one notification read and returns the updated row.
// Marking an already-read notification succeeds trivially.
func (c *Client) MarkAsRead(ctx context.Context, id int64) (*models.Notification, error) {
	var out models.Notification
	path := fmt.Sprintf("/notifications/%d/read", id)
	if err := c.do(ctx, http.MethodPost, path, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// MarkAllAsRead marks every unread notification read and returns how many
// the server touched (zero when there was nothing to do).
func (c *Client) MarkAllAsRead(ctx context.Context) (int64, error) {
	var out models.MarkAllReadResponse
	if err := c.do(ctx, http.MethodPost, "/notifications/mark-all-read", nil, &out); err != nil {
		return 0, err
	}
	return out.MarkedCount, nil
}

// DeleteNotification deletes one notification. A NotFoundError means it
// was already gone; callers collapse the item locally either way.
func (c *Client) DeleteNotification(ctx context.Context, id int64) error {
	path := fmt.Sprintf("/notifications/%d", id)
	return c.do(ctx, http.MethodDelete, path, nil, nil)
}

// Preferences fetches the full preference row set for the current user.
func (c *Client) Preferences(ctx context.Context) ([]models.NotificationPreferences, error) {
	var out []models.NotificationPreferences
	if err := c.do(ctx, http.MethodGet, "/notifications/preferences", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// UpdatePreference applies a partial patch; only the patch's non-nil
// fields change server-side. Returns the full updated row.
func (c *Client) UpdatePreference(ctx context.Context, patch models.PreferencePatch) (*models.NotificationPreferences, error) {
	var out models.NotificationPreferences
	if err := c.do(ctx, http.MethodPut, "/notifications/preferences", patch, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// RegisterDeviceToken registers a push token for this installation.
func (c *Client) RegisterDeviceToken(ctx context.Context, req models.RegisterDeviceTokenRequest) (*models.RegisterDeviceTokenResponse, error) {
	var out models.RegisterDeviceTokenResponse
	if err := c.do(ctx, http.MethodPost, "/notifications/device-token", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ClearDeviceTokens deactivates every token for the current user.
func (c *Client) ClearDeviceTokens(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "/notifications/device-token/clear", nil, nil)
}

// SendTestNotification triggers the template verification path. Errors
// surface to the caller but never touch notification state.
func (c *Client) SendTestNotification(ctx context.Context, req models.TestNotificationRequest) (*models.TestNotificationResponse, error) {
	var out models.TestNotificationResponse
	if err := c.do(ctx, http.MethodPost, "/notifications/test", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Stats fetches the windowed aggregate counts.
func (c *Client) Stats(ctx context.Context, days int) (*models.NotificationStats, error) {
	var out models.NotificationStats
	path := "/notifications/stats?days=" + strconv.Itoa(days)
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
