package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/oyolcinar/dus-notify/internal/models"
)

// TestListNotificationsQueryAndDecode verifies query parameters, the
// bearer header and the response envelope decoding.
func TestListNotificationsQueryAndDecode(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/notifications" {
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer secret" {
			t.Fatalf("unexpected auth header %q", got)
		}
		q := r.URL.Query()
		if q.Get("limit") != "20" || q.Get("offset") != "0" || q.Get("unread_only") != "" {
			t.Fatalf("unexpected query %s", r.URL.RawQuery)
		}
		json.NewEncoder(w).Encode(models.NotificationListResponse{
			Notifications: []models.Notification{
				{ID: 1, Type: models.TypeStudyReminder},
				{ID: 2, Type: models.TypeDuelInvitation},
				{ID: 3, Type: models.TypeSystemAnnouncement, IsRead: true},
			},
			UnreadCount: 2,
			TotalCount:  3,
		})
	}))
	defer server.Close()

	c := NewClient(server.URL, "secret")
	resp, err := c.ListNotifications(context.Background(), 20, 0, false)
	if err != nil {
		t.Fatalf("ListNotifications returned error: %v", err)
	}
	if len(resp.Notifications) != 3 {
		t.Fatalf("expected 3 notifications, got %d", len(resp.Notifications))
	}
	if resp.UnreadCount != 2 {
		t.Fatalf("expected unread count 2, got %d", resp.UnreadCount)
	}
}

// TestListNotificationsRejectsBadArgs verifies local validation happens
// before any request.
func TestListNotificationsRejectsBadArgs(t *testing.T) {
	c := NewClient("http://localhost:1", "secret")

	if _, err := c.ListNotifications(context.Background(), 0, 0, false); err == nil {
		t.Fatal("expected error for zero limit")
	} else if _, ok := err.(*ValidationError); !ok {
		t.Fatalf("expected ValidationError, got %T", err)
	}

	if _, err := c.ListNotifications(context.Background(), 20, -1, false); err == nil {
		t.Fatal("expected error for negative offset")
	} else if _, ok := err.(*ValidationError); !ok {
		t.Fatalf("expected ValidationError, got %T", err)
	}
}

// TestStatusCodeMapping verifies each status class maps to its error
// category.
func TestStatusCodeMapping(t *testing.T) {
	status := http.StatusOK
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(status)
		json.NewEncoder(w).Encode(map[string]string{"message": "nope"})
	}))
	defer server.Close()
	c := NewClient(server.URL, "secret")
	ctx := context.Background()

	status = http.StatusUnauthorized
	if _, err := c.UnreadCount(ctx); !IsAuth(err) {
		t.Fatalf("expected AuthError for 401, got %v", err)
	}

	status = http.StatusNotFound
	if _, err := c.MarkAsRead(ctx, 99); !IsNotFound(err) {
		t.Fatalf("expected NotFoundError for 404, got %v", err)
	}

	status = http.StatusBadRequest
	if _, err := c.UnreadCount(ctx); err == nil {
		t.Fatal("expected error for 400")
	} else if ve, ok := err.(*ValidationError); !ok || ve.Message != "nope" {
		t.Fatalf("expected ValidationError with server message, got %v", err)
	}

	status = http.StatusInternalServerError
	if _, err := c.UnreadCount(ctx); !IsNetwork(err) {
		t.Fatalf("expected NetworkError for 500, got %v", err)
	}
}

// TestTransportFailureIsNetworkError verifies a refused connection
// surfaces as a retryable NetworkError.
func TestTransportFailureIsNetworkError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // nothing listens anymore

	c := NewClient(server.URL, "secret")
	if _, err := c.UnreadCount(context.Background()); !IsNetwork(err) {
		t.Fatalf("expected NetworkError, got %v", err)
	}
}

// TestUpdatePreferenceSendsOnlyPatchedFields verifies absent fields stay
// out of the request body, preserving the patch semantics server-side.
func TestUpdatePreferenceSendsOnlyPatchedFields(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPut {
			t.Fatalf("unexpected method %s", r.Method)
		}
		var body map[string]any
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatalf("decoding body: %v", err)
		}
		if _, present := body["in_app_enabled"]; present {
			t.Fatal("unpatched field in_app_enabled was sent")
		}
		if body["push_enabled"] != false {
			t.Fatalf("expected push_enabled false, got %v", body["push_enabled"])
		}
		json.NewEncoder(w).Encode(models.NotificationPreferences{
			Type:           models.TypeDuelInvitation,
			InAppEnabled:   true,
			PushEnabled:    false,
			FrequencyHours: 2,
		})
	}))
	defer server.Close()

	c := NewClient(server.URL, "secret")
	off := false
	row, err := c.UpdatePreference(context.Background(), models.PreferencePatch{
		Type:        models.TypeDuelInvitation,
		PushEnabled: &off,
	})
	if err != nil {
		t.Fatalf("UpdatePreference returned error: %v", err)
	}
	if row.PushEnabled || !row.InAppEnabled || row.FrequencyHours != 2 {
		t.Fatalf("unexpected merged row: %+v", row)
	}
}

// TestDeleteNotificationNotFound verifies 404 surfaces as NotFoundError
// for the caller to treat as a tolerable outcome.
func TestDeleteNotificationNotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"message":"Notification not found"}`, http.StatusNotFound)
	}))
	defer server.Close()

	c := NewClient(server.URL, "secret")
	err := c.DeleteNotification(context.Background(), 42)
	if !IsNotFound(err) {
		t.Fatalf("expected NotFoundError, got %v", err)
	}
}
