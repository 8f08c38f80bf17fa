package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/oyolcinar/dus-notify/internal/models"
	"github.com/oyolcinar/dus-notify/validators"
)

type fakeNotificationRepo struct {
	notifications []models.Notification
	unread        int64
	markReadErr   error
	deleteErr     error
	markedAll     bool
}

func (f *fakeNotificationRepo) Create(n *models.Notification) error { return nil }
func (f *fakeNotificationRepo) GetByUserID(userID int64, limit, offset int, unreadOnly bool) ([]models.Notification, int64, error) {
	if offset > len(f.notifications) {
		offset = len(f.notifications)
	}
	end := offset + limit
	if end > len(f.notifications) {
		end = len(f.notifications)
	}
	return f.notifications[offset:end], int64(len(f.notifications)), nil
}
func (f *fakeNotificationRepo) GetUnreadCount(userID int64) (int64, error) { return f.unread, nil }
func (f *fakeNotificationRepo) MarkAsRead(userID, id int64) (*models.Notification, error) {
	if f.markReadErr != nil {
		return nil, f.markReadErr
	}
	for i := range f.notifications {
		if f.notifications[i].ID == id {
			now := time.Now().UTC()
			f.notifications[i].IsRead = true
			f.notifications[i].ReadAt = &now
			return &f.notifications[i], nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}
func (f *fakeNotificationRepo) MarkAllAsRead(userID int64) (int64, error) {
	f.markedAll = true
	return f.unread, nil
}
func (f *fakeNotificationRepo) Delete(userID, id int64) error { return f.deleteErr }
func (f *fakeNotificationRepo) GetStats(userID int64, days int) (*models.NotificationStats, error) {
	return &models.NotificationStats{Days: days, ByType: map[models.NotificationType]int{}}, nil
}
func (f *fakeNotificationRepo) LastSentAt(userID int64, t models.NotificationType) (*time.Time, error) {
	return nil, nil
}
func (f *fakeNotificationRepo) MarkSent(id int64) error { return nil }

func newTestContext(t *testing.T, method, target string, body string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	e.Validator = validators.NewValidator()

	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set("userID", int64(7))
	return c, rec
}

// TestGetNotificationsReturnsPageWithCounts verifies the list response
// carries the page plus unread and total counts.
func TestGetNotificationsReturnsPageWithCounts(t *testing.T) {
	repo := &fakeNotificationRepo{
		notifications: []models.Notification{
			{ID: 3, UserID: 7, Type: models.TypeDuelInvitation},
			{ID: 2, UserID: 7, Type: models.TypeStudyReminder, IsRead: true},
			{ID: 1, UserID: 7, Type: models.TypeSystemAnnouncement},
		},
		unread: 2,
	}
	h := NewNotificationHandler(repo)

	c, rec := newTestContext(t, http.MethodGet, "/api/v1/notifications?limit=2&offset=0", "")
	if err := h.GetNotifications(c); err != nil {
		t.Fatalf("GetNotifications returned error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp models.NotificationListResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(resp.Notifications) != 2 {
		t.Fatalf("expected page of 2, got %d", len(resp.Notifications))
	}
	if resp.UnreadCount != 2 || resp.TotalCount != 3 {
		t.Fatalf("expected unread=2 total=3, got unread=%d total=%d", resp.UnreadCount, resp.TotalCount)
	}
}

// TestGetNotificationsDefaultsBadLimit verifies out-of-range limits fall
// back to the default page size instead of erroring.
func TestGetNotificationsDefaultsBadLimit(t *testing.T) {
	repo := &fakeNotificationRepo{notifications: []models.Notification{{ID: 1, UserID: 7}}}
	h := NewNotificationHandler(repo)

	c, rec := newTestContext(t, http.MethodGet, "/api/v1/notifications?limit=9999", "")
	if err := h.GetNotifications(c); err != nil {
		t.Fatalf("GetNotifications returned error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

// TestGetNotificationsRequiresAuth verifies a request without a user id
// in context is rejected.
func TestGetNotificationsRequiresAuth(t *testing.T) {
	h := NewNotificationHandler(&fakeNotificationRepo{})

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/notifications", nil)
	c := e.NewContext(req, httptest.NewRecorder())

	err := h.GetNotifications(c)
	httpErr, ok := err.(*echo.HTTPError)
	if !ok || httpErr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 HTTPError, got %v", err)
	}
}

// TestMarkAsReadReturnsUpdatedRow verifies the endpoint responds with the
// row after marking it read.
func TestMarkAsReadReturnsUpdatedRow(t *testing.T) {
	repo := &fakeNotificationRepo{notifications: []models.Notification{{ID: 5, UserID: 7}}}
	h := NewNotificationHandler(repo)

	c, rec := newTestContext(t, http.MethodPost, "/api/v1/notifications/5/read", "")
	c.SetParamNames("id")
	c.SetParamValues("5")
	if err := h.MarkAsRead(c); err != nil {
		t.Fatalf("MarkAsRead returned error: %v", err)
	}

	var got models.Notification
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !got.IsRead || got.ReadAt == nil {
		t.Fatal("expected returned row to be read with a read timestamp")
	}
}

// TestMarkAsReadUnknownIDIs404 verifies a missing row maps to not found.
func TestMarkAsReadUnknownIDIs404(t *testing.T) {
	h := NewNotificationHandler(&fakeNotificationRepo{})

	c, _ := newTestContext(t, http.MethodPost, "/api/v1/notifications/999/read", "")
	c.SetParamNames("id")
	c.SetParamValues("999")

	err := h.MarkAsRead(c)
	httpErr, ok := err.(*echo.HTTPError)
	if !ok || httpErr.Code != http.StatusNotFound {
		t.Fatalf("expected 404 HTTPError, got %v", err)
	}
}

// TestMarkAsReadRejectsNonNumericID verifies a malformed id is a 400.
func TestMarkAsReadRejectsNonNumericID(t *testing.T) {
	h := NewNotificationHandler(&fakeNotificationRepo{})

	c, _ := newTestContext(t, http.MethodPost, "/api/v1/notifications/abc/read", "")
	c.SetParamNames("id")
	c.SetParamValues("abc")

	err := h.MarkAsRead(c)
	httpErr, ok := err.(*echo.HTTPError)
	if !ok || httpErr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 HTTPError, got %v", err)
	}
}

// TestMarkAllAsReadReportsCount verifies the marked count comes back in
// the response body.
func TestMarkAllAsReadReportsCount(t *testing.T) {
	repo := &fakeNotificationRepo{unread: 4}
	h := NewNotificationHandler(repo)

	c, rec := newTestContext(t, http.MethodPost, "/api/v1/notifications/mark-all-read", "")
	if err := h.MarkAllAsRead(c); err != nil {
		t.Fatalf("MarkAllAsRead returned error: %v", err)
	}
	if !repo.markedAll {
		t.Fatal("expected repository MarkAllAsRead to be called")
	}

	var resp models.MarkAllReadResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.MarkedCount != 4 {
		t.Fatalf("expected marked count 4, got %d", resp.MarkedCount)
	}
}

// TestDeleteNotificationNotFound verifies delete of a missing row maps
// to not found.
func TestDeleteNotificationNotFound(t *testing.T) {
	h := NewNotificationHandler(&fakeNotificationRepo{deleteErr: gorm.ErrRecordNotFound})

	c, _ := newTestContext(t, http.MethodDelete, "/api/v1/notifications/42", "")
	c.SetParamNames("id")
	c.SetParamValues("42")

	err := h.DeleteNotification(c)
	httpErr, ok := err.(*echo.HTTPError)
	if !ok || httpErr.Code != http.StatusNotFound {
		t.Fatalf("expected 404 HTTPError, got %v", err)
	}
}

// TestGetStatsClampsDayWindow verifies the day window query param is
// clamped to the default when out of range.
func TestGetStatsClampsDayWindow(t *testing.T) {
	h := NewNotificationHandler(&fakeNotificationRepo{})

	c, rec := newTestContext(t, http.MethodGet, "/api/v1/notifications/stats?days=5000", "")
	if err := h.GetStats(c); err != nil {
		t.Fatalf("GetStats returned error: %v", err)
	}

	var stats models.NotificationStats
	if err := json.Unmarshal(rec.Body.Bytes(), &stats); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if stats.Days != 30 {
		t.Fatalf("expected clamped window of 30 days, got %d", stats.Days)
	}
}
