package push

import (
	"context"
	"errors"
	"testing"
	"time"

	"gorm.io/gorm"

	"github.com/oyolcinar/dus-notify/internal/models"
)

type fakeNotificationRepo struct {
	lastSent   *time.Time
	sentMarked []int64
}

func (f *fakeNotificationRepo) Create(n *models.Notification) error { return nil }
func (f *fakeNotificationRepo) GetByUserID(userID int64, limit, offset int, unreadOnly bool) ([]models.Notification, int64, error) {
	return nil, 0, nil
}
func (f *fakeNotificationRepo) GetUnreadCount(userID int64) (int64, error) { return 0, nil }
func (f *fakeNotificationRepo) MarkAsRead(userID, id int64) (*models.Notification, error) {
	return nil, gorm.ErrRecordNotFound
}
func (f *fakeNotificationRepo) MarkAllAsRead(userID int64) (int64, error) { return 0, nil }
func (f *fakeNotificationRepo) Delete(userID, id int64) error             { return nil }
func (f *fakeNotificationRepo) GetStats(userID int64, days int) (*models.NotificationStats, error) {
	return nil, nil
}
func (f *fakeNotificationRepo) LastSentAt(userID int64, t models.NotificationType) (*time.Time, error) {
	return f.lastSent, nil
}
func (f *fakeNotificationRepo) MarkSent(id int64) error {
	f.sentMarked = append(f.sentMarked, id)
	return nil
}

type fakePreferenceRepo struct {
	pref    *models.NotificationPreferences
	lookupE error
}

func (f *fakePreferenceRepo) GetByUserID(userID int64) ([]models.NotificationPreferences, error) {
	return nil, nil
}
func (f *fakePreferenceRepo) GetByUserAndType(userID int64, t models.NotificationType) (*models.NotificationPreferences, error) {
	if f.lookupE != nil {
		return nil, f.lookupE
	}
	if f.pref == nil {
		return nil, gorm.ErrRecordNotFound
	}
	return f.pref, nil
}
func (f *fakePreferenceRepo) Update(userID int64, patch models.PreferencePatch) (*models.NotificationPreferences, error) {
	return nil, nil
}

type fakeTokenRepo struct {
	tokens []models.DeviceToken
}

func (f *fakeTokenRepo) Register(t *models.DeviceToken) error { return nil }
func (f *fakeTokenRepo) ClearForUser(userID int64) error      { return nil }
func (f *fakeTokenRepo) ActiveForUser(userID int64) ([]models.DeviceToken, error) {
	return f.tokens, nil
}

type recordingSender struct {
	sent []string
	err  error
}

func (r *recordingSender) Send(ctx context.Context, token string, n models.Notification) error {
	if r.err != nil {
		return r.err
	}
	r.sent = append(r.sent, token)
	return nil
}

// TestDeliverFansOutToActiveTokens verifies each active token receives
// the push and the notification is marked sent.
func TestDeliverFansOutToActiveTokens(t *testing.T) {
	notifRepo := &fakeNotificationRepo{}
	tokenRepo := &fakeTokenRepo{tokens: []models.DeviceToken{
		{ID: 1, Token: "tok-a", Active: true},
		{ID: 2, Token: "tok-b", Active: true},
	}}
	sender := &recordingSender{}
	n := NewNotifier(notifRepo, &fakePreferenceRepo{}, tokenRepo, sender)

	notification := models.Notification{ID: 10, UserID: 7, Type: models.TypeStudyReminder}
	if err := n.Deliver(context.Background(), &notification); err != nil {
		t.Fatalf("Deliver returned error: %v", err)
	}
	if len(sender.sent) != 2 {
		t.Fatalf("expected 2 sends, got %d", len(sender.sent))
	}
	if len(notifRepo.sentMarked) != 1 || notifRepo.sentMarked[0] != 10 {
		t.Fatalf("expected notification 10 marked sent, got %v", notifRepo.sentMarked)
	}
}

// TestDeliverRespectsPreferenceToggle verifies a disabled push channel
// suppresses the fanout entirely.
func TestDeliverRespectsPreferenceToggle(t *testing.T) {
	notifRepo := &fakeNotificationRepo{}
	prefRepo := &fakePreferenceRepo{pref: &models.NotificationPreferences{
		Type: models.TypeStudyReminder, PushEnabled: false, FrequencyHours: 1,
	}}
	tokenRepo := &fakeTokenRepo{tokens: []models.DeviceToken{{ID: 1, Token: "tok-a", Active: true}}}
	sender := &recordingSender{}
	n := NewNotifier(notifRepo, prefRepo, tokenRepo, sender)

	notification := models.Notification{ID: 11, UserID: 7, Type: models.TypeStudyReminder}
	if err := n.Deliver(context.Background(), &notification); err != nil {
		t.Fatalf("Deliver returned error: %v", err)
	}
	if len(sender.sent) != 0 {
		t.Fatalf("expected no sends, got %d", len(sender.sent))
	}
	if len(notifRepo.sentMarked) != 0 {
		t.Fatal("suppressed notification must not be marked sent")
	}
}

// TestDeliverRespectsFrequencyLimit verifies a recent send of the same
// type rate-limits the next one.
func TestDeliverRespectsFrequencyLimit(t *testing.T) {
	recent := time.Now().Add(-10 * time.Minute)
	notifRepo := &fakeNotificationRepo{lastSent: &recent}
	prefRepo := &fakePreferenceRepo{pref: &models.NotificationPreferences{
		Type: models.TypeStudyReminder, PushEnabled: true, FrequencyHours: 6,
	}}
	tokenRepo := &fakeTokenRepo{tokens: []models.DeviceToken{{ID: 1, Token: "tok-a", Active: true}}}
	sender := &recordingSender{}
	n := NewNotifier(notifRepo, prefRepo, tokenRepo, sender)

	notification := models.Notification{ID: 12, UserID: 7, Type: models.TypeStudyReminder}
	if err := n.Deliver(context.Background(), &notification); err != nil {
		t.Fatalf("Deliver returned error: %v", err)
	}
	if len(sender.sent) != 0 {
		t.Fatalf("expected rate-limited send, got %d sends", len(sender.sent))
	}
}

// TestDeliverPropagatesPreferenceLookupFailure verifies that only a
// missing row falls back to defaults; a failing lookup stops delivery.
func TestDeliverPropagatesPreferenceLookupFailure(t *testing.T) {
	notifRepo := &fakeNotificationRepo{}
	prefRepo := &fakePreferenceRepo{lookupE: errors.New("connection refused")}
	tokenRepo := &fakeTokenRepo{tokens: []models.DeviceToken{{ID: 1, Token: "tok-a", Active: true}}}
	sender := &recordingSender{}
	n := NewNotifier(notifRepo, prefRepo, tokenRepo, sender)

	notification := models.Notification{ID: 14, UserID: 7, Type: models.TypeStudyReminder}
	if err := n.Deliver(context.Background(), &notification); err == nil {
		t.Fatal("expected the lookup error to propagate")
	}
	if len(sender.sent) != 0 {
		t.Fatalf("expected no sends on lookup failure, got %d", len(sender.sent))
	}
}

// TestDeliverWithoutTokensIsNoop verifies no tokens means no sends and
// no sent marker.
func TestDeliverWithoutTokensIsNoop(t *testing.T) {
	notifRepo := &fakeNotificationRepo{}
	sender := &recordingSender{}
	n := NewNotifier(notifRepo, &fakePreferenceRepo{}, &fakeTokenRepo{}, sender)

	notification := models.Notification{ID: 13, UserID: 7, Type: models.TypeStudyReminder}
	if err := n.Deliver(context.Background(), &notification); err != nil {
		t.Fatalf("Deliver returned error: %v", err)
	}
	if len(notifRepo.sentMarked) != 0 {
		t.Fatal("notification without deliveries must not be marked sent")
	}
}
