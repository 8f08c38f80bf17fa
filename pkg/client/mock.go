package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/oyolcinar/dus-notify/internal/models"
	"github.com/oyolcinar/dus-notify/pkg/cache"
)

// MockBackend is the degraded-mode Backend: a seeded local collection
// persisted through the cache so state survives restarts. It honors the
// same contracts as the remote, including NotFoundError on missing ids,
// which keeps the store free of environment branching.
type MockBackend struct {
	mu            sync.Mutex
	cache         *cache.Cache
	userID        int64
	notifications []models.Notification
	preferences   []models.NotificationPreferences
}

// NewMockBackend loads any persisted mock collections from the cache, or
// seeds deterministic defaults on first use. cache may be nil, in which
// case state is memory-only for the session.
func NewMockBackend(c *cache.Cache, userID int64) *MockBackend {
	m := &MockBackend{cache: c, userID: userID}
	if !m.restore() {
		m.notifications = seedNotifications(userID)
		m.preferences = models.DefaultPreferences(userID)
		m.persist()
	}
	return m
}

// seedNotifications builds a fixed starter collection, newest first.
func seedNotifications(userID int64) []models.Notification {
	base := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	read := base.Add(30 * time.Minute)
	return []models.Notification{
		{
			ID: 3, UserID: userID, Type: models.TypeDuelInvitation,
			Title: "Duel invitation", Body: "A rival challenged you to a duel.",
			DeepLink: "dus://duels/pending", Status: models.StatusDelivered,
			CreatedAt: base.Add(2 * time.Hour),
		},
		{
			ID: 2, UserID: userID, Type: models.TypeStudyReminder,
			Title: "Time to study", Body: "Your daily question set is waiting.",
			DeepLink: "dus://study/today", Status: models.StatusDelivered,
			CreatedAt: base.Add(time.Hour),
		},
		{
			ID: 1, UserID: userID, Type: models.TypeAchievementUnlock,
			Title: "Achievement unlocked", Body: "First week streak completed.",
			Status: models.StatusRead, IsRead: true,
			CreatedAt: base, ReadAt: &read,
		},
	}
}

func (m *MockBackend) restore() bool {
	if m.cache == nil {
		return false
	}
	raw, err := m.cache.Get(cache.KeyMockNotifications)
	if err != nil {
		return false
	}
	var notifications []models.Notification
	if err := json.Unmarshal(raw, &notifications); err != nil {
		return false
	}
	var preferences []models.NotificationPreferences
	if raw, err := m.cache.Get(cache.KeyMockPreferences); err == nil {
		if err := json.Unmarshal(raw, &preferences); err != nil {
			return false
		}
	}
	if preferences == nil {
		preferences = models.DefaultPreferences(m.userID)
	}
	m.notifications = notifications
	m.preferences = preferences
	return true
}

// persist is best-effort; a broken cache degrades to memory-only state.
func (m *MockBackend) persist() {
	if m.cache == nil {
		return
	}
	if raw, err := json.Marshal(m.notifications); err == nil {
		_ = m.cache.Set(cache.KeyMockNotifications, raw)
	}
	if raw, err := json.Marshal(m.preferences); err == nil {
		_ = m.cache.Set(cache.KeyMockPreferences, raw)
	}
}

func (m *MockBackend) ListNotifications(ctx context.Context, limit, offset int, unreadOnly bool) (*models.NotificationListResponse, error) {
	if limit <= 0 {
		return nil, &ValidationError{Message: "limit must be positive"}
	}
	if offset < 0 {
		return nil, &ValidationError{Message: "offset must be non-negative"}
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	filtered := m.notifications
	if unreadOnly {
		filtered = nil
		for _, n := range m.notifications {
			if !n.IsRead {
				filtered = append(filtered, n)
			}
		}
	}

	unread := 0
	for _, n := range m.notifications {
		if !n.IsRead {
			unread++
		}
	}

	start := offset
	if start > len(filtered) {
		start = len(filtered)
	}
	end := start + limit
	if end > len(filtered) {
		end = len(filtered)
	}
	page := make([]models.Notification, end-start)
	copy(page, filtered[start:end])

	return &models.NotificationListResponse{
		Notifications: page,
		UnreadCount:   unread,
		TotalCount:    int64(len(filtered)),
	}, nil
}

func (m *MockBackend) UnreadCount(ctx context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	count := 0
	for _, n := range m.notifications {
		if !n.IsRead {
			count++
		}
	}
	return count, nil
}

func (m *MockBackend) MarkAsRead(ctx context.Context, id int64) (*models.Notification, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.notifications {
		if m.notifications[i].ID != id {
			continue
		}
		if !m.notifications[i].IsRead {
			now := time.Now().UTC()
			m.notifications[i].IsRead = true
			m.notifications[i].Status = models.StatusRead
			m.notifications[i].ReadAt = &now
			m.persist()
		}
		n := m.notifications[i]
		return &n, nil
	}
	return nil, &NotFoundError{Resource: fmt.Sprintf("notification %d", id)}
}

func (m *MockBackend) MarkAllAsRead(ctx context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := time.Now().UTC()
	var marked int64
	for i := range m.notifications {
		if m.notifications[i].IsRead {
			continue
		}
		m.notifications[i].IsRead = true
		m.notifications[i].Status = models.StatusRead
		m.notifications[i].ReadAt = &now
		marked++
	}
	if marked > 0 {
		m.persist()
	}
	return marked, nil
}

func (m *MockBackend) DeleteNotification(ctx context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.notifications {
		if m.notifications[i].ID == id {
			m.notifications = append(m.notifications[:i], m.notifications[i+1:]...)
			m.persist()
			return nil
		}
	}
	return &NotFoundError{Resource: fmt.Sprintf("notification %d", id)}
}

func (m *MockBackend) Preferences(ctx context.Context) ([]models.NotificationPreferences, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]models.NotificationPreferences, len(m.preferences))
	copy(out, m.preferences)
	return out, nil
}

func (m *MockBackend) UpdatePreference(ctx context.Context, patch models.PreferencePatch) (*models.NotificationPreferences, error) {
	if patch.Type == "" {
		return nil, &ValidationError{Message: "notification_type is required"}
	}
	if patch.FrequencyHours != nil && *patch.FrequencyHours < 1 {
		return nil, &ValidationError{Message: "frequency_hours must be positive"}
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.preferences {
		if m.preferences[i].Type != patch.Type {
			continue
		}
		patch.Apply(&m.preferences[i])
		m.preferences[i].UpdatedAt = time.Now().UTC()
		m.persist()
		p := m.preferences[i]
		return &p, nil
	}

	pref := models.NotificationPreferences{
		UserID: m.userID, Type: patch.Type,
		InAppEnabled: true, PushEnabled: true, FrequencyHours: 1,
	}
	patch.Apply(&pref)
	m.preferences = append(m.preferences, pref)
	m.persist()
	return &pref, nil
}

func (m *MockBackend) Stats(ctx context.Context, days int) (*models.NotificationStats, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	stats := &models.NotificationStats{
		Days:   days,
		ByType: make(map[models.NotificationType]int),
	}
	for _, n := range m.notifications {
		stats.TotalCount++
		if n.IsRead {
			stats.ReadCount++
		} else {
			stats.UnreadCount++
		}
		stats.ByType[n.Type]++
	}
	return stats, nil
}

// Reset drops persisted mock state. Used when leaving degraded mode.
func (m *MockBackend) Reset() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.notifications = seedNotifications(m.userID)
	m.preferences = models.DefaultPreferences(m.userID)
	if m.cache == nil {
		return nil
	}
	return errors.Join(
		m.cache.Delete(cache.KeyMockNotifications),
		m.cache.Delete(cache.KeyMockPreferences),
	)
}

var _ Backend = (*MockBackend)(nil)
