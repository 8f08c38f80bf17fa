// Package store holds the canonical in-memory notification state for a
// session: the ordered collection, preference rows, unread counter and
// stats. The Store is the single writer; consumers read snapshots and
// mutate only through its action methods.
package store

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/oyolcinar/dus-notify/internal/models"
	"github.com/oyolcinar/dus-notify/pkg/client"
)

// DefaultPageSize is the notification page size requested from the backend.
const DefaultPageSize = 20

// Channel selects one of the three preference toggles.
type Channel string

const (
	ChannelInApp Channel = "in_app"
	ChannelPush  Channel = "push"
	ChannelEmail Channel = "email"
)

// Store owns the session's notification state. Mutations are applied only
// after the backend call resolves, so a failed call leaves prior state
// untouched. All fields are guarded by mu; backend calls happen outside
// the lock since they are suspension points.
type Store struct {
	backend  client.Backend
	pageSize int

	mu            sync.Mutex
	notifications []models.Notification
	preferences   []models.NotificationPreferences
	stats         *models.NotificationStats
	unreadCount   int
	offset        int
	hasMore       bool
	loading       bool
	lastErr       string
}

// New creates a Store over the given backend. The backend is fixed for
// the store's lifetime; degraded runtimes pass a MockBackend here.
func New(backend client.Backend) *Store {
	return &Store{
		backend:  backend,
		pageSize: DefaultPageSize,
		hasMore:  true,
	}
}

// Load fetches a page of notifications. With refresh true the collection
// is replaced and the page cursor reset; otherwise the next page is
// appended and the cursor advanced. A page shorter than the page size is
// the end-of-data signal; when the total is an exact multiple of the page
// size this costs one extra fetch that returns empty. While another fetch
// is in flight the call is dropped and returns nil; callers that must
// observe the refreshed state wait for the in-flight fetch instead of
// stacking a second one.
func (s *Store) Load(ctx context.Context, refresh bool) error {
	s.mu.Lock()
	if s.loading {
		s.mu.Unlock()
		return nil
	}
	s.loading = true
	offset := s.offset
	if refresh {
		offset = 0
	}
	s.mu.Unlock()

	resp, err := s.backend.ListNotifications(ctx, s.pageSize, offset, false)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = false
	if err != nil {
		s.lastErr = err.Error()
		return err
	}

	if refresh {
		s.notifications = resp.Notifications
	} else {
		s.notifications = append(s.notifications, resp.Notifications...)
	}
	s.offset = offset + len(resp.Notifications)
	s.hasMore = len(resp.Notifications) == s.pageSize
	s.unreadCount = resp.UnreadCount
	s.lastErr = ""
	return nil
}

// LoadMore appends the next page. No-op while a fetch is in flight or
// after the last page came back short.
func (s *Store) LoadMore(ctx context.Context) error {
	s.mu.Lock()
	if s.loading || !s.hasMore {
		s.mu.Unlock()
		return nil
	}
	s.mu.Unlock()
	return s.Load(ctx, false)
}

// MarkAsRead marks one notification read. Calling it on an already-read
// item succeeds without touching the counter, so repeated calls are
// equivalent to one. A NotFoundError from the backend is tolerated: the
// item is collapsed to read locally all the same.
func (s *Store) MarkAsRead(ctx context.Context, id int64) error {
	s.mu.Lock()
	for i := range s.notifications {
		if s.notifications[i].ID == id && s.notifications[i].IsRead {
			s.mu.Unlock()
			return nil
		}
	}
	s.mu.Unlock()

	updated, err := s.backend.MarkAsRead(ctx, id)
	if err != nil && !client.IsNotFound(err) {
		s.setErr(err)
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.notifications {
		if s.notifications[i].ID != id {
			continue
		}
		if s.notifications[i].IsRead {
			return nil
		}
		if updated != nil {
			s.notifications[i] = *updated
			s.notifications[i].IsRead = true
		} else {
			now := time.Now().UTC()
			s.notifications[i].IsRead = true
			s.notifications[i].Status = models.StatusRead
			s.notifications[i].ReadAt = &now
		}
		s.decrementUnread()
		break
	}
	s.lastErr = ""
	return nil
}

// MarkAllAsRead marks every notification read and resets the counter.
func (s *Store) MarkAllAsRead(ctx context.Context) error {
	if _, err := s.backend.MarkAllAsRead(ctx); err != nil {
		s.setErr(err)
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now().UTC()
	for i := range s.notifications {
		if s.notifications[i].IsRead {
			continue
		}
		s.notifications[i].IsRead = true
		s.notifications[i].Status = models.StatusRead
		s.notifications[i].ReadAt = &now
	}
	s.unreadCount = 0
	s.lastErr = ""
	return nil
}

// Delete removes one notification. "Not found" from the backend counts
// as success; the item is removed from the collection either way, and the
// counter decrements by one only when the item was unread.
func (s *Store) Delete(ctx context.Context, id int64) error {
	err := s.backend.DeleteNotification(ctx, id)
	if err != nil && !client.IsNotFound(err) {
		s.setErr(err)
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.notifications {
		if s.notifications[i].ID != id {
			continue
		}
		if !s.notifications[i].IsRead {
			s.decrementUnread()
		}
		s.notifications = append(s.notifications[:i], s.notifications[i+1:]...)
		break
	}
	s.lastErr = ""
	return nil
}

// LoadPreferences replaces the preference collection from the backend.
func (s *Store) LoadPreferences(ctx context.Context) error {
	prefs, err := s.backend.Preferences(ctx)
	if err != nil {
		s.setErr(err)
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.preferences = prefs
	s.lastErr = ""
	return nil
}

// UpdatePreference applies a partial patch. The local row changes only
// after the backend confirms; no optimistic toggling, since a wrong
// preference can silently suppress push delivery. The returned full row
// replaces the matching local row, or is appended when none matches.
func (s *Store) UpdatePreference(ctx context.Context, patch models.PreferencePatch) error {
	updated, err := s.backend.UpdatePreference(ctx, patch)
	if err != nil {
		s.setErr(err)
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.mergePreference(*updated)
	s.lastErr = ""
	return nil
}

// mergePreference replaces the row matching on type, or appends.
// Caller holds mu.
func (s *Store) mergePreference(row models.NotificationPreferences) {
	for i := range s.preferences {
		if s.preferences[i].Type == row.Type {
			s.preferences[i] = row
			return
		}
	}
	s.preferences = append(s.preferences, row)
}

// SetCategoryEnabled toggles one channel for every type in a category.
// Updates fire concurrently and are all-or-best-effort: successes stick,
// and the caller learns only the aggregate outcome.
func (s *Store) SetCategoryEnabled(ctx context.Context, category models.Category, channel Channel, enabled bool) error {
	types := models.TypesInCategory(category)
	if len(types) == 0 {
		return fmt.Errorf("no notification types in category %q", category)
	}

	var wg sync.WaitGroup
	var failMu sync.Mutex
	failed := 0

	for _, t := range types {
		wg.Add(1)
		go func(t models.NotificationType) {
			defer wg.Done()

			patch := models.PreferencePatch{Type: t}
			switch channel {
			case ChannelInApp:
				patch.InAppEnabled = &enabled
			case ChannelPush:
				patch.PushEnabled = &enabled
			case ChannelEmail:
				patch.EmailEnabled = &enabled
			}

			updated, err := s.backend.UpdatePreference(ctx, patch)
			if err != nil {
				failMu.Lock()
				failed++
				failMu.Unlock()
				return
			}
			s.mu.Lock()
			s.mergePreference(*updated)
			s.mu.Unlock()
		}(t)
	}
	wg.Wait()

	if failed > 0 {
		err := fmt.Errorf("%d of %d preference updates failed", failed, len(types))
		s.mu.Lock()
		s.lastErr = err.Error()
		s.mu.Unlock()
		return err
	}
	s.mu.Lock()
	s.lastErr = ""
	s.mu.Unlock()
	return nil
}

// RefreshUnreadCount asks the backend for the authoritative unread count.
// When the backend is unreachable the counter falls back to the locally
// derived value; the two are eventually consistent, not identical.
func (s *Store) RefreshUnreadCount(ctx context.Context) (int, error) {
	count, err := s.backend.UnreadCount(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.lastErr = err.Error()
		s.unreadCount = s.recountLocked()
		return s.unreadCount, err
	}
	s.unreadCount = count
	s.lastErr = ""
	return count, nil
}

// LoadStats fetches the windowed aggregate.
func (s *Store) LoadStats(ctx context.Context, days int) error {
	stats, err := s.backend.Stats(ctx, days)
	if err != nil {
		s.setErr(err)
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stats = stats
	s.lastErr = ""
	return nil
}

// decrementUnread clamps at zero. Caller holds mu.
func (s *Store) decrementUnread() {
	if s.unreadCount > 0 {
		s.unreadCount--
	}
}

func (s *Store) setErr(err error) {
	s.mu.Lock()
	s.lastErr = err.Error()
	s.mu.Unlock()
}

// Notifications returns a snapshot of the ordered collection.
func (s *Store) Notifications() []models.Notification {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Notification, len(s.notifications))
	copy(out, s.notifications)
	return out
}

// Preferences returns a snapshot of the preference rows.
func (s *Store) Preferences() []models.NotificationPreferences {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.NotificationPreferences, len(s.preferences))
	copy(out, s.preferences)
	return out
}

// PreferenceFor returns the row for a type, if loaded.
func (s *Store) PreferenceFor(t models.NotificationType) (models.NotificationPreferences, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range s.preferences {
		if p.Type == t {
			return p, true
		}
	}
	return models.NotificationPreferences{}, false
}

// Stats returns the last loaded aggregate, if any.
func (s *Store) Stats() *models.NotificationStats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stats
}

// UnreadCount returns the tracked unread counter.
func (s *Store) UnreadCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.unreadCount
}

// HasMore reports whether another page may exist.
func (s *Store) HasMore() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hasMore
}

// LastError returns the stored human-readable failure message, empty
// after the last successful action.
func (s *Store) LastError() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}
