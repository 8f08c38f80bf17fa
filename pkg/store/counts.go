package store

import "github.com/oyolcinar/dus-notify/internal/models"

// CategoryCounts partitions the loaded collection into the fixed buckets.
type CategoryCounts struct {
	Study  int
	Social int
	System int
	Course int
}

// Recount recomputes the unread counter from a scan of the collection and
// repairs the tracked value. Callers use it to validate drift after a
// burst of concurrent mutations; the tracked counter is otherwise not
// recomputed on every read.
func (s *Store) Recount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.unreadCount = s.recountLocked()
	return s.unreadCount
}

// recountLocked sums unread items. Caller holds mu.
func (s *Store) recountLocked() int {
	count := 0
	for _, n := range s.notifications {
		if !n.IsRead {
			count++
		}
	}
	return count
}

// Counts partitions the current collection by category. O(n) per call,
// which is fine for the tens-of-items working set this store carries.
func (s *Store) Counts() CategoryCounts {
	s.mu.Lock()
	defer s.mu.Unlock()

	var c CategoryCounts
	for _, n := range s.notifications {
		switch models.CategoryOf(n.Type) {
		case models.CategoryStudy:
			c.Study++
		case models.CategorySocial:
			c.Social++
		case models.CategoryCourse:
			c.Course++
		default:
			c.System++
		}
	}
	return c
}

// UnreadInCategory counts unread items in one bucket.
func (s *Store) UnreadInCategory(category models.Category) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	count := 0
	for _, n := range s.notifications {
		if !n.IsRead && models.CategoryOf(n.Type) == category {
			count++
		}
	}
	return count
}
