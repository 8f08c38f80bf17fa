package models

// NotificationStats is a server-computed aggregate over a day window.
// Read-only from the client's perspective.
type NotificationStats struct {
	Days        int                      `json:"days"`
	TotalCount  int64                    `json:"total_count"`
	ReadCount   int64                    `json:"read_count"`
	UnreadCount int64                    `json:"unread_count"`
	ByType      map[NotificationType]int `json:"by_type"`
}
