package client

import (
	"context"

	"github.com/oyolcinar/dus-notify/internal/models"
)

// Backend is the store-facing surface of the notification API. Client
// implements it against the remote service; MockBackend implements it
// locally for runtimes without network or push capability. The store is
// constructed with one of the two and never branches on environment.
type Backend interface {
	ListNotifications(ctx context.Context, limit, offset int, unreadOnly bool) (*models.NotificationListResponse, error)
	UnreadCount(ctx context.Context) (int, error)
	MarkAsRead(ctx context.Context, id int64) (*models.Notification, error)
	MarkAllAsRead(ctx context.Context) (int64, error)
	DeleteNotification(ctx context.Context, id int64) error
	Preferences(ctx context.Context) ([]models.NotificationPreferences, error)
	UpdatePreference(ctx context.Context, patch models.PreferencePatch) (*models.NotificationPreferences, error)
	Stats(ctx context.Context, days int) (*models.NotificationStats, error)
}

var _ Backend = (*Client)(nil)
