package repositories

import (
	"time"

	"gorm.io/gorm"

	"github.com/oyolcinar/dus-notify/internal/models"
)

// NotificationRepository defines the interface for notification operations
type NotificationRepository interface {
	Create(notification *models.Notification) error
	GetByUserID(userID int64, limit, offset int, unreadOnly bool) ([]models.Notification, int64, error)
	GetUnreadCount(userID int64) (int64, error)
	MarkAsRead(userID, notificationID int64) (*models.Notification, error)
	MarkAllAsRead(userID int64) (int64, error)
	Delete(userID, notificationID int64) error
	GetStats(userID int64, days int) (*models.NotificationStats, error)
	LastSentAt(userID int64, t models.NotificationType) (*time.Time, error)
	MarkSent(notificationID int64) error
}

type postgresNotificationRepository struct {
	db *gorm.DB
}

func NewPostgresNotificationRepository(db *gorm.DB) NotificationRepository {
	return &postgresNotificationRepository{db: db}
}

func (r *postgresNotificationRepository) Create(notification *models.Notification) error {
	if notification.Status == "" {
		notification.Status = models.StatusPending
	}
	return r.db.Create(notification).Error
}

func (r *postgresNotificationRepository) GetByUserID(userID int64, limit, offset int, unreadOnly bool) ([]models.Notification, int64, error) {
	var notifications []models.Notification
	var total int64

	query := r.db.Model(&models.Notification{}).Where("user_id = ?", userID)
	if unreadOnly {
		query = query.Where("is_read = false")
	}
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.Order("created_at DESC").
		Offset(offset).Limit(limit).
		Find(&notifications).Error

	return notifications, total, err
}

func (r *postgresNotificationRepository) GetUnreadCount(userID int64) (int64, error) {
	var count int64
	err := r.db.Model(&models.Notification{}).
		Where("user_id = ? AND is_read = false", userID).
		Count(&count).Error
	return count, err
}

// MarkAsRead is idempotent: an already-read notification is returned as-is.
func (r *postgresNotificationRepository) MarkAsRead(userID, notificationID int64) (*models.Notification, error) {
	var notification models.Notification
	err := r.db.Where("id = ? AND user_id = ?", notificationID, userID).
		First(&notification).Error
	if err != nil {
		return nil, err
	}

	if notification.IsRead {
		return &notification, nil
	}

	now := time.Now().UTC()
	notification.IsRead = true
	notification.Status = models.StatusRead
	notification.ReadAt = &now
	if err := r.db.Save(&notification).Error; err != nil {
		return nil, err
	}
	return &notification, nil
}

func (r *postgresNotificationRepository) MarkAllAsRead(userID int64) (int64, error) {
	now := time.Now().UTC()
	result := r.db.Model(&models.Notification{}).
		Where("user_id = ? AND is_read = false", userID).
		Updates(map[string]any{
			"is_read": true,
			"status":  models.StatusRead,
			"read_at": now,
		})
	return result.RowsAffected, result.Error
}

func (r *postgresNotificationRepository) Delete(userID, notificationID int64) error {
	result := r.db.Where("id = ? AND user_id = ?", notificationID, userID).
		Delete(&models.Notification{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *postgresNotificationRepository) GetStats(userID int64, days int) (*models.NotificationStats, error) {
	since := time.Now().UTC().AddDate(0, 0, -days)
	stats := &models.NotificationStats{
		Days:   days,
		ByType: make(map[models.NotificationType]int),
	}

	base := r.db.Model(&models.Notification{}).
		Where("user_id = ? AND created_at >= ?", userID, since)

	if err := base.Session(&gorm.Session{}).Count(&stats.TotalCount).Error; err != nil {
		return nil, err
	}
	if err := base.Session(&gorm.Session{}).Where("is_read = true").Count(&stats.ReadCount).Error; err != nil {
		return nil, err
	}
	stats.UnreadCount = stats.TotalCount - stats.ReadCount

	rows := []struct {
		Type  models.NotificationType
		Count int
	}{}
	err := r.db.Model(&models.Notification{}).
		Select("type, count(*) as count").
		Where("user_id = ? AND created_at >= ?", userID, since).
		Group("type").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		stats.ByType[row.Type] = row.Count
	}
	return stats, nil
}

// LastSentAt returns when a notification of this type last went out, for
// the frequency rate limit. Nil when none was ever sent.
func (r *postgresNotificationRepository) LastSentAt(userID int64, t models.NotificationType) (*time.Time, error) {
	var notification models.Notification
	err := r.db.Where("user_id = ? AND type = ? AND sent_at IS NOT NULL", userID, t).
		Order("sent_at DESC").
		First(&notification).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return notification.SentAt, nil
}

func (r *postgresNotificationRepository) MarkSent(notificationID int64) error {
	now := time.Now().UTC()
	return r.db.Model(&models.Notification{}).
		Where("id = ?", notificationID).
		Updates(map[string]any{"status": models.StatusSent, "sent_at": now}).Error
}
