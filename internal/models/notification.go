package models

import "time"

// NotificationType classifies the purpose of a notification. The set is
// closed apart from the course_* subtypes, which share the course bucket.
type NotificationType string

const (
	TypeStudyReminder       NotificationType = "study_reminder"
	TypeAchievementUnlock   NotificationType = "achievement_unlock"
	TypeDuelInvitation      NotificationType = "duel_invitation"
	TypeDuelResult          NotificationType = "duel_result"
	TypeFriendRequest       NotificationType = "friend_request"
	TypeFriendActivity      NotificationType = "friend_activity"
	TypeContentUpdate       NotificationType = "content_update"
	TypeStreakReminder      NotificationType = "streak_reminder"
	TypePlanReminder        NotificationType = "plan_reminder"
	TypeCoachingNote        NotificationType = "coaching_note"
	TypeMotivationalMessage NotificationType = "motivational_message"
	TypeSystemAnnouncement  NotificationType = "system_announcement"
	TypeCourseReminder      NotificationType = "course_reminder"
	TypeCourseCompleted     NotificationType = "course_completed"
	TypeCourseMilestone     NotificationType = "course_milestone"
)

// NotificationStatus tracks server-side delivery progress.
type NotificationStatus string

const (
	StatusPending   NotificationStatus = "pending"
	StatusSent      NotificationStatus = "sent"
	StatusDelivered NotificationStatus = "delivered"
	StatusRead      NotificationStatus = "read"
	StatusFailed    NotificationStatus = "failed"
)

// Category groups notification types into the buckets the client filters by.
type Category string

const (
	CategoryStudy  Category = "study"
	CategorySocial Category = "social"
	CategorySystem Category = "system"
	CategoryCourse Category = "course"
)

// Notification represents one message delivered to a user (PostgreSQL).
// IsRead == true implies Status is at least read and ReadAt is set; the
// reverse does not hold while a local mark-read awaits server confirmation.
type Notification struct {
	ID        int64              `json:"id" gorm:"primaryKey"`
	UserID    int64              `json:"user_id" gorm:"index"`
	Type      NotificationType   `json:"notification_type" gorm:"size:40;index"`
	Title     string             `json:"title"`
	Body      string             `json:"body"`
	DeepLink  string             `json:"deep_link,omitempty"`
	Icon      string             `json:"icon,omitempty"`
	Status    NotificationStatus `json:"status" gorm:"size:20;default:'pending'"`
	IsRead    bool               `json:"is_read" gorm:"default:false;index"`
	Metadata  map[string]any     `json:"metadata,omitempty" gorm:"serializer:json"`
	CreatedAt time.Time          `json:"created_at" gorm:"index"`
	SentAt    *time.Time         `json:"sent_at,omitempty"`
	ReadAt    *time.Time         `json:"read_at,omitempty"`
}

// CategoryOf maps a notification type to its category bucket. Unlisted
// course_* subtypes fall into the course bucket; anything else is system.
func CategoryOf(t NotificationType) Category {
	switch t {
	case TypeStudyReminder, TypeStreakReminder, TypePlanReminder,
		TypeCoachingNote, TypeMotivationalMessage, TypeAchievementUnlock:
		return CategoryStudy
	case TypeDuelInvitation, TypeDuelResult, TypeFriendRequest, TypeFriendActivity:
		return CategorySocial
	case TypeCourseReminder, TypeCourseCompleted, TypeCourseMilestone:
		return CategoryCourse
	default:
		if len(t) > 7 && t[:7] == "course_" {
			return CategoryCourse
		}
		return CategorySystem
	}
}

// KnownTypes lists every type in the closed enumeration.
func KnownTypes() []NotificationType {
	return []NotificationType{
		TypeStudyReminder, TypeAchievementUnlock, TypeDuelInvitation,
		TypeDuelResult, TypeFriendRequest, TypeFriendActivity,
		TypeContentUpdate, TypeStreakReminder, TypePlanReminder,
		TypeCoachingNote, TypeMotivationalMessage, TypeSystemAnnouncement,
		TypeCourseReminder, TypeCourseCompleted, TypeCourseMilestone,
	}
}

// TypesInCategory returns the known types belonging to a category bucket.
func TypesInCategory(c Category) []NotificationType {
	var out []NotificationType
	for _, t := range KnownTypes() {
		if CategoryOf(t) == c {
			out = append(out, t)
		}
	}
	return out
}

// NotificationListResponse is the payload of GET /notifications.
type NotificationListResponse struct {
	Notifications []Notification `json:"notifications"`
	UnreadCount   int            `json:"unread_count"`
	TotalCount    int64          `json:"total_count"`
}

// UnreadCountResponse is the payload of GET /notifications/unread-count.
type UnreadCountResponse struct {
	UnreadCount int `json:"unread_count"`
}

// MarkAllReadResponse is the payload of POST /notifications/mark-all-read.
type MarkAllReadResponse struct {
	Message     string `json:"message"`
	MarkedCount int64  `json:"marked_count"`
}

// MessageResponse is the generic one-line acknowledgement payload.
type MessageResponse struct {
	Message string `json:"message"`
}
