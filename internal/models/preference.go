package models

import "time"

// NotificationPreferences is one row per (user, notification type) pair.
// FrequencyHours rate-limits repeated sends of the same type. Quiet hours
// are "HH:MM" local times; the window may wrap past midnight.
type NotificationPreferences struct {
	ID              int64            `json:"id" gorm:"primaryKey"`
	UserID          int64            `json:"user_id" gorm:"index;uniqueIndex:idx_user_type"`
	Type            NotificationType `json:"notification_type" gorm:"size:40;uniqueIndex:idx_user_type"`
	InAppEnabled    bool             `json:"in_app_enabled" gorm:"default:true"`
	PushEnabled     bool             `json:"push_enabled" gorm:"default:true"`
	EmailEnabled    bool             `json:"email_enabled" gorm:"default:false"`
	FrequencyHours  int              `json:"frequency_hours" gorm:"default:1"`
	QuietHoursStart string           `json:"quiet_hours_start,omitempty"`
	QuietHoursEnd   string           `json:"quiet_hours_end,omitempty"`
	CreatedAt       time.Time        `json:"created_at"`
	UpdatedAt       time.Time        `json:"updated_at"`
}

// DefaultPreferences seeds one row per known type for a user. All channels
// except email start enabled, with an hourly frequency floor.
func DefaultPreferences(userID int64) []NotificationPreferences {
	prefs := make([]NotificationPreferences, 0, len(KnownTypes()))
	for _, t := range KnownTypes() {
		prefs = append(prefs, NotificationPreferences{
			UserID:         userID,
			Type:           t,
			InAppEnabled:   true,
			PushEnabled:    true,
			EmailEnabled:   false,
			FrequencyHours: 1,
		})
	}
	return prefs
}

// PreferencePatch is the partial-update body of PUT /notifications/preferences.
// Only non-nil fields are applied; the response carries the full updated row.
type PreferencePatch struct {
	Type            NotificationType `json:"notification_type" validate:"required"`
	InAppEnabled    *bool            `json:"in_app_enabled,omitempty"`
	PushEnabled     *bool            `json:"push_enabled,omitempty"`
	EmailEnabled    *bool            `json:"email_enabled,omitempty"`
	FrequencyHours  *int             `json:"frequency_hours,omitempty" validate:"omitempty,min=1"`
	QuietHoursStart *string          `json:"quiet_hours_start,omitempty"`
	QuietHoursEnd   *string          `json:"quiet_hours_end,omitempty"`
}

// Apply copies the patch's non-nil fields onto the preference row.
func (p PreferencePatch) Apply(pref *NotificationPreferences) {
	if p.InAppEnabled != nil {
		pref.InAppEnabled = *p.InAppEnabled
	}
	if p.PushEnabled != nil {
		pref.PushEnabled = *p.PushEnabled
	}
	if p.EmailEnabled != nil {
		pref.EmailEnabled = *p.EmailEnabled
	}
	if p.FrequencyHours != nil {
		pref.FrequencyHours = *p.FrequencyHours
	}
	if p.QuietHoursStart != nil {
		pref.QuietHoursStart = *p.QuietHoursStart
	}
	if p.QuietHoursEnd != nil {
		pref.QuietHoursEnd = *p.QuietHoursEnd
	}
}
