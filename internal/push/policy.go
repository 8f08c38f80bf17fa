package push

import (
	"time"

	"github.com/oyolcinar/dus-notify/internal/models"
)

// ShouldDeliver decides whether a push of the given type may go out now,
// based on the user's preference row: the push channel toggle, the
// quiet-hours window and the per-type frequency rate limit. lastSent is
// nil when nothing of this type was ever sent.
func ShouldDeliver(pref models.NotificationPreferences, lastSent *time.Time, now time.Time) bool {
	if !pref.PushEnabled {
		return false
	}
	if inQuietHours(pref.QuietHoursStart, pref.QuietHoursEnd, now) {
		return false
	}
	if lastSent != nil && pref.FrequencyHours > 0 {
		if now.Sub(*lastSent) < time.Duration(pref.FrequencyHours)*time.Hour {
			return false
		}
	}
	return true
}

// inQuietHours checks "HH:MM" boundaries against the local clock. A
// window whose end precedes its start wraps past midnight; malformed
// boundaries disable the window rather than suppressing delivery.
func inQuietHours(start, end string, now time.Time) bool {
	if start == "" || end == "" {
		return false
	}
	startMin, ok := parseClock(start)
	if !ok {
		return false
	}
	endMin, ok := parseClock(end)
	if !ok {
		return false
	}

	nowMin := now.Hour()*60 + now.Minute()
	if startMin <= endMin {
		return nowMin >= startMin && nowMin < endMin
	}
	return nowMin >= startMin || nowMin < endMin
}

func parseClock(s string) (int, bool) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return 0, false
	}
	return t.Hour()*60 + t.Minute(), true
}
