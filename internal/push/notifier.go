package push

import (
	"context"
	"log"
	"time"

	"gorm.io/gorm"

	"github.com/oyolcinar/dus-notify/internal/models"
	"github.com/oyolcinar/dus-notify/internal/repositories"
)

// Notifier fans a stored notification out to the user's active device
// tokens, subject to the delivery policy.
type Notifier struct {
	notifications repositories.NotificationRepository
	preferences   repositories.PreferenceRepository
	tokens        repositories.DeviceTokenRepository
	sender        Sender
}

// NewNotifier creates a Notifier over the given repositories and sender.
func NewNotifier(
	notifications repositories.NotificationRepository,
	preferences repositories.PreferenceRepository,
	tokens repositories.DeviceTokenRepository,
	sender Sender,
) *Notifier {
	return &Notifier{
		notifications: notifications,
		preferences:   preferences,
		tokens:        tokens,
		sender:        sender,
	}
}

// Deliver applies the delivery policy and pushes to every active token.
// Individual send failures are logged, not propagated; the notification
// is marked sent when at least one delivery succeeded.
func (n *Notifier) Deliver(ctx context.Context, notification *models.Notification) error {
	pref, err := n.preferences.GetByUserAndType(notification.UserID, notification.Type)
	if err == gorm.ErrRecordNotFound {
		// No row yet means the type was never configured; defaults allow push.
		pref = &models.NotificationPreferences{
			UserID: notification.UserID, Type: notification.Type,
			InAppEnabled: true, PushEnabled: true, FrequencyHours: 1,
		}
	} else if err != nil {
		return err
	}

	lastSent, err := n.notifications.LastSentAt(notification.UserID, notification.Type)
	if err != nil {
		return err
	}

	if !ShouldDeliver(*pref, lastSent, time.Now()) {
		log.Printf("Push suppressed by policy: type %s for user %d", notification.Type, notification.UserID)
		return nil
	}

	tokens, err := n.tokens.ActiveForUser(notification.UserID)
	if err != nil {
		return err
	}
	if len(tokens) == 0 {
		log.Printf("No active device tokens for user %d, skipping push", notification.UserID)
		return nil
	}

	delivered := 0
	for _, t := range tokens {
		if err := n.sender.Send(ctx, t.Token, *notification); err != nil {
			log.Printf("Push to token %d failed: %v", t.ID, err)
			continue
		}
		delivered++
	}

	if delivered > 0 {
		if err := n.notifications.MarkSent(notification.ID); err != nil {
			return err
		}
	}
	return nil
}
