package push

import (
	"context"
	"log"

	"firebase.google.com/go/v4/messaging"

	"github.com/oyolcinar/dus-notify/internal/models"
)

// Sender delivers one push message to one device token. FCM sits behind
// this interface so handler tests can record sends instead.
type Sender interface {
	Send(ctx context.Context, token string, notification models.Notification) error
}

// FCMSender implements Sender over Firebase Cloud Messaging.
type FCMSender struct {
	client *messaging.Client
}

// NewFCMSender creates an FCM-backed sender.
func NewFCMSender(client *messaging.Client) *FCMSender {
	return &FCMSender{client: client}
}

// Send maps the notification onto an FCM message. The deep link and type
// travel in the data payload for client-side routing.
func (s *FCMSender) Send(ctx context.Context, token string, notification models.Notification) error {
	data := map[string]string{
		"notification_type": string(notification.Type),
	}
	if notification.DeepLink != "" {
		data["deep_link"] = notification.DeepLink
	}

	msg := &messaging.Message{
		Token: token,
		Notification: &messaging.Notification{
			Title: notification.Title,
			Body:  notification.Body,
		},
		Data: data,
	}

	id, err := s.client.Send(ctx, msg)
	if err != nil {
		return err
	}
	log.Printf("Push sent: message %s to token %s...", id, truncate(token, 12))
	return nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
