package models

import (
	"strings"
	"time"
)

// NotificationTemplate holds a named title/body pair with {{variable}}
// placeholders (MongoDB). Templates drive the verification send path.
type NotificationTemplate struct {
	Name      string           `json:"name" bson:"name"`
	Type      NotificationType `json:"notification_type" bson:"notification_type"`
	Title     string           `json:"title" bson:"title"`
	Body      string           `json:"body" bson:"body"`
	Icon      string           `json:"icon,omitempty" bson:"icon,omitempty"`
	CreatedAt time.Time        `json:"created_at" bson:"created_at"`
}

// Render substitutes {{name}} placeholders in the title and body.
// Unmatched placeholders are left in place.
func (t NotificationTemplate) Render(vars map[string]string) (title, body string) {
	title, body = t.Title, t.Body
	for name, value := range vars {
		placeholder := "{{" + name + "}}"
		title = strings.ReplaceAll(title, placeholder, value)
		body = strings.ReplaceAll(body, placeholder, value)
	}
	return title, body
}

// TestNotificationRequest is the body of POST /notifications/test.
type TestNotificationRequest struct {
	TemplateName string            `json:"template_name" validate:"required"`
	Type         NotificationType  `json:"notification_type,omitempty"`
	Variables    map[string]string `json:"variables,omitempty"`
}

// TestNotificationResponse carries the notification created by a test send.
type TestNotificationResponse struct {
	Message      string       `json:"message"`
	Notification Notification `json:"notification"`
}
