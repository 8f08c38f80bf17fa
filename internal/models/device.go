package models

import "time"

// Platform constants for device tokens.
const (
	PlatformIOS     = "ios"
	PlatformAndroid = "android"
	PlatformWeb     = "web"
)

// DeviceToken represents one installation's push registration (PostgreSQL).
// At most one token is active per installation; registering a new one
// deactivates the rest for the same installation id.
type DeviceToken struct {
	ID             int64     `json:"id" gorm:"primaryKey"`
	UserID         int64     `json:"user_id" gorm:"index"`
	Token          string    `json:"-" gorm:"uniqueIndex"`
	Platform       string    `json:"platform" gorm:"size:20"`
	InstallationID string    `json:"installation_id" gorm:"size:64;index"`
	DeviceModel    string    `json:"device_model,omitempty" gorm:"size:80"`
	Active         bool      `json:"active" gorm:"default:true;index"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// DeviceInfo identifies the physical device behind a registration.
type DeviceInfo struct {
	Platform       string `json:"platform" validate:"required,oneof=ios android web"`
	Model          string `json:"model,omitempty"`
	InstallationID string `json:"installation_id" validate:"required"`
}

// RegisterDeviceTokenRequest is the body of POST /notifications/device-token.
type RegisterDeviceTokenRequest struct {
	DeviceToken string     `json:"device_token" validate:"required"`
	Platform    string     `json:"platform" validate:"required,oneof=ios android web"`
	DeviceInfo  DeviceInfo `json:"device_info" validate:"required"`
}

// RegisterDeviceTokenResponse acknowledges a registration.
type RegisterDeviceTokenResponse struct {
	Message string      `json:"message"`
	Token   DeviceToken `json:"token"`
}
