package handlers

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/oyolcinar/dus-notify/internal/models"
	"github.com/oyolcinar/dus-notify/internal/push"
	"github.com/oyolcinar/dus-notify/internal/repositories"
)

// DeviceHandler handles device-token and test-send HTTP requests
type DeviceHandler struct {
	tokenRepository        repositories.DeviceTokenRepository
	templateRepository     repositories.TemplateRepository
	notificationRepository repositories.NotificationRepository
	notifier               *push.Notifier
}

// NewDeviceHandler creates a new DeviceHandler
func NewDeviceHandler(
	tokenRepo repositories.DeviceTokenRepository,
	templateRepo repositories.TemplateRepository,
	notifRepo repositories.NotificationRepository,
	notifier *push.Notifier,
) *DeviceHandler {
	return &DeviceHandler{
		tokenRepository:        tokenRepo,
		templateRepository:     templateRepo,
		notificationRepository: notifRepo,
		notifier:               notifier,
	}
}

// RegisterDeviceRoutes registers device-token routes
func (h *DeviceHandler) RegisterDeviceRoutes(g *echo.Group) {
	g.POST("/notifications/device-token", h.RegisterDeviceToken)
	g.POST("/notifications/device-token/clear", h.ClearDeviceTokens)
	g.POST("/notifications/test", h.SendTestNotification)
}

// RegisterDeviceToken registers a push token for this installation,
// deactivating any other token the installation held
func (h *DeviceHandler) RegisterDeviceToken(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	var req models.RegisterDeviceTokenRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	token := models.DeviceToken{
		UserID:         currentUserID,
		Token:          req.DeviceToken,
		Platform:       req.Platform,
		InstallationID: req.DeviceInfo.InstallationID,
		DeviceModel:    req.DeviceInfo.Model,
	}
	if err := h.tokenRepository.Register(&token); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, models.RegisterDeviceTokenResponse{
		Message: "Device token registered",
		Token:   token,
	})
}

// ClearDeviceTokens deactivates every token the user holds
func (h *DeviceHandler) ClearDeviceTokens(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	if err := h.tokenRepository.ClearForUser(currentUserID); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, models.MessageResponse{Message: "Device tokens cleared"})
}

// SendTestNotification renders a template, stores the notification and
// pushes it through the normal fanout path
func (h *DeviceHandler) SendTestNotification(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	var req models.TestNotificationRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	template, err := h.templateRepository.GetByName(c.Request().Context(), req.TemplateName)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	}

	notifType := template.Type
	if req.Type != "" {
		notifType = req.Type
	}
	title, body := template.Render(req.Variables)

	notification := models.Notification{
		UserID:    currentUserID,
		Type:      notifType,
		Title:     title,
		Body:      body,
		Icon:      template.Icon,
		Status:    models.StatusPending,
		CreatedAt: time.Now().UTC(),
	}
	if err := h.notificationRepository.Create(&notification); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	if err := h.notifier.Deliver(c.Request().Context(), &notification); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, models.TestNotificationResponse{
		Message:      "Test notification sent",
		Notification: notification,
	})
}
