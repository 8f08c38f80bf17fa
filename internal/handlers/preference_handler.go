package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/oyolcinar/dus-notify/internal/models"
	"github.com/oyolcinar/dus-notify/internal/repositories"
)

// PreferenceHandler handles notification preference HTTP requests
type PreferenceHandler struct {
	preferenceRepository repositories.PreferenceRepository
}

// NewPreferenceHandler creates a new PreferenceHandler
func NewPreferenceHandler(prefRepo repositories.PreferenceRepository) *PreferenceHandler {
	return &PreferenceHandler{preferenceRepository: prefRepo}
}

// RegisterPreferenceRoutes registers preference routes
func (h *PreferenceHandler) RegisterPreferenceRoutes(g *echo.Group) {
	g.GET("/notifications/preferences", h.GetPreferences)
	g.PUT("/notifications/preferences", h.UpdatePreference)
}

// GetPreferences returns every preference row for the user, seeding
// per-type defaults on first read
func (h *PreferenceHandler) GetPreferences(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	prefs, err := h.preferenceRepository.GetByUserID(currentUserID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, prefs)
}

// UpdatePreference applies a partial patch and returns the full row
func (h *PreferenceHandler) UpdatePreference(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	var patch models.PreferencePatch
	if err := c.Bind(&patch); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := c.Validate(&patch); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	pref, err := h.preferenceRepository.Update(currentUserID, patch)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, pref)
}
