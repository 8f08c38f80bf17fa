package repositories

import (
	"time"

	"gorm.io/gorm"

	"github.com/oyolcinar/dus-notify/internal/models"
)

// PreferenceRepository defines the interface for preference operations.
// Rows are seeded with per-type defaults on first read and are never
// deleted, only toggled.
type PreferenceRepository interface {
	GetByUserID(userID int64) ([]models.NotificationPreferences, error)
	GetByUserAndType(userID int64, t models.NotificationType) (*models.NotificationPreferences, error)
	Update(userID int64, patch models.PreferencePatch) (*models.NotificationPreferences, error)
}

type postgresPreferenceRepository struct {
	db *gorm.DB
}

func NewPostgresPreferenceRepository(db *gorm.DB) PreferenceRepository {
	return &postgresPreferenceRepository{db: db}
}

// GetByUserID returns the user's preference rows, seeding defaults for
// every known type the first time around.
func (r *postgresPreferenceRepository) GetByUserID(userID int64) ([]models.NotificationPreferences, error) {
	var prefs []models.NotificationPreferences
	if err := r.db.Where("user_id = ?", userID).Order("type").Find(&prefs).Error; err != nil {
		return nil, err
	}
	if len(prefs) > 0 {
		return prefs, nil
	}

	seeded := models.DefaultPreferences(userID)
	if err := r.db.Create(&seeded).Error; err != nil {
		return nil, err
	}
	return seeded, nil
}

func (r *postgresPreferenceRepository) GetByUserAndType(userID int64, t models.NotificationType) (*models.NotificationPreferences, error) {
	var pref models.NotificationPreferences
	err := r.db.Where("user_id = ? AND type = ?", userID, t).First(&pref).Error
	if err != nil {
		return nil, err
	}
	return &pref, nil
}

// Update applies a partial patch and returns the full updated row. A row
// for an unknown (user, type) pair is created from defaults first, so a
// patch can never dangle.
func (r *postgresPreferenceRepository) Update(userID int64, patch models.PreferencePatch) (*models.NotificationPreferences, error) {
	var pref models.NotificationPreferences
	err := r.db.Where("user_id = ? AND type = ?", userID, patch.Type).First(&pref).Error
	if err == gorm.ErrRecordNotFound {
		pref = models.NotificationPreferences{
			UserID: userID, Type: patch.Type,
			InAppEnabled: true, PushEnabled: true, FrequencyHours: 1,
		}
	} else if err != nil {
		return nil, err
	}

	patch.Apply(&pref)
	pref.UpdatedAt = time.Now().UTC()
	if err := r.db.Save(&pref).Error; err != nil {
		return nil, err
	}
	return &pref, nil
}
