package repositories

import (
	"time"

	"gorm.io/gorm"

	"github.com/oyolcinar/dus-notify/internal/models"
)

// DeviceTokenRepository defines the interface for push registrations.
// At most one token stays active per installation: registering a new one
// deactivates the rest for the same installation id.
type DeviceTokenRepository interface {
	Register(token *models.DeviceToken) error
	ClearForUser(userID int64) error
	ActiveForUser(userID int64) ([]models.DeviceToken, error)
}

type postgresDeviceTokenRepository struct {
	db *gorm.DB
}

func NewPostgresDeviceTokenRepository(db *gorm.DB) DeviceTokenRepository {
	return &postgresDeviceTokenRepository{db: db}
}

func (r *postgresDeviceTokenRepository) Register(token *models.DeviceToken) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		err := tx.Model(&models.DeviceToken{}).
			Where("user_id = ? AND installation_id = ? AND active = true", token.UserID, token.InstallationID).
			Update("active", false).Error
		if err != nil {
			return err
		}

		// Re-registering the same token value reactivates the row.
		var existing models.DeviceToken
		err = tx.Where("token = ?", token.Token).First(&existing).Error
		if err == nil {
			existing.UserID = token.UserID
			existing.Platform = token.Platform
			existing.InstallationID = token.InstallationID
			existing.DeviceModel = token.DeviceModel
			existing.Active = true
			existing.UpdatedAt = time.Now().UTC()
			if err := tx.Save(&existing).Error; err != nil {
				return err
			}
			*token = existing
			return nil
		}
		if err != gorm.ErrRecordNotFound {
			return err
		}

		token.Active = true
		return tx.Create(token).Error
	})
}

func (r *postgresDeviceTokenRepository) ClearForUser(userID int64) error {
	return r.db.Model(&models.DeviceToken{}).
		Where("user_id = ? AND active = true", userID).
		Update("active", false).Error
}

func (r *postgresDeviceTokenRepository) ActiveForUser(userID int64) ([]models.DeviceToken, error) {
	var tokens []models.DeviceToken
	err := r.db.Where("user_id = ? AND active = true", userID).Find(&tokens).Error
	return tokens, err
}
