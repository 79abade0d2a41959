// Package settings provides database operations for application settings.
//
// The remote API token and the outcome of the last scheduled refresh are kept
// here.
//
// # Usage
//
//	repo := settings.NewRepository(db)
//	token, err := repo.GetValue(entities.SettingKeyAPIToken)
package settings

import (
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/mrlokans/shoplist/internal/entities"
)

// Repository handles all settings database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new settings repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// GetSetting retrieves a setting by key.
func (r *Repository) GetSetting(key string) (*entities.Setting, error) {
	var setting entities.Setting
	err := r.db.Where("key = ?", key).First(&setting).Error
	if err != nil {
		return nil, err
	}
	return &setting, nil
}

// GetValue returns the value stored under key, or "" if it was never set.
func (r *Repository) GetValue(key string) (string, error) {
	setting, err := r.GetSetting(key)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return setting.Value, nil
}

// SetSetting creates or updates a setting.
func (r *Repository) SetSetting(key, value string) error {
	return r.SetSettings(map[string]string{key: value})
}

// SetSettings upserts several settings in one statement.
func (r *Repository) SetSettings(values map[string]string) error {
	if len(values) == 0 {
		return nil
	}
	rows := make([]entities.Setting, 0, len(values))
	for key, value := range values {
		rows = append(rows, entities.Setting{Key: key, Value: value})
	}
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&rows).Error
}

// DeleteSetting removes a setting by key.
func (r *Repository) DeleteSetting(key string) error {
	return r.db.Where("key = ?", key).Delete(&entities.Setting{}).Error
}
