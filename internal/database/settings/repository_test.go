package settings

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/mrlokans/shoplist/internal/entities"
)

func setupTestDB(t *testing.T) *Repository {
	dbPath := filepath.Join(t.TempDir(), "settings.db")

	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	err = db.AutoMigrate(&entities.Setting{})
	require.NoError(t, err)

	t.Cleanup(func() {
		sqlDB, _ := db.DB()
		sqlDB.Close()
	})

	return NewRepository(db)
}

func TestRepository_SetSetting_New(t *testing.T) {
	repo := setupTestDB(t)

	err := repo.SetSetting(entities.SettingKeyAPIToken, "secret")
	require.NoError(t, err)

	setting, err := repo.GetSetting(entities.SettingKeyAPIToken)
	require.NoError(t, err)
	assert.Equal(t, entities.SettingKeyAPIToken, setting.Key)
	assert.Equal(t, "secret", setting.Value)
}

func TestRepository_SetSetting_Overwrite(t *testing.T) {
	repo := setupTestDB(t)

	require.NoError(t, repo.SetSetting(entities.SettingKeyAPIToken, "old"))
	require.NoError(t, repo.SetSetting(entities.SettingKeyAPIToken, "new"))

	value, err := repo.GetValue(entities.SettingKeyAPIToken)
	require.NoError(t, err)
	assert.Equal(t, "new", value)
}

func TestRepository_SetSettings(t *testing.T) {
	repo := setupTestDB(t)

	err := repo.SetSettings(map[string]string{
		entities.SettingKeyRefreshLastStatus:  "success",
		entities.SettingKeyRefreshLastMessage: "4 endpoints refreshed",
	})
	require.NoError(t, err)

	status, err := repo.GetValue(entities.SettingKeyRefreshLastStatus)
	require.NoError(t, err)
	assert.Equal(t, "success", status)

	message, err := repo.GetValue(entities.SettingKeyRefreshLastMessage)
	require.NoError(t, err)
	assert.Equal(t, "4 endpoints refreshed", message)
}

func TestRepository_GetValue_Missing(t *testing.T) {
	repo := setupTestDB(t)

	value, err := repo.GetValue("missing")
	require.NoError(t, err)
	assert.Empty(t, value)
}

func TestRepository_DeleteSetting(t *testing.T) {
	repo := setupTestDB(t)

	require.NoError(t, repo.SetSetting(entities.SettingKeyAPIToken, "secret"))
	require.NoError(t, repo.DeleteSetting(entities.SettingKeyAPIToken))

	_, err := repo.GetSetting(entities.SettingKeyAPIToken)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}
