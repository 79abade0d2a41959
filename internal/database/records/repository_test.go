package records

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/mrlokans/shoplist/internal/entities"
)

func setupTestDB(t *testing.T) (*Repository[entities.Shop], *gorm.DB) {
	dbPath := filepath.Join(t.TempDir(), "records.db")

	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	err = db.AutoMigrate(&entities.Shop{}, &entities.Product{})
	require.NoError(t, err)

	t.Cleanup(func() {
		sqlDB, _ := db.DB()
		sqlDB.Close()
	})

	return NewRepository[entities.Shop](db), db
}

func TestRepository_InsertOrReplace(t *testing.T) {
	repo, _ := setupTestDB(t)

	require.NoError(t, repo.InsertOrReplace([]entities.Shop{{ID: 1, Name: "Corner"}, {ID: 2, Name: "Market"}}))
	require.NoError(t, repo.InsertOrReplace([]entities.Shop{{ID: 2, Name: "Supermarket"}, {ID: 3, Name: "Bakery"}}))
	require.NoError(t, repo.InsertOrReplace(nil))

	shops, err := repo.List(0, 0)
	require.NoError(t, err)
	require.Len(t, shops, 3)
	assert.Equal(t, uint(3), shops[0].ID)
	assert.Equal(t, "Supermarket", shops[1].Name)
}

func TestRepository_DeleteAll_OnlyOwnTable(t *testing.T) {
	repo, db := setupTestDB(t)
	products := NewRepository[entities.Product](db)

	require.NoError(t, repo.InsertOrReplace([]entities.Shop{{ID: 1, Name: "Corner"}}))
	require.NoError(t, products.InsertOrReplace([]entities.Product{{ID: 7, Name: "Milk"}}))

	require.NoError(t, repo.DeleteAll())

	count, err := repo.Count()
	require.NoError(t, err)
	assert.Zero(t, count)

	count, err = products.Count()
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestRepository_ListPaging(t *testing.T) {
	repo, _ := setupTestDB(t)
	require.NoError(t, repo.InsertOrReplace([]entities.Shop{{ID: 1}, {ID: 2}, {ID: 3}, {ID: 4}}))

	shops, err := repo.List(2, 1)
	require.NoError(t, err)
	require.Len(t, shops, 2)
	assert.Equal(t, uint(3), shops[0].ID)
	assert.Equal(t, uint(2), shops[1].ID)
}

func TestRepository_WithTx_RollsBack(t *testing.T) {
	repo, db := setupTestDB(t)
	require.NoError(t, repo.InsertOrReplace([]entities.Shop{{ID: 1, Name: "Corner"}}))
	errAbort := errors.New("abort")

	err := db.Transaction(func(tx *gorm.DB) error {
		txRepo := repo.WithTx(tx)
		if err := txRepo.DeleteAll(); err != nil {
			return err
		}
		if err := txRepo.InsertOrReplace([]entities.Shop{{ID: 9, Name: "New"}}); err != nil {
			return err
		}
		return errAbort
	})
	require.ErrorIs(t, err, errAbort)

	shops, err := repo.List(0, 0)
	require.NoError(t, err)
	require.Len(t, shops, 1)
	assert.Equal(t, "Corner", shops[0].Name)
}

func TestRepository_Table(t *testing.T) {
	repo, _ := setupTestDB(t)
	assert.Equal(t, "shops", repo.Table())
}

func TestRepository_Delete(t *testing.T) {
	repo, _ := setupTestDB(t)
	require.NoError(t, repo.InsertOrReplace([]entities.Shop{{ID: 1}, {ID: 2}}))

	require.NoError(t, repo.Delete(uint(1)))

	shops, err := repo.List(0, 0)
	require.NoError(t, err)
	require.Len(t, shops, 1)
	assert.Equal(t, uint(2), shops[0].ID)
}
