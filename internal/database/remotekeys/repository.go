// Package remotekeys provides database operations for pagination cursors.
//
// A cursor row is owned by the sync mediator of its endpoint. Every write is
// expected to happen inside the mediator's transaction, see WithTx.
//
// # Usage
//
//	repo := remotekeys.NewRepository(db)
//	key, err := repo.Get("/api/shops/")
package remotekeys

import (
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/mrlokans/shoplist/internal/entities"
)

// Repository handles all cursor database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new cursor repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to tx.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// Get returns the cursor of endpoint, or nil when none was persisted yet.
func (r *Repository) Get(endpoint string) (*entities.RemoteKey, error) {
	var key entities.RemoteKey
	err := r.db.Where("endpoint = ?", endpoint).First(&key).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &key, nil
}

// Save creates or overwrites the cursor of key.Endpoint.
func (r *Repository) Save(key *entities.RemoteKey) error {
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "endpoint"}},
		DoUpdates: clause.AssignmentColumns([]string{"next_page", "prev_page", "total_items", "updated_at"}),
	}).Create(key).Error
}

// Delete removes the cursor of endpoint. Deleting a missing cursor is not an error.
func (r *Repository) Delete(endpoint string) error {
	return r.db.Where("endpoint = ?", endpoint).Delete(&entities.RemoteKey{}).Error
}

// List returns all cursors ordered by endpoint.
func (r *Repository) List() ([]entities.RemoteKey, error) {
	var keys []entities.RemoteKey
	err := r.db.Order("endpoint ASC").Find(&keys).Error
	return keys, err
}
