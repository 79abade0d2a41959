package syncevents

import (
	"time"

	"gorm.io/gorm"

	"github.com/mrlokans/shoplist/internal/entities"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// LogEvent saves a sync event.
func (r *Repository) LogEvent(event *entities.SyncEvent) error {
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now()
	}
	return r.db.Create(event).Error
}

// GetEvents returns events ordered by most recent first, optionally filtered
// by endpoint, with the total number of matching events.
func (r *Repository) GetEvents(endpoint string, limit, offset int) ([]entities.SyncEvent, int64, error) {
	var events []entities.SyncEvent
	var total int64

	query := r.db.Model(&entities.SyncEvent{})
	if endpoint != "" {
		query = query.Where("endpoint = ?", endpoint)
	}
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	err := query.Order("created_at DESC").Limit(limit).Offset(offset).Find(&events).Error
	return events, total, err
}

// DeleteOldEvents removes events older than retention and returns how many
// were deleted.
func (r *Repository) DeleteOldEvents(retention time.Duration) (int64, error) {
	result := r.db.Where("created_at < ?", time.Now().Add(-retention)).Delete(&entities.SyncEvent{})
	return result.RowsAffected, result.Error
}
