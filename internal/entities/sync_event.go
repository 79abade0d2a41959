package entities

import "time"

type SyncEventStatus string

const (
	SyncEventSuccess   SyncEventStatus = "success"
	SyncEventFailed    SyncEventStatus = "failed"
	SyncEventCancelled SyncEventStatus = "cancelled"
)

// SyncEvent records one page load of an endpoint.
type SyncEvent struct {
	ID              string          `gorm:"primaryKey;size:36" json:"id"`
	Endpoint        string          `gorm:"index;size:255" json:"endpoint"`
	LoadType        string          `gorm:"size:20" json:"load_type"`
	Status          SyncEventStatus `gorm:"size:20" json:"status"`
	EndOfPagination bool            `json:"end_of_pagination"`
	StatusCode      int             `json:"status_code,omitempty"` // remote HTTP status of a failed load
	ErrorMsg        string          `gorm:"size:500" json:"error_msg,omitempty"`
	DurationMs      int64           `json:"duration_ms"`
	CreatedAt       time.Time       `gorm:"index" json:"created_at"`
}

func (SyncEvent) TableName() string {
	return "sync_events"
}
