package entities

import "time"

// RemoteKey records how far the local copy of one remote listing endpoint has
// been synchronized. There is at most one row per endpoint.
type RemoteKey struct {
	ID         uint      `gorm:"primaryKey" json:"-"`
	Endpoint   string    `gorm:"uniqueIndex;size:255;not null" json:"endpoint"`
	NextPage   *int      `json:"next_page"`
	PrevPage   *int      `json:"prev_page"`
	TotalItems int       `json:"total_items"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func (RemoteKey) TableName() string {
	return "remote_keys"
}

// HasNext reports whether another page can be requested for this endpoint.
func (k *RemoteKey) HasNext() bool {
	return k != nil && k.NextPage != nil
}
