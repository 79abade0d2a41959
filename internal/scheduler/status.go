package scheduler

import (
	"time"

	"github.com/mrlokans/shoplist/internal/entities"
)

const (
	StatusSuccess = "success"
	StatusFailed  = "failed"
)

// StatusStore persists key/value settings.
type StatusStore interface {
	GetValue(key string) (string, error)
	SetSettings(values map[string]string) error
}

// RefreshStatus is the outcome of the last scheduled refresh.
type RefreshStatus struct {
	LastAt  *time.Time `json:"last_at"`
	Status  string     `json:"status"`
	Message string     `json:"message"`
}

// WriteStatus stores the outcome of a refresh in one upsert.
func WriteStatus(store StatusStore, status, message string, at time.Time) error {
	return store.SetSettings(map[string]string{
		entities.SettingKeyRefreshLastAt:      at.UTC().Format(time.RFC3339),
		entities.SettingKeyRefreshLastStatus:  status,
		entities.SettingKeyRefreshLastMessage: message,
	})
}

// ReadStatus loads the outcome of the last refresh. LastAt is nil when no
// refresh has been recorded.
func ReadStatus(store StatusStore) (RefreshStatus, error) {
	var out RefreshStatus

	lastAt, err := store.GetValue(entities.SettingKeyRefreshLastAt)
	if err != nil {
		return out, err
	}
	if lastAt != "" {
		if t, err := time.Parse(time.RFC3339, lastAt); err == nil {
			out.LastAt = &t
		}
	}
	if out.Status, err = store.GetValue(entities.SettingKeyRefreshLastStatus); err != nil {
		return out, err
	}
	if out.Message, err = store.GetValue(entities.SettingKeyRefreshLastMessage); err != nil {
		return out, err
	}
	return out, nil
}
