package tasks

import "time"

// Config holds the queue settings.
type Config struct {
	Workers int

	// ReleaseAfter returns tasks claimed by a dead worker to the queue.
	ReleaseAfter time.Duration

	CleanupInterval time.Duration
}

// DefaultConfig returns the queue defaults.
func DefaultConfig() Config {
	return Config{
		Workers:         2,
		ReleaseAfter:    15 * time.Minute,
		CleanupInterval: time.Hour,
	}
}
