package remote

import (
	"context"
	"fmt"

	"github.com/mrlokans/shoplist/internal/entities"
)

// CredentialProvider supplies the API token for every request.
type CredentialProvider interface {
	Token(ctx context.Context) (string, error)
}

// StaticCredentials provides a fixed token.
type StaticCredentials string

// Token returns the fixed token, or ErrNoCredentials when it is empty.
func (s StaticCredentials) Token(ctx context.Context) (string, error) {
	if s == "" {
		return "", ErrNoCredentials
	}
	return string(s), nil
}

// SettingsReader is the part of the settings repository the provider needs.
type SettingsReader interface {
	GetValue(key string) (string, error)
}

// SettingsCredentials reads the token from the settings table on every
// request, falling back to a configured token.
type SettingsCredentials struct {
	settings SettingsReader
	fallback string
}

// NewSettingsCredentials creates a provider backed by the settings store.
func NewSettingsCredentials(settings SettingsReader, fallback string) *SettingsCredentials {
	return &SettingsCredentials{settings: settings, fallback: fallback}
}

// Token returns the stored token, the fallback, or ErrNoCredentials.
func (s *SettingsCredentials) Token(ctx context.Context) (string, error) {
	token, err := s.settings.GetValue(entities.SettingKeyAPIToken)
	if err != nil {
		return "", fmt.Errorf("failed to read API token: %w", err)
	}
	if token == "" {
		token = s.fallback
	}
	if token == "" {
		return "", ErrNoCredentials
	}
	return token, nil
}
