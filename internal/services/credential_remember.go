package services

import (
	"strings"

	"github.com/BradenHooton/ajustes/internal/models"
	"github.com/BradenHooton/ajustes/internal/storage"
)

// CredentialRemember persists the identifier of a user who asked to be
// remembered. It never fails; an unusable store makes it a no-op.
type CredentialRemember struct {
	store storage.KeyValueStore
}

// NewCredentialRemember creates a CredentialRemember over store
func NewCredentialRemember(store storage.KeyValueStore) *CredentialRemember {
	return &CredentialRemember{store: store}
}

// Load returns the remembered identifier, if any
func (c *CredentialRemember) Load() (string, bool) {
	value, ok := c.store.Get(models.KeyRememberedEmail)
	if !ok || strings.TrimSpace(value) == "" {
		return "", false
	}
	return value, true
}

// Save stores the normalized identifier
func (c *CredentialRemember) Save(identifier string) {
	normalized := NormalizeIdentifier(identifier)
	if normalized == "" {
		c.Clear()
		return
	}
	c.store.Set(models.KeyRememberedEmail, normalized)
}

// Clear forgets the remembered identifier
func (c *CredentialRemember) Clear() {
	c.store.Remove(models.KeyRememberedEmail)
}

// NormalizeIdentifier trims and lowercases an email identifier
func NormalizeIdentifier(identifier string) string {
	return strings.ToLower(strings.TrimSpace(identifier))
}
