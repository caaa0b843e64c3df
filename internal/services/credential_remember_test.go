package services_test

import (
	"testing"

	"github.com/BradenHooton/ajustes/internal/models"
	"github.com/BradenHooton/ajustes/internal/services"
	"github.com/BradenHooton/ajustes/internal/storage"
	"github.com/stretchr/testify/assert"
)

func TestCredentialRemember_SaveNormalizes(t *testing.T) {
	store := newTestStore()
	remember := services.NewCredentialRemember(store)

	remember.Save("  Ana.Perez@Empresa.COM ")

	value, ok := store.Get(models.KeyRememberedEmail)
	assert.True(t, ok)
	assert.Equal(t, "ana.perez@empresa.com", value)

	loaded, ok := remember.Load()
	assert.True(t, ok)
	assert.Equal(t, "ana.perez@empresa.com", loaded)
}

func TestCredentialRemember_Clear(t *testing.T) {
	store := newTestStore()
	remember := services.NewCredentialRemember(store)

	remember.Save("ana@empresa.com")
	remember.Clear()

	_, ok := store.Get(models.KeyRememberedEmail)
	assert.False(t, ok)
	_, ok = remember.Load()
	assert.False(t, ok)
}

func TestCredentialRemember_BlankValuesAreAbsent(t *testing.T) {
	store := newTestStore()
	store.Set(models.KeyRememberedEmail, "   ")
	remember := services.NewCredentialRemember(store)

	_, ok := remember.Load()
	assert.False(t, ok)

	remember.Save("   ")
	_, ok = store.Get(models.KeyRememberedEmail)
	assert.False(t, ok)
}

func TestCredentialRemember_UnavailableStoreIsSilent(t *testing.T) {
	remember := services.NewCredentialRemember(storage.UnavailableStore{})

	assert.NotPanics(t, func() {
		remember.Save("ana@empresa.com")
		remember.Clear()
	})
	_, ok := remember.Load()
	assert.False(t, ok)
}
