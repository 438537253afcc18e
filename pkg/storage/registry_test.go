package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// stubProvider is the minimal Provider for registry tests.
type stubProvider struct {
	Provider
	name string
}

func (p *stubProvider) Name() string { return p.name }

func TestRegistryRegisterAndGet(t *testing.T) {
	r := NewRegistry()

	assert.NoError(t, r.Register(&stubProvider{name: "local"}))
	assert.NoError(t, r.Register(&stubProvider{name: "nas"}))

	p, ok := r.Get("nas")
	assert.True(t, ok)
	assert.Equal(t, "nas", p.Name())

	_, ok = r.Get("missing")
	assert.False(t, ok)

	assert.Equal(t, 2, r.Len())
}

func TestRegistryRejectsDuplicateName(t *testing.T) {
	r := NewRegistry()

	assert.NoError(t, r.Register(&stubProvider{name: "nas"}))
	assert.ErrorIs(t, r.Register(&stubProvider{name: "nas"}), ErrProviderExists)
}

func TestRegistryRemove(t *testing.T) {
	r := NewRegistry()
	_ = r.Register(&stubProvider{name: LocalName})
	_ = r.Register(&stubProvider{name: "nas"})

	assert.ErrorIs(t, r.Remove(LocalName), ErrProviderProtected)
	assert.ErrorIs(t, r.Remove("missing"), ErrProviderNotFound)

	assert.NoError(t, r.Remove("nas"))
	_, ok := r.Get("nas")
	assert.False(t, ok)
}

func TestRegistryNamesSorted(t *testing.T) {
	r := NewRegistry()
	_ = r.Register(&stubProvider{name: "nas"})
	_ = r.Register(&stubProvider{name: "attic"})
	_ = r.Register(&stubProvider{name: "local"})

	assert.Equal(t, []string{"attic", "local", "nas"}, r.Names())

	all := r.All()
	assert.Len(t, all, 3)
	assert.Equal(t, "attic", all[0].Name())
}
