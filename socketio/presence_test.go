package socketio

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRegistryRegisterAndLookup(t *testing.T) {
	r := NewRegistry()

	_, ok := r.Lookup("1")
	assert.False(t, ok, "expected user to be offline before registering")

	r.Register("1", "conn-a")
	connID, ok := r.Lookup("1")
	assert.True(t, ok, "expected user to be online after registering")
	assert.Equal(t, "conn-a", connID)
}

func TestRegistryLastRegistrationWins(t *testing.T) {
	r := NewRegistry()

	r.Register("1", "conn-a")
	r.Register("1", "conn-b")

	connID, ok := r.Lookup("1")
	assert.True(t, ok)
	assert.Equal(t, "conn-b", connID, "expected the later connection to own the entry")

	// The displaced connection no longer owns anything, so its disconnect
	// must not knock the user offline.
	_, removed := r.Remove("conn-a")
	assert.False(t, removed, "expected displaced connection to be a no-op on remove")

	_, ok = r.Lookup("1")
	assert.True(t, ok, "expected user to stay online after stale disconnect")
}

func TestRegistryRemove(t *testing.T) {
	r := NewRegistry()
	r.Register("1", "conn-a")

	userID, ok := r.Remove("conn-a")
	assert.True(t, ok)
	assert.Equal(t, "1", userID)

	_, ok = r.Lookup("1")
	assert.False(t, ok, "expected user to be offline after remove")
}

func TestRegistryRemoveUnknownConnection(t *testing.T) {
	r := NewRegistry()
	r.Register("1", "conn-a")

	_, ok := r.Remove("conn-unknown")
	assert.False(t, ok, "expected unknown connection to be a no-op")

	_, ok = r.Lookup("1")
	assert.True(t, ok, "expected registered user to be unaffected")
}

func TestRegistryOnline(t *testing.T) {
	r := NewRegistry()
	assert.Empty(t, r.Online())

	r.Register("1", "conn-a")
	r.Register("2", "conn-b")
	r.Register("3", "conn-c")
	r.Remove("conn-b")

	assert.ElementsMatch(t, []string{"1", "3"}, r.Online())
}
