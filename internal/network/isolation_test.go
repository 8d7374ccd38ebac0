package network

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gamemode/internal/registry"
)

func seededStore(ifaces ...string) *registry.Memory {
	store := registry.NewMemory()
	for _, iface := range ifaces {
		store.Write(registry.LocalMachine, registry.Join(netbtInterfacesPath, iface), netbiosValue, registry.DWord(NetbiosDefault))
	}
	return store
}

func TestEnableDisable(t *testing.T) {
	store := seededStore("Tcpip_{1}", "Tcpip_{2}", "Tcpip_{3}")
	iso := NewIsolation(store, nil)

	res := iso.Enable()
	assert.True(t, res.Multicast)
	assert.Equal(t, 3, res.Interfaces)

	v, ok := store.Read(registry.LocalMachine, dnsClientPolicyPath, multicastValue)
	require.True(t, ok)
	assert.Equal(t, registry.DWord(0), v)
	for _, iface := range []string{"Tcpip_{1}", "Tcpip_{2}", "Tcpip_{3}"} {
		v, _ := store.Read(registry.LocalMachine, registry.Join(netbtInterfacesPath, iface), netbiosValue)
		assert.Equal(t, registry.DWord(NetbiosDisabled), v, iface)
	}

	res = iso.Disable()
	assert.Equal(t, 3, res.Interfaces)
	_, ok = store.Read(registry.LocalMachine, dnsClientPolicyPath, multicastValue)
	assert.False(t, ok, "multicast policy must be deleted, not reset")
	v, _ = store.Read(registry.LocalMachine, registry.Join(netbtInterfacesPath, "Tcpip_{2}"), netbiosValue)
	assert.Equal(t, registry.DWord(NetbiosDefault), v)
}

func TestEnableWithoutInterfaces(t *testing.T) {
	iso := NewIsolation(registry.NewMemory(), nil)
	res := iso.Enable()
	assert.True(t, res.Multicast)
	assert.Zero(t, res.Interfaces)
}

func TestReadOnlyStoreCountsFailures(t *testing.T) {
	store := seededStore("Tcpip_{1}")
	store.ReadOnly = true
	res := NewIsolation(store, nil).Enable()
	assert.False(t, res.Multicast)
	assert.Equal(t, 1, res.Failed)
}
