// Package network is the network-isolation provider. It turns off LLMNR
// multicast name resolution and NetBIOS over TCP/IP on every interface.
package network

import (
	"go.uber.org/zap"

	"gamemode/internal/logging"
	"gamemode/internal/metrics"
	"gamemode/internal/registry"
)

const (
	dnsClientPolicyPath = `SOFTWARE\Policies\Microsoft\Windows NT\DNSClient`
	multicastValue      = "EnableMulticast"

	netbtInterfacesPath = `SYSTEM\CurrentControlSet\Services\NetBT\Parameters\Interfaces`
	netbiosValue        = "NetbiosOptions"
)

// NetbiosOptions values.
const (
	NetbiosDefault  uint32 = 0
	NetbiosDisabled uint32 = 2
)

// Result reports what one toggle achieved.
type Result struct {
	Multicast  bool
	Interfaces int
	Failed     int
}

// Isolation toggles the settings through a registry.Store.
type Isolation struct {
	store registry.Store
	log   *zap.Logger
}

// NewIsolation creates an Isolation over store.
func NewIsolation(store registry.Store, log *zap.Logger) *Isolation {
	return &Isolation{store: store, log: logging.OrNop(log).Named("network")}
}

// Enable writes the multicast policy and disables NetBIOS on every
// interface.
func (n *Isolation) Enable() Result {
	res := Result{Multicast: n.store.Write(registry.LocalMachine, dnsClientPolicyPath, multicastValue, registry.DWord(0))}
	metrics.Observe("network", "multicast_off", res.Multicast)
	n.setNetbios(NetbiosDisabled, &res)
	n.log.Debug("isolation enabled", zap.Bool("multicast", res.Multicast), zap.Int("interfaces", res.Interfaces), zap.Int("failed", res.Failed))
	return res
}

// Disable deletes the multicast policy value, whose absence is the
// default, and puts NetBIOS back to the DHCP-controlled default.
func (n *Isolation) Disable() Result {
	res := Result{Multicast: n.store.Delete(registry.LocalMachine, dnsClientPolicyPath, multicastValue)}
	metrics.Observe("network", "multicast_on", res.Multicast)
	n.setNetbios(NetbiosDefault, &res)
	n.log.Debug("isolation disabled", zap.Bool("multicast", res.Multicast), zap.Int("interfaces", res.Interfaces), zap.Int("failed", res.Failed))
	return res
}

func (n *Isolation) setNetbios(option uint32, res *Result) {
	for _, iface := range n.store.SubKeys(registry.LocalMachine, netbtInterfacesPath) {
		path := registry.Join(netbtInterfacesPath, iface)
		if n.store.Write(registry.LocalMachine, path, netbiosValue, registry.DWord(option)) {
			res.Interfaces++
		} else {
			res.Failed++
		}
	}
}
