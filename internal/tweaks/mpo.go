package tweaks

import (
	"gamemode/internal/registry"
)

const (
	dwmPath          = `SOFTWARE\Microsoft\Windows\Dwm`
	overlayTestMode  = "OverlayTestMode"
	overlayMinFPS    = "OverlayMinFPS"
	mpoDisabledValue = 5
)

// MPO toggles Windows multiplane overlays. It is not part of any session.
type MPO struct {
	store registry.Store
}

// NewMPO creates an MPO toggle over store.
func NewMPO(store registry.Store) *MPO {
	return &MPO{store: store}
}

// Enabled reports whether multiplane overlays are on.
func (m *MPO) Enabled() bool {
	v, ok := m.store.Read(registry.LocalMachine, dwmPath, overlayTestMode)
	return !ok || v != registry.DWord(mpoDisabledValue)
}

// Set turns multiplane overlays on or off.
func (m *MPO) Set(enabled bool) bool {
	if !enabled {
		return m.store.Write(registry.LocalMachine, dwmPath, overlayTestMode, registry.DWord(mpoDisabledValue))
	}
	deleted := m.store.Delete(registry.LocalMachine, dwmPath, overlayTestMode)
	return m.store.Write(registry.LocalMachine, dwmPath, overlayMinFPS, registry.DWord(0)) && deleted
}
