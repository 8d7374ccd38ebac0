// Package startup registers the program to run at user logon through the
// per-user Run key.
package startup

import (
	"strings"

	"go.uber.org/zap"

	"gamemode/internal/logging"
	"gamemode/internal/metrics"
	"gamemode/internal/registry"
)

const (
	runPath = `SOFTWARE\Microsoft\Windows\CurrentVersion\Run`

	// ValueName is the Run entry owned by this program.
	ValueName = "GameMode"
)

// Registration toggles the Run entry.
type Registration struct {
	store registry.Store
	log   *zap.Logger
}

// New creates a Registration over store.
func New(store registry.Store, log *zap.Logger) *Registration {
	return &Registration{store: store, log: logging.OrNop(log).Named("startup")}
}

// Enabled reports whether a Run entry exists.
func (r *Registration) Enabled() bool {
	_, ok := r.Command()
	return ok
}

// Command returns the executable path the Run entry launches.
func (r *Registration) Command() (string, bool) {
	v, ok := r.store.Read(registry.CurrentUser, runPath, ValueName)
	if !ok || v.Kind != registry.Text {
		return "", false
	}
	return extractExePath(v.Text), true
}

// Enable points the Run entry at exePath, replacing any previous one.
func (r *Registration) Enable(exePath string) bool {
	ok := r.store.Write(registry.CurrentUser, runPath, ValueName, registry.String(quote(exePath)))
	metrics.Observe("startup", "enable", ok)
	if !ok {
		r.log.Warn("could not write run entry", zap.String("path", exePath))
	}
	return ok
}

// Disable removes the Run entry.
func (r *Registration) Disable() bool {
	ok := r.store.Delete(registry.CurrentUser, runPath, ValueName)
	metrics.Observe("startup", "disable", ok)
	return ok
}

func quote(path string) string {
	return `"` + strings.Trim(path, `"`) + `"`
}

// extractExePath strips quotes and arguments from a Run command line.
func extractExePath(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}

	if raw[0] == '"' {
		if end := strings.Index(raw[1:], `"`); end >= 0 {
			return raw[1 : end+1]
		}
		return strings.Trim(raw, `"`)
	}

	lower := strings.ToLower(raw)
	if idx := strings.Index(lower, ".exe"); idx >= 0 {
		return raw[:idx+4]
	}

	if parts := strings.Fields(raw); len(parts) > 0 {
		return parts[0]
	}
	return raw
}
