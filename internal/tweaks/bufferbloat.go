package tweaks

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"gamemode/internal/cmd"
	"gamemode/internal/logging"
)

// Receive-window auto-tuning levels understood by netsh.
const (
	defaultAutotuning  = "normal"
	disabledAutotuning = "disabled"
)

// Netsh reads and sets the TCP receive-window auto-tuning level.
type Netsh struct {
	runner cmd.Runner
	log    *zap.Logger
}

// NewNetsh creates a Netsh using runner.
func NewNetsh(runner cmd.Runner, log *zap.Logger) *Netsh {
	return &Netsh{runner: runner, log: logging.OrNop(log).Named("netsh")}
}

// AutotuningLevel returns the current level, e.g. "normal".
func (n *Netsh) AutotuningLevel() (string, bool) {
	out, err := n.runner.Run(context.Background(), "netsh", "int", "tcp", "show", "global")
	if err != nil {
		n.log.Debug("netsh show global failed", zap.Error(err))
		return "", false
	}
	return parseAutotuningLevel(string(out))
}

// SetAutotuning sets the level.
func (n *Netsh) SetAutotuning(level string) bool {
	_, err := n.runner.Run(context.Background(), "netsh", "int", "tcp", "set", "global", "autotuninglevel="+level)
	if err != nil {
		n.log.Debug("netsh set autotuninglevel failed", zap.String("level", level), zap.Error(err))
		return false
	}
	return true
}

// FixEnabled reports whether auto-tuning is currently disabled, which is
// the state the bufferbloat fix leaves behind.
func (n *Netsh) FixEnabled() bool {
	level, ok := n.AutotuningLevel()
	return ok && level == disabledAutotuning
}

// EnableFix disables auto-tuning outside of any session.
func (n *Netsh) EnableFix() bool {
	return n.SetAutotuning(disabledAutotuning)
}

// DisableFix restores the Windows default auto-tuning level.
func (n *Netsh) DisableFix() bool {
	return n.SetAutotuning(defaultAutotuning)
}

// parseAutotuningLevel finds the "Receive Window Auto-Tuning Level" line of
// `netsh int tcp show global`.
func parseAutotuningLevel(out string) (string, bool) {
	for _, line := range strings.Split(out, "\n") {
		lower := strings.ToLower(line)
		if !strings.Contains(lower, "auto-tuning") && !strings.Contains(lower, "autotuning") {
			continue
		}
		_, value, found := strings.Cut(line, ":")
		if !found {
			continue
		}
		value = strings.ToLower(strings.TrimSpace(value))
		if value == "" {
			continue
		}
		return value, true
	}
	return "", false
}
