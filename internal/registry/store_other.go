//go:build !windows

package registry

import (
	"go.uber.org/zap"

	"gamemode/internal/logging"
)

// System has no registry to talk to outside Windows; every call is a no-op.
type System struct {
	log *zap.Logger
}

// NewSystem returns a Store that reports nothing and changes nothing.
func NewSystem(log *zap.Logger) *System {
	return &System{log: logging.OrNop(log).Named("registry")}
}

func (s *System) Read(Root, string, string) (Value, bool) { return Value{}, false }
func (s *System) Write(Root, string, string, Value) bool  { return false }
func (s *System) Delete(Root, string, string) bool        { return false }
func (s *System) SubKeys(Root, string) []string           { return nil }
