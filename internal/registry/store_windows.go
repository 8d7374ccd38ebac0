package registry

import (
	"errors"

	"go.uber.org/zap"
	winreg "golang.org/x/sys/windows/registry"

	"gamemode/internal/logging"
)

// System is the Store backed by the live Windows registry.
type System struct {
	log *zap.Logger
}

// NewSystem returns the production Store.
func NewSystem(log *zap.Logger) *System {
	return &System{log: logging.OrNop(log).Named("registry")}
}

func hive(root Root) winreg.Key {
	if root == CurrentUser {
		return winreg.CURRENT_USER
	}
	return winreg.LOCAL_MACHINE
}

// Read implements Store.
func (s *System) Read(root Root, path, name string) (Value, bool) {
	k, err := winreg.OpenKey(hive(root), path, winreg.QUERY_VALUE)
	if err != nil {
		return Value{}, false
	}
	defer k.Close()

	_, typ, err := k.GetValue(name, nil)
	if err != nil {
		return Value{}, false
	}

	switch typ {
	case winreg.DWORD:
		v, _, err := k.GetIntegerValue(name)
		if err != nil {
			return Value{}, false
		}
		return DWord(uint32(v)), true
	case winreg.SZ:
		v, _, err := k.GetStringValue(name)
		if err != nil {
			return Value{}, false
		}
		return String(v), true
	default:
		return Value{Kind: Unsupported}, true
	}
}

// Write implements Store.
func (s *System) Write(root Root, path, name string, v Value) bool {
	k, _, err := winreg.CreateKey(hive(root), path, winreg.SET_VALUE)
	if err != nil {
		s.log.Debug("create key failed", zap.Stringer("root", root), zap.String("path", path), zap.Error(err))
		return false
	}
	defer k.Close()

	switch v.Kind {
	case Integer:
		err = k.SetDWordValue(name, v.Int)
	case Text:
		err = k.SetStringValue(name, v.Text)
	default:
		return false
	}
	if err != nil {
		s.log.Debug("write failed", zap.String("path", path), zap.String("name", name), zap.Error(err))
		return false
	}
	return true
}

// Delete implements Store.
func (s *System) Delete(root Root, path, name string) bool {
	k, err := winreg.OpenKey(hive(root), path, winreg.SET_VALUE)
	if errors.Is(err, winreg.ErrNotExist) {
		return true
	}
	if err != nil {
		s.log.Debug("open key failed", zap.String("path", path), zap.Error(err))
		return false
	}
	defer k.Close()

	if err := k.DeleteValue(name); err != nil && !errors.Is(err, winreg.ErrNotExist) {
		s.log.Debug("delete failed", zap.String("path", path), zap.String("name", name), zap.Error(err))
		return false
	}
	return true
}

// SubKeys implements Store.
func (s *System) SubKeys(root Root, path string) []string {
	k, err := winreg.OpenKey(hive(root), path, winreg.ENUMERATE_SUB_KEYS)
	if err != nil {
		return nil
	}
	defer k.Close()

	names, err := k.ReadSubKeyNames(-1)
	if err != nil {
		return nil
	}
	return names
}
