// Package registry is the configuration-store provider: typed best-effort
// access to the Windows registry plus capture-before-write batches.
package registry

import (
	"fmt"
	"strings"
)

// Root selects a predefined registry hive.
type Root int

const (
	LocalMachine Root = iota
	CurrentUser
)

func (r Root) String() string {
	switch r {
	case LocalMachine:
		return "HKLM"
	case CurrentUser:
		return "HKCU"
	default:
		return fmt.Sprintf("Root(%d)", int(r))
	}
}

// Kind is the stored type of a Value.
type Kind int

const (
	// Unsupported marks a value that exists but whose type this package
	// cannot round-trip (binary, multi-string, expand-string, qword).
	Unsupported Kind = iota
	Integer
	Text
)

// Value is a registry value restricted to REG_DWORD and REG_SZ.
type Value struct {
	Kind Kind
	Int  uint32
	Text string
}

// DWord returns an Integer value.
func DWord(v uint32) Value { return Value{Kind: Integer, Int: v} }

// String returns a Text value.
func String(s string) Value { return Value{Kind: Text, Text: s} }

func (v Value) String() string {
	switch v.Kind {
	case Integer:
		return fmt.Sprintf("dword:%d", v.Int)
	case Text:
		return fmt.Sprintf("sz:%q", v.Text)
	default:
		return "unsupported"
	}
}

// Store is a hierarchical key/value configuration store. Every operation is
// best-effort: a failed read reports ok=false and failed mutations return
// false without further detail.
type Store interface {
	// Read returns the value and whether it exists.
	Read(root Root, path, name string) (Value, bool)
	// Write sets the value, creating path if absent.
	Write(root Root, path, name string, v Value) bool
	// Delete removes the value. Deleting an absent value succeeds.
	Delete(root Root, path, name string) bool
	// SubKeys lists the immediate children of path.
	SubKeys(root Root, path string) []string
}

// Join concatenates registry path segments with backslashes.
func Join(parts ...string) string {
	trimmed := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.Trim(p, `\`)
		if p != "" {
			trimmed = append(trimmed, p)
		}
	}
	return strings.Join(trimmed, `\`)
}
