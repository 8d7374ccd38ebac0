package registry

import (
	"sort"
	"strings"
	"sync"
)

// Memory is an in-process Store. It is safe for concurrent use and treats
// paths and value names case-insensitively like the real registry.
type Memory struct {
	mu   sync.Mutex
	keys map[string]*memKey

	// ReadOnly makes every Write and Delete fail.
	ReadOnly bool
}

type memKey struct {
	root   Root
	path   string
	values map[string]memValue
}

type memValue struct {
	name  string
	value Value
}

// NewMemory returns an empty Memory store.
func NewMemory() *Memory {
	return &Memory{keys: make(map[string]*memKey)}
}

func keyID(root Root, path string) string {
	return root.String() + `\` + strings.ToLower(strings.Trim(path, `\`))
}

// CreateKey creates path without setting any value.
func (m *Memory) CreateKey(root Root, path string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.key(root, path)
}

func (m *Memory) key(root Root, path string) *memKey {
	id := keyID(root, path)
	k, ok := m.keys[id]
	if !ok {
		k = &memKey{root: root, path: strings.Trim(path, `\`), values: make(map[string]memValue)}
		m.keys[id] = k
	}
	return k
}

// Read implements Store.
func (m *Memory) Read(root Root, path, name string) (Value, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	k, ok := m.keys[keyID(root, path)]
	if !ok {
		return Value{}, false
	}
	v, ok := k.values[strings.ToLower(name)]
	return v.value, ok
}

// Write implements Store.
func (m *Memory) Write(root Root, path, name string, v Value) bool {
	if v.Kind == Unsupported {
		return false
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ReadOnly {
		return false
	}
	m.key(root, path).values[strings.ToLower(name)] = memValue{name: name, value: v}
	return true
}

// Delete implements Store.
func (m *Memory) Delete(root Root, path, name string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ReadOnly {
		return false
	}
	if k, ok := m.keys[keyID(root, path)]; ok {
		delete(k.values, strings.ToLower(name))
	}
	return true
}

// SubKeys implements Store.
func (m *Memory) SubKeys(root Root, path string) []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	prefix := keyID(root, path) + `\`
	seen := make(map[string]bool)
	var names []string
	for id, k := range m.keys {
		if !strings.HasPrefix(id, prefix) {
			continue
		}
		rest := k.path[len(k.path)-(len(id)-len(prefix)):]
		child, _, _ := strings.Cut(rest, `\`)
		if !seen[strings.ToLower(child)] {
			seen[strings.ToLower(child)] = true
			names = append(names, child)
		}
	}
	sort.Strings(names)
	return names
}

// Dump returns every stored value keyed by `ROOT\path\name` (lowercase).
func (m *Memory) Dump() map[string]Value {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[string]Value)
	for id, k := range m.keys {
		for lname, v := range k.values {
			out[id+`\`+lname] = v.value
		}
	}
	return out
}
