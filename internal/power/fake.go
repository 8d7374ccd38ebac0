package power

import (
	"strings"
	"sync"
)

// Fake is an in-memory Manager. CurrentScheme resolves to the active scheme.
type Fake struct {
	mu        sync.Mutex
	active    string
	schemes   []Scheme
	templates map[string]string
	values    map[string]uint32

	Activations []string
	Writes      int
}

// NewFake returns a Fake with the given schemes installed and active set.
func NewFake(active string, schemes ...Scheme) *Fake {
	return &Fake{
		active:    active,
		schemes:   schemes,
		templates: make(map[string]string),
		values:    make(map[string]uint32),
	}
}

// AddTemplate makes guid duplicable under name.
func (f *Fake) AddTemplate(guid, name string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.templates[guid] = name
}

// SetValue seeds an AC value.
func (f *Fake) SetValue(scheme, subgroup, setting string, v uint32) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.values[f.key(scheme, subgroup, setting)] = v
}

// Value returns an AC value.
func (f *Fake) Value(scheme, subgroup, setting string) (uint32, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	v, ok := f.values[f.key(scheme, subgroup, setting)]
	return v, ok
}

// Active returns the active scheme.
func (f *Fake) Active() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.active
}

func (f *Fake) key(scheme, subgroup, setting string) string {
	if scheme == CurrentScheme {
		scheme = f.active
	}
	return strings.ToLower(scheme + "/" + subgroup + "/" + setting)
}

func (f *Fake) installed(guid string) bool {
	for _, s := range f.schemes {
		if strings.EqualFold(s.GUID, guid) {
			return true
		}
	}
	return false
}

func (f *Fake) ActiveScheme() (string, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.active, f.active != ""
}

func (f *Fake) SetActive(scheme string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	if scheme == CurrentScheme {
		scheme = f.active
	}
	f.Activations = append(f.Activations, scheme)
	if !f.installed(scheme) {
		return false
	}
	f.active = scheme
	return true
}

func (f *Fake) Schemes() []Scheme {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]Scheme(nil), f.schemes...)
}

func (f *Fake) Duplicate(template string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	name, ok := f.templates[template]
	if !ok {
		return false
	}
	f.schemes = append(f.schemes, Scheme{GUID: template, Name: name})
	return true
}

func (f *Fake) ReadAC(scheme, subgroup, setting string) (uint32, bool) {
	return f.Value(scheme, subgroup, setting)
}

func (f *Fake) WriteAC(scheme, subgroup, setting string, v uint32) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Writes++
	f.values[f.key(scheme, subgroup, setting)] = v
	return true
}
