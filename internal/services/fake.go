package services

import (
	"fmt"
	"sync"
)

// Fake is an in-memory Manager that records every call.
type Fake struct {
	mu     sync.Mutex
	states map[string]State
	fail   map[string]bool

	Stops  []string
	Starts []string
}

// NewFake returns a Fake with the given services marked running.
func NewFake(running ...string) *Fake {
	f := &Fake{states: make(map[string]State), fail: make(map[string]bool)}
	for _, name := range running {
		f.states[name] = Running
	}
	return f
}

// Set forces the state of a service.
func (f *Fake) Set(name string, s State) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.states[name] = s
}

// FailOn makes Stop and Start fail for name.
func (f *Fake) FailOn(name string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fail[name] = true
}

// State returns the current state of name.
func (f *Fake) State(name string) State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.states[name]
}

// Calls returns the number of Stop and Start calls issued.
func (f *Fake) Calls() (stops, starts int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.Stops), len(f.Starts)
}

func (f *Fake) Query(name string) (State, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.states[name]
	if !ok {
		return Unknown, fmt.Errorf("service %s does not exist", name)
	}
	return s, nil
}

func (f *Fake) Stop(name string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Stops = append(f.Stops, name)
	if f.fail[name] {
		return fmt.Errorf("stop %s: access denied", name)
	}
	f.states[name] = Stopped
	return nil
}

func (f *Fake) Start(name string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Starts = append(f.Starts, name)
	if f.fail[name] {
		return fmt.Errorf("start %s: access denied", name)
	}
	f.states[name] = Running
	return nil
}
