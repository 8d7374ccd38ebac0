package process

import (
	"fmt"
	"sync"
)

// Fake is an in-memory Host. Processes keep their insertion order.
type Fake struct {
	mu        sync.Mutex
	procs     []Info
	nextPID   uint32
	failPIDs  map[uint32]bool
	suspended map[uint32]bool
	priority  map[uint32]Priority

	Resumes    []uint32
	KillPasses [][]string
	Spawned    []string
}

// NewFake returns a Fake holding procs.
func NewFake(procs ...Info) *Fake {
	f := &Fake{
		nextPID:   10000,
		failPIDs:  make(map[uint32]bool),
		suspended: make(map[uint32]bool),
		priority:  make(map[uint32]Priority),
	}
	f.procs = append(f.procs, procs...)
	return f
}

// Add appends a live process.
func (f *Fake) Add(p Info) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.procs = append(f.procs, p)
}

// Remove drops pid as if it exited.
func (f *Fake) Remove(pid uint32) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, p := range f.procs {
		if p.PID == pid {
			f.procs = append(f.procs[:i], f.procs[i+1:]...)
			return
		}
	}
}

// FailOn makes suspend, resume and priority changes fail for pid.
func (f *Fake) FailOn(pid uint32) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failPIDs[pid] = true
}

// Suspended reports whether pid is currently suspended.
func (f *Fake) Suspended(pid uint32) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.suspended[pid]
}

// PriorityOf returns the scheduling class of pid.
func (f *Fake) PriorityOf(pid uint32) Priority {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.priority[pid]
}

// ResumeCount returns how many Resume calls were issued.
func (f *Fake) ResumeCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.Resumes)
}

func (f *Fake) find(pid uint32) bool {
	for _, p := range f.procs {
		if p.PID == pid {
			return true
		}
	}
	return false
}

func (f *Fake) Snapshot() ([]Info, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]Info(nil), f.procs...), nil
}

func (f *Fake) Suspend(pid uint32) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failPIDs[pid] || !f.find(pid) {
		return fmt.Errorf("suspend %d: access denied", pid)
	}
	f.suspended[pid] = true
	return nil
}

func (f *Fake) Resume(pid uint32) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Resumes = append(f.Resumes, pid)
	if f.failPIDs[pid] || !f.find(pid) {
		return fmt.Errorf("resume %d: no such process", pid)
	}
	delete(f.suspended, pid)
	return nil
}

func (f *Fake) SetPriority(pid uint32, p Priority) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failPIDs[pid] || !f.find(pid) {
		return fmt.Errorf("set priority %d: access denied", pid)
	}
	f.priority[pid] = p
	return nil
}

func (f *Fake) Exists(pid uint32) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.find(pid)
}

func (f *Fake) Kill(names []string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.KillPasses = append(f.KillPasses, append([]string(nil), names...))
	set := NewSet(names...)
	kept := f.procs[:0]
	for _, p := range f.procs {
		if !set.Has(p.Name) {
			kept = append(kept, p)
		}
	}
	f.procs = kept
	return nil
}

func (f *Fake) Spawn(name string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Spawned = append(f.Spawned, name)
	f.nextPID++
	f.procs = append(f.procs, Info{PID: f.nextPID, Name: name + ".exe"})
	return nil
}
