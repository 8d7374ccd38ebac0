package registry

// Tweak is a single value to force.
type Tweak struct {
	Root  Root
	Path  string
	Name  string
	Value Value
}

// Original is the state of a value before a Tweak overwrote it.
type Original struct {
	Tweak   Tweak
	Prior   Value
	Existed bool
}

// Snapshot records every value a batch changed, in application order.
// The zero value and nil are both empty snapshots.
type Snapshot struct {
	entries []Original
}

// Apply writes each tweak after capturing its prior value. Values of an
// unsupported type are left alone, and tweaks whose write fails are not
// recorded.
func Apply(s Store, tweaks []Tweak) *Snapshot {
	snap := &Snapshot{}
	for _, t := range tweaks {
		prior, existed := s.Read(t.Root, t.Path, t.Name)
		if existed && prior.Kind == Unsupported {
			continue
		}
		if !s.Write(t.Root, t.Path, t.Name, t.Value) {
			continue
		}
		snap.entries = append(snap.entries, Original{Tweak: t, Prior: prior, Existed: existed})
	}
	return snap
}

// Len reports how many values the batch changed.
func (snap *Snapshot) Len() int {
	if snap == nil {
		return 0
	}
	return len(snap.entries)
}

// Entries returns a copy of the recorded originals.
func (snap *Snapshot) Entries() []Original {
	if snap == nil {
		return nil
	}
	return append([]Original(nil), snap.entries...)
}

// Restore reverts the batch in reverse order: values that existed are
// rewritten, values that were absent are deleted. It returns the number of
// successful reverts.
func (snap *Snapshot) Restore(s Store) int {
	if snap == nil {
		return 0
	}
	restored := 0
	for i := len(snap.entries) - 1; i >= 0; i-- {
		if RestoreOriginal(s, snap.entries[i]) {
			restored++
		}
	}
	return restored
}

// RestoreOriginal puts a single captured value back.
func RestoreOriginal(s Store, o Original) bool {
	t := o.Tweak
	if o.Existed {
		return s.Write(t.Root, t.Path, t.Name, o.Prior)
	}
	return s.Delete(t.Root, t.Path, t.Name)
}

// Capture reads the current state of one value.
func Capture(s Store, root Root, path, name string) Original {
	prior, existed := s.Read(root, path, name)
	return Original{
		Tweak:   Tweak{Root: root, Path: path, Name: name},
		Prior:   prior,
		Existed: existed,
	}
}
