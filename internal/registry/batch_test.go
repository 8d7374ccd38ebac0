package registry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testPath = `SOFTWARE\Example\Tasks\Games`

func TestApplyRestoreRoundTrip(t *testing.T) {
	store := NewMemory()
	store.Write(LocalMachine, testPath, "Priority", DWord(2))
	store.Write(LocalMachine, testPath, "Scheduling Category", String("Medium"))
	before := store.Dump()

	snap := Apply(store, []Tweak{
		{LocalMachine, testPath, "Priority", DWord(6)},
		{LocalMachine, testPath, "Scheduling Category", String("High")},
		{LocalMachine, testPath, "GPU Priority", DWord(8)},
	})
	require.Equal(t, 3, snap.Len())

	v, ok := store.Read(LocalMachine, testPath, "GPU Priority")
	require.True(t, ok)
	assert.Equal(t, DWord(8), v)

	assert.Equal(t, 3, snap.Restore(store))
	assert.Equal(t, before, store.Dump())

	_, ok = store.Read(LocalMachine, testPath, "GPU Priority")
	assert.False(t, ok, "value absent before apply must be deleted on restore")
}

func TestApplySameValueTwiceRestoresFirstOriginal(t *testing.T) {
	store := NewMemory()
	store.Write(CurrentUser, testPath, "Flag", DWord(0))

	snap := Apply(store, []Tweak{
		{CurrentUser, testPath, "Flag", DWord(1)},
		{CurrentUser, testPath, "Flag", DWord(2)},
	})
	snap.Restore(store)

	v, _ := store.Read(CurrentUser, testPath, "Flag")
	assert.Equal(t, DWord(0), v)
}

func TestApplySkipsFailedWrites(t *testing.T) {
	store := NewMemory()
	store.ReadOnly = true

	snap := Apply(store, []Tweak{{LocalMachine, testPath, "Priority", DWord(6)}})
	assert.Equal(t, 0, snap.Len())
	assert.Equal(t, 0, snap.Restore(store))
}

func TestApplySkipsUnsupportedValues(t *testing.T) {
	store := &unsupportedStore{Memory: NewMemory()}

	snap := Apply(store, []Tweak{{LocalMachine, testPath, "Blob", DWord(1)}})
	assert.Equal(t, 0, snap.Len())
	_, written := store.Memory.Read(LocalMachine, testPath, "Blob")
	assert.False(t, written)
}

func TestNilSnapshot(t *testing.T) {
	var snap *Snapshot
	assert.Equal(t, 0, snap.Len())
	assert.Equal(t, 0, snap.Restore(NewMemory()))
	assert.Nil(t, snap.Entries())
}

func TestCaptureAndRestoreOriginal(t *testing.T) {
	store := NewMemory()
	orig := Capture(store, LocalMachine, testPath, "HwSchMode")
	assert.False(t, orig.Existed)

	store.Write(LocalMachine, testPath, "HwSchMode", DWord(2))
	require.True(t, RestoreOriginal(store, orig))

	_, ok := store.Read(LocalMachine, testPath, "HwSchMode")
	assert.False(t, ok)
}

type unsupportedStore struct {
	*Memory
}

func (u *unsupportedStore) Read(root Root, path, name string) (Value, bool) {
	if name == "Blob" {
		return Value{Kind: Unsupported}, true
	}
	return u.Memory.Read(root, path, name)
}
