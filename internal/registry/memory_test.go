package registry

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMemoryCaseInsensitive(t *testing.T) {
	m := NewMemory()
	m.Write(LocalMachine, `SYSTEM\CurrentControlSet\Control`, "WaitToKillServiceTimeout", String("5000"))

	v, ok := m.Read(LocalMachine, `system\currentcontrolset\control`, "waittokillservicetimeout")
	assert.True(t, ok)
	assert.Equal(t, String("5000"), v)

	_, ok = m.Read(CurrentUser, `SYSTEM\CurrentControlSet\Control`, "WaitToKillServiceTimeout")
	assert.False(t, ok, "hives are separate")
}

func TestMemorySubKeys(t *testing.T) {
	m := NewMemory()
	base := `SYSTEM\CurrentControlSet\Services\NetBT\Parameters\Interfaces`
	m.CreateKey(LocalMachine, base+`\Tcpip_{A}`)
	m.Write(LocalMachine, base+`\Tcpip_{B}`, "NetbiosOptions", DWord(0))
	m.Write(LocalMachine, base+`\Tcpip_{B}\Nested`, "X", DWord(1))
	m.CreateKey(LocalMachine, base)

	assert.Equal(t, []string{"Tcpip_{A}", "Tcpip_{B}"}, m.SubKeys(LocalMachine, base))
	assert.Empty(t, m.SubKeys(LocalMachine, `SOFTWARE\Nothing`))
}

func TestMemoryDeleteAbsentSucceeds(t *testing.T) {
	m := NewMemory()
	assert.True(t, m.Delete(LocalMachine, `SOFTWARE\Nothing`, "Value"))
}

func TestMemoryRejectsUnsupportedWrite(t *testing.T) {
	m := NewMemory()
	assert.False(t, m.Write(LocalMachine, `SOFTWARE\X`, "Y", Value{}))
}

func TestJoin(t *testing.T) {
	assert.Equal(t, `SYSTEM\CurrentControlSet\Services\SysMain`, Join(`SYSTEM\CurrentControlSet\Services\`, "SysMain"))
	assert.Equal(t, `A\B`, Join(`\A\`, "", `B`))
}

func TestValueString(t *testing.T) {
	assert.Equal(t, "dword:38", DWord(38).String())
	assert.Equal(t, `sz:"High"`, String("High").String())
	assert.Equal(t, "HKCU", CurrentUser.String())
}
