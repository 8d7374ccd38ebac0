package detector

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	fullHD   = Rect{Right: 1920, Bottom: 1080}
	windowed = Rect{Left: 100, Top: 100, Right: 900, Bottom: 700}
)

func TestFullscreenBeforeLaterKnownGame(t *testing.T) {
	desk := NewFake(1920, 1080,
		FakeProcess{PID: 500, Name: "explorer.exe", Window: 0x10, Bounds: fullHD},
		FakeProcess{PID: 501, Name: "chrome.exe", Window: 0x20, Bounds: fullHD},
		FakeProcess{PID: 502, Name: "cs2.exe", Window: 0x30, Bounds: windowed},
	)

	m, ok := Detect(desk, 1)
	require.True(t, ok)
	assert.Equal(t, uint32(501), m.PID)
	assert.Equal(t, Window(0x20), m.Window)
}

func TestKnownGameWinsWithoutFullscreen(t *testing.T) {
	desk := NewFake(1920, 1080,
		FakeProcess{PID: 600, Name: "cs2.exe", Window: 0x60, Bounds: Rect{Right: 800, Bottom: 600}},
	)

	m, ok := Detect(desk, 1)
	require.True(t, ok)
	assert.Equal(t, Match{PID: 600, Name: "cs2.exe", Window: 0x60}, m)
}

func TestDetectSkipsAndMisses(t *testing.T) {
	tests := []struct {
		name  string
		procs []FakeProcess
	}{
		{"self is skipped", []FakeProcess{{PID: 77, Name: "gamemode.exe", Window: 0x1, Bounds: fullHD}}},
		{"excluded shell surfaces", []FakeProcess{
			{PID: 10, Name: "SearchHost.exe", Window: 0x1, Bounds: fullHD},
			{PID: 11, Name: "LockApp.exe", Window: 0x2, Bounds: fullHD},
		}},
		{"known game without a window", []FakeProcess{{PID: 12, Name: "GTA5.exe"}}},
		{"windowed app", []FakeProcess{{PID: 13, Name: "notepad.exe", Window: 0x3, Bounds: windowed}}},
		{"one pixel short", []FakeProcess{{PID: 14, Name: "video.exe", Window: 0x4, Bounds: Rect{Right: 1920, Bottom: 1079}}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, ok := Detect(NewFake(1920, 1080, tt.procs...), 77)
			assert.False(t, ok)
		})
	}
}

func TestLargerThanScreenCounts(t *testing.T) {
	desk := NewFake(1920, 1080,
		FakeProcess{PID: 20, Name: "emulator.exe", Window: 0x5, Bounds: Rect{Left: -8, Top: -8, Right: 1928, Bottom: 1088}},
	)
	m, ok := Detect(desk, 1)
	require.True(t, ok)
	assert.Equal(t, uint32(20), m.PID)
}

func TestKnownGameNamesIgnoreCaseAndExtension(t *testing.T) {
	desk := NewFake(1920, 1080,
		FakeProcess{PID: 30, Name: "league of legends.EXE", Window: 0x7, Bounds: windowed},
	)
	_, ok := Detect(desk, 1)
	assert.True(t, ok)
}
