package system

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsDesktop(t *testing.T) {
	tests := []struct {
		name     string
		types    []int32
		expected bool
	}{
		{"Desktop", []int32{3}, true},
		{"Tower", []int32{7}, true},
		{"All in one", []int32{13}, true},
		{"Mini PC", []int32{35}, true},
		{"Notebook", []int32{10}, false},
		{"Laptop", []int32{9}, false},
		{"Convertible with dock", []int32{31, 3}, true},
		{"Unknown", nil, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, isDesktop(tt.types))
		})
	}
}

func TestParseChassisOutput(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []int32
	}{
		{"wmic single", "ChassisTypes  \r\n{3}  \r\n\r\n", []int32{3}},
		{"wmic multiple", "ChassisTypes\n{10,9}\n", []int32{10, 9}},
		{"sysfs", "10\n", []int32{10}},
		{"empty", "", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, parseChassisOutput(tt.input))
		})
	}
}

func TestDetectIsCached(t *testing.T) {
	first := Detect()
	second := Detect()
	assert.Equal(t, first, second)
	assert.Equal(t, first.Desktop, IsDesktop())
}
