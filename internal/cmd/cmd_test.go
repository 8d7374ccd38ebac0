package cmd

import (
	"context"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHiddenKeepsArguments(t *testing.T) {
	c := Hidden("powercfg", "/getactivescheme")
	assert.Equal(t, []string{"powercfg", "/getactivescheme"}, c.Args)
	if runtime.GOOS == "windows" {
		require.NotNil(t, c.SysProcAttr)
	}
}

func TestSystemRunMissingBinary(t *testing.T) {
	_, err := System{}.Run(context.Background(), "definitely-not-a-real-binary-name")
	assert.Error(t, err)
}
