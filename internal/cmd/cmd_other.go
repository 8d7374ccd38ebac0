//go:build !windows

package cmd

import "os/exec"

func hide(*exec.Cmd) {}
