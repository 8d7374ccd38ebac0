package cmd

import (
	"os/exec"
	"syscall"
)

const createNoWindow = 0x08000000

func hide(c *exec.Cmd) {
	c.SysProcAttr = &syscall.SysProcAttr{CreationFlags: createNoWindow}
}
