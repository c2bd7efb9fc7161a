package cmd

import (
	"os/exec"
	"runtime"
)

// openFolder shows dir in the platform file manager without waiting for it.
func openFolder(dir string) error {
	var c *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		c = exec.Command("open", dir)
	case "windows":
		c = exec.Command("explorer", dir)
	default:
		c = exec.Command("xdg-open", dir)
	}
	if err := c.Start(); err != nil {
		return err
	}
	go func() { _ = c.Wait() }()
	return nil
}
