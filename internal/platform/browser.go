// Package platform holds the small OS-specific helpers auox needs.
package platform

import (
	"fmt"
	"os/exec"
	"runtime"
)

// OpenURL asks the desktop to open url in the default browser. It does not
// wait for the browser to exit.
func OpenURL(url string) error {
	cmd := browserCommand(runtime.GOOS, url)
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("launch browser: %w", err)
	}
	go func() { _ = cmd.Wait() }()
	return nil
}

func browserCommand(goos, url string) *exec.Cmd {
	switch goos {
	case "darwin":
		return exec.Command("open", url)
	case "windows":
		return exec.Command("rundll32", "url.dll,FileProtocolHandler", url)
	default:
		return exec.Command("xdg-open", url)
	}
}
