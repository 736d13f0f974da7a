// Package browser opens URLs in the user's default browser.
package browser

import (
	"fmt"
	"os/exec"
	"runtime"
)

// Command returns the command that opens url on goos.
func Command(goos, url string) (*exec.Cmd, error) {
	switch goos {
	case "darwin":
		return exec.Command("open", url), nil
	case "linux", "freebsd", "openbsd":
		return exec.Command("xdg-open", url), nil
	case "windows":
		return exec.Command("rundll32", "url.dll,FileProtocolHandler", url), nil
	default:
		return nil, fmt.Errorf("unsupported platform: %s", goos)
	}
}

// Open starts the default browser on url without waiting for it.
func Open(url string) error {
	cmd, err := Command(runtime.GOOS, url)
	if err != nil {
		return err
	}
	return cmd.Start()
}
