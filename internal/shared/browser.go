package shared

import (
	"fmt"
	"os/exec"
	"runtime"
)

// Swapped out in tests to exercise each platform branch.
var getRuntime = func() string { return runtime.GOOS }

// OpenBrowser launches the system browser at url. Used by the OAuth login
// flow to hand the user off to the consent page.
func OpenBrowser(url string) error {
	var cmd *exec.Cmd
	rt := getRuntime()
	switch rt {
	case "darwin":
		cmd = exec.Command("open", url)
	case "linux":
		cmd = exec.Command("xdg-open", url)
	case "windows":
		cmd = exec.Command("cmd", "/c", "start", url)
	default:
		return fmt.Errorf("unsupported platform: %s", rt)
	}

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to open browser: %w", err)
	}

	return nil
}
