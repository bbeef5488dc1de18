/* pkg/logger/paths.go */

package logger

import (
	"os"
	"path/filepath"
	"runtime"

	"github.com/CodeMonkeyCybersecurity/pwq/pkg/shared"
)

// PlatformLogPaths returns fallback log paths in order of priority for the platform.
func PlatformLogPaths() []string {
	logName := shared.AppID + ".log"

	switch runtime.GOOS {
	case "windows":
		return []string{
			filepath.Join(os.Getenv("LOCALAPPDATA"), shared.AppID, logName),
			".\\" + logName,
		}
	default:
		return []string{
			filepath.Join(stateHome(), shared.AppID, logName), // e.g. ~/.local/state/pwq/pwq.log
			filepath.Join(".", logName),                       // current working dir, handy for devs
			filepath.Join(os.TempDir(), shared.AppID, logName),
		}
	}
}

func stateHome() string {
	if dir := os.Getenv("XDG_STATE_HOME"); dir != "" {
		return dir
	}
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, ".local", "state")
	}
	return os.TempDir()
}
