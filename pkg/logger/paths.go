/* pkg/logger/paths.go */

package logger

import (
	"os"
	"path/filepath"
	"runtime"

	"github.com/CodeMonkeyCybersecurity/scribe/pkg/xdg"
)

const (
	appName     = "scribe"
	logFileName = "scribe.log"
)

// PlatformLogPaths returns candidate log paths in order of priority for the
// platform. The working directory is never a candidate: it is usually the
// repository being inspected.
func PlatformLogPaths() []string {
	switch runtime.GOOS {
	case "windows":
		return []string{
			filepath.Join(os.Getenv("LOCALAPPDATA"), appName, logFileName),
			filepath.Join(os.TempDir(), appName, logFileName),
		}
	default:
		return []string{
			xdg.XDGStatePath(appName, logFileName), // ~/.local/state/scribe/scribe.log
			filepath.Join(os.TempDir(), appName, logFileName),
		}
	}
}
