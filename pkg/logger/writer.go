// pkg/logger/writer.go

package logger

import (
	"os"

	cerr "github.com/cockroachdb/errors"
	"go.uber.org/zap/zapcore"

	"github.com/CodeMonkeyCybersecurity/scribe/pkg/xdg"
)

// GetLogFileWriter opens path for appending, creating the file and its
// directory with private permissions.
func GetLogFileWriter(path string) (zapcore.WriteSyncer, error) {
	if err := xdg.EnsureDir(path); err != nil {
		return nil, cerr.Wrap(err, "log directory")
	}

	file, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, xdg.FilePermPrivate)
	if err != nil {
		return nil, cerr.Wrap(err, "failed to open log file")
	}

	return zapcore.Lock(zapcore.AddSync(file)), nil
}

// FindWritableLogPath returns the first candidate from PlatformLogPaths that
// can be opened for writing.
func FindWritableLogPath() (string, error) {
	return firstWritable(PlatformLogPaths())
}

func firstWritable(paths []string) (string, error) {
	for _, path := range paths {
		if path == "" {
			continue
		}
		if err := xdg.EnsureDir(path); err != nil {
			continue
		}
		f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, xdg.FilePermPrivate)
		if err != nil {
			continue
		}
		_ = f.Close()
		return path, nil
	}
	return "", cerr.New("no writable log path found")
}
