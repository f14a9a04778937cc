/* pkg/logger/lifecycle.go */

package logger

import (
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// GenerateTraceID returns a short 8-char trace ID.
func GenerateTraceID() string {
	return uuid.New().String()[:8]
}

// WithCommandLogging runs fn between "Command started" and
// "Command completed"/"Command failed" debug entries on log.
func WithCommandLogging(log *zap.Logger, name string, fn func() error) error {
	if log == nil {
		log = GetLogger()
	}
	start := time.Now()

	log.Debug("Command started", zap.String("command", name))

	err := fn()
	duration := time.Since(start)

	if err != nil {
		log.Debug("Command failed", zap.String("command", name), zap.Duration("duration", duration), zap.Error(err))
	} else {
		log.Debug("Command completed", zap.String("command", name), zap.Duration("duration", duration))
	}

	return err
}
