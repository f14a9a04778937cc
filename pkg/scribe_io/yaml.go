/* pkg/scribe_io/yaml.go */

package scribe_io

import (
	"context"
	"os"

	cerr "github.com/cockroachdb/errors"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/CodeMonkeyCybersecurity/scribe/pkg/xdg"
)

// WriteYAML marshals in and writes it to filePath with owner-only
// permissions, creating the parent directory if needed.
func WriteYAML(ctx context.Context, filePath string, in interface{}) error {
	logger := otelzap.Ctx(ctx)
	logger.Debug("Writing YAML file", zap.String("path", filePath))

	data, err := yaml.Marshal(in)
	if err != nil {
		return cerr.Wrap(err, "failed to marshal YAML")
	}

	if err := xdg.EnsureDir(filePath); err != nil {
		return cerr.Wrapf(err, "failed to create directory for %s", filePath)
	}

	if err := os.WriteFile(filePath, data, xdg.FilePermPrivate); err != nil {
		return cerr.Wrapf(err, "failed to write YAML file %s", filePath)
	}
	// WriteFile keeps the mode of an existing file.
	if err := os.Chmod(filePath, xdg.FilePermPrivate); err != nil {
		return cerr.Wrapf(err, "failed to restrict permissions on %s", filePath)
	}

	logger.Debug("YAML file written",
		zap.String("path", filePath),
		zap.Int("size", len(data)))
	return nil
}

// ReadYAML reads a YAML file into out.
func ReadYAML(ctx context.Context, filePath string, out interface{}) error {
	logger := otelzap.Ctx(ctx)
	logger.Debug("Reading YAML file", zap.String("path", filePath))

	data, err := os.ReadFile(filePath)
	if err != nil {
		return cerr.Wrapf(err, "failed to read YAML file %s", filePath)
	}

	if err := yaml.Unmarshal(data, out); err != nil {
		return cerr.Wrapf(err, "failed to unmarshal YAML file %s", filePath)
	}

	logger.Debug("YAML file read",
		zap.String("path", filePath),
		zap.Int("size", len(data)))
	return nil
}
