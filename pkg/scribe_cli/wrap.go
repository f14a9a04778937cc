// pkg/scribe_cli/wrap.go

package scribe_cli

import (
	"context"
	"fmt"

	cerr "github.com/cockroachdb/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/CodeMonkeyCybersecurity/scribe/pkg/logger"
	"github.com/CodeMonkeyCybersecurity/scribe/pkg/scribe_err"
	"github.com/CodeMonkeyCybersecurity/scribe/pkg/scribe_io"
)

// Wrap gives fn a runtime context with panic recovery, a command span and
// a scoped logger. Unexpected errors are returned with a stack attached.
func Wrap(fn func(rc *scribe_io.RuntimeContext, cmd *cobra.Command, args []string) error) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) (err error) {
		parent := cmd.Context()
		if parent == nil {
			parent = context.Background()
		}

		rc := scribe_io.NewContext(parent, cmd.CommandPath())
		rc.Component = cmd.Name()
		defer rc.End(&err)

		defer func() {
			if r := recover(); r != nil {
				err = scribe_err.NewInternalError(fmt.Sprintf("panic: %v", r), cerr.AssertionFailedf("panic: %v", r))
				rc.Log.Error("Panic recovered", zap.Any("panic", r))
			}
		}()

		err = logger.WithCommandLogging(rc.Log, cmd.CommandPath(), func() error {
			return fn(rc, cmd, args)
		})
		if err != nil && !scribe_err.IsExpectedUserError(err) {
			err = cerr.WithStack(err)
		}
		return err
	}
}
