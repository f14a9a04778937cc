/* cmd/root.go */

package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/CodeMonkeyCybersecurity/scribe/cmd/ai"
	"github.com/CodeMonkeyCybersecurity/scribe/cmd/describe"
	"github.com/CodeMonkeyCybersecurity/scribe/cmd/generate"
	"github.com/CodeMonkeyCybersecurity/scribe/pkg/logger"
	"github.com/CodeMonkeyCybersecurity/scribe/pkg/scribe_err"
)

// DotEnvFile is loaded from the working directory before any command runs.
const DotEnvFile = ".env"

// NewRootCmd builds the scribe command tree.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "scribe",
		Short: "Write conventional commit messages from your working tree",
		Long: `Scribe inspects the uncommitted changes in a git repository and writes a
conventional commit message for them, using an AI provider when one is
configured and fixed heuristic rules otherwise.

The message is printed on stdout; logs go to stderr.`,
		SilenceErrors:     true,
		SilenceUsage:      true,
		PersistentPreRunE: preRun,
	}

	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return scribe_err.WrapValidationError(err)
	})

	root.PersistentFlags().Bool("debug", false, "Enable debug logging")
	root.PersistentFlags().String("config", "", "Path to the AI config file (default $XDG_CONFIG_HOME/scribe/ai-config.yaml)")

	root.AddCommand(
		generate.NewGenerateCmd(),
		generate.NewMessageCmd(),
		generate.NewSuggestTypeCmd(),
		describe.NewDescribeCmd(),
		ai.NewAICmd(),
	)
	return root
}

func preRun(cmd *cobra.Command, args []string) error {
	if debug, _ := cmd.Flags().GetBool("debug"); debug {
		logger.Initialize(zapcore.DebugLevel)
		scribe_err.SetDebugMode(true)
	}
	return loadDotEnv(DotEnvFile)
}

// loadDotEnv reads path into the environment without overriding variables
// that are already set. A missing file is not an error.
func loadDotEnv(path string) error {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return scribe_err.NewConfigError("failed to load "+path, err,
			"Fix the KEY=value syntax in "+path+" or remove the file")
	}
	logger.GetLogger().Debug("Loaded environment file", zap.String("path", path))
	return nil
}

// Execute runs the CLI and returns the process exit code.
func Execute() int {
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := NewRootCmd().ExecuteContext(ctx)
	if err != nil {
		scribe_err.PrintError("scribe failed", err)
	}
	return scribe_err.GetExitCode(err)
}
