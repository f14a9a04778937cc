// cmd/describe/describe.go

package describe

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.uber.org/zap"

	"github.com/CodeMonkeyCybersecurity/scribe/pkg/changes"
	pkgdescribe "github.com/CodeMonkeyCybersecurity/scribe/pkg/describe"
	"github.com/CodeMonkeyCybersecurity/scribe/pkg/scribe_cli"
	"github.com/CodeMonkeyCybersecurity/scribe/pkg/scribe_err"
	"github.com/CodeMonkeyCybersecurity/scribe/pkg/scribe_io"
)

// NewDescribeCmd returns the `scribe describe` command.
func NewDescribeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "describe <file>",
		Short: "Print the one-line change description for a file",
		Long: `Scan a file for class, function and import declarations and print
the description scribe would use for it in a commit prompt. The language
is taken from the file extension.

Examples:
  scribe describe src/app.ts
  scribe describe --verbose pkg/server/handler.py`,
		Args: cobra.ExactArgs(1),
		RunE: scribe_cli.Wrap(runDescribe),
	}
	scribe_cli.AddBoolFlag(cmd, "verbose", "v", false, "Also list everything the scan found")
	return cmd
}

func runDescribe(rc *scribe_io.RuntimeContext, cmd *cobra.Command, args []string) error {
	path := args[0]

	data, err := os.ReadFile(path)
	if err != nil {
		return scribe_err.NewExpectedError(fmt.Errorf("cannot read %s: %w", path, err))
	}

	language := changes.LanguageForPath(path)
	content := string(data)
	otelzap.Ctx(rc.Ctx).Debug("Describing file",
		zap.String("path", path),
		zap.String("language", language),
		zap.Int("bytes", len(data)))

	out := cmd.OutOrStdout()
	summary := pkgdescribe.Scan(content, language)
	if _, err := fmt.Fprintln(out, summary.Describe(path)); err != nil {
		return err
	}

	verbose, _ := cmd.Flags().GetBool("verbose")
	if !verbose {
		return nil
	}

	lang := language
	if lang == "" {
		lang = "(unrecognised)"
	}
	fmt.Fprintf(out, "language:  %s\n", lang)
	fmt.Fprintf(out, "lines:     %d\n", summary.Lines)
	if !summary.Scanned {
		return nil
	}
	fmt.Fprintf(out, "classes:   %s\n", list(summary.Classes))
	fmt.Fprintf(out, "%-10s %s\n", summary.FunctionLabel+":", list(summary.Functions))
	fmt.Fprintf(out, "imports:   %s\n", list(summary.Imports))
	return nil
}

func list(items []string) string {
	if len(items) == 0 {
		return "-"
	}
	return strings.Join(items, ", ")
}
