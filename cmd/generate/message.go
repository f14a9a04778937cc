// cmd/generate/message.go

package generate

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/CodeMonkeyCybersecurity/scribe/pkg/changes"
	"github.com/CodeMonkeyCybersecurity/scribe/pkg/scribe_cli"
	"github.com/CodeMonkeyCybersecurity/scribe/pkg/scribe_err"
	"github.com/CodeMonkeyCybersecurity/scribe/pkg/scribe_io"
)

// ManualInputPath is the file path given to a hand-written description.
const ManualInputPath = "manual-input"

// NewMessageCmd returns the `scribe message` command.
func NewMessageCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "message <description>",
		Short: "Turn a free-text description of a change into a commit message",
		Long: `Treat the description as a single modified change and synthesize a
commit message from it, without looking at the repository.

Examples:
  scribe message "handle empty config files when loading"
  scribe message --no-ai fixed typo in readme`,
		Args: cobra.MinimumNArgs(1),
		RunE: scribe_cli.Wrap(runMessage),
	}
	addSynthesisFlags(cmd)
	return cmd
}

// ManualRecord wraps a free-text description as a modified change record.
func ManualRecord(description string) changes.Record {
	return changes.Record{
		FilePath:    ManualInputPath,
		Description: description,
		Kind:        changes.KindModified,
	}
}

func runMessage(rc *scribe_io.RuntimeContext, cmd *cobra.Command, args []string) error {
	input := strings.TrimSpace(strings.Join(args, " "))
	if input == "" {
		return scribe_err.NewValidationError("description must not be empty",
			`Pass a description, for example: scribe message "fix login redirect"`)
	}

	v, err := scribe_cli.NewViper(cmd)
	if err != nil {
		return err
	}
	s := newSynthesis(rc, v)

	msg, source := s.generate(rc.Ctx, []changes.Record{ManualRecord(input)})
	rc.Attributes["message_source"] = string(source)

	_, err = fmt.Fprintln(cmd.OutOrStdout(), msg)
	return err
}
