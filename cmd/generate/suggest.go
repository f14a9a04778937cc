// cmd/generate/suggest.go

package generate

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/CodeMonkeyCybersecurity/scribe/pkg/git/commit"
	"github.com/CodeMonkeyCybersecurity/scribe/pkg/scribe_cli"
	"github.com/CodeMonkeyCybersecurity/scribe/pkg/scribe_io"
)

// NewSuggestTypeCmd returns the `scribe suggest-type` command.
func NewSuggestTypeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "suggest-type",
		Short: "Print the conventional commit type suggested by the changed paths",
		Long: `Classify the uncommitted changes by path alone and print one of
test, docs, chore or fix. The heuristic message is not affected.`,
		Args: cobra.NoArgs,
		RunE: scribe_cli.Wrap(runSuggestType),
	}
	scribe_cli.AddStringFlag(cmd, "repo", "r", ".", "Path inside the git working tree", false)
	return cmd
}

func runSuggestType(rc *scribe_io.RuntimeContext, cmd *cobra.Command, args []string) error {
	v, err := scribe_cli.NewViper(cmd)
	if err != nil {
		return err
	}
	records, err := discover(rc, v.GetString("repo"))
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), commit.SuggestType(records))
	return err
}
