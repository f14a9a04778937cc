// cmd/ai/show.go

package ai

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/CodeMonkeyCybersecurity/scribe/pkg/ai"
	"github.com/CodeMonkeyCybersecurity/scribe/pkg/scribe_cli"
	"github.com/CodeMonkeyCybersecurity/scribe/pkg/scribe_io"
)

// NewShowCmd returns the `scribe ai show` command.
func NewShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the AI configuration with the API key redacted",
		Args:  cobra.NoArgs,
		RunE:  scribe_cli.Wrap(runShow),
	}
}

func runShow(rc *scribe_io.RuntimeContext, cmd *cobra.Command, args []string) error {
	configPath, _ := cmd.Flags().GetString("config")
	cm := ai.NewConfigManager(configPath)
	if err := cm.LoadConfig(rc.Ctx); err != nil {
		return err
	}

	cfg := cm.GetConfig().WithDefaults()
	out, err := yaml.Marshal(cfg.Redacted())
	if err != nil {
		return err
	}

	_, source := ai.LookupAPIKey(&cfg)
	if source == "" {
		source = "not configured, heuristic messages will be used"
	}

	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "# %s\n", cm.GetConfigPath())
	fmt.Fprintf(w, "# api key: %s\n", source)
	_, err = w.Write(out)
	return err
}
