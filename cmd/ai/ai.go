// cmd/ai/ai.go

package ai

import (
	"github.com/spf13/cobra"

	"github.com/CodeMonkeyCybersecurity/scribe/pkg/scribe_cli"
	"github.com/CodeMonkeyCybersecurity/scribe/pkg/scribe_io"
)

// NewAICmd returns the `scribe ai` command group.
func NewAICmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ai",
		Short: "Manage the AI provider used to write commit messages",
		Long: `Configure which AI provider scribe asks for commit messages.

Supported providers are openai, azure-openai, anthropic and gemini. API keys
are read from the provider's environment variable first (for example
OPENAI_API_KEY), then SCRIBE_API_KEY, then the config file.

Examples:
  scribe ai configure --provider anthropic --api-key "sk-ant-..."
  scribe ai configure --provider azure-openai --azure-endpoint https://res.openai.azure.com --azure-deployment gpt4
  scribe ai show`,
		RunE: scribe_cli.Wrap(func(rc *scribe_io.RuntimeContext, cmd *cobra.Command, args []string) error {
			return cmd.Help()
		}),
	}
	cmd.AddCommand(NewConfigureCmd(), NewShowCmd())
	return cmd
}
