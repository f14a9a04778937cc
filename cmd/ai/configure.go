// cmd/ai/configure.go

package ai

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.uber.org/zap"

	"github.com/CodeMonkeyCybersecurity/scribe/pkg/ai"
	"github.com/CodeMonkeyCybersecurity/scribe/pkg/scribe_cli"
	"github.com/CodeMonkeyCybersecurity/scribe/pkg/scribe_err"
	"github.com/CodeMonkeyCybersecurity/scribe/pkg/scribe_io"
)

// NewConfigureCmd returns the `scribe ai configure` command.
func NewConfigureCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "configure",
		Short: "Save AI provider settings",
		Long: `Merge the given settings into the AI config file and save it.

Changing the provider starts from that provider's defaults, so keys and
models belonging to the previous provider are not carried over. Only flags
that are set change the stored values.`,
		Args: cobra.NoArgs,
		RunE: scribe_cli.Wrap(runConfigure),
	}

	f := cmd.Flags()
	f.String("provider", "", "AI provider: openai, azure-openai, anthropic or gemini")
	f.String("api-key", "", "API key stored in the config file")
	f.String("model", "", "Model name")
	f.String("base-url", "", "API base URL")
	f.Int("max-tokens", 0, "Maximum tokens in the completion")
	f.Float32("temperature", 0, "Sampling temperature between 0 and 2")
	f.Int("timeout", 0, "Request timeout in seconds")
	f.String("azure-endpoint", "", "Azure OpenAI resource endpoint")
	f.String("azure-api-version", "", "Azure OpenAI API version")
	f.String("azure-deployment", "", "Azure OpenAI deployment name")
	return cmd
}

func runConfigure(rc *scribe_io.RuntimeContext, cmd *cobra.Command, args []string) error {
	logger := otelzap.Ctx(rc.Ctx)
	f := cmd.Flags()

	if f.NFlag() == countInherited(cmd) {
		return scribe_err.NewValidationError("no settings given",
			"Pass at least one flag, for example: scribe ai configure --provider openai --api-key KEY")
	}

	configPath, _ := f.GetString("config")
	cm := ai.NewConfigManager(configPath)
	if err := cm.LoadConfig(rc.Ctx); err != nil {
		logger.Warn("Existing AI config is invalid, starting from defaults", zap.Error(err))
	}

	cfg := *cm.GetConfig()
	if provider, _ := f.GetString("provider"); provider != "" && provider != cfg.Provider {
		cfg = *ai.ProviderDefaults(provider)
		cfg.Provider = provider
	}

	setString(f, "api-key", &cfg.APIKey)
	setString(f, "model", &cfg.Model)
	setString(f, "base-url", &cfg.BaseURL)
	setString(f, "azure-endpoint", &cfg.AzureEndpoint)
	setString(f, "azure-api-version", &cfg.AzureAPIVersion)
	setString(f, "azure-deployment", &cfg.AzureDeployment)
	if f.Changed("max-tokens") {
		cfg.MaxTokens, _ = f.GetInt("max-tokens")
	}
	if f.Changed("timeout") {
		cfg.Timeout, _ = f.GetInt("timeout")
	}
	if f.Changed("temperature") {
		t, _ := f.GetFloat32("temperature")
		cfg.Temperature = &t
	}

	cm.SetConfig(&cfg)
	if err := cm.SaveConfig(rc.Ctx); err != nil {
		return err
	}

	rc.Attributes["provider"] = cfg.Provider
	_, err := fmt.Fprintf(cmd.OutOrStdout(), "Saved %s configuration to %s\n", cfg.Provider, cm.GetConfigPath())
	return err
}

// setString copies a flag into dst only when the user set it.
func setString(f *pflag.FlagSet, name string, dst *string) {
	if f.Changed(name) {
		*dst, _ = f.GetString(name)
	}
}

// countInherited counts set persistent flags from parent commands.
func countInherited(cmd *cobra.Command) int {
	n := 0
	cmd.InheritedFlags().Visit(func(*pflag.Flag) { n++ })
	return n
}
