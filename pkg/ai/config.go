// pkg/ai/config.go

package ai

import (
	"context"
	"os"
	"strings"

	cerr "github.com/cockroachdb/errors"
	"github.com/go-playground/validator/v10"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.uber.org/zap"

	"github.com/CodeMonkeyCybersecurity/scribe/pkg/scribe_err"
	"github.com/CodeMonkeyCybersecurity/scribe/pkg/scribe_io"
	"github.com/CodeMonkeyCybersecurity/scribe/pkg/xdg"
)

const (
	ProviderOpenAI      = "openai"
	ProviderAzureOpenAI = "azure-openai"
	ProviderAnthropic   = "anthropic"
	ProviderGemini      = "gemini"

	// DefaultProvider is used when no configuration file exists.
	DefaultProvider = ProviderOpenAI
	// DefaultTimeout is the request timeout in seconds.
	DefaultTimeout = 30
)

// Providers lists the supported provider names.
var Providers = []string{ProviderOpenAI, ProviderAzureOpenAI, ProviderAnthropic, ProviderGemini}

// ErrNoAPIKey means no credential was found for the configured provider.
// Callers fall back to heuristic messages.
var ErrNoAPIKey = cerr.New("AI API key not configured")

// Config is the persisted AI provider configuration.
type Config struct {
	Provider    string   `yaml:"provider,omitempty" validate:"required,oneof=openai azure-openai anthropic gemini"`
	APIKey      string   `yaml:"api_key,omitempty"`
	BaseURL     string   `yaml:"base_url,omitempty" validate:"omitempty,url"`
	Model       string   `yaml:"model,omitempty"`
	MaxTokens   int      `yaml:"max_tokens,omitempty" validate:"omitempty,gt=0,lte=4096"`
	Temperature *float32 `yaml:"temperature,omitempty" validate:"omitempty,gte=0,lte=2"`
	Timeout     int      `yaml:"timeout,omitempty" validate:"omitempty,gte=1,lte=600"`

	// Azure OpenAI specific configuration
	AzureEndpoint   string `yaml:"azure_endpoint,omitempty" validate:"required_if=Provider azure-openai"`
	AzureAPIVersion string `yaml:"azure_api_version,omitempty"`
	AzureDeployment string `yaml:"azure_deployment,omitempty" validate:"required_if=Provider azure-openai"`
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks field constraints and provider-specific requirements.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if cerr.As(err, &verrs) {
			fields := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				fields = append(fields, fe.Field()+" ("+fe.Tag()+")")
			}
			return scribe_err.NewConfigError(
				"invalid AI configuration: "+strings.Join(fields, ", "), err,
				"Run 'scribe ai configure' to rewrite the configuration",
			)
		}
		return scribe_err.NewConfigError("invalid AI configuration", err)
	}
	if c.AzureEndpoint != "" {
		if err := validate.Var(c.AzureEndpoint, "url"); err != nil {
			return scribe_err.NewConfigError("invalid AI configuration: AzureEndpoint (url)", err)
		}
	}
	return nil
}

// Redacted returns a copy safe to print, with the API key masked.
func (c Config) Redacted() Config {
	c.APIKey = RedactKey(c.APIKey)
	return c
}

// RedactKey keeps the last four characters of key.
func RedactKey(key string) string {
	switch {
	case key == "":
		return ""
	case len(key) <= 8:
		return "****"
	default:
		return "****" + key[len(key)-4:]
	}
}

// ProviderDefaults returns default configuration for a provider.
func ProviderDefaults(provider string) *Config {
	switch provider {
	case ProviderAzureOpenAI:
		return &Config{
			Provider:        ProviderAzureOpenAI,
			AzureAPIVersion: "2024-02-15-preview",
			Model:           "gpt-4",
			Timeout:         DefaultTimeout,
		}
	case ProviderAnthropic:
		return &Config{
			Provider: ProviderAnthropic,
			BaseURL:  "https://api.anthropic.com/v1",
			Model:    "claude-3-sonnet-20240229",
			Timeout:  DefaultTimeout,
		}
	case ProviderGemini:
		return &Config{
			Provider: ProviderGemini,
			Model:    "gemini-2.5-flash",
			Timeout:  DefaultTimeout,
		}
	default:
		return &Config{
			Provider: ProviderOpenAI,
			BaseURL:  "https://api.openai.com/v1",
			Model:    "gpt-3.5-turbo",
			Timeout:  DefaultTimeout,
		}
	}
}

// WithDefaults fills unset fields from the provider defaults.
func (c Config) WithDefaults() Config {
	if c.Provider == "" {
		c.Provider = DefaultProvider
	}
	d := ProviderDefaults(c.Provider)
	if c.BaseURL == "" {
		c.BaseURL = d.BaseURL
	}
	if c.Model == "" {
		c.Model = d.Model
	}
	if c.Timeout == 0 {
		c.Timeout = d.Timeout
	}
	if c.AzureAPIVersion == "" {
		c.AzureAPIVersion = d.AzureAPIVersion
	}
	return c
}

// apiKeyEnv lists provider-specific key variables in priority order.
var apiKeyEnv = map[string][]string{
	ProviderOpenAI:      {"OPENAI_API_KEY"},
	ProviderAzureOpenAI: {"AZURE_OPENAI_API_KEY", "OPENAI_API_KEY"},
	ProviderAnthropic:   {"ANTHROPIC_API_KEY", "CLAUDE_API_KEY"},
	ProviderGemini:      {"GEMINI_API_KEY", "GOOGLE_API_KEY"},
}

// GenericAPIKeyEnv is consulted after the provider-specific variables.
const GenericAPIKeyEnv = "SCRIBE_API_KEY"

// ConfigManager manages AI configuration
type ConfigManager struct {
	configPath string
	config     *Config
}

// DefaultConfigPath is $XDG_CONFIG_HOME/scribe/ai-config.yaml.
func DefaultConfigPath() string {
	return xdg.XDGConfigPath("scribe", "ai-config.yaml")
}

// NewConfigManager creates a manager for path, or DefaultConfigPath when
// path is empty.
func NewConfigManager(path string) *ConfigManager {
	if path == "" {
		path = DefaultConfigPath()
	}
	return &ConfigManager{
		configPath: path,
		config:     ProviderDefaults(DefaultProvider),
	}
}

// LoadConfig loads the AI configuration from file. A missing file leaves
// the default provider configuration in place.
func (cm *ConfigManager) LoadConfig(ctx context.Context) error {
	logger := otelzap.Ctx(ctx)

	if _, err := os.Stat(cm.configPath); os.IsNotExist(err) {
		logger.Debug("No AI config file, using defaults", zap.String("path", cm.configPath))
		cm.config = ProviderDefaults(DefaultProvider)
		return nil
	}

	cfg := &Config{}
	if err := scribe_io.ReadYAML(ctx, cm.configPath, cfg); err != nil {
		return scribe_err.NewConfigError("failed to load AI configuration", err,
			"Check "+cm.configPath+" or remove it to use defaults")
	}
	if cfg.Provider == "" {
		cfg.Provider = DefaultProvider
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	cm.config = cfg
	return nil
}

// SaveConfig validates and saves the AI configuration with owner-only
// permissions.
func (cm *ConfigManager) SaveConfig(ctx context.Context) error {
	if err := cm.config.Validate(); err != nil {
		return err
	}
	if err := scribe_io.WriteYAML(ctx, cm.configPath, cm.config); err != nil {
		return scribe_err.NewFilesystemError("failed to save AI configuration", err)
	}
	otelzap.Ctx(ctx).Info("AI configuration saved",
		zap.String("path", cm.configPath),
		zap.String("provider", cm.config.Provider))
	return nil
}

// GetAPIKey resolves the API key: provider environment variables first,
// then SCRIBE_API_KEY, then the config file.
func (cm *ConfigManager) GetAPIKey(ctx context.Context) (string, error) {
	return ResolveAPIKey(ctx, cm.config)
}

// ResolveAPIKey applies the key precedence to cfg.
func ResolveAPIKey(ctx context.Context, cfg *Config) (string, error) {
	key, source := LookupAPIKey(cfg)
	if key == "" {
		return "", ErrNoAPIKey
	}
	otelzap.Ctx(ctx).Debug("Resolved API key", zap.String("source", source))
	return key, nil
}

// LookupAPIKey returns the key for cfg and where it came from: the name of
// an environment variable, or "config file". Both are empty when no key is
// available.
func LookupAPIKey(cfg *Config) (key, source string) {
	provider := DefaultProvider
	if cfg != nil && cfg.Provider != "" {
		provider = cfg.Provider
	}

	for _, name := range append(apiKeyEnv[provider], GenericAPIKeyEnv) {
		if key := strings.TrimSpace(os.Getenv(name)); key != "" {
			return key, name
		}
	}

	if cfg != nil && strings.TrimSpace(cfg.APIKey) != "" {
		return strings.TrimSpace(cfg.APIKey), "config file"
	}
	return "", ""
}

// GetConfig returns the current configuration
func (cm *ConfigManager) GetConfig() *Config {
	return cm.config
}

// SetConfig replaces the current configuration without saving it.
func (cm *ConfigManager) SetConfig(cfg *Config) {
	cm.config = cfg
}

// GetConfigPath returns the configuration file path
func (cm *ConfigManager) GetConfigPath() string {
	return cm.configPath
}

// Overrides are per-invocation settings from flags or SCRIBE_* variables.
type Overrides struct {
	Provider string
	Model    string
	Timeout  int
}

// Apply returns c with o applied. Switching provider starts from that
// provider's defaults, since the stored key and model belong to another
// service.
func (c Config) Apply(o Overrides) Config {
	if o.Provider != "" && o.Provider != c.Provider {
		c = *ProviderDefaults(o.Provider)
		c.Provider = o.Provider
	}
	if o.Model != "" {
		c.Model = o.Model
	}
	if o.Timeout > 0 {
		c.Timeout = o.Timeout
	}
	return c
}
