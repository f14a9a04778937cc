// cmd/generate/synth.go

package generate

import (
	"context"
	"time"

	cerr "github.com/cockroachdb/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.uber.org/zap"

	"github.com/CodeMonkeyCybersecurity/scribe/pkg/ai"
	"github.com/CodeMonkeyCybersecurity/scribe/pkg/changes"
	"github.com/CodeMonkeyCybersecurity/scribe/pkg/git/commit"
	"github.com/CodeMonkeyCybersecurity/scribe/pkg/scribe_cli"
	"github.com/CodeMonkeyCybersecurity/scribe/pkg/scribe_io"
	"github.com/CodeMonkeyCybersecurity/scribe/pkg/telemetry"
)

// addSynthesisFlags registers the flags shared by commands that synthesize
// a message.
func addSynthesisFlags(cmd *cobra.Command) {
	scribe_cli.AddBoolFlag(cmd, "no-ai", "", false, "Use heuristic rules only, never call an AI provider")
	scribe_cli.AddStringFlag(cmd, "provider", "p", "", "AI provider: openai, azure-openai, anthropic or gemini", false)
	scribe_cli.AddStringFlag(cmd, "model", "m", "", "Model name, overriding the configured one", false)
	scribe_cli.AddIntFlag(cmd, "timeout", "", 0, "AI request timeout in seconds (0 uses the configured value)")
}

// synthesis bundles a synthesizer with the timeout for its external call.
type synthesis struct {
	synth    *commit.Synthesizer
	timeout  time.Duration
	provider string
	metrics  *telemetry.Metrics
}

// newSynthesis builds the synthesizer from flags, SCRIBE_* variables and
// the AI config file. Any configuration problem, including a missing API
// key, selects heuristics; it never fails message generation.
func newSynthesis(rc *scribe_io.RuntimeContext, v *viper.Viper) *synthesis {
	logger := otelzap.Ctx(rc.Ctx)

	metrics, err := telemetry.NewMetrics()
	if err != nil {
		logger.Debug("Metrics unavailable", zap.Error(err))
	}
	heuristic := &synthesis{synth: commit.NewSynthesizer(nil), provider: "none", metrics: metrics}

	if v.GetBool("no-ai") {
		logger.Debug("AI disabled, using heuristic messages")
		return heuristic
	}

	cm := ai.NewConfigManager(v.GetString("config"))
	if err := cm.LoadConfig(rc.Ctx); err != nil {
		logger.Warn("AI configuration unusable, using heuristic messages",
			zap.String("path", cm.GetConfigPath()),
			zap.Error(err))
		return heuristic
	}

	cfg := cm.GetConfig().Apply(ai.Overrides{
		Provider: v.GetString("provider"),
		Model:    v.GetString("model"),
		Timeout:  v.GetInt("timeout"),
	}).WithDefaults()
	cm.SetConfig(&cfg)

	gen, err := ai.FromConfigManager(rc.Ctx, cm)
	switch {
	case cerr.Is(err, ai.ErrNoAPIKey):
		logger.Info("No AI API key configured, using heuristic messages",
			zap.String("provider", cfg.Provider))
		return heuristic
	case err != nil:
		logger.Warn("AI provider unavailable, using heuristic messages",
			zap.String("provider", cfg.Provider),
			zap.Error(err))
		return heuristic
	}

	var opts []commit.Option
	if cfg.MaxTokens > 0 {
		opts = append(opts, commit.WithMaxTokens(cfg.MaxTokens))
	}
	if cfg.Temperature != nil {
		opts = append(opts, commit.WithTemperature(*cfg.Temperature))
	}

	return &synthesis{
		synth:    commit.NewSynthesizer(gen, opts...),
		timeout:  time.Duration(cfg.Timeout) * time.Second,
		provider: cfg.Provider,
		metrics:  metrics,
	}
}

// generate runs the synthesizer under the configured timeout.
func (s *synthesis) generate(ctx context.Context, records []changes.Record) (string, commit.Source) {
	start := time.Now()
	synthCtx := ctx
	if s.timeout > 0 {
		var cancel context.CancelFunc
		synthCtx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}
	msg, source := s.synth.GenerateWithSource(synthCtx, records)
	s.metrics.RecordMessage(ctx, string(source), s.provider, time.Since(start))
	return msg, source
}
