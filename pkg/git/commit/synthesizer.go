package commit

import (
	"context"
	"strings"

	"github.com/CodeMonkeyCybersecurity/scribe/pkg/changes"
	"github.com/CodeMonkeyCybersecurity/scribe/pkg/telemetry"
	cerr "github.com/cockroachdb/errors"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

const (
	DefaultMaxTokens   = 100
	DefaultTemperature = float32(0.3)
)

// CompletionRequest is a single-turn request for a short completion.
type CompletionRequest struct {
	System      string
	Prompt      string
	MaxTokens   int
	Temperature float32
}

// Generator produces a completion for a prompt, or fails.
type Generator interface {
	Complete(ctx context.Context, req CompletionRequest) (string, error)
}

// GeneratorFunc adapts a plain function to Generator.
type GeneratorFunc func(ctx context.Context, req CompletionRequest) (string, error)

func (f GeneratorFunc) Complete(ctx context.Context, req CompletionRequest) (string, error) {
	return f(ctx, req)
}

// Source tells where a message came from.
type Source string

const (
	SourceAI        Source = "ai"
	SourceHeuristic Source = "heuristic"
)

// ErrEmptyCompletion is reported (and absorbed) when the generator returns
// only whitespace.
var ErrEmptyCompletion = cerr.New("empty completion")

// Synthesizer turns change records into a commit message, asking the
// generator first when one is configured and falling back to Heuristic.
type Synthesizer struct {
	gen         Generator
	maxTokens   int
	temperature float32
}

type Option func(*Synthesizer)

func WithMaxTokens(n int) Option {
	return func(s *Synthesizer) {
		if n > 0 {
			s.maxTokens = n
		}
	}
}

func WithTemperature(t float32) Option {
	return func(s *Synthesizer) {
		if t >= 0 {
			s.temperature = t
		}
	}
}

// NewSynthesizer returns a synthesizer backed by gen. A nil gen means no
// generation service is configured; every call then uses Heuristic.
func NewSynthesizer(gen Generator, opts ...Option) *Synthesizer {
	s := &Synthesizer{
		gen:         gen,
		maxTokens:   DefaultMaxTokens,
		temperature: DefaultTemperature,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Generate always returns a message; generator failures are logged and
// replaced by the heuristic result.
func (s *Synthesizer) Generate(ctx context.Context, records []changes.Record) string {
	msg, _ := s.GenerateWithSource(ctx, records)
	return msg
}

// GenerateWithSource is Generate that also reports which path produced
// the message.
func (s *Synthesizer) GenerateWithSource(ctx context.Context, records []changes.Record) (string, Source) {
	ctx, span := telemetry.Start(ctx, "commit.Generate", attribute.Int("changes", len(records)))
	defer span.End()
	logger := otelzap.Ctx(ctx)

	if s == nil || s.gen == nil || len(records) == 0 {
		msg := Heuristic(records)
		logger.Debug("Using heuristic commit message",
			zap.Int("changes", len(records)),
			zap.String("message", msg))
		return msg, SourceHeuristic
	}

	req := CompletionRequest{
		System:      SystemInstruction,
		Prompt:      BuildPrompt(records),
		MaxTokens:   s.maxTokens,
		Temperature: s.temperature,
	}

	msg, err := s.complete(ctx, req)
	if err != nil {
		span.RecordError(err)
		fallback := Heuristic(records)
		logger.Warn("Text generation failed, using heuristic commit message",
			zap.Error(err),
			zap.String("message", fallback))
		return fallback, SourceHeuristic
	}

	span.SetAttributes(attribute.String("source", string(SourceAI)))
	logger.Debug("Generated commit message", zap.String("message", msg))
	return msg, SourceAI
}

func (s *Synthesizer) complete(ctx context.Context, req CompletionRequest) (msg string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = cerr.AssertionFailedf("generator panic: %v", r)
		}
	}()

	out, err := s.gen.Complete(ctx, req)
	if err != nil {
		return "", err
	}
	out = strings.TrimSpace(out)
	if out == "" {
		return "", ErrEmptyCompletion
	}
	return out, nil
}
