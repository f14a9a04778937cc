// pkg/scribe_io/context.go

package scribe_io

import (
	"context"
	"os"
	"runtime"
	"strings"
	"time"

	cerr "github.com/cockroachdb/errors"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/CodeMonkeyCybersecurity/scribe/pkg/logger"
	"github.com/CodeMonkeyCybersecurity/scribe/pkg/scribe_err"
	"github.com/CodeMonkeyCybersecurity/scribe/pkg/telemetry"
)

// RuntimeContext carries the per-command context, logger and span.
type RuntimeContext struct {
	Ctx        context.Context
	Log        *zap.Logger
	Timestamp  time.Time
	Span       trace.Span
	Command    string
	Component  string
	Attributes map[string]string
}

// NewContext starts a span named cmdName under parent and a logger scoped to
// the calling package.
func NewContext(parent context.Context, cmdName string) *RuntimeContext {
	if parent == nil {
		parent = context.Background()
	}
	ctx, span := telemetry.Start(parent, cmdName)

	comp, _ := callerComponent(2)
	log := logger.GetLogger().With(
		zap.String("component", comp),
		zap.String("command", cmdName),
		zap.String("trace_id", logger.GenerateTraceID()),
	).Named(comp)

	return &RuntimeContext{
		Ctx:        ctx,
		Log:        log,
		Timestamp:  time.Now(),
		Span:       span,
		Command:    cmdName,
		Component:  comp,
		Attributes: make(map[string]string),
	}
}

// HandlePanic recovers panics, logs them, and converts to an error.
func (rc *RuntimeContext) HandlePanic(errPtr *error) {
	if r := recover(); r != nil {
		*errPtr = cerr.AssertionFailedf("panic: %v", r)
		rc.Log.Error("Panic recovered", zap.Any("panic", r))
	}
}

// End logs the outcome, records span attributes and ends the span.
func (rc *RuntimeContext) End(errPtr *error) {
	defer rc.Span.End()

	var err error
	if errPtr != nil {
		err = *errPtr
	}
	duration := time.Since(rc.Timestamp)

	if err == nil {
		rc.Log.Debug("Command completed", zap.Duration("duration", duration))
	} else if scribe_err.IsExpectedUserError(err) {
		rc.Log.Info("Command finished with notice", zap.Duration("duration", duration), zap.Error(err))
	} else {
		rc.Log.Debug("Command failed", zap.Duration("duration", duration), zap.Error(err))
		rc.Span.RecordError(err)
		rc.Span.SetStatus(codes.Error, err.Error())
	}

	attrs := []attribute.KeyValue{
		attribute.Bool("success", err == nil),
		attribute.Int64("duration_ms", duration.Milliseconds()),
		attribute.String("os", runtime.GOOS),
		attribute.String("error_type", classifyError(err)),
	}
	if len(os.Args) > 1 {
		attrs = append(attrs, attribute.Int("arg_count", len(os.Args)-1))
	}
	for k, v := range rc.Attributes {
		attrs = append(attrs, attribute.String(k, v))
	}
	rc.Span.SetAttributes(attrs...)
}

func classifyError(err error) string {
	if err == nil {
		return ""
	}
	if scribe_err.IsExpectedUserError(err) {
		return "user"
	}
	return scribe_err.GetCategory(err).String()
}

// callerComponent returns the directory and function name of the caller
// skip frames above it.
func callerComponent(skip int) (component, action string) {
	pc, file, _, ok := runtime.Caller(skip)
	if !ok {
		return "unknown", "unknown"
	}
	parts := strings.Split(file, "/")
	component = "unknown"
	if len(parts) >= 2 {
		component = parts[len(parts)-2]
	}
	action = "unknown"
	if fn := runtime.FuncForPC(pc); fn != nil {
		fields := strings.Split(fn.Name(), ".")
		action = fields[len(fields)-1]
	}
	return component, action
}
