package ai

import (
	"context"
	"time"

	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.uber.org/zap"

	"github.com/CodeMonkeyCybersecurity/scribe/pkg/git/commit"
)

// Retry retries Complete up to maxAttempts with exponential backoff
// starting at baseDelay. Permanent errors and a done context stop it
// immediately.
func Retry(next commit.Generator, maxAttempts int, baseDelay time.Duration) commit.Generator {
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	if baseDelay <= 0 {
		baseDelay = 300 * time.Millisecond
	}
	return &retrying{next: next, max: maxAttempts, base: baseDelay}
}

type retrying struct {
	next commit.Generator
	max  int
	base time.Duration
}

func (r *retrying) Complete(ctx context.Context, req commit.CompletionRequest) (string, error) {
	var last error
	for i := 0; i < r.max; i++ {
		out, err := r.next.Complete(ctx, req)
		if err == nil {
			return out, nil
		}
		if IsPermanent(err) {
			return "", err
		}
		last = err
		if i == r.max-1 {
			break
		}

		delay := r.base * time.Duration(1<<i)
		otelzap.Ctx(ctx).Debug("Retrying completion",
			zap.Int("attempt", i+1),
			zap.Duration("delay", delay),
			zap.Error(err))

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return "", ctx.Err()
		case <-timer.C:
		}
	}
	return "", last
}
