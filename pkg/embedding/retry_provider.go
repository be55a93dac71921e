package embedding

import (
	"context"
	"time"
)

// RetryingProvider retries transient embedding failures a bounded number of
// times with linear backoff. Context cancellation stops the loop immediately;
// the retry budget stays small so callers see upstream outages quickly rather
// than hanging behind silent retries.
type RetryingProvider struct {
	inner    EmbeddingProvider
	attempts int
	backoff  time.Duration
}

func NewRetryingProvider(inner EmbeddingProvider) EmbeddingProvider {
	return &RetryingProvider{
		inner:    inner,
		attempts: 3,
		backoff:  500 * time.Millisecond,
	}
}

func (p *RetryingProvider) Generate(ctx context.Context, text string, taskType string) (*EmbeddingResponse, error) {
	var lastErr error
	for attempt := 0; attempt < p.attempts; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(time.Duration(attempt) * p.backoff):
			}
		}

		res, err := p.inner.Generate(ctx, text, taskType)
		if err == nil {
			return res, nil
		}
		lastErr = err

		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
	}
	return nil, lastErr
}
