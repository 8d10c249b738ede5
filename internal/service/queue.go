package service

import (
	"context"
	"errors"
	"time"

	"poli-assistant/internal/model"

	"go.uber.org/zap"
	"golang.org/x/sync/semaphore"
)

// Degraded replies used when generation cannot produce text
const (
	UnavailableMessage = "System temporarily unavailable"
	GenerationFailed   = "Sorry, I encountered an error. Please try again."
	GenerationTimedOut = "Sorry, I'm taking too long to answer right now. Please try again."
)

// GenerationQueue serialises access to a Generator and bounds every call with a timeout.
// A single local model cannot serve overlapping requests, so the default width is 1.
type GenerationQueue struct {
	gen     Generator
	sem     *semaphore.Weighted
	timeout time.Duration
	logger  *zap.Logger
}

type generation struct {
	text string
	err  error
}

// NewGenerationQueue wraps gen. A nil gen makes every call report unavailable.
func NewGenerationQueue(gen Generator, width int, timeout time.Duration, logger *zap.Logger) *GenerationQueue {
	if width <= 0 {
		width = 1
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &GenerationQueue{
		gen:     gen,
		sem:     semaphore.NewWeighted(int64(width)),
		timeout: timeout,
		logger:  logger,
	}
}

// IsEnabled reports whether a usable generator is behind the queue
func (q *GenerationQueue) IsEnabled() bool {
	return q.gen != nil && q.gen.IsEnabled()
}

// Generate runs one generation call. It never returns empty text: on failure the
// returned string is a degraded reply and err describes what happened. purpose labels
// the call in metrics and logs.
func (q *GenerationQueue) Generate(ctx context.Context, purpose string, prompt model.Prompt, params model.GenerationParams) (string, error) {
	if !q.IsEnabled() {
		generationCalls.WithLabelValues(purpose, "unavailable").Inc()
		return UnavailableMessage, ErrGeneratorUnavailable
	}

	start := time.Now()
	defer func() {
		generationDuration.WithLabelValues(purpose).Observe(time.Since(start).Seconds())
	}()

	callCtx := ctx
	cancel := context.CancelFunc(func() {})
	if q.timeout > 0 {
		callCtx, cancel = context.WithTimeout(ctx, q.timeout)
	}
	defer cancel()

	if err := q.sem.Acquire(callCtx, 1); err != nil {
		return q.fail(purpose, err)
	}

	// The slot is held until the backend returns, even if the caller gives up first,
	// so a hung backend never sees a second concurrent request.
	done := make(chan generation, 1)
	go func() {
		defer q.sem.Release(1)
		text, err := q.gen.Generate(callCtx, prompt, params)
		done <- generation{text: text, err: err}
	}()

	select {
	case res := <-done:
		if res.err != nil {
			return q.fail(purpose, res.err)
		}
		generationCalls.WithLabelValues(purpose, "success").Inc()
		return res.text, nil
	case <-callCtx.Done():
		return q.fail(purpose, callCtx.Err())
	}
}

func (q *GenerationQueue) fail(purpose string, err error) (string, error) {
	switch {
	case errors.Is(err, ErrGeneratorUnavailable):
		generationCalls.WithLabelValues(purpose, "unavailable").Inc()
		return UnavailableMessage, err
	case errors.Is(err, context.DeadlineExceeded):
		generationCalls.WithLabelValues(purpose, "timeout").Inc()
		q.logger.Warn("Generation timed out", zap.String("purpose", purpose), zap.Duration("timeout", q.timeout))
		return GenerationTimedOut, err
	default:
		generationCalls.WithLabelValues(purpose, "error").Inc()
		q.logger.Warn("Generation failed", zap.String("purpose", purpose), zap.Error(err))
		return GenerationFailed, err
	}
}
