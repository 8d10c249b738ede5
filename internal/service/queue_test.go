package service

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"poli-assistant/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerationQueueSuccess(t *testing.T) {
	gen := newStubGenerator(func(p model.Prompt) (string, error) { return "echo: " + p.User, nil })
	queue := NewGenerationQueue(gen, 1, time.Second, nil)

	text, err := queue.Generate(context.Background(), "persona", model.Prompt{User: "hi"}, personaParams)
	require.NoError(t, err)
	assert.Equal(t, "echo: hi", text)
	assert.True(t, queue.IsEnabled())
}

func TestGenerationQueueUnavailable(t *testing.T) {
	disabled := newStubGenerator(func(model.Prompt) (string, error) { return "never", nil })
	disabled.enabled = false

	for _, queue := range []*GenerationQueue{
		NewGenerationQueue(nil, 1, time.Second, nil),
		NewGenerationQueue(disabled, 1, time.Second, nil),
	} {
		text, err := queue.Generate(context.Background(), "persona", model.Prompt{}, personaParams)
		assert.ErrorIs(t, err, ErrGeneratorUnavailable)
		assert.Equal(t, UnavailableMessage, text)
		assert.False(t, queue.IsEnabled())
	}
	assert.Equal(t, 0, disabled.calls())
}

func TestGenerationQueueError(t *testing.T) {
	gen := newStubGenerator(func(model.Prompt) (string, error) { return "", errors.New("connection refused") })
	queue := NewGenerationQueue(gen, 1, time.Second, nil)

	text, err := queue.Generate(context.Background(), "persona", model.Prompt{}, personaParams)
	assert.Error(t, err)
	assert.Equal(t, GenerationFailed, text)
}

func TestGenerationQueueBackendUnavailable(t *testing.T) {
	gen := newStubGenerator(func(model.Prompt) (string, error) { return "", ErrGeneratorUnavailable })
	queue := NewGenerationQueue(gen, 1, time.Second, nil)

	text, err := queue.Generate(context.Background(), "extract", model.Prompt{}, extractionParams)
	assert.ErrorIs(t, err, ErrGeneratorUnavailable)
	assert.Equal(t, UnavailableMessage, text)
}

func TestGenerationQueueTimeout(t *testing.T) {
	unblock := make(chan struct{})
	defer close(unblock)

	gen := newStubGenerator(func(model.Prompt) (string, error) {
		<-unblock
		return "late", nil
	})
	queue := NewGenerationQueue(gen, 1, 20*time.Millisecond, nil)

	start := time.Now()
	text, err := queue.Generate(context.Background(), "persona", model.Prompt{}, personaParams)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, GenerationTimedOut, text)
	assert.Less(t, time.Since(start), time.Second)
}

func TestGenerationQueueSerialisesCalls(t *testing.T) {
	var inFlight, maxInFlight int32
	gen := newStubGenerator(func(model.Prompt) (string, error) {
		n := atomic.AddInt32(&inFlight, 1)
		for {
			old := atomic.LoadInt32(&maxInFlight)
			if n <= old || atomic.CompareAndSwapInt32(&maxInFlight, old, n) {
				break
			}
		}
		time.Sleep(2 * time.Millisecond)
		atomic.AddInt32(&inFlight, -1)
		return "ok", nil
	})
	queue := NewGenerationQueue(gen, 1, 5*time.Second, nil)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := queue.Generate(context.Background(), "extract", model.Prompt{}, extractionParams)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), atomic.LoadInt32(&maxInFlight))
	assert.Equal(t, 10, gen.calls())
}
