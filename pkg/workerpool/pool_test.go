package workerpool

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubmitRunsTask(t *testing.T) {
	p := New(nil, nil)
	defer p.Shutdown(context.Background())

	var ran atomic.Bool
	err := p.Submit(context.Background(), func(ctx context.Context) error {
		ran.Store(true)
		return nil
	})
	require.NoError(t, err)
	assert.True(t, ran.Load())
}

func TestSubmitAsyncRunsTask(t *testing.T) {
	p := New(nil, nil)
	defer p.Shutdown(context.Background())

	var wg sync.WaitGroup
	wg.Add(1)
	err := p.SubmitAsync(context.Background(), func(ctx context.Context) error {
		wg.Done()
		return nil
	})
	require.NoError(t, err)
	wg.Wait()
}

func TestMaxWorkersBoundsConcurrency(t *testing.T) {
	p := New(&Config{MaxWorkers: 2, QueueSize: 16}, nil)
	defer p.Shutdown(context.Background())

	var active, peak atomic.Int64
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		err := p.SubmitAsync(context.Background(), func(ctx context.Context) error {
			defer wg.Done()
			cur := active.Add(1)
			for {
				old := peak.Load()
				if cur <= old || peak.CompareAndSwap(old, cur) {
					break
				}
			}
			time.Sleep(20 * time.Millisecond)
			active.Add(-1)
			return nil
		})
		require.NoError(t, err)
	}
	wg.Wait()

	assert.LessOrEqual(t, peak.Load(), int64(2))
}

func TestSubmitAsyncFullQueue(t *testing.T) {
	p := New(&Config{MaxWorkers: 1, QueueSize: 1}, nil)
	defer p.Shutdown(context.Background())

	release := make(chan struct{})
	blocked := func(ctx context.Context) error {
		<-release
		return nil
	}

	// saturate the worker and the queue, then expect ErrPoolFull
	deadline := time.After(time.Second)
	sawFull := false
	for !sawFull {
		select {
		case <-deadline:
			t.Fatal("queue never reported full")
		default:
		}
		if err := p.SubmitAsync(context.Background(), blocked); err != nil {
			assert.ErrorIs(t, err, ErrPoolFull)
			sawFull = true
		}
	}

	close(release)
}

func TestSubmitAfterShutdown(t *testing.T) {
	p := New(nil, nil)
	require.NoError(t, p.Shutdown(context.Background()))

	err := p.Submit(context.Background(), func(ctx context.Context) error { return nil })
	assert.ErrorIs(t, err, ErrPoolClosed)

	err = p.SubmitAsync(context.Background(), func(ctx context.Context) error { return nil })
	assert.ErrorIs(t, err, ErrPoolClosed)
}

func TestShutdownWaitsForInflight(t *testing.T) {
	p := New(&Config{MaxWorkers: 1, QueueSize: 1}, nil)

	var finished atomic.Bool
	started := make(chan struct{})
	require.NoError(t, p.SubmitAsync(context.Background(), func(ctx context.Context) error {
		close(started)
		time.Sleep(50 * time.Millisecond)
		finished.Store(true)
		return nil
	}))

	<-started
	require.NoError(t, p.Shutdown(context.Background()))
	assert.True(t, finished.Load())
}
