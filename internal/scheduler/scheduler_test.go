package scheduler

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingProcessor struct {
	calls atomic.Int32
}

func (p *countingProcessor) ProcessQueue(ctx context.Context) int {
	p.calls.Add(1)
	return 0
}

func TestRun_PassesUntilCancelled(t *testing.T) {
	proc := &countingProcessor{}
	s := New(proc, 5*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		s.Run(ctx)
		close(done)
	}()

	require.Eventually(t, func() bool { return proc.calls.Load() >= 3 }, time.Second, time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("scheduler did not stop")
	}

	stopped := proc.calls.Load()
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, stopped, proc.calls.Load())
}

func TestRun_ImmediateFirstPass(t *testing.T) {
	proc := &countingProcessor{}
	s := New(proc, time.Hour)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go s.Run(ctx)

	require.Eventually(t, func() bool { return proc.calls.Load() == 1 }, time.Second, time.Millisecond)
}
