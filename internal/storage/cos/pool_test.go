package cos

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGroupRunsAllJobs(t *testing.T) {
	p := newPool(4)
	defer p.close()

	var n atomic.Int32
	g := p.newGroup(context.Background())
	for i := 0; i < 50; i++ {
		require.True(t, g.Go(func(context.Context) error {
			n.Add(1)
			return nil
		}))
	}
	require.NoError(t, g.Wait())
	assert.Equal(t, int32(50), n.Load())
}

func TestGroupKeepsFirstErrorAndCancels(t *testing.T) {
	p := newPool(1)
	defer p.close()

	boom := errors.New("boom")
	g := p.newGroup(context.Background())
	g.Go(func(context.Context) error { return boom })

	var sawCancel atomic.Bool
	g.Go(func(ctx context.Context) error {
		sawCancel.Store(true)
		return errors.New("second")
	})
	assert.ErrorIs(t, g.Wait(), boom)
	assert.False(t, sawCancel.Load(), "jobs started after a failure must not run")
}

func TestGroupStopsSchedulingWhenParentCancelled(t *testing.T) {
	p := newPool(1)
	defer p.close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	g := p.newGroup(ctx)
	ran := false
	g.Go(func(context.Context) error {
		ran = true
		return nil
	})
	assert.ErrorIs(t, g.Wait(), context.Canceled)
	assert.False(t, ran)
}

func TestSubmitAfterClose(t *testing.T) {
	p := newPool(2)
	p.close()
	p.close()

	assert.ErrorIs(t, p.submit(context.Background(), func() {}), errPoolClosed)

	g := p.newGroup(context.Background())
	assert.False(t, g.Go(func(context.Context) error { return nil }))
	assert.ErrorIs(t, g.Wait(), errPoolClosed)
}

func TestSubmitHonoursContext(t *testing.T) {
	p := newPool(1)
	defer p.close()

	release := make(chan struct{})
	require.NoError(t, p.submit(context.Background(), func() { <-release }))
	defer close(release)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, p.submit(ctx, func() {}), context.DeadlineExceeded)
}
