package worker

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/coooow/VibeMatcher/internal/core/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeMatcher struct {
	calls atomic.Int32
	delay func(title string) time.Duration
}

func (f *fakeMatcher) Match(ctx context.Context, title, artist string, k int) ([]domain.MatchResult, error) {
	f.calls.Add(1)
	if f.delay != nil {
		time.Sleep(f.delay(title))
	}
	if title == "missing" {
		return nil, fmt.Errorf("service: %w", domain.ErrNotFound)
	}
	return []domain.MatchResult{{Title: title + " match", Artist: artist, Genre: domain.DefaultGenre, Percent: k}}, nil
}

func TestBatch_PreservesInputOrder(t *testing.T) {
	// Later jobs finish first so completion order differs from input order.
	m := &fakeMatcher{delay: func(title string) time.Duration {
		var n int
		fmt.Sscanf(title, "song-%d", &n)
		return time.Duration(10-n) * time.Millisecond
	}}
	p := NewPool(m, 4)
	p.Start(4)
	defer p.Stop()

	jobs := make([]Job, 10)
	for i := range jobs {
		jobs[i] = Job{Title: fmt.Sprintf("song-%d", i), Artist: "a", K: i + 1}
	}

	outcomes, err := p.Batch(context.Background(), jobs)
	require.NoError(t, err)
	require.Len(t, outcomes, len(jobs))

	for i, o := range outcomes {
		require.NoError(t, o.Err)
		assert.Equal(t, jobs[i], o.Job)
		require.Len(t, o.Results, 1)
		assert.Equal(t, jobs[i].Title+" match", o.Results[0].Title)
		assert.Equal(t, jobs[i].K, o.Results[0].Percent)
	}
	assert.Equal(t, int32(10), m.calls.Load())
}

func TestBatch_PerJobErrors(t *testing.T) {
	m := &fakeMatcher{}
	p := NewPool(m, 1)
	p.Start(2)
	defer p.Stop()

	outcomes, err := p.Batch(context.Background(), []Job{
		{Title: "one", Artist: "a"},
		{Title: "missing", Artist: "b"},
		{Title: "three", Artist: "c"},
	})
	require.NoError(t, err)

	assert.NoError(t, outcomes[0].Err)
	assert.True(t, errors.Is(outcomes[1].Err, domain.ErrNotFound))
	assert.Nil(t, outcomes[1].Results)
	assert.NoError(t, outcomes[2].Err)
}

func TestBatch_Empty(t *testing.T) {
	p := NewPool(&fakeMatcher{}, 1)
	p.Start(1)
	defer p.Stop()

	outcomes, err := p.Batch(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, outcomes)
}

func TestBatch_CanceledContext(t *testing.T) {
	m := &fakeMatcher{}
	p := NewPool(m, 1)
	p.Start(1)
	defer p.Stop()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	outcomes, err := p.Batch(ctx, []Job{{Title: "one"}, {Title: "two"}})
	require.Len(t, outcomes, 2)
	if err != nil {
		assert.ErrorIs(t, err, context.Canceled)
	}
	for _, o := range outcomes {
		assert.ErrorIs(t, o.Err, context.Canceled)
	}
	assert.Zero(t, m.calls.Load())
}

func TestSubmit_AfterStop(t *testing.T) {
	p := NewPool(&fakeMatcher{}, 1)
	p.Start(1)
	p.Stop()
	p.Stop()

	err := p.Submit(context.Background(), Job{Title: "late"}, func(Outcome) {})
	assert.ErrorIs(t, err, ErrPoolStopped)

	outcomes, err := p.Batch(context.Background(), []Job{{Title: "late"}})
	assert.ErrorIs(t, err, ErrPoolStopped)
	assert.ErrorIs(t, outcomes[0].Err, ErrPoolStopped)
}

func TestStop_DrainsQueue(t *testing.T) {
	m := &fakeMatcher{delay: func(string) time.Duration { return time.Millisecond }}
	p := NewPool(m, 8)
	p.Start(1)

	var done atomic.Int32
	for i := 0; i < 5; i++ {
		require.NoError(t, p.Submit(context.Background(), Job{Title: "x"}, func(Outcome) { done.Add(1) }))
	}
	p.Stop()

	assert.Equal(t, int32(5), done.Load())
}
