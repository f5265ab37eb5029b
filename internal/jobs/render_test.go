package jobs

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openclaw/reward-poller/internal/model"
	"github.com/openclaw/reward-poller/internal/repository"
)

type fakeRenderer struct {
	mu      sync.Mutex
	renders [][]model.AccountState
	err     error
}

func (f *fakeRenderer) Render(states []model.AccountState) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.renders = append(f.renders, states)
	return f.err
}

func (f *fakeRenderer) Count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.renders)
}

type fakePublisher struct {
	published atomic.Int32
	lastType  atomic.Value
}

func (f *fakePublisher) Publish(eventType string, data any) error {
	f.published.Add(1)
	f.lastType.Store(eventType)
	return nil
}

func TestRenderJob(t *testing.T) {
	creds := []model.Credential{{Name: "main", AuthToken: "tok-main"}}

	t.Run("creates job with correct interval", func(t *testing.T) {
		job := NewRenderJob(nil, nil, nil, 5*time.Second)

		assert.NotNil(t, job)
		assert.Equal(t, 5*time.Second, job.interval)
	})

	t.Run("renders on start and publishes snapshot", func(t *testing.T) {
		store := repository.NewAccountStateRepository(creds)
		renderer := &fakeRenderer{}
		publisher := &fakePublisher{}
		job := NewRenderJob(store, renderer, publisher, time.Hour)

		ctx, cancel := context.WithCancel(context.Background())
		done := make(chan struct{})
		go func() {
			job.Run(ctx)
			close(done)
		}()

		require.Eventually(t, func() bool { return renderer.Count() == 1 }, time.Second, 5*time.Millisecond)
		cancel()
		<-done

		assert.Equal(t, int32(1), publisher.published.Load())
		assert.Equal(t, SnapshotEventType, publisher.lastType.Load())
		assert.Len(t, renderer.renders[0], 1)
		assert.Equal(t, "main", renderer.renders[0][0].Name)
	})

	t.Run("renders on every tick", func(t *testing.T) {
		store := repository.NewAccountStateRepository(creds)
		renderer := &fakeRenderer{}
		job := NewRenderJob(store, renderer, nil, 10*time.Millisecond)

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		go job.Run(ctx)

		require.Eventually(t, func() bool { return renderer.Count() >= 3 }, time.Second, 5*time.Millisecond)
	})

	t.Run("render errors do not stop the job", func(t *testing.T) {
		store := repository.NewAccountStateRepository(creds)
		renderer := &fakeRenderer{err: errors.New("broken pipe")}
		job := NewRenderJob(store, renderer, nil, 10*time.Millisecond)

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		go job.Run(ctx)

		require.Eventually(t, func() bool { return renderer.Count() >= 2 }, time.Second, 5*time.Millisecond)
	})
}

func TestRunner(t *testing.T) {
	creds := []model.Credential{
		{Name: "main", AuthToken: "tok-main"},
		{Name: "alt", AuthToken: "tok-alt"},
	}
	store := repository.NewAccountStateRepository(creds)
	client := &fakeRewardClient{check: pastClaimTime}
	shortSleep := func(ctx context.Context, d time.Duration) error {
		return SleepContext(ctx, time.Millisecond)
	}

	var schedulers []*ClaimScheduler
	for _, cred := range creds {
		schedulers = append(schedulers, NewClaimScheduler(cred, client, store, DefaultBackoffPolicy,
			WithClock(fixedClock), WithSleeper(shortSleep)))
	}
	renderer := &fakeRenderer{}
	runner := NewRunner(schedulers, NewRenderJob(store, renderer, nil, 10*time.Millisecond))

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- runner.Run(ctx) }()

	require.Eventually(t, func() bool {
		for _, st := range store.Snapshot() {
			if st.ClaimCount == 0 {
				return false
			}
		}
		return renderer.Count() > 0
	}, 2*time.Second, 5*time.Millisecond)

	cancel()
	select {
	case err := <-errCh:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("runner did not stop after cancellation")
	}
}
