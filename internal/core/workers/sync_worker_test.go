package workers

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/comitanigiacomo/kanso-local/internal/core/domain"
)

type fakeSyncer struct {
	mu    sync.Mutex
	calls int
	err   error
}

func (f *fakeSyncer) Sync(ctx context.Context) (domain.SyncResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return domain.SyncResult{Success: false, Error: f.err.Error()}, f.err
	}
	return domain.SyncResult{Success: true}, nil
}

func (f *fakeSyncer) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func TestSyncWorker_RunsQueuedJobs(t *testing.T) {
	for _, syncErr := range []error{nil, domain.ErrOffline, errors.New("boom")} {
		syncer := &fakeSyncer{err: syncErr}
		w := NewSyncWorker(syncer, nil)

		ctx, cancel := context.WithCancel(context.Background())
		w.Start(ctx)

		assert.True(t, w.Enqueue("reconnect"))
		assert.True(t, w.Enqueue("manual"))

		assert.Eventually(t, func() bool { return syncer.count() == 2 }, time.Second, 5*time.Millisecond)

		cancel()
		select {
		case <-w.Done():
		case <-time.After(time.Second):
			t.Fatal("worker did not stop")
		}
	}
}

func TestSyncWorker_DropsWhenFull(t *testing.T) {
	syncer := &fakeSyncer{}
	w := NewSyncWorker(syncer, nil)

	// Not started: nothing drains the queue.
	for i := 0; i < cap(w.jobs); i++ {
		assert.True(t, w.Enqueue("fill"))
	}
	assert.False(t, w.Enqueue("overflow"))
	assert.Equal(t, 0, syncer.count())
}
