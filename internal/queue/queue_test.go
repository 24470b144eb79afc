package queue_test

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/unclebandit/bulkmailer-backend/internal/queue"
)

func TestPublishDispatchesToSubscribers(t *testing.T) {
	q := queue.NewInMemoryQueue(nil)

	var mu sync.Mutex
	var got []any
	done := make(chan struct{})

	require.NoError(t, q.Subscribe("batch_sends", func(payload any) error {
		mu.Lock()
		got = append(got, payload)
		mu.Unlock()
		close(done)
		return nil
	}))

	require.NoError(t, q.Publish("batch_sends", "batch-1"))

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("handler was not invoked")
	}

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []any{"batch-1"}, got)
}

func TestPublishWithoutSubscribersFails(t *testing.T) {
	q := queue.NewInMemoryQueue(nil)
	err := q.Publish("nowhere", "payload")
	assert.Error(t, err)
}

func TestPublishReachesEverySubscriber(t *testing.T) {
	q := queue.NewInMemoryQueue(nil)

	var wg sync.WaitGroup
	wg.Add(2)
	for i := 0; i < 2; i++ {
		require.NoError(t, q.Subscribe("batch_sends", func(any) error {
			wg.Done()
			return nil
		}))
	}
	require.NoError(t, q.Publish("batch_sends", "batch-2"))

	done := make(chan struct{})
	go func() { wg.Wait(); close(done) }()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("not all handlers were invoked")
	}
}
