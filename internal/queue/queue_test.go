package queue

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInMemoryQueueDeliversToAllSubscribers(t *testing.T) {
	q := NewInMemoryQueue()

	var mu sync.Mutex
	received := map[string][]int64{}
	var wg sync.WaitGroup

	for _, name := range []string{"a", "b"} {
		name := name
		q.Subscribe(func(jobID int64) {
			defer wg.Done()
			mu.Lock()
			received[name] = append(received[name], jobID)
			mu.Unlock()
		})
	}

	wg.Add(4)
	require.NoError(t, q.Publish(1))
	require.NoError(t, q.Publish(2))
	wg.Wait()

	mu.Lock()
	defer mu.Unlock()
	assert.ElementsMatch(t, []int64{1, 2}, received["a"])
	assert.ElementsMatch(t, []int64{1, 2}, received["b"])
}

func TestInMemoryQueuePublishWithoutSubscribers(t *testing.T) {
	q := NewInMemoryQueue()
	err := q.Publish(1)
	require.Error(t, err)
}

func TestInMemoryQueuePublishDoesNotBlockOnSlowHandler(t *testing.T) {
	q := NewInMemoryQueue()
	release := make(chan struct{})
	q.Subscribe(func(jobID int64) { <-release })

	done := make(chan struct{})
	go func() {
		_ = q.Publish(7)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Publish blocked on a slow subscriber")
	}
	close(release)
}
