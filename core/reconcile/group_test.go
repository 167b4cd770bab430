package reconcile

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestGroup_CoalescesConcurrentCalls(t *testing.T) {
	var g Group[int]
	var calls int32
	release := make(chan struct{})

	const callers = 8
	var wg sync.WaitGroup
	results := make([]int, callers)
	var started sync.WaitGroup
	started.Add(callers)

	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			started.Done()
			v, err := g.Do(context.Background(), "salt", func() (int, error) {
				atomic.AddInt32(&calls, 1)
				<-release
				return 42, nil
			})
			assert.NoError(t, err)
			results[i] = v
		}(i)
	}

	started.Wait()
	// Give the goroutines time to join the in-flight call before it completes.
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
	for _, v := range results {
		assert.Equal(t, 42, v)
	}
}

func TestGroup_PropagatesError(t *testing.T) {
	var g Group[string]
	boom := errors.New("boom")

	v, err := g.Do(context.Background(), "k", func() (string, error) {
		return "ignored", boom
	})
	assert.ErrorIs(t, err, boom)
	assert.Empty(t, v)
}

func TestGroup_ContextCancelled(t *testing.T) {
	var g Group[int]
	release := make(chan struct{})
	done := make(chan struct{})

	go func() {
		defer close(done)
		_, _ = g.Do(context.Background(), "slow", func() (int, error) {
			<-release
			return 1, nil
		})
	}()
	time.Sleep(20 * time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := g.Do(ctx, "slow", func() (int, error) { return 2, nil })
	assert.ErrorIs(t, err, context.Canceled)

	close(release)
	<-done
}
