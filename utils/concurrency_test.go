package utils

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestURLSetNoDuplicates(t *testing.T) {
	s := NewURLSet()

	assert.True(t, s.Add("https://www.zillow.com/homedetails/1_zpid/"), "first Add should return true")
	assert.False(t, s.Add("https://www.zillow.com/homedetails/1_zpid/"), "second Add of same URL should return false")
	assert.True(t, s.Add("https://www.zillow.com/homedetails/2_zpid/"))
}

func TestURLSetConcurrency(t *testing.T) {
	s := NewURLSet()
	var added int64

	pool := NewWorkerPool(10, 0)
	for i := 0; i < 100; i++ {
		url := "https://www.zillow.com/homedetails/same_zpid/"
		pool.Submit(func() {
			if s.Add(url) {
				atomic.AddInt64(&added, 1)
			}
		})
	}
	pool.Wait()

	assert.Equal(t, int64(1), added, "expected exactly 1 successful add")
}

func TestWorkerPoolRateLimit(t *testing.T) {
	rateLimitMs := 100
	pool := NewWorkerPool(1, rateLimitMs)

	var mu sync.Mutex
	var timestamps []time.Time

	for i := 0; i < 3; i++ {
		pool.Submit(func() {
			mu.Lock()
			timestamps = append(timestamps, time.Now())
			mu.Unlock()
		})
	}
	pool.Wait()

	// small slack for timer jitter between the limiter and the job clock
	min := time.Duration(rateLimitMs)*time.Millisecond - 10*time.Millisecond
	for i := 1; i < len(timestamps); i++ {
		gap := timestamps[i].Sub(timestamps[i-1])
		assert.GreaterOrEqual(t, gap, min, "gap between job %d and %d", i-1, i)
	}
}

func TestWorkerPoolBoundsConcurrency(t *testing.T) {
	pool := NewWorkerPool(2, 0)
	var running, peak int64

	for i := 0; i < 20; i++ {
		pool.Submit(func() {
			n := atomic.AddInt64(&running, 1)
			for {
				p := atomic.LoadInt64(&peak)
				if n <= p || atomic.CompareAndSwapInt64(&peak, p, n) {
					break
				}
			}
			time.Sleep(5 * time.Millisecond)
			atomic.AddInt64(&running, -1)
		})
	}
	pool.Wait()

	assert.LessOrEqual(t, peak, int64(2))
	assert.Equal(t, 2, pool.Size())
}

func TestNewWorkerPoolClampsSize(t *testing.T) {
	assert.Equal(t, 1, NewWorkerPool(0, 0).Size())
}
