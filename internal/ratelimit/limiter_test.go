package ratelimit

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func TestCheck_FixedWindow(t *testing.T) {
	clock := &fakeClock{now: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
	l := NewLimiter(clock)

	cfg := Config{Max: 5, Window: 60 * time.Second}

	//最初の5回は許可
	for i := 0; i < 5; i++ {
		d := l.Check("ip:203.0.113.1", cfg)
		assert.True(t, d.Allowed, "request %d should be admitted", i+1)
		assert.Equal(t, 5, d.Limit)
		assert.Equal(t, 4-i, d.Remaining)
	}

	//6回目は拒否、RetryAfter > 0
	d := l.Check("ip:203.0.113.1", cfg)
	assert.False(t, d.Allowed)
	assert.Equal(t, 0, d.Remaining)
	assert.Greater(t, d.RetryAfter, time.Duration(0))

	//ウィンドウを過ぎればカウンタが作り直されて再び許可
	clock.Advance(61 * time.Second)

	d = l.Check("ip:203.0.113.1", cfg)
	assert.True(t, d.Allowed)
	assert.Equal(t, 4, d.Remaining)
}

func TestCheck_KeysAreIndependent(t *testing.T) {
	clock := &fakeClock{now: time.Now()}
	l := NewLimiter(clock)

	cfg := Config{Max: 1, Window: time.Minute}

	assert.True(t, l.Check("a", cfg).Allowed)
	assert.False(t, l.Check("a", cfg).Allowed)

	//別keyは影響を受けない
	assert.True(t, l.Check("b", cfg).Allowed)
}

func TestStatus_DoesNotIncrement(t *testing.T) {
	clock := &fakeClock{now: time.Now()}
	l := NewLimiter(clock)

	cfg := Config{Max: 3, Window: time.Minute}

	l.Check("k", cfg)

	//Statusを何回呼んでもカウントは増えない
	for i := 0; i < 10; i++ {
		d := l.Status("k", cfg)
		assert.True(t, d.Allowed)
		assert.Equal(t, 2, d.Remaining)
	}

	//未登録keyは満額
	d := l.Status("unknown", cfg)
	assert.Equal(t, 3, d.Remaining)
}

func TestReset_ClearsEntry(t *testing.T) {
	clock := &fakeClock{now: time.Now()}
	l := NewLimiter(clock)

	cfg := Config{Max: 1, Window: time.Minute}

	assert.True(t, l.Check("k", cfg).Allowed)
	assert.False(t, l.Check("k", cfg).Allowed)

	l.Reset("k")

	assert.True(t, l.Check("k", cfg).Allowed)
}

func TestSweep_PurgesExpiredEntries(t *testing.T) {
	clock := &fakeClock{now: time.Now()}
	l := NewLimiter(clock)

	cfg := Config{Max: 5, Window: time.Minute}

	l.Check("a", cfg)
	l.Check("b", cfg)
	assert.Equal(t, 2, l.Len())

	clock.Advance(2 * time.Minute)
	l.sweep()

	assert.Equal(t, 0, l.Len())
}

// 並行に叩いてもMaxを超えて許可されないこと
func TestCheck_ConcurrentDoesNotOverAdmit(t *testing.T) {
	clock := &fakeClock{now: time.Now()}
	l := NewLimiter(clock)

	cfg := Config{Max: 50, Window: time.Minute}

	var wg sync.WaitGroup
	var mu sync.Mutex
	admitted := 0

	for i := 0; i < 200; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if l.Check("shared", cfg).Allowed {
				mu.Lock()
				admitted++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 50, admitted)
}
