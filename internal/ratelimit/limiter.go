package ratelimit

import (
	"math"
	"sync"
	"time"
)

// 時計を差し替え可能にする約束（テストで時間を進める）
type Clock interface {
	Now() time.Time
}

// 1ウィンドウあたりの上限
type Config struct {
	Max    int
	Window time.Duration
}

// Checkの判定結果。ヘッダ組み立てに必要な値も返す。
type Decision struct {
	Allowed    bool
	Limit      int
	Remaining  int
	ResetAt    time.Time
	RetryAfter time.Duration
}

type entry struct {
	count   int
	resetAt time.Time
}

// 固定ウィンドウのカウンタ。keyごとに1エントリ。
// 境界をまたぐと最大2×Maxまで通る既知のトレードオフがある。
type Limiter struct {
	mu      sync.Mutex
	entries map[string]*entry
	clock   Clock

	stopOnce sync.Once
	stop     chan struct{}
}

func NewLimiter(clock Clock) *Limiter {
	return &Limiter{
		entries: make(map[string]*entry),
		clock:   clock,
		stop:    make(chan struct{}),
	}
}

// 1リクエスト分を数えて判定する。
// エントリがない・期限切れならcount=1で作り直して許可。
// 超過ならRetryAfter（reset までの秒数、切り上げ）付きで拒否。
func (l *Limiter) Check(key string, cfg Config) Decision {
	now := l.clock.Now()

	//複数goroutineから呼ばれるのでincrement-and-compareをロックで守る
	l.mu.Lock()
	defer l.mu.Unlock()

	e, ok := l.entries[key]
	if !ok || now.After(e.resetAt) {
		e = &entry{count: 1, resetAt: now.Add(cfg.Window)}
		l.entries[key] = e

		return Decision{
			Allowed:   true,
			Limit:     cfg.Max,
			Remaining: cfg.Max - 1,
			ResetAt:   e.resetAt,
		}
	}

	e.count++

	if e.count > cfg.Max {
		return Decision{
			Allowed:    false,
			Limit:      cfg.Max,
			Remaining:  0,
			ResetAt:    e.resetAt,
			RetryAfter: ceilSeconds(e.resetAt.Sub(now)),
		}
	}

	return Decision{
		Allowed:   true,
		Limit:     cfg.Max,
		Remaining: cfg.Max - e.count,
		ResetAt:   e.resetAt,
	}
}

// 読み取り専用。カウントせずに残量を返す（ヘッダの事前組み立て用）。
func (l *Limiter) Status(key string, cfg Config) Decision {
	now := l.clock.Now()

	l.mu.Lock()
	defer l.mu.Unlock()

	e, ok := l.entries[key]
	if !ok || now.After(e.resetAt) {
		return Decision{
			Allowed:   true,
			Limit:     cfg.Max,
			Remaining: cfg.Max,
			ResetAt:   now.Add(cfg.Window),
		}
	}

	remaining := cfg.Max - e.count
	if remaining < 0 {
		remaining = 0
	}

	d := Decision{
		Allowed:   e.count < cfg.Max,
		Limit:     cfg.Max,
		Remaining: remaining,
		ResetAt:   e.resetAt,
	}
	if !d.Allowed {
		d.RetryAfter = ceilSeconds(e.resetAt.Sub(now))
	}
	return d
}

// 管理用。誤検知したkeyを即時解除する。
func (l *Limiter) Reset(key string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	delete(l.entries, key)
}

// 期限切れエントリを全部消す。正しさはsweepに依存しない
// （期限切れは次のアクセス時にも作り直される）。メモリを抑えるためだけ。
func (l *Limiter) sweep() {
	now := l.clock.Now()

	l.mu.Lock()
	defer l.mu.Unlock()

	for key, e := range l.entries {
		if now.After(e.resetAt) {
			delete(l.entries, key)
		}
	}
}

// 定期sweepを開始する。リクエスト処理はブロックしない。
func (l *Limiter) StartSweeper(interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				l.sweep()
			case <-l.stop:
				return
			}
		}
	}()
}

// sweepを止める。テストや終了処理から呼ぶ。
func (l *Limiter) Stop() {
	l.stopOnce.Do(func() {
		close(l.stop)
	})
}

// エントリ数（テスト用）
func (l *Limiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()

	return len(l.entries)
}

func ceilSeconds(d time.Duration) time.Duration {
	secs := math.Ceil(d.Seconds())
	if secs < 1 {
		secs = 1
	}
	return time.Duration(secs) * time.Second
}
