package ws

import (
	"sync"
	"time"

	"github.com/dkeye/livecast/internal/domain"
	"golang.org/x/time/rate"
)

const limiterIdle = 10 * time.Minute

// RateLimiter bounds chat submissions per identity across all its sockets.
type RateLimiter struct {
	mu       sync.Mutex
	limiters map[domain.UserID]*userLimiter
	limit    rate.Limit
	burst    int
	lastGC   time.Time
	now      func() time.Time
}

type userLimiter struct {
	lim  *rate.Limiter
	seen time.Time
}

// NewRateLimiter allows perSecond messages per identity with the given burst.
// A non-positive perSecond disables limiting.
func NewRateLimiter(perSecond float64, burst int) *RateLimiter {
	if perSecond <= 0 {
		return nil
	}
	if burst <= 0 {
		burst = 1
	}
	return &RateLimiter{
		limiters: make(map[domain.UserID]*userLimiter),
		limit:    rate.Limit(perSecond),
		burst:    burst,
		now:      time.Now,
	}
}

func (rl *RateLimiter) Allow(uid domain.UserID) bool {
	if rl == nil {
		return true
	}
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	rl.collect(now)
	ul, ok := rl.limiters[uid]
	if !ok {
		ul = &userLimiter{lim: rate.NewLimiter(rl.limit, rl.burst)}
		rl.limiters[uid] = ul
	}
	ul.seen = now
	return ul.lim.AllowN(now, 1)
}

// collect drops limiters idle long enough to have refilled completely.
func (rl *RateLimiter) collect(now time.Time) {
	if now.Sub(rl.lastGC) < limiterIdle {
		return
	}
	rl.lastGC = now
	for uid, ul := range rl.limiters {
		if now.Sub(ul.seen) >= limiterIdle {
			delete(rl.limiters, uid)
		}
	}
}
