package http

import (
	"strconv"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/thejerf/abtime"
	"golang.org/x/time/rate"

	"github.com/campusworks/college-portal/pkg/util/errorutil"
)

const visitorIdle = 10 * time.Minute

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// ipLimiter keeps one token bucket per client IP. Buckets idle for longer
// than visitorIdle are dropped.
type ipLimiter struct {
	mu        sync.Mutex
	perMinute int
	clock     abtime.AbstractTime
	visitors  map[string]*visitor
	lastSweep time.Time
}

func newIPLimiter(perMinute int, clock abtime.AbstractTime) *ipLimiter {
	if clock == nil {
		clock = abtime.NewRealTime()
	}
	return &ipLimiter{
		perMinute: perMinute,
		clock:     clock,
		visitors:  make(map[string]*visitor),
		lastSweep: clock.Now(),
	}
}

func (l *ipLimiter) allow(ip string) bool {
	now := l.clock.Now()

	l.mu.Lock()
	defer l.mu.Unlock()

	if now.Sub(l.lastSweep) > visitorIdle {
		for key, v := range l.visitors {
			if now.Sub(v.lastSeen) > visitorIdle {
				delete(l.visitors, key)
			}
		}
		l.lastSweep = now
	}

	v, ok := l.visitors[ip]
	if !ok {
		every := rate.Every(time.Minute / time.Duration(l.perMinute))
		v = &visitor{limiter: rate.NewLimiter(every, l.perMinute)}
		l.visitors[ip] = v
	}
	v.lastSeen = now
	return v.limiter.AllowN(now, 1)
}

// RateLimit throttles each client IP to perMinute requests with a burst of
// the same size. A non-positive perMinute disables the limit.
func RateLimit(perMinute int, clock abtime.AbstractTime) fiber.Handler {
	if perMinute <= 0 {
		return func(c *fiber.Ctx) error { return c.Next() }
	}
	limiter := newIPLimiter(perMinute, clock)
	retryAfter := strconv.Itoa(int((time.Minute / time.Duration(perMinute)).Seconds()) + 1)

	return func(c *fiber.Ctx) error {
		if !limiter.allow(c.IP()) {
			c.Set(fiber.HeaderRetryAfter, retryAfter)
			return errorutil.NewRateLimited("too many requests, slow down")
		}
		return c.Next()
	}
}
