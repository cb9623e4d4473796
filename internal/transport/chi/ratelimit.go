package chi

import (
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/Gatanot/GaussProject/internal/domain"
	gen "github.com/Gatanot/GaussProject/internal/transport/generated"
)

const (
	limiterIdleTTL = 10 * time.Minute
	// maxTrackedClients bounds the bucket map. Addresses beyond it share
	// one overflow bucket until idle entries expire.
	maxTrackedClients = 10000
	// capSweepInterval throttles the extra sweep run when the map is full.
	capSweepInterval = time.Second
)

type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// rateLimiter keeps one token bucket per client address.
type rateLimiter struct {
	mu           sync.Mutex
	clients      map[string]*clientLimiter
	overflow     *rate.Limiter
	maxClients   int
	rps          rate.Limit
	burst        int
	lastSweep    time.Time
	lastCapSweep time.Time
	now          func() time.Time
}

func newRateLimiter(rps float64, burst int) *rateLimiter {
	return &rateLimiter{
		clients:    make(map[string]*clientLimiter),
		overflow:   rate.NewLimiter(rate.Limit(rps), burst),
		maxClients: maxTrackedClients,
		rps:        rate.Limit(rps),
		burst:      burst,
		now:        time.Now,
	}
}

func (l *rateLimiter) allow(addr string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if now.Sub(l.lastSweep) > limiterIdleTTL {
		l.sweep(now)
	}

	c, ok := l.clients[addr]
	if !ok {
		if len(l.clients) >= l.maxClients && now.Sub(l.lastCapSweep) > capSweepInterval {
			l.sweep(now)
			l.lastCapSweep = now
		}
		if len(l.clients) >= l.maxClients {
			return l.overflow.AllowN(now, 1)
		}
		c = &clientLimiter{limiter: rate.NewLimiter(l.rps, l.burst)}
		l.clients[addr] = c
	}
	c.lastSeen = now
	return c.limiter.AllowN(now, 1)
}

func (l *rateLimiter) sweep(now time.Time) {
	for k, c := range l.clients {
		if now.Sub(c.lastSeen) > limiterIdleTTL {
			delete(l.clients, k)
		}
	}
	l.lastSweep = now
}

// RateLimitMiddleware answers 429 once a client address exceeds rps. The
// address is the connection peer unless TrustedProxyMiddleware resolved a
// forwarded one.
// rps <= 0 disables limiting. Health and metrics are never limited.
func RateLimitMiddleware(rps float64, burst int) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if rps <= 0 {
			return next
		}
		if burst <= 0 {
			burst = 1
		}
		limiter := newRateLimiter(rps, burst)

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := exemptPaths[r.URL.Path]; ok {
				next.ServeHTTP(w, r)
				return
			}
			if !limiter.allow(sourceAddr(r)) {
				w.Header().Set("Retry-After", "1")
				writeError(w, http.StatusTooManyRequests, gen.ErrorResponseCodeRateLimited, domain.ErrRateLimited.Error())
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
