package transport

import (
	"net/http"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
	"golang.org/x/time/rate"
)

const rateLimiterMaxEntries = 10000

// IPRateLimiter keeps one token bucket per client IP. Two instances run
// in the server: a global budget and a stricter one on the credential
// endpoints.
type IPRateLimiter struct {
	ips map[string]*rate.Limiter
	mu  sync.Mutex
	r   rate.Limit
	b   int
}

func NewIPRateLimiter(r rate.Limit, b int) *IPRateLimiter {
	return &IPRateLimiter{
		ips: make(map[string]*rate.Limiter),
		r:   r,
		b:   b,
	}
}

func (l *IPRateLimiter) GetLimiter(ip string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	// crude bound against unbounded growth in a long running process
	if len(l.ips) > rateLimiterMaxEntries {
		l.ips = make(map[string]*rate.Limiter)
	}

	limiter, exists := l.ips[ip]
	if !exists {
		limiter = rate.NewLimiter(l.r, l.b)
		l.ips[ip] = limiter
	}
	return limiter
}

func (l *IPRateLimiter) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if !l.GetLimiter(c.RealIP()).Allow() {
				return c.JSON(http.StatusTooManyRequests, Envelope{
					Success: false,
					Message: "Too many requests, please try again later",
				})
			}
			return next(c)
		}
	}
}

// 100 requests per 15 minutes for the API at large, 5 per hour for the
// credential endpoints.
func newGlobalRateLimiter() *IPRateLimiter {
	return NewIPRateLimiter(rate.Every(15*time.Minute/100), 100)
}

func newAuthRateLimiter() *IPRateLimiter {
	return NewIPRateLimiter(rate.Every(time.Hour/5), 5)
}
