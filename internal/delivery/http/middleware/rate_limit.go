package middleware

import (
	"context"
	"strconv"
	"strings"
	"time"

	"storefront/config"
	domainerrors "storefront/internal/domain/errors"
	"storefront/internal/ratelimit"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

// janitorInterval is how often idle limiter entries are evicted.
const janitorInterval = time.Minute

// Proxy headers consulted for the real client IP, in priority order.
var clientIPHeaders = []string{
	"X-Forwarded-For",
	"X-Real-Ip",
	"Cf-Connecting-Ip",
	"X-Client-Ip",
}

// RateLimitMiddleware applies per-endpoint-class fixed-window limits.
// Each class keeps its own limiter so a burst of catalogue reads cannot
// exhaust the budget for checkout or login.
type RateLimitMiddleware struct {
	public      *ratelimit.Limiter
	mutate      *ratelimit.Limiter
	auth        *ratelimit.Limiter
	destructive *ratelimit.Limiter
}

// RateLimitParams holds dependencies for RateLimitMiddleware, injected by Fx.
type RateLimitParams struct {
	fx.In

	Lc  fx.Lifecycle
	Cfg *config.Config
}

// NewRateLimitMiddleware builds the four class limiters and registers a
// background janitor on the fx lifecycle.
func NewRateLimitMiddleware(params RateLimitParams) *RateLimitMiddleware {
	limits := params.Cfg.RateLimit
	if limits == nil {
		limits = &config.RateLimitConfig{}
	}

	m := &RateLimitMiddleware{
		public:      ratelimit.New(toRule(limits.Public, 100, time.Minute, time.Minute)),
		mutate:      ratelimit.New(toRule(limits.Mutate, 30, time.Minute, 2*time.Minute)),
		auth:        ratelimit.New(toRule(limits.Auth, 10, time.Minute, 5*time.Minute)),
		destructive: ratelimit.New(toRule(limits.Destructive, 10, time.Minute, 5*time.Minute)),
	}

	janitorCtx, cancel := context.WithCancel(context.Background())
	params.Lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			for _, limiter := range []*ratelimit.Limiter{m.public, m.mutate, m.auth, m.destructive} {
				go limiter.Janitor(janitorCtx, janitorInterval)
			}

			return nil
		},
		OnStop: func(ctx context.Context) error {
			cancel()

			return nil
		},
	})

	return m
}

// Public limits read-only endpoints.
func (m *RateLimitMiddleware) Public(next echo.HandlerFunc) echo.HandlerFunc {
	return m.handle(m.public, next)
}

// Mutate limits state-changing endpoints.
func (m *RateLimitMiddleware) Mutate(next echo.HandlerFunc) echo.HandlerFunc {
	return m.handle(m.mutate, next)
}

// Auth limits login, registration and token endpoints.
func (m *RateLimitMiddleware) Auth(next echo.HandlerFunc) echo.HandlerFunc {
	return m.handle(m.auth, next)
}

// Destructive limits delete endpoints.
func (m *RateLimitMiddleware) Destructive(next echo.HandlerFunc) echo.HandlerFunc {
	return m.handle(m.destructive, next)
}

func (m *RateLimitMiddleware) handle(limiter *ratelimit.Limiter, next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		key := ratelimit.ClientKey(clientIP(c), c.Request().UserAgent())
		decision := limiter.Check(key)

		header := c.Response().Header()
		header.Set("X-RateLimit-Remaining", strconv.Itoa(decision.Remaining))
		header.Set("X-RateLimit-Reset", strconv.FormatInt(decision.Reset.Unix(), 10))

		if !decision.Allowed {
			retryAfter := int(decision.RetryAfter.Seconds())
			if retryAfter < 1 {
				retryAfter = 1
			}
			header.Set("Retry-After", strconv.Itoa(retryAfter))

			return domainerrors.ErrTooManyAttempts.WrapMessage("Rate limit exceeded, slow down")
		}

		return next(c)
	}
}

// clientIP resolves the originating client address, preferring proxy
// headers over the socket peer so limits stick behind load balancers.
func clientIP(c echo.Context) string {
	for _, name := range clientIPHeaders {
		value := c.Request().Header.Get(name)
		if value == "" {
			continue
		}
		// X-Forwarded-For may hold a chain; the first hop is the client.
		if ip, _, found := strings.Cut(value, ","); found || ip != "" {
			return strings.TrimSpace(ip)
		}
	}

	if ip := c.RealIP(); ip != "" {
		return ip
	}

	return "unknown"
}

func toRule(cfg config.RateLimitRuleConfig, maxRequests int, window, block time.Duration) ratelimit.Rule {
	rule := ratelimit.Rule{
		MaxRequests:   cfg.MaxRequests,
		Window:        cfg.Window,
		BlockDuration: cfg.BlockDuration,
	}
	if rule.MaxRequests <= 0 {
		rule.MaxRequests = maxRequests
	}
	if rule.Window <= 0 {
		rule.Window = window
	}
	if rule.BlockDuration <= 0 {
		rule.BlockDuration = block
	}

	return rule
}
