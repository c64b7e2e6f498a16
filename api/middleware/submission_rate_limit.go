package middleware

import (
	"context"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/skateparkfinder/skatepark-backend/api/responses"
	pkgerrors "github.com/skateparkfinder/skatepark-backend/pkg/errors"
	"github.com/skateparkfinder/skatepark-backend/pkg/logger"
)

const submissionRateLimitScope = "submit"

// FixedWindowLimiter counts hits per scope within a fixed window.
type FixedWindowLimiter interface {
	FixedWindowAllow(ctx context.Context, scope string, limit int64, window time.Duration) (bool, int64, error)
}

type rateLimitRecorder interface {
	IncRateLimited()
}

// SubmissionRateLimitPolicy caps public submissions per client IP.
type SubmissionRateLimitPolicy struct {
	Window  time.Duration
	PerIP   int
	Metrics rateLimitRecorder
}

func (p SubmissionRateLimitPolicy) enabled() bool {
	return p.Window > 0 && p.PerIP > 0
}

// SubmissionRateLimit enforces a fixed-window counter per client IP. A nil
// limiter disables the check.
func SubmissionRateLimit(policy SubmissionRateLimitPolicy, limiter FixedWindowLimiter, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if !policy.enabled() || limiter == nil {
			return next
		}

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			ip := clientIP(r)
			if ip == "" {
				next.ServeHTTP(w, r)
				return
			}

			allowed, count, err := limiter.FixedWindowAllow(ctx, submissionRateLimitScope+":"+ip, int64(policy.PerIP), policy.Window)
			if err != nil {
				responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "rate limiting"))
				return
			}
			if !allowed {
				if policy.Metrics != nil {
					policy.Metrics.IncRateLimited()
				}
				if logg != nil {
					logCtx := logg.WithFields(ctx, map[string]any{
						"ip":             ip,
						"attempts":       count,
						"limit":          policy.PerIP,
						"window_seconds": int(policy.Window.Seconds()),
					})
					logg.Warn(logCtx, "submission.rate_limit.blocked")
				}
				responses.WriteError(ctx, nil, w, pkgerrors.New(pkgerrors.CodeRateLimit, "too many submissions, try again later"))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func clientIP(r *http.Request) string {
	if r == nil {
		return ""
	}
	if header := r.Header.Get("X-Forwarded-For"); header != "" {
		for _, part := range strings.Split(header, ",") {
			if ip := strings.TrimSpace(part); ip != "" {
				return ip
			}
		}
	}
	if ip := strings.TrimSpace(r.Header.Get("X-Real-IP")); ip != "" {
		return ip
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err == nil && host != "" {
		return host
	}
	return r.RemoteAddr
}
