package middleware

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/nhc-marketplace/storefront/api/responses"
	pkgerrors "github.com/nhc-marketplace/storefront/pkg/errors"
	"github.com/nhc-marketplace/storefront/pkg/logger"
)

const maxCredentialBody = 1 << 20

// RateLimitStore is satisfied by the redis client.
type RateLimitStore interface {
	IncrWithTTL(context.Context, string, time.Duration) (int64, error)
}

// AuthRateLimitPolicy is one fixed window with separate per-IP and per-email
// budgets. A zero limit disables that scope.
type AuthRateLimitPolicy struct {
	name       string
	window     time.Duration
	ipLimit    int
	emailLimit int
}

func NewAuthRateLimitPolicy(name string, window time.Duration, ipLimit, emailLimit int) AuthRateLimitPolicy {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		name = "auth"
	}
	return AuthRateLimitPolicy{name: name, window: window, ipLimit: ipLimit, emailLimit: emailLimit}
}

func (p AuthRateLimitPolicy) enabled() bool {
	return p.window > 0 && (p.ipLimit > 0 || p.emailLimit > 0)
}

type limiter struct {
	policy AuthRateLimitPolicy
	store  RateLimitStore
	logg   *logger.Logger
}

// check counts one attempt against policy:scope:subject. It reports false only
// when the budget is spent; counter errors are logged and let through.
func (l limiter) check(ctx context.Context, scope, subject string, limit int) bool {
	if limit <= 0 || subject == "" {
		return true
	}
	count, err := l.store.IncrWithTTL(ctx, l.policy.name+":"+scope+":"+subject, l.policy.window)
	if err != nil {
		l.logg.Warn(l.logg.WithFields(ctx, map[string]any{"policy": l.policy.name, "scope": scope, "error": err.Error()}), "auth.rate_limit.counter_failed")
		return true
	}
	if count <= int64(limit) {
		return true
	}
	l.logg.Warn(l.logg.WithFields(ctx, map[string]any{
		"policy":   l.policy.name,
		"scope":    scope,
		"subject":  subject,
		"attempts": count,
		"limit":    limit,
	}), "auth.rate_limit.blocked")
	return false
}

func (l limiter) reject(ctx context.Context, w http.ResponseWriter) {
	w.Header().Set("Retry-After", strconv.Itoa(int(l.policy.window.Round(time.Second).Seconds())))
	responses.WriteError(ctx, nil, w, pkgerrors.New(pkgerrors.CodeRateLimit, "too many attempts"))
}

// AuthRateLimit throttles credential endpoints per client IP and per hashed
// email. Without a store the handler is returned unchanged.
func AuthRateLimit(policy AuthRateLimitPolicy, store RateLimitStore, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if !policy.enabled() || store == nil {
			return next
		}
		if logg == nil {
			logg = logger.Nop()
		}
		l := limiter{policy: policy, store: store, logg: logg}

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			if !l.check(ctx, "ip", clientIP(r), policy.ipLimit) {
				l.reject(ctx, w)
				return
			}
			if policy.emailLimit > 0 {
				body, err := io.ReadAll(io.LimitReader(r.Body, maxCredentialBody))
				if err != nil {
					responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "read request"))
					return
				}
				r.Body = io.NopCloser(bytes.NewReader(body))
				if !l.check(ctx, "email", emailDigest(body), policy.emailLimit) {
					l.reject(ctx, w)
					return
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

func clientIP(r *http.Request) string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		first, _, _ := strings.Cut(forwarded, ",")
		if ip := strings.TrimSpace(first); ip != "" {
			return ip
		}
	}
	if ip := strings.TrimSpace(r.Header.Get("X-Real-IP")); ip != "" {
		return ip
	}
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil && host != "" {
		return host
	}
	return r.RemoteAddr
}

// emailDigest hashes the normalised email of a login or register body so raw
// addresses never reach redis or the logs.
func emailDigest(payload []byte) string {
	var body struct {
		Email string `json:"email"`
	}
	if err := json.Unmarshal(payload, &body); err != nil {
		return ""
	}
	email := strings.ToLower(strings.TrimSpace(body.Email))
	if email == "" {
		return ""
	}
	sum := sha256.Sum256([]byte(email))
	return hex.EncodeToString(sum[:])
}
