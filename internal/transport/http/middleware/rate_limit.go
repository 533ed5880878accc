package middleware

import (
	"fmt"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/savoro/catering-auth/internal/core/port"
)

// IdentifierFunc extracts the identifier used to scope rate limits (e.g.,
// client IP). Returning false skips the rule for this request.
type IdentifierFunc func(*gin.Context) (string, bool)

// RateLimitRule configures a fixed-window limit for a particular identifier.
type RateLimitRule struct {
	Name       string
	Limit      int
	Window     time.Duration
	Identifier IdentifierFunc
}

// RateLimiter enforces fixed-window request limits at the transport edge.
type RateLimiter struct {
	store  port.RateLimitStore
	logger *zap.Logger
}

// NewRateLimiter builds a reusable rate limiter middleware helper.
func NewRateLimiter(store port.RateLimitStore, logger *zap.Logger) *RateLimiter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RateLimiter{store: store, logger: logger}
}

// ClientIPIdentifier builds an IdentifierFunc using the request's client IP.
func ClientIPIdentifier() IdentifierFunc {
	return func(c *gin.Context) (string, bool) {
		ip := c.ClientIP()
		if ip == "" {
			return "", false
		}
		return ip, true
	}
}

// RateLimit returns a Gin middleware enforcing the provided rules. Store
// failures are logged and the request is allowed through.
func (rl *RateLimiter) RateLimit(rules ...RateLimitRule) gin.HandlerFunc {
	filtered := make([]RateLimitRule, 0, len(rules))
	for _, rule := range rules {
		if rule.Identifier == nil || rule.Limit <= 0 || rule.Window <= 0 {
			continue
		}
		if rule.Name == "" {
			rule.Name = "default"
		}
		filtered = append(filtered, rule)
	}

	return func(c *gin.Context) {
		if len(filtered) == 0 || rl.store == nil {
			c.Next()
			return
		}

		for _, rule := range filtered {
			identifier, ok := rule.Identifier(c)
			if !ok || identifier == "" {
				continue
			}

			key := fmt.Sprintf("%s:%s", rule.Name, identifier)
			count, retryAfter, err := rl.store.Increment(c.Request.Context(), key, rule.Window)
			if err != nil {
				rl.logger.Warn("rate limit check failed",
					zap.String("rule", rule.Name),
					zap.Error(err))
				continue
			}

			remaining := rule.Limit - count
			if remaining < 0 {
				remaining = 0
			}

			headers := c.Writer.Header()
			headers.Set("X-RateLimit-Limit", strconv.Itoa(rule.Limit))
			headers.Set("X-RateLimit-Remaining", strconv.Itoa(remaining))
			headers.Set("X-RateLimit-Reset", strconv.FormatInt(time.Now().Add(retryAfter).Unix(), 10))

			if count > rule.Limit {
				seconds := int(math.Ceil(retryAfter.Seconds()))
				if seconds < 0 {
					seconds = 0
				}
				headers.Set("Retry-After", strconv.Itoa(seconds))
				c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
					"success":   false,
					"message":   "Rate limit exceeded. Please try again later.",
					"timestamp": time.Now().UTC().Format(time.RFC3339),
					"data":      gin.H{"retry_after": seconds},
				})
				return
			}
		}

		c.Next()
	}
}
