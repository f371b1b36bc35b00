package middleware

import (
	"net"
	"net/http"
	"strconv"
	"time"

	"moodly/internal/common"

	"github.com/redis/go-redis/v9"
)

// Lua script: atomic INCR + set EXPIRE only on first hit in the window.
var incrExpireScript = redis.NewScript(`
local current = redis.call("INCR", KEYS[1])
if current == 1 then
  redis.call("PEXPIRE", KEYS[1], ARGV[1])
end
return current
`)

// RateLimit applies a fixed-window per-IP limit backed by redis. It fails
// open: if redis is unreachable the request goes through.
func RateLimit(rdb *redis.Client, max int, window time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if rdb == nil || max <= 0 || window <= 0 {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := "rl:ip:" + clientIP(r)

			countI, err := incrExpireScript.Run(r.Context(), rdb, []string{key}, window.Milliseconds()).Result()
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}
			count, ok := countI.(int64)
			if !ok {
				// Unexpected script result; fail open like a redis error.
				next.ServeHTTP(w, r)
				return
			}

			ttl, _ := rdb.TTL(r.Context(), key).Result()
			resetSec := 0
			if ttl > 0 {
				resetSec = int(ttl.Seconds())
			}

			if writeLimitHeaders(w, int(count), max, resetSec) {
				common.RespondWithError(w, http.StatusTooManyRequests, "rate limit exceeded")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// writeLimitHeaders emits the X-RateLimit-* headers for the current window
// and reports whether the request exceeds the budget. Remaining never goes
// below zero; Retry-After is set only once the limit is exceeded.
func writeLimitHeaders(w http.ResponseWriter, count, max, resetSec int) bool {
	remaining := max - count
	if remaining < 0 {
		remaining = 0
	}
	w.Header().Set("X-RateLimit-Limit", strconv.Itoa(max))
	w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(remaining))
	w.Header().Set("X-RateLimit-Reset", strconv.Itoa(resetSec))

	if count > max {
		if resetSec > 0 {
			w.Header().Set("Retry-After", strconv.Itoa(resetSec))
		}
		return true
	}
	return false
}

func clientIP(r *http.Request) string {
	// chi's RealIP middleware rewrites RemoteAddr from X-Forwarded-For.
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		if r.RemoteAddr != "" {
			return r.RemoteAddr
		}
		return "unknown"
	}
	return host
}
