package middleware

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"game2048_backend/internal/service/logger"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// Limiter decides whether one more request under key fits the current window.
type Limiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}

type bucket struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

type memoryLimiter struct {
	mu        sync.Mutex
	clients   map[string]*bucket
	limit     rate.Limit
	burst     int
	idle      time.Duration
	lastSweep time.Time
	now       func() time.Time
}

// NewMemoryLimiter admits max requests per window per key, refilling evenly
// across the window. Buckets idle for a whole window are full again and get dropped.
func NewMemoryLimiter(window time.Duration, max int) Limiter {
	if max < 1 {
		max = 1
	}
	return &memoryLimiter{
		clients: make(map[string]*bucket),
		limit:   rate.Every(window / time.Duration(max)),
		burst:   max,
		idle:    window,
		now:     time.Now,
	}
}

func (l *memoryLimiter) Allow(_ context.Context, key string) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if now.Sub(l.lastSweep) >= l.idle {
		l.sweep(now)
	}

	b, ok := l.clients[key]
	if !ok {
		b = &bucket{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.clients[key] = b
	}
	b.lastSeen = now
	return b.limiter.AllowN(now, 1), nil
}

func (l *memoryLimiter) sweep(now time.Time) {
	for key, b := range l.clients {
		if now.Sub(b.lastSeen) >= l.idle {
			delete(l.clients, key)
		}
	}
	l.lastSweep = now
}

type redisLimiter struct {
	client *redis.Client
	window time.Duration
	max    int64
}

// NewRedisLimiter keeps a sliding-window log per key in a Redis sorted set so
// that every server instance shares the same counters.
func NewRedisLimiter(client *redis.Client, window time.Duration, max int) Limiter {
	return &redisLimiter{client: client, window: window, max: int64(max)}
}

func (l *redisLimiter) Allow(ctx context.Context, key string) (bool, error) {
	now := time.Now()
	redisKey := "rl:" + key
	windowStart := strconv.FormatInt(now.Add(-l.window).UnixMilli(), 10)

	pipe := l.client.TxPipeline()
	pipe.ZRemRangeByScore(ctx, redisKey, "-inf", windowStart)
	pipe.ZAdd(ctx, redisKey, &redis.Z{Score: float64(now.UnixMilli()), Member: uuid.NewString()})
	count := pipe.ZCard(ctx, redisKey)
	pipe.Expire(ctx, redisKey, l.window)
	if _, err := pipe.Exec(ctx); err != nil {
		return false, err
	}
	return count.Val() <= l.max, nil
}

// RateLimit bounds requests to one route per client address. Forwarding
// headers are only read when trustProxy is set. A limiter error lets the
// request through.
func RateLimit(route string, limiter Limiter, message string, trustProxy bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip := clientIP(r, trustProxy)
			allowed, err := limiter.Allow(r.Context(), route+":"+ip)
			if err != nil {
				logger.AccessLogger.Error("Rate limiter unavailable",
					zap.String("request_id", GetRequestID(r.Context())),
					zap.String("route", route),
					zap.Error(err),
				)
				next.ServeHTTP(w, r)
				return
			}
			if !allowed {
				logger.AccessLogger.Warn("Rate limit exceeded",
					zap.String("request_id", GetRequestID(r.Context())),
					zap.String("route", route),
					zap.String("ip", ip),
				)
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusTooManyRequests)
				_ = json.NewEncoder(w).Encode(map[string]string{"message": message})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// clientIP keys on the socket peer. Behind a trusted proxy the last
// X-Forwarded-For hop is the one that proxy appended; earlier hops are client supplied.
func clientIP(r *http.Request, trustProxy bool) string {
	if trustProxy {
		if header := r.Header.Get("X-Forwarded-For"); header != "" {
			parts := strings.Split(header, ",")
			for i := len(parts) - 1; i >= 0; i-- {
				if ip := strings.TrimSpace(parts[i]); ip != "" {
					return ip
				}
			}
		}
		if ip := strings.TrimSpace(r.Header.Get("X-Real-IP")); ip != "" {
			return ip
		}
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err == nil && host != "" {
		return host
	}
	return r.RemoteAddr
}
