package middleware

import (
    "context"
    "fmt"
    "math"
    "net/http"
    "strconv"
    "strings"
    "sync"
    "time"

    "github.com/labstack/echo/v4"
    "github.com/redis/go-redis/v9"
    "golang.org/x/time/rate"

    "github.com/iliyamo/skyblock-shop/internal/config"
)

// tokenBucketScript refills and takes one token atomically.  It returns
// {allowed (0|1), tokens left, retry after in ms}.
var tokenBucketScript = redis.NewScript(`
    local key = KEYS[1]
    local now_ms = tonumber(ARGV[1])
    local capacity = tonumber(ARGV[2])
    local refill_tokens = tonumber(ARGV[3])
    local interval_ms = tonumber(ARGV[4])
    local ttl_seconds = tonumber(ARGV[5])

    local state = redis.call('HMGET', key, 'tokens', 'last_refill_ms')
    local tokens = tonumber(state[1])
    local last_refill = tonumber(state[2])

    if tokens == nil or last_refill == nil then
        tokens = capacity
        last_refill = now_ms
    end

    if interval_ms > 0 and refill_tokens > 0 then
        local elapsed = math.max(0, now_ms - last_refill)
        local intervals = math.floor(elapsed / interval_ms)
        if intervals > 0 then
            tokens = math.min(capacity, tokens + (intervals * refill_tokens))
            last_refill = last_refill + (intervals * interval_ms)
        end
    end

    local allowed = 0
    local retry_after_ms = 0
    if tokens > 0 then
        allowed = 1
        tokens = tokens - 1
    else
        local until_next = interval_ms - (now_ms - last_refill)
        if until_next < 0 then until_next = 0 end
        retry_after_ms = until_next
    end

    redis.call('HMSET', key, 'tokens', tokens, 'last_refill_ms', last_refill, 'capacity', capacity)
    redis.call('EXPIRE', key, ttl_seconds)

    return { allowed, tokens, retry_after_ms }
`)

// NewTokenBucket limits requests per key (see RateLimitConfig.KeyStrategy).
// With a Redis client the bucket is shared by all replicas through a Lua
// script; without one each process keeps its own buckets in memory.
// Redis errors let the request through.  The in-memory buckets are pruned
// until ctx is done.
func NewTokenBucket(ctx context.Context, cfg config.RateLimitConfig, rdb *redis.Client) echo.MiddlewareFunc {
    if !cfg.Enabled {
        return passthrough
    }
    if rdb == nil {
        return newMemoryBucket(ctx, cfg)
    }

    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) error {
            key := buildRateKey(cfg, c)
            now := time.Now()

            args := []interface{}{
                now.UnixMilli(),
                cfg.Capacity,
                cfg.RefillTokens,
                cfg.RefillInterval.Milliseconds(),
                int64(cfg.TTL / time.Second),
            }

            ctx := c.Request().Context()
            vals, err := tokenBucketScript.Run(ctx, rdb, []string{key}, args...).Result()
            if err != nil {
                if cfg.Debug {
                    c.Logger().Warnf("[ratelimit] redis error for key=%s: %v", key, err)
                }
                return next(c)
            }

            allowed := false
            remaining := int64(0)
            retryMs := int64(0)

            if arr, ok := vals.([]interface{}); ok && len(arr) == 3 {
                if i, ok := arr[0].(int64); ok { allowed = (i == 1) } else { allowed = fmt.Sprint(arr[0]) == "1" }
                remaining = asInt64(arr[1])
                retryMs = asInt64(arr[2])
            } else {
                if cfg.Debug {
                    c.Logger().Warnf("[ratelimit] unexpected script result for key=%s: %#v", key, vals)
                }
                return next(c)
            }

            c.Response().Header().Set("X-RateLimit-Limit", strconv.Itoa(cfg.Capacity))
            c.Response().Header().Set("X-RateLimit-Remaining", strconv.FormatInt(remaining, 10))

            if !allowed {
                if cfg.Debug {
                    c.Logger().Infof("[ratelimit] block key=%s remaining=%d retry=%dms", key, remaining, retryMs)
                }
                return tooManyRequests(c, time.Duration(retryMs)*time.Millisecond)
            }

            if cfg.Debug {
                c.Response().Header().Set("X-RateLimit-Key", key)
            }
            return next(c)
        }
    }
}

func asInt64(v interface{}) int64 {
    switch t := v.(type) {
    case int64: return t
    case int32: return int64(t)
    case int: return int64(t)
    case float64: return int64(t)
    case float32: return int64(t)
    case string:
        if n, err := strconv.ParseInt(t, 10, 64); err == nil { return n }
    }
    return 0
}

func buildRateKey(cfg config.RateLimitConfig, c echo.Context) string {
    parts := []string{cfg.Prefix}
    ip := c.RealIP()
    if ip == "" { ip = "unknown" }
    route := c.Request().Method + " " + c.Path()

    switch strings.ToLower(cfg.KeyStrategy) {
    case "ip":
        parts = append(parts, "ip", ip)
    case "route":
        parts = append(parts, "route", route)
    default:
        parts = append(parts, "ip", ip, "route", route)
    }
    return strings.Join(parts, ":")
}

func tooManyRequests(c echo.Context, retry time.Duration) error {
    secs := int(math.Ceil(retry.Seconds()))
    if secs < 0 { secs = 0 }
    c.Response().Header().Set("Retry-After", strconv.Itoa(secs))
    return c.JSON(http.StatusTooManyRequests, map[string]any{
        "error":       "too_many_requests",
        "message":     "rate limit exceeded",
        "retry_after": secs,
    })
}

type visitor struct {
    limiter  *rate.Limiter
    lastSeen time.Time
}

// memoryBucket is the single-process fallback used when Redis is absent.
type memoryBucket struct {
    cfg      config.RateLimitConfig
    mu       sync.Mutex
    visitors map[string]*visitor
}

func newMemoryBucket(ctx context.Context, cfg config.RateLimitConfig) echo.MiddlewareFunc {
    if cfg.Capacity < 1 { cfg.Capacity = 1 }
    if cfg.RefillTokens < 1 { cfg.RefillTokens = 1 }
    if cfg.RefillInterval <= 0 { cfg.RefillInterval = time.Second }
    mb := &memoryBucket{cfg: cfg, visitors: make(map[string]*visitor)}
    go mb.janitor(ctx, time.Minute)

    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) error {
            lim := mb.limiter(buildRateKey(cfg, c))
            res := lim.Reserve()
            delay := res.Delay()
            if delay > 0 {
                res.Cancel()
            }

            c.Response().Header().Set("X-RateLimit-Limit", strconv.Itoa(cfg.Capacity))
            c.Response().Header().Set("X-RateLimit-Remaining", strconv.Itoa(int(math.Max(0, lim.Tokens()))))
            if delay > 0 {
                return tooManyRequests(c, delay)
            }
            return next(c)
        }
    }
}

func (mb *memoryBucket) limiter(key string) *rate.Limiter {
    mb.mu.Lock()
    defer mb.mu.Unlock()
    v, ok := mb.visitors[key]
    if !ok {
        every := mb.cfg.RefillInterval / time.Duration(mb.cfg.RefillTokens)
        v = &visitor{limiter: rate.NewLimiter(rate.Every(every), mb.cfg.Capacity)}
        mb.visitors[key] = v
    }
    v.lastSeen = time.Now()
    return v.limiter
}

// janitor drops buckets idle for longer than the configured TTL, every
// interval, until ctx is done.
func (mb *memoryBucket) janitor(ctx context.Context, interval time.Duration) {
    t := time.NewTicker(interval)
    defer t.Stop()
    for {
        select {
        case <-ctx.Done():
            return
        case <-t.C:
            mb.prune(time.Now())
        }
    }
}

func (mb *memoryBucket) prune(now time.Time) {
    mb.mu.Lock()
    defer mb.mu.Unlock()
    for k, v := range mb.visitors {
        if now.Sub(v.lastSeen) > mb.cfg.TTL {
            delete(mb.visitors, k)
        }
    }
}
