package middleware

import (
    "bytes"
    "context"
    "crypto/sha1"
    "encoding/json"
    "errors"
    "fmt"
    "log"
    "net/http"
    "strings"
    "time"

    "github.com/labstack/echo/v4"
    "github.com/redis/go-redis/v9"

    "github.com/iliyamo/hotel-reservation/internal/config"
)

// bodyRecorder tees the response body into a buffer, up to limit bytes,
// while it is written to the client.
type bodyRecorder struct {
    http.ResponseWriter
    status    int
    buf       bytes.Buffer
    limit     int64
    truncated bool
}

func (w *bodyRecorder) WriteHeader(code int) {
    w.status = code
    w.ResponseWriter.WriteHeader(code)
}

func (w *bodyRecorder) Write(b []byte) (int, error) {
    if !w.truncated {
        if w.limit > 0 && int64(w.buf.Len()+len(b)) > w.limit {
            w.truncated = true // too large to cache
            w.buf.Reset()
        } else {
            w.buf.Write(b)
        }
    }
    return w.ResponseWriter.Write(b)
}

// cachedResponse is the value stored under a cache key.
type cachedResponse struct {
    Status int         `json:"status"`
    Header http.Header `json:"header"`
    Body   []byte      `json:"body"`
}

// generationKey holds the counter that CachePurger bumps. Every cache key
// embeds the generation read at the start of its request, so a response
// computed before a purge is stored under a generation nobody reads again.
func generationKey(prefix string) string { return prefix + ":gen" }

// currentGeneration returns the live generation, "0" before the first purge.
func currentGeneration(ctx context.Context, rdb *redis.Client, prefix string) (string, error) {
    gen, err := rdb.Get(ctx, generationKey(prefix)).Result()
    if errors.Is(err, redis.Nil) {
        return "0", nil
    }
    return gen, err
}

// cacheKeyFrom hashes route and query under the prefix and generation.
func cacheKeyFrom(cfg config.CacheConfig, gen string, c echo.Context) string {
    tail := strings.Join([]string{"route", c.Path(), "q", c.Request().URL.RawQuery}, ":")
    sum := sha1.Sum([]byte(tail))
    return fmt.Sprintf("%s:g%s:%x", cfg.Prefix, gen, sum[:])
}

// NewRedisCache caches successful responses in Redis, headers included, so a
// hit is byte-identical to the first response. It is mounted on the
// calendar route; reservation writes invalidate it through CachePurger.
func NewRedisCache(cfg config.CacheConfig, rdb *redis.Client) echo.MiddlewareFunc {
    if !cfg.Enabled || rdb == nil {
        return func(next echo.HandlerFunc) echo.HandlerFunc { return next }
    }
    ttl := cfg.TTL
    if ttl <= 0 {
        ttl = 5 * time.Minute
    }

    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) error {
            if !cfg.Methods[strings.ToUpper(c.Request().Method)] {
                return next(c)
            }
            ctx := c.Request().Context()
            gen, err := currentGeneration(ctx, rdb, cfg.Prefix)
            if err != nil {
                return next(c) // cannot tell whether an entry is current
            }
            key := cacheKeyFrom(cfg, gen, c)

            if raw, err := rdb.Get(ctx, key).Bytes(); err == nil {
                var hit cachedResponse
                if err := json.Unmarshal(raw, &hit); err == nil {
                    h := c.Response().Header()
                    for k, vals := range hit.Header {
                        if strings.EqualFold(k, echo.HeaderContentLength) {
                            continue
                        }
                        h[k] = append([]string(nil), vals...)
                    }
                    h.Set("X-Cache", "HIT")
                    c.Response().WriteHeader(hit.Status)
                    _, err := c.Response().Write(hit.Body)
                    return err
                }
            }

            rec := &bodyRecorder{ResponseWriter: c.Response().Writer, status: http.StatusOK, limit: int64(cfg.MaxBodyBytes)}
            c.Response().Writer = rec
            c.Response().Header().Set("X-Cache", "MISS")
            if err := next(c); err != nil {
                return err
            }
            if rec.status != http.StatusOK || rec.truncated {
                return nil
            }
            entry := cachedResponse{Status: rec.status, Header: c.Response().Header().Clone(), Body: rec.buf.Bytes()}
            entry.Header.Del("X-Cache")
            payload, err := json.Marshal(entry)
            if err != nil {
                return nil
            }
            // the request context may already be done once the client has its answer
            if err := rdb.Set(context.WithoutCancel(ctx), key, payload, ttl).Err(); err != nil {
                log.Printf("cache: store %s failed: %v", key, err)
            }
            return nil
        }
    }
}

// CachePurger invalidates every cached response under a prefix by moving
// to a new generation. Entries of older generations are never read again
// and expire with their TTL. A nil client makes Purge a no-op.
type CachePurger struct {
    rdb    *redis.Client
    prefix string
}

// NewCachePurger returns a purger for keys written by NewRedisCache with the
// same prefix.
func NewCachePurger(cfg config.CacheConfig, rdb *redis.Client) *CachePurger {
    return &CachePurger{rdb: rdb, prefix: cfg.Prefix}
}

// Purge bumps the generation counter.
func (p *CachePurger) Purge(ctx context.Context) error {
    if p == nil || p.rdb == nil {
        return nil
    }
    return p.rdb.Incr(ctx, generationKey(p.prefix)).Err()
}
