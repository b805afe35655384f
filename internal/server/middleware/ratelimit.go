package middleware

import (
	"log/slog"
	"math"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"
)

// RateLimiter ограничивает число запросов с одного адреса в фиксированном окне
type RateLimiter struct {
	windows map[string]*window
	logger  *slog.Logger
	done    chan struct{}
	stop    sync.Once
	limit   int
	period  time.Duration
	mu      sync.Mutex
}

// window счетчик запросов одного клиента
type window struct {
	start time.Time
	count int
}

// NewRateLimiter создает limiter на limit запросов за period
// и запускает фоновую очистку устаревших окон
func NewRateLimiter(limit int, period time.Duration, logger *slog.Logger) *RateLimiter {
	rl := &RateLimiter{
		windows: make(map[string]*window),
		limit:   limit,
		period:  period,
		logger:  logger,
		done:    make(chan struct{}),
	}

	go rl.sweepLoop()

	return rl
}

func (rl *RateLimiter) sweepLoop() {
	ticker := time.NewTicker(rl.period * 2)
	defer ticker.Stop()

	for {
		select {
		case now := <-ticker.C:
			rl.sweep(now)
		case <-rl.done:
			return
		}
	}
}

// sweep удаляет окна, закончившиеся раньше now
func (rl *RateLimiter) sweep(now time.Time) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	for key, w := range rl.windows {
		if now.Sub(w.start) >= rl.period {
			delete(rl.windows, key)
		}
	}
}

// Stop останавливает фоновую очистку
func (rl *RateLimiter) Stop() {
	rl.stop.Do(func() { close(rl.done) })
}

// Allow учитывает запрос клиента key.
// При отказе возвращает время до начала следующего окна.
func (rl *RateLimiter) Allow(key string) (bool, time.Duration) {
	return rl.allowAt(key, time.Now())
}

func (rl *RateLimiter) allowAt(key string, now time.Time) (bool, time.Duration) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	w, ok := rl.windows[key]
	if !ok || now.Sub(w.start) >= rl.period {
		w = &window{start: now}
		rl.windows[key] = w
	}

	if w.count >= rl.limit {
		return false, w.start.Add(rl.period).Sub(now)
	}

	w.count++
	return true, 0
}

// RateLimitMiddleware отвечает 429 с Retry-After, когда клиент исчерпал лимит.
// Владелец limiter отвечает за вызов Stop.
func RateLimitMiddleware(limiter *RateLimiter, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := clientKey(r)

			ok, retryAfter := limiter.Allow(key)
			if !ok {
				logger.WarnContext(r.Context(), "rate limit exceeded",
					slog.String("client", key),
					slog.String("method", r.Method),
					slog.String("path", r.URL.Path),
				)

				seconds := int(math.Ceil(retryAfter.Seconds()))
				w.Header().Set("Retry-After", strconv.Itoa(max(seconds, 1)))
				writeJSONError(w, r, "rate limit exceeded, please try again later", http.StatusTooManyRequests)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// clientKey адрес клиента без порта.
// Заголовки прокси учитываются только через RealIPMiddleware.
func clientKey(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
