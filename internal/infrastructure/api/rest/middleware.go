package rest

import (
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/dashql/dashql/internal/infrastructure/authutil"
)

// responseWriter wraps http.ResponseWriter to capture the status code for
// logging.
type responseWriter struct {
	http.ResponseWriter
	statusCode int
	written    int64
}

func newResponseWriter(w http.ResponseWriter) *responseWriter {
	return &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
}

func (rw *responseWriter) WriteHeader(statusCode int) {
	rw.statusCode = statusCode
	rw.ResponseWriter.WriteHeader(statusCode)
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	n, err := rw.ResponseWriter.Write(b)
	rw.written += int64(n)
	return n, err
}

func loggingMiddleware(logger zerolog.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rw := newResponseWriter(w)
		next.ServeHTTP(rw, r)
		logger.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Str("remote_addr", r.RemoteAddr).
			Int("status", rw.statusCode).
			Dur("duration", time.Since(start)).
			Int64("bytes_written", rw.written).
			Msg("http request")
	})
}

func recoveryMiddleware(logger zerolog.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if err := recover(); err != nil {
				logger.Error().
					Interface("panic", err).
					Str("method", r.Method).
					Str("path", r.URL.Path).
					Msg("panic recovered")
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusInternalServerError)
				w.Write([]byte(`{"error":"internal server error"}`))
			}
		}()
		next.ServeHTTP(w, r)
	})
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS, PATCH")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Requested-With")
		w.Header().Set("Access-Control-Max-Age", "3600")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func contentTypeMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		next.ServeHTTP(w, r)
	})
}

// rateLimiter implements a simple fixed-window-per-IP rate limit.
type rateLimiter struct {
	requests map[string][]time.Time
	limit    int
	window   time.Duration
}

func newRateLimiter(limit int, window time.Duration) *rateLimiter {
	return &rateLimiter{requests: make(map[string][]time.Time), limit: limit, window: window}
}

func (rl *rateLimiter) middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := r.RemoteAddr
		now := time.Now()
		windowStart := now.Add(-rl.window)

		if requests, ok := rl.requests[key]; ok {
			valid := make([]time.Time, 0, len(requests))
			for _, t := range requests {
				if t.After(windowStart) {
					valid = append(valid, t)
				}
			}
			rl.requests[key] = valid
		}

		if len(rl.requests[key]) >= rl.limit {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusTooManyRequests)
			w.Write([]byte(`{"error":"rate limit exceeded"}`))
			return
		}

		rl.requests[key] = append(rl.requests[key], now)
		next.ServeHTTP(w, r)
	})
}

// authMiddleware implements bearer/X-API-Key authentication against a
// fixed set of keys, held as bcrypt hashes rather than plaintext so a
// memory dump or log line never discloses a usable key; an empty set
// disables auth entirely (local dev).
type authMiddleware struct {
	keyHashes []string
}

func newAuthMiddleware(apiKeys []string) *authMiddleware {
	hashes := make([]string, 0, len(apiKeys))
	for _, key := range apiKeys {
		if hash, err := authutil.HashAPIKey(key); err == nil {
			hashes = append(hashes, hash)
		}
	}
	return &authMiddleware{keyHashes: hashes}
}

func (am *authMiddleware) middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodOptions || len(am.keyHashes) == 0 {
			next.ServeHTTP(w, r)
			return
		}

		apiKey := r.Header.Get("X-API-Key")
		if apiKey == "" {
			if auth := r.Header.Get("Authorization"); len(auth) > 7 && auth[:7] == "Bearer " {
				apiKey = auth[7:]
			}
		}

		if !am.verify(apiKey) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte(`{"error":"invalid or missing API key"}`))
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (am *authMiddleware) verify(apiKey string) bool {
	if apiKey == "" {
		return false
	}
	for _, hash := range am.keyHashes {
		if authutil.VerifyAPIKey(hash, apiKey) {
			return true
		}
	}
	return false
}
