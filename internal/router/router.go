package router

import (
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/taskdeck/service-task-go/internal/account"
	"github.com/taskdeck/service-task-go/internal/auth"
	"github.com/taskdeck/service-task-go/internal/task"
	"github.com/taskdeck/service-task-go/internal/token"
	"github.com/taskdeck/service-task-go/pkg/utilities"
)

// loggingResponseWriter wraps http.ResponseWriter to capture status and size.
type loggingResponseWriter struct {
	http.ResponseWriter
	status int
	size   int
}

func (lrw *loggingResponseWriter) WriteHeader(code int) {
	lrw.status = code
	lrw.ResponseWriter.WriteHeader(code)
}

func (lrw *loggingResponseWriter) Write(b []byte) (int, error) {
	if lrw.status == 0 {
		lrw.status = http.StatusOK
	}
	n, err := lrw.ResponseWriter.Write(b)
	lrw.size += n
	return n, err
}

// LoggingMiddleware logs each request at debug level with a snowflake
// correlation id, which is also echoed back in the X-Request-Id header.
func LoggingMiddleware(logger *zap.SugaredLogger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			requestID := utilities.NewRequestID()
			w.Header().Set("X-Request-Id", requestID)
			lrw := &loggingResponseWriter{ResponseWriter: w}
			next.ServeHTTP(lrw, r)
			dur := time.Since(start)
			status := lrw.status
			if status == 0 {
				status = http.StatusOK
			}
			logger.Debugw("http request",
				"request_id", requestID,
				"method", r.Method,
				"path", r.URL.Path,
				"remote", r.RemoteAddr,
				"status", status,
				"duration_ms", float64(dur.Microseconds())/1000.0,
				"size", lrw.size,
			)
		})
	}
}

// SecurityHeadersMiddleware sets common HTTP security headers.
func SecurityHeadersMiddleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("X-Content-Type-Options", "nosniff")
			w.Header().Set("X-Frame-Options", "DENY")
			w.Header().Set("Referrer-Policy", "no-referrer-when-downgrade")
			if r.TLS != nil {
				w.Header().Set("Strict-Transport-Security", "max-age=2592000; includeSubDomains")
			}
			next.ServeHTTP(w, r)
		})
	}
}

// Deps carries the wired services the router mounts.
type Deps struct {
	Accounts *account.Service
	Tasks    *task.Service
	Tokens   *token.Service
	Lookup   auth.Lookup
	Logger   *zap.SugaredLogger
}

// RegisterRoutes mounts all HTTP handlers on a standard library ServeMux.
// Auth routes are public except the profile; every task route sits behind
// the auth gate.
func RegisterRoutes(d Deps) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /task-api/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	accountHandler := account.NewHandler(d.Accounts, d.Logger)
	mux.HandleFunc("POST /task-api/auth/register", accountHandler.Register)
	mux.HandleFunc("POST /task-api/auth/login", accountHandler.Login)
	mux.HandleFunc("POST /task-api/auth/refresh", accountHandler.Refresh)

	requireAuth := auth.RequireAuth(d.Tokens, d.Lookup, d.Logger)
	mux.Handle("GET /task-api/auth/profile", requireAuth(http.HandlerFunc(accountHandler.Profile)))

	taskHandler := task.NewHandler(d.Tasks, d.Logger)
	mux.Handle("GET /task-api/tasks", requireAuth(http.HandlerFunc(taskHandler.List)))
	mux.Handle("POST /task-api/tasks", requireAuth(http.HandlerFunc(taskHandler.Create)))
	mux.Handle("GET /task-api/tasks/{id}", requireAuth(http.HandlerFunc(taskHandler.Get)))
	mux.Handle("PUT /task-api/tasks/{id}", requireAuth(http.HandlerFunc(taskHandler.Update)))
	mux.Handle("DELETE /task-api/tasks/{id}", requireAuth(http.HandlerFunc(taskHandler.Delete)))

	return LoggingMiddleware(d.Logger)(SecurityHeadersMiddleware()(mux))
}
