package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
)

// actorHolder is seeded by the request logger before auth runs and filled
// in by AuthMiddleware once the bearer token is verified, so the access
// line can name the caller even though logging wraps the whole chain.
type actorHolder struct {
	mu      sync.Mutex
	subject string
}

type actorHolderKey struct{}

func recordActor(ctx context.Context, subject string) {
	h, ok := ctx.Value(actorHolderKey{}).(*actorHolder)
	if !ok {
		return
	}
	h.mu.Lock()
	h.subject = subject
	h.mu.Unlock()
}

func (h *actorHolder) get() string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.subject
}

// StructuredRequestLogger emits one slog line per request. Authenticated
// calls carry the caller's subject claim so API access lines line up with
// audit events. Health probe traffic logs at debug to keep liveness and
// readiness polling out of the default stream.
func StructuredRequestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		holder := &actorHolder{}
		r = r.WithContext(context.WithValue(r.Context(), actorHolderKey{}, holder))
		ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}

		route := ""
		if rc := chi.RouteContext(r.Context()); rc != nil {
			route = rc.RoutePattern()
		}

		fields := []any{
			"method", r.Method,
			"path", r.URL.Path,
			"route", route,
			"status", status,
			"bytes", ww.BytesWritten(),
			"duration_ms", float64(time.Since(start).Microseconds()) / 1000.0,
			"request_id", chimiddleware.GetReqID(r.Context()),
			"client_ip", r.RemoteAddr,
			"user_agent", r.UserAgent(),
		}
		if actor := holder.get(); actor != "" {
			fields = append(fields, "actor_id", actor)
		}

		level := slog.LevelInfo
		switch {
		case status >= http.StatusInternalServerError:
			level = slog.LevelError
		case status >= http.StatusBadRequest:
			level = slog.LevelWarn
		case strings.HasPrefix(r.URL.Path, "/health/"):
			level = slog.LevelDebug
		}
		slog.Log(r.Context(), level, "http.request", fields...)
	})
}
