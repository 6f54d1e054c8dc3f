package observability

import (
	"log/slog"
	"net/http"

	"ai-samples-api/internal/security"
)

// Audit emits one structured security event per sensitive action (logins,
// user and role mutations, agent tool calls). The actor is taken from the
// request's verified claims; anonymous endpoints log without one. Trace
// correlation comes from the logging handler, which stamps every record
// with the active span context.
func Audit(r *http.Request, event string, attrs ...any) {
	fields := []any{
		"event", event,
		"method", r.Method,
		"path", r.URL.Path,
		"request_id", r.Header.Get("X-Request-Id"),
	}
	if claims, ok := security.ClaimsFromContext(r.Context()); ok {
		fields = append(fields, "actor_id", claims.Subject, "actor_email", claims.Email)
	}
	fields = append(fields, attrs...)
	slog.InfoContext(r.Context(), "audit", fields...)
}
