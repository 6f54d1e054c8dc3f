package middleware

import (
	"net/http"
	"strings"

	"ai-samples-api/internal/http/response"
	"ai-samples-api/internal/observability"
	"ai-samples-api/internal/security"
)

// AuthMiddleware authenticates the request from the Authorization bearer
// token and stores the parsed claims on the context.
func AuthMiddleware(jwtMgr *security.JWTManager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := ""
			auth := r.Header.Get("Authorization")
			if strings.HasPrefix(strings.ToLower(auth), "bearer ") {
				raw = strings.TrimSpace(auth[7:])
			}
			if raw == "" {
				observability.RecordTokenValidation(r.Context(), "missing")
				response.Problem(w, r, http.StatusUnauthorized, "missing access token")
				return
			}
			claims, err := jwtMgr.Parse(raw)
			if err != nil {
				observability.RecordTokenValidation(r.Context(), "invalid")
				observability.Audit(r, "auth.token.rejected", "reason", err.Error())
				response.Problem(w, r, http.StatusUnauthorized, "invalid access token")
				return
			}
			observability.RecordTokenValidation(r.Context(), "valid")
			recordActor(r.Context(), claims.Subject)
			next.ServeHTTP(w, r.WithContext(security.ContextWithClaims(r.Context(), claims)))
		})
	}
}

// RequireRole guards a route group behind a role claim. Unauthenticated
// requests get 401, authenticated ones without the role get 403.
func RequireRole(role string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, ok := security.ClaimsFromContext(r.Context())
			if !ok {
				response.Problem(w, r, http.StatusUnauthorized, "missing auth context")
				return
			}
			if !claims.HasRole(role) {
				observability.Audit(r, "auth.role.denied", "user_id", claims.Subject, "required_role", role)
				response.Problem(w, r, http.StatusForbidden, "insufficient permissions")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
