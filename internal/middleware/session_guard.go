package middleware

import (
	"context"
	"encoding/json"
	"net/http"

	"pet-adoption-web/internal/domain/session"
	"pet-adoption-web/internal/ports/auth"
	"pet-adoption-web/internal/ports/capabilities"
)

type ctxKey string

const claimsKey ctxKey = "claims"

// AuthSliceFor devuelve el slice de auth de la sesión del request.
type AuthSliceFor func(r *http.Request) *session.Slice

type guardResponse struct {
	Message string `json:"message"`
	Guard   string `json:"guard"`
}

// RequireSession es el guard de rutas privadas:
// - verificación de sesión sin terminar => 503 (el cliente reintenta)
// - sin usuario => 401
// - rol sin alguna de las capabilities pedidas => 403
// Si pasa, deja los claims del usuario en el contexto.
func RequireSession(sliceFor AuthSliceFor, resolver capabilities.CapabilitiesResolver, need ...capabilities.Capability) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			s := sliceFor(r)
			switch s.Guard() {
			case session.GuardPending:
				w.Header().Set("Retry-After", "1")
				writeGuard(w, http.StatusServiceUnavailable, "session check in progress", session.GuardPending)
				return
			case session.GuardAnonymous:
				writeGuard(w, http.StatusUnauthorized, "unauthorized", session.GuardAnonymous)
				return
			}

			u, ok := s.User()
			if !ok {
				writeGuard(w, http.StatusUnauthorized, "unauthorized", session.GuardAnonymous)
				return
			}

			for _, c := range need {
				has, err := resolver.Has(r.Context(), string(u.Role), c)
				if err != nil || !has {
					writeGuard(w, http.StatusForbidden, "forbidden", session.GuardForbidden)
					return
				}
			}

			claims := auth.Claims{UserID: u.ID, Email: u.Email, Role: string(u.Role)}
			ctx := context.WithValue(r.Context(), claimsKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func GetClaims(ctx context.Context) (auth.Claims, bool) {
	v := ctx.Value(claimsKey)
	if v == nil {
		return auth.Claims{}, false
	}
	c, ok := v.(auth.Claims)
	return c, ok
}

// WithClaims se usa en tests de handlers que corren sin guard.
func WithClaims(ctx context.Context, c auth.Claims) context.Context {
	return context.WithValue(ctx, claimsKey, c)
}

func writeGuard(w http.ResponseWriter, status int, msg string, g session.GuardResult) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(guardResponse{Message: msg, Guard: g.String()})
}
