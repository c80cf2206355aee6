package httpserver

import (
	"context"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"tourix/internal/domain"
)

// Identity is the authenticated caller. Role travels in the token so
// handlers never re-derive it with a lookup.
type Identity struct {
	UserID string
	Role   domain.Role
}

type ctxKey int

const identityKey ctxKey = iota

// Auth validates a Bearer HS256 token and injects the subject and role
// claims into the request context. Token issuance belongs to the identity
// provider; this service only verifies.
func Auth(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
			if !ok {
				writeProblem(w, http.StatusUnauthorized, "Unauthorized", "missing bearer token")
				return
			}

			tok, err := jwt.Parse(raw, func(t *jwt.Token) (any, error) {
				if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, jwt.ErrSignatureInvalid
				}
				return []byte(secret), nil
			})
			if err != nil || !tok.Valid {
				writeProblem(w, http.StatusUnauthorized, "Unauthorized", "invalid token")
				return
			}
			claims, ok := tok.Claims.(jwt.MapClaims)
			if !ok {
				writeProblem(w, http.StatusUnauthorized, "Unauthorized", "invalid claims")
				return
			}
			sub, _ := claims["sub"].(string)
			if sub == "" {
				writeProblem(w, http.StatusUnauthorized, "Unauthorized", "missing subject")
				return
			}
			role, _ := claims["role"].(string)
			if role == "" {
				role = string(domain.RoleUser)
			}

			id := Identity{UserID: sub, Role: domain.Role(role)}
			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), identityKey, id)))
		})
	}
}

// RequireRole gates a subtree on the caller's role claim.
func RequireRole(role domain.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id, ok := IdentityFrom(r.Context())
			if !ok {
				writeProblem(w, http.StatusUnauthorized, "Unauthorized", "not authenticated")
				return
			}
			if id.Role != role {
				writeProblem(w, http.StatusForbidden, "Forbidden", "insufficient role")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func IdentityFrom(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(identityKey).(Identity)
	return id, ok
}
