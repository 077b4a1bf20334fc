package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/jcabrerra/tvrs/internal/core"
)

// Principal is the authenticated caller extracted from a bearer token.
type Principal struct {
	UserID   string
	Username string
	FullName string
	Role     core.Role
}

type ctxKeyPrincipal struct{}

// IssueToken mints an HS256 token for a user.
func IssueToken(secret []byte, user core.User, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":      user.UserID,
		"username": user.Username,
		"name":     user.FullName,
		"role":     string(user.Role),
		"iat":      now.Unix(),
		"exp":      now.Add(ttl).Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
}

// Auth validates the Authorization bearer token and puts the Principal into
// the request context. Requests without a valid token get 401.
func Auth(secret []byte) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if !strings.HasPrefix(header, "Bearer ") {
				writeAuthError(w, http.StatusUnauthorized, core.ErrUnauthorized, "missing bearer token")
				return
			}
			raw := strings.TrimPrefix(header, "Bearer ")

			token, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
				return secret, nil
			}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
			if err != nil || !token.Valid {
				writeAuthError(w, http.StatusUnauthorized, core.ErrUnauthorized, "invalid token")
				return
			}

			claims, ok := token.Claims.(jwt.MapClaims)
			if !ok {
				writeAuthError(w, http.StatusUnauthorized, core.ErrUnauthorized, "invalid token claims")
				return
			}
			p := Principal{
				UserID:   claimString(claims, "sub"),
				Username: claimString(claims, "username"),
				FullName: claimString(claims, "name"),
				Role:     core.Role(claimString(claims, "role")),
			}
			if p.UserID == "" || !core.ValidRole(p.Role) {
				writeAuthError(w, http.StatusUnauthorized, core.ErrUnauthorized, "invalid token claims")
				return
			}

			ctx := context.WithValue(r.Context(), ctxKeyPrincipal{}, p)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireRole gates a route subtree to the given roles. Runs after Auth.
func RequireRole(roles ...core.Role) func(http.Handler) http.Handler {
	allowed := make(map[core.Role]struct{}, len(roles))
	for _, r := range roles {
		allowed[r] = struct{}{}
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			p, ok := GetPrincipal(r)
			if !ok {
				writeAuthError(w, http.StatusUnauthorized, core.ErrUnauthorized, "missing bearer token")
				return
			}
			if _, ok := allowed[p.Role]; !ok {
				writeAuthError(w, http.StatusForbidden, core.ErrForbidden, "insufficient role")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func GetPrincipal(r *http.Request) (Principal, bool) {
	p, ok := r.Context().Value(ctxKeyPrincipal{}).(Principal)
	return p, ok
}

func claimString(claims jwt.MapClaims, key string) string {
	if v, ok := claims[key].(string); ok {
		return v
	}
	return ""
}

func writeAuthError(w http.ResponseWriter, status int, code core.ErrorCode, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{
		"code":    string(code),
		"message": msg,
	})
}
