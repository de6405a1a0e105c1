package a2a

import (
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/calagent/calagent/internal/logging"
)

// SessionClaims are the JWT claims carried by a session token.
type SessionClaims struct {
	jwt.RegisteredClaims
}

// NewSessionToken mints an HS256 session token for a subject; used by
// operators to hand out bearer tokens for the endpoint.
func NewSessionToken(secret, subject string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := SessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}

// ParseSessionToken validates an HS256 session token and returns its
// claims.
func ParseSessionToken(secret, tokenString string) (*SessionClaims, error) {
	claims := &SessionClaims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (any, error) {
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	if err != nil {
		return nil, fmt.Errorf("invalid session token: %w", err)
	}
	return claims, nil
}

// AuthMiddleware enforces bearer JWT auth on the wrapped handler. An
// empty secret disables enforcement; the agent card is always exempt
// so discovery keeps working.
func AuthMiddleware(secret string, next http.Handler) http.Handler {
	if secret == "" {
		return next
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == agentCardPath {
			next.ServeHTTP(w, r)
			return
		}

		header := r.Header.Get("Authorization")
		tokenString, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || tokenString == "" {
			w.Header().Set("WWW-Authenticate", `Bearer realm="calagent"`)
			http.Error(w, "authorization required", http.StatusUnauthorized)
			return
		}

		claims, err := ParseSessionToken(secret, tokenString)
		if err != nil {
			slog.Warn("rejected bearer token", logging.Err(err))
			w.Header().Set("WWW-Authenticate", `Bearer realm="calagent", error="invalid_token"`)
			http.Error(w, "invalid token", http.StatusUnauthorized)
			return
		}

		if claims.Subject != "" {
			slog.Debug("authenticated request", logging.UserHash(claims.Subject))
		}
		next.ServeHTTP(w, r)
	})
}
