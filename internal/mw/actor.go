package mw

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

type contextKey string

const actorCtxKey contextKey = "actor"

var ErrNoSecret = errors.New("actor secret is not configured")

// ActorClaims identifies the manager acting on a request.
type ActorClaims struct {
	Name string `json:"name"`
	jwt.RegisteredClaims
}

// ActorMiddleware resolves the acting identity. Requests without an
// Authorization header act as fallback. A present but invalid bearer token is
// answered with 401.
func ActorMiddleware(secret, fallback string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" {
				next.ServeHTTP(w, r.WithContext(WithActor(r.Context(), fallback)))
				return
			}

			scheme, token, ok := strings.Cut(header, " ")
			if !ok || !strings.EqualFold(scheme, "Bearer") || token == "" {
				unauthorized(w, "invalid authorization header")
				return
			}

			name, err := ParseActorToken(secret, token)
			if err != nil {
				unauthorized(w, "invalid or expired actor token")
				return
			}

			next.ServeHTTP(w, r.WithContext(WithActor(r.Context(), name)))
		})
	}
}

// ParseActorToken verifies an HS256 token and returns its name claim.
func ParseActorToken(secret, tokenString string) (string, error) {
	if secret == "" {
		return "", ErrNoSecret
	}
	var claims ActorClaims
	token, err := jwt.ParseWithClaims(tokenString, &claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return "", err
	}
	if !token.Valid {
		return "", errors.New("invalid token")
	}
	name := strings.TrimSpace(claims.Name)
	if name == "" {
		return "", errors.New("name claim is empty")
	}
	return name, nil
}

// IssueActorToken signs a token naming the actor. A zero ttl means no expiry.
func IssueActorToken(secret, name string, ttl time.Duration, now time.Time) (string, error) {
	if secret == "" {
		return "", ErrNoSecret
	}
	claims := ActorClaims{
		Name: name,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt: jwt.NewNumericDate(now),
		},
	}
	if ttl > 0 {
		claims.ExpiresAt = jwt.NewNumericDate(now.Add(ttl))
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}

func WithActor(ctx context.Context, name string) context.Context {
	return context.WithValue(ctx, actorCtxKey, name)
}

// Actor returns the acting identity stored by ActorMiddleware.
func Actor(ctx context.Context) (string, bool) {
	name, ok := ctx.Value(actorCtxKey).(string)
	return name, ok && name != ""
}

func unauthorized(w http.ResponseWriter, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": msg, "code": "Unauthorized"})
}
