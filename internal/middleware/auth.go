package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"github.com/marelvy/linkpulse/internal/errors"
	"github.com/marelvy/linkpulse/internal/logger"
)

// Auth verifies a Bearer JWT (HS256) and puts the subject claim into
// the request context as the owner ID. Nothing else about the identity
// provider leaks past this middleware.
func Auth(secret []byte, log *logger.Logger) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw, ok := bearerToken(r)
			if !ok {
				errors.Unauthorized("Missing bearer token").WriteJSON(w)
				return
			}

			claims := &jwt.RegisteredClaims{}
			token, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (any, error) {
				if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
				}
				return secret, nil
			})
			if err != nil || !token.Valid || claims.Subject == "" {
				log.Debug("rejected token",
					"request_id", getRequestID(r.Context()),
					"error", fmt.Sprint(err),
				)
				errors.Unauthorized("Invalid or expired token").WriteJSON(w)
				return
			}

			ctx := WithOwnerID(r.Context(), claims.Subject)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func bearerToken(r *http.Request) (string, bool) {
	authz := r.Header.Get("Authorization")
	token, ok := strings.CutPrefix(authz, "Bearer ")
	if !ok || token == "" {
		return "", false
	}
	return token, true
}

// WithOwnerID returns ctx carrying the authenticated owner ID. Exposed
// so handler tests can stand in for the full middleware.
func WithOwnerID(ctx context.Context, ownerID string) context.Context {
	return context.WithValue(ctx, ownerIDKey, ownerID)
}

// OwnerID returns the authenticated owner ID, if any.
func OwnerID(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(ownerIDKey).(string)
	return id, ok && id != ""
}
