// internal/server/middleware.go
package server

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/gorilla/mux"

	"financeflow/internal/common/errors"
	"financeflow/internal/common/metrics"
	"financeflow/internal/models"
)

type contextKey string

const claimsKey contextKey = "claims"

// claimsFrom returns the verified token claims stored by JwtVerify.
func claimsFrom(ctx context.Context) (*models.UserToken, bool) {
	claims, ok := ctx.Value(claimsKey).(*models.UserToken)
	return claims, ok
}

// JwtVerify authenticates requests from the session cookie and stores the
// claims on the request context.
func (a *App) JwtVerify(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(a.cfg.Auth.CookieName)
		if err != nil {
			respondError(w, errors.NewAuthenticationError("missing session"))
			return
		}

		claims := &models.UserToken{}
		token, err := jwt.ParseWithClaims(cookie.Value, claims, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, errors.NewAuthenticationError("unexpected signing method")
			}
			return []byte(a.cfg.Auth.JWTSecret), nil
		})
		if err != nil || !token.Valid {
			respondError(w, errors.NewAuthenticationError("invalid session"))
			return
		}

		ctx := context.WithValue(r.Context(), claimsKey, claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireRole gates a handler on the authenticated role. It must run inside
// JwtVerify.
func RequireRole(role string) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, ok := claimsFrom(r.Context())
			if !ok {
				respondError(w, errors.NewAuthenticationError("missing session"))
				return
			}
			if claims.Role != role {
				respondError(w, errors.NewForbiddenError("insufficient role"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// Instrument records request metrics and a span for every route.
func (a *App) Instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		route := r.URL.Path
		if current := mux.CurrentRoute(r); current != nil {
			if tpl, err := current.GetPathTemplate(); err == nil {
				route = tpl
			}
		}

		ctx := r.Context()
		end := func() {}
		if a.obs != nil {
			ctx, end = a.obs.StartSpan(ctx, r.Method+" "+route)
		}
		defer end()

		recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()
		next.ServeHTTP(recorder, r.WithContext(ctx))
		elapsed := time.Since(start)

		status := strconv.Itoa(recorder.status)
		metrics.HTTPRequestDuration.WithLabelValues(route, r.Method, status).Observe(elapsed.Seconds())
		if a.obs != nil {
			a.obs.RecordRequest(ctx, route, status)
			a.obs.RecordRequestDuration(ctx, elapsed, route)
		}
	})
}
