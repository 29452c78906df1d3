package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"

	"github.com/PaulBabatuyi/security-app-api/internal/apperrors"
	"github.com/PaulBabatuyi/security-app-api/internal/auth"
	"github.com/PaulBabatuyi/security-app-api/internal/data"
)

// context key types for the authenticated identity
type (
	userContextKey   struct{}
	claimsContextKey struct{}
)

// currentUser returns the user resolved by requireAuth.
func currentUser(ctx context.Context) (*data.User, bool) {
	u, ok := ctx.Value(userContextKey{}).(*data.User)
	return u, ok && u != nil
}

// currentClaims returns the verified token claims resolved by requireAuth.
func currentClaims(ctx context.Context) (*auth.Claims, bool) {
	c, ok := ctx.Value(claimsContextKey{}).(*auth.Claims)
	return c, ok && c != nil
}

// bearerToken extracts the token from an "Authorization: Bearer <token>"
// header. The scheme is case-insensitive.
func bearerToken(r *http.Request) (string, bool) {
	header := strings.TrimSpace(r.Header.Get("Authorization"))
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

// resolveIdentity verifies the request's bearer token and loads its user.
func (s *Server) resolveIdentity(r *http.Request) (*data.User, *auth.Claims, error) {
	token, ok := bearerToken(r)
	if !ok {
		return nil, nil, apperrors.New(apperrors.CodeUnauthenticated, "missing bearer token")
	}

	claims, err := s.tokens.VerifyToken(token)
	switch {
	case errors.Is(err, auth.ErrExpiredToken):
		return nil, nil, apperrors.New(apperrors.CodeTokenExpired, "token expired")
	case err != nil:
		return nil, nil, apperrors.New(apperrors.CodeTokenInvalid, "invalid token")
	}

	revoked, err := s.denylist.IsRevoked(r.Context(), claims.TokenID())
	if err != nil {
		return nil, nil, apperrors.Internal(err)
	}
	if revoked {
		return nil, nil, apperrors.New(apperrors.CodeTokenRevoked, "token revoked")
	}

	// An unknown subject is reported as 401, never 404.
	user, err := s.users.GetUserByID(r.Context(), claims.UserID())
	if errors.Is(err, data.ErrNotFound) {
		return nil, nil, apperrors.New(apperrors.CodeUserNotFound, "user not found")
	}
	if err != nil {
		return nil, nil, apperrors.Internal(err)
	}
	return user, claims, nil
}

// requireAuth rejects requests without a valid bearer token and attaches the
// resolved user and claims to the request context.
func (s *Server) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, claims, err := s.resolveIdentity(r)
		if err != nil {
			writeError(w, r, err)
			return
		}
		ctx := context.WithValue(r.Context(), userContextKey{}, user)
		ctx = context.WithValue(ctx, claimsContextKey{}, claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// statusRecorder captures the status code written by a handler.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// loggingMiddleware logs method, path, status and duration of each request.
func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		log.Printf("%s %s %d %s", r.Method, r.URL.Path, rec.status, time.Since(start))
	})
}

// corsMiddleware allows any origin, as the mobile and web clients are served
// from other hosts.
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		origin := r.Header.Get("Origin")
		if origin == "" {
			origin = "*"
		}
		h.Set("Access-Control-Allow-Origin", origin)
		h.Set("Access-Control-Allow-Credentials", "true")
		h.Set("Access-Control-Allow-Methods", "GET, POST, PATCH, OPTIONS")
		h.Set("Access-Control-Allow-Headers", "Accept, Authorization, Content-Type")
		h.Add("Vary", "Origin")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// tracingMiddleware starts a server span per matched route.
func tracingMiddleware(next http.Handler) http.Handler {
	tracer := otel.Tracer("github.com/PaulBabatuyi/security-app-api/cmd/api")
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		route := r.URL.Path
		if cur := mux.CurrentRoute(r); cur != nil {
			if tmpl, err := cur.GetPathTemplate(); err == nil {
				route = tmpl
			}
		}

		ctx := otel.GetTextMapPropagator().Extract(r.Context(), propagation.HeaderCarrier(r.Header))
		ctx, span := tracer.Start(ctx, r.Method+" "+route,
			trace.WithSpanKind(trace.SpanKindServer),
			trace.WithAttributes(
				attribute.String("http.request.method", r.Method),
				attribute.String("http.route", route),
			),
		)
		defer span.End()

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r.WithContext(ctx))

		span.SetAttributes(attribute.Int("http.response.status_code", rec.status))
		if rec.status >= http.StatusInternalServerError {
			span.SetStatus(codes.Error, http.StatusText(rec.status))
		}
	})
}
