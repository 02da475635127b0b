package httpapi

import (
	"context"
	"log"
	"net/http"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/entnt-dental/clinic-service/internal/session"
)

type ctxKey string

const principalKey ctxKey = "auth_principal"

// SessionCookieName is the session-scoped cookie carrying the signed
// Principal. No Max-Age is set, so the browser drops it when the session
// ends, which is exactly the ephemeral-slot contract.
const SessionCookieName = "dental-session"

var tracer = otel.Tracer("github.com/entnt-dental/clinic-service/httpapi")

// MetricsRecorder interface for recording auth metrics
type MetricsRecorder interface {
	RecordAuthFailure(ctx context.Context, reason string)
}

// Middleware validates the session cookie and injects the Principal into
// the request context.
func Middleware(codec *session.Codec) func(http.Handler) http.Handler {
	return MiddlewareWithMetrics(codec, nil)
}

// MiddlewareWithMetrics validates the session cookie with metrics recording
func MiddlewareWithMetrics(codec *session.Codec, metrics MetricsRecorder) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			ctx, span := tracer.Start(ctx, "httpapi.Middleware",
				trace.WithSpanKind(trace.SpanKindInternal),
			)
			defer span.End()

			cookie, err := r.Cookie(SessionCookieName)
			if err != nil {
				span.SetStatus(codes.Error, "missing session cookie")
				span.SetAttributes(attribute.String("error.type", "missing_session"))
				if metrics != nil {
					metrics.RecordAuthFailure(ctx, "missing_session")
				}
				respondError(w, http.StatusUnauthorized, "unauthenticated", "No active session")
				return
			}

			pr, err := codec.Parse(cookie.Value)
			if err != nil {
				log.Printf("[ERROR] Session token validation failed: %v", err)
				span.SetStatus(codes.Error, "token validation failed")
				span.SetAttributes(
					attribute.String("error.type", "invalid_token"),
					attribute.String("error.message", err.Error()),
				)
				if metrics != nil {
					metrics.RecordAuthFailure(ctx, "invalid_token")
				}
				respondError(w, http.StatusUnauthorized, "unauthenticated", "Invalid session")
				return
			}

			span.SetAttributes(
				attribute.String("user.id", pr.UserID),
				attribute.String("user.email", pr.Email),
				attribute.String("user.role", string(pr.Role)),
			)
			span.SetStatus(codes.Ok, "authentication successful")

			ctx = context.WithValue(ctx, principalKey, pr)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// FromContext extracts the Principal from context.
func FromContext(ctx context.Context) (*session.Principal, bool) {
	pr, ok := ctx.Value(principalKey).(*session.Principal)
	return pr, ok
}
