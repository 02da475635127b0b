package httpapi

import (
	"net/http"
	"os"
	"strings"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"gopkg.in/yaml.v3"

	"github.com/entnt-dental/clinic-service/internal/session"
)

// Permissions maps role -> []permission
type Permissions map[string][]string

type permissionsFile struct {
	Roles map[string][]string `yaml:"roles"`
}

// LoadPermissions loads a permissions.yml file and returns a role->permissions map.
func LoadPermissions(path string) (Permissions, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var pf permissionsFile
	if err := yaml.Unmarshal(b, &pf); err != nil {
		return nil, err
	}
	return Permissions(pf.Roles), nil
}

// DefaultPermissions is the built-in role map, used when no permissions
// file is configured. Admin manages everything; Patient only views, and
// the handlers additionally restrict Patient access to its own records.
func DefaultPermissions() Permissions {
	return Permissions{
		"ADMIN": {
			"patient:view", "patient:manage",
			"incident:view", "incident:manage",
			"dashboard:view",
		},
		"PATIENT": {
			"patient:view", "incident:view", "portal:view",
		},
	}
}

// RequirePermission returns middleware that ensures the principal's role
// grants the permission.
func RequirePermission(per string, perms Permissions) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			ctx, span := tracer.Start(ctx, "httpapi.RequirePermission",
				trace.WithSpanKind(trace.SpanKindInternal),
				trace.WithAttributes(attribute.String("permission.required", per)),
			)
			defer span.End()

			pr, ok := FromContext(ctx)
			if !ok {
				span.SetStatus(codes.Error, "unauthenticated")
				respondError(w, http.StatusUnauthorized, "unauthenticated", "User not authenticated")
				return
			}

			allowed := HasPermission(pr, per, perms)
			span.SetAttributes(
				attribute.Bool("permission.allowed", allowed),
				attribute.String("user.id", pr.UserID),
				attribute.String("user.role", string(pr.Role)),
			)

			if !allowed {
				span.SetStatus(codes.Error, "forbidden")
				respondError(w, http.StatusForbidden, "forbidden", "Insufficient permissions")
				return
			}

			span.SetStatus(codes.Ok, "permission granted")
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// HasPermission checks the role -> permissions mapping. Role lookup is
// case-insensitive so principal roles ("Admin") match the permissions
// file keys ("ADMIN").
func HasPermission(pr *session.Principal, permission string, perms Permissions) bool {
	role := string(pr.Role)
	pList, ok := perms[role]
	if !ok {
		pList, ok = perms[strings.ToUpper(role)]
	}
	if !ok {
		return false
	}
	for _, p := range pList {
		if p == permission {
			return true
		}
	}
	return false
}
