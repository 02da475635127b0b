package httpapi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/entnt-dental/clinic-service/internal/session"
	"github.com/entnt-dental/clinic-service/internal/store"
)

func TestMiddleware_ValidCookieInjectsPrincipal(t *testing.T) {
	codec := session.NewCodecWithKey([]byte("test-key"))
	token, err := codec.Mint(session.Principal{UserID: "2", Role: store.RolePatient, Email: "john@entnt.in", PatientID: "p1"})
	if err != nil {
		t.Fatalf("Mint failed: %v", err)
	}

	var got *session.Principal
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, _ = FromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest("GET", "/incidents", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: token})
	rec := httptest.NewRecorder()

	Middleware(codec)(next).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
	if got == nil || got.PatientID != "p1" {
		t.Errorf("Expected principal in context, got %+v", got)
	}
}

func TestMiddleware_MissingCookie(t *testing.T) {
	codec := session.NewCodecWithKey([]byte("test-key"))
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("Handler must not be reached without a session")
	})

	req := httptest.NewRequest("GET", "/incidents", nil)
	rec := httptest.NewRecorder()

	Middleware(codec)(next).ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("Expected 401, got %d", rec.Code)
	}
}

func TestMiddleware_InvalidToken(t *testing.T) {
	codec := session.NewCodecWithKey([]byte("test-key"))
	other := session.NewCodecWithKey([]byte("other-key"))
	token, err := other.Mint(session.Principal{UserID: "1", Role: store.RoleAdmin, Email: "admin@entnt.in"})
	if err != nil {
		t.Fatalf("Mint failed: %v", err)
	}

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("Handler must not be reached with a forged token")
	})

	req := httptest.NewRequest("GET", "/incidents", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: token})
	rec := httptest.NewRecorder()

	Middleware(codec)(next).ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("Expected 401, got %d", rec.Code)
	}
}

// failureRecorder implements MetricsRecorder for testing
type failureRecorder struct {
	reasons []string
}

func (f *failureRecorder) RecordAuthFailure(ctx context.Context, reason string) {
	f.reasons = append(f.reasons, reason)
}

func TestMiddlewareWithMetrics_RecordsFailure(t *testing.T) {
	codec := session.NewCodecWithKey([]byte("test-key"))
	recorder := &failureRecorder{}

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {})
	req := httptest.NewRequest("GET", "/incidents", nil)
	rec := httptest.NewRecorder()

	MiddlewareWithMetrics(codec, recorder)(next).ServeHTTP(rec, req)

	if len(recorder.reasons) != 1 || recorder.reasons[0] != "missing_session" {
		t.Errorf("Expected missing_session failure recorded, got %v", recorder.reasons)
	}
}
