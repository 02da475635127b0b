package httpapi

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/entnt-dental/clinic-service/internal/session"
)

// AuthHandler exposes login, logout and session restore over HTTP. The
// signed session cookie plays the role of the ephemeral per-tab slot.
type AuthHandler struct {
	sessions *session.Manager
	codec    *session.Codec
	metrics  MetricsRecorder
}

func NewAuthHandler(sessions *session.Manager, codec *session.Codec, metrics MetricsRecorder) *AuthHandler {
	return &AuthHandler{sessions: sessions, codec: codec, metrics: metrics}
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type SessionResponse struct {
	Authenticated bool               `json:"authenticated"`
	User          *session.Principal `json:"user,omitempty"`
}

// Login validates credentials and starts a session.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "Invalid JSON payload: "+err.Error())
		return
	}
	if req.Email == "" || req.Password == "" {
		respondError(w, http.StatusBadRequest, "validation_error", "Email and password are required")
		return
	}

	principal, err := h.sessions.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, session.ErrInvalidCredentials) {
			if h.metrics != nil {
				h.metrics.RecordAuthFailure(r.Context(), "invalid_credentials")
			}
			respondError(w, http.StatusUnauthorized, "invalid_credentials", "Invalid email or password")
			return
		}
		respondError(w, http.StatusInternalServerError, "login_failed", err.Error())
		return
	}

	token, err := h.codec.Mint(*principal)
	if err != nil {
		log.Printf("[ERROR] Failed to mint session token: %v", err)
		respondError(w, http.StatusInternalServerError, "login_failed", "Failed to create session")
		return
	}

	// Session-scoped: no Max-Age, the cookie dies with the browser session.
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	respondJSON(w, http.StatusOK, SessionResponse{
		Authenticated: true,
		User:          principal,
	})
}

// Logout clears the active session and expires the cookie.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	h.sessions.Logout()

	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   -1,
	})

	respondJSON(w, http.StatusOK, SessionResponse{Authenticated: false})
}

// Session restores the Principal from the session cookie. A missing or
// unparseable cookie is not an error, just an unauthenticated session;
// an unparseable cookie is additionally expired so the client stops
// sending it.
func (h *AuthHandler) Session(w http.ResponseWriter, r *http.Request) {
	cookie, err := r.Cookie(SessionCookieName)
	if err != nil {
		respondJSON(w, http.StatusOK, SessionResponse{Authenticated: false})
		return
	}

	principal, err := h.codec.Parse(cookie.Value)
	if err != nil {
		log.Printf("[ERROR] Discarding unparseable session cookie: %v", err)
		http.SetCookie(w, &http.Cookie{
			Name:     SessionCookieName,
			Value:    "",
			Path:     "/",
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
			MaxAge:   -1,
		})
		respondJSON(w, http.StatusOK, SessionResponse{Authenticated: false})
		return
	}

	respondJSON(w, http.StatusOK, SessionResponse{
		Authenticated: true,
		User:          principal,
	})
}
