package api

import (
	"log/slog"
	"net/http"

	"github.com/erazemk/zaloga/internal/auth"
)

// SessionCookie is the name of the cookie carrying the session token.
const SessionCookie = "session"

// AuthHandler handles registration, login and logout.
type AuthHandler struct {
	Auth         *auth.Authenticator
	SecureCookie bool
}

type credentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Register handles POST /register.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := decodeJSON(w, r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	user, err := h.Auth.Register(r.Context(), req.Username, req.Password)
	if err != nil {
		writeError(w, err, "", "username already exists", "failed to register user")
		return
	}

	slog.Info("user registered", "user", user.Username)
	jsonResponse(w, http.StatusCreated, map[string]any{
		"message": "registered successfully",
		"user":    user,
	})
}

// Login handles POST /login.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := decodeJSON(w, r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	sess, token, err := h.Auth.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		if r.Context().Err() == nil {
			slog.Warn("login failed", "username", req.Username, "remote", r.RemoteAddr)
		}
		writeError(w, err, "", "", "failed to log in")
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    token,
		Path:     "/",
		Expires:  sess.ExpiresAt,
		MaxAge:   int(h.Auth.SessionTTL().Seconds()),
		HttpOnly: true,
		Secure:   h.SecureCookie,
		SameSite: http.SameSiteLaxMode,
	})

	slog.Info("user logged in", "user", req.Username)
	jsonResponse(w, http.StatusCreated, map[string]string{"message": "login successful"})
}

// Logout handles POST /logout.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	sess := GetSession(r.Context())
	if err := h.Auth.Logout(r.Context(), sess); err != nil {
		writeError(w, err, "", "", "failed to log out")
		return
	}

	h.clearCookie(w)
	slog.Info("user logged out", "user_id", sess.UserID)
	jsonResponse(w, http.StatusOK, map[string]string{"message": "logged out successfully"})
}

func (h *AuthHandler) clearCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.SecureCookie,
		SameSite: http.SameSiteLaxMode,
	})
}
