package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/whoami1432/voosh-authentication/internal/middleware"
	"github.com/whoami1432/voosh-authentication/internal/models"
	"github.com/whoami1432/voosh-authentication/internal/services"
)

const (
	stateCookieName = "voosh_oauth_state"
	stateCookieTTL  = 10 * time.Minute
	authFailPath    = "/api/v1/user/authfail"
)

// AuthHandler drives the Google OAuth login handshake and the session
// lifecycle around it.
type AuthHandler struct {
	profiles   *services.ProfileService
	sessions   services.SessionStore
	provider   services.IdentityProvider
	secret     string
	sessionTTL time.Duration
	logger     *zap.Logger
}

func NewAuthHandler(profiles *services.ProfileService, sessions services.SessionStore, provider services.IdentityProvider, secret string, sessionTTL time.Duration, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		profiles:   profiles,
		sessions:   sessions,
		provider:   provider,
		secret:     secret,
		sessionTTL: sessionTTL,
		logger:     logger,
	}
}

// Login redirects the caller into Google's consent page with a state nonce.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	state := uuid.NewString()
	http.SetCookie(w, &http.Cookie{
		Name:     stateCookieName,
		Value:    state,
		Path:     "/",
		MaxAge:   int(stateCookieTTL.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	http.Redirect(w, r, h.provider.AuthCodeURL(state), http.StatusFound)
}

// Callback is the provider redirect target. A returned identity whose email
// has no registered profile is rejected and the session state destroyed;
// otherwise a session is established and the caller redirected home.
func (h *AuthHandler) Callback(w http.ResponseWriter, r *http.Request) {
	stateCookie, err := r.Cookie(stateCookieName)
	clearCookie(w, stateCookieName)
	if err != nil || stateCookie.Value == "" || stateCookie.Value != r.URL.Query().Get("state") {
		http.Redirect(w, r, authFailPath, http.StatusFound)
		return
	}

	code := r.URL.Query().Get("code")
	if code == "" {
		http.Redirect(w, r, authFailPath, http.StatusFound)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	gu, err := h.provider.Exchange(ctx, code)
	if err != nil {
		h.logger.Warn("google code exchange failed",
			zap.String("request_id", chimw.GetReqID(r.Context())),
			zap.Error(err),
		)
		http.Redirect(w, r, authFailPath, http.StatusFound)
		return
	}

	profile, err := h.profiles.HasProfileForEmail(ctx, gu.Email)
	if errors.Is(err, services.ErrProfileNotFound) {
		clearCookie(w, middleware.SessionCookieName)
		writeJSON(w, http.StatusUnauthorized, models.MessageResponse{Message: "Please Register"})
		return
	}
	if err != nil {
		h.logError(r, "profile lookup during login failed", err)
		writeServerError(w)
		return
	}

	now := time.Now().UTC()
	sess := &models.Session{
		ID:        uuid.NewString(),
		ProfileID: profile.ID,
		Email:     profile.Email,
		CreatedAt: now,
		ExpiresAt: now.Add(h.sessionTTL),
	}
	if err := h.sessions.Create(ctx, sess); err != nil {
		h.logError(r, "session create failed", err)
		writeServerError(w)
		return
	}

	token, err := middleware.NewSessionToken(sess.ID, h.secret, h.sessionTTL)
	if err != nil {
		h.logError(r, "session token signing failed", err)
		writeServerError(w)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(h.sessionTTL.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	http.Redirect(w, r, "/", http.StatusFound)
}

// Logout destroys the server-side session and clears the cookie. Session
// store failures surface to the caller instead of being swallowed.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	h.logger.Info("user logout request received",
		zap.String("request_id", chimw.GetReqID(r.Context())),
		zap.String("ip", r.RemoteAddr),
	)

	if cookie, err := r.Cookie(middleware.SessionCookieName); err == nil && cookie.Value != "" {
		if sid, err := middleware.ParseSessionToken(cookie.Value, h.secret); err == nil {
			ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
			defer cancel()
			if err := h.sessions.Delete(ctx, sid); err != nil {
				h.logError(r, "session destroy failed", err)
				writeServerError(w)
				return
			}
		}
	}

	clearCookie(w, middleware.SessionCookieName)
	writeJSON(w, http.StatusOK, models.MessageResponse{Message: "Logout Successfully."})
}

func (h *AuthHandler) AuthFail(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusUnauthorized, models.MessageResponse{Message: "Unauthorized access"})
}

func (h *AuthHandler) logError(r *http.Request, msg string, err error) {
	h.logger.Error(msg,
		zap.String("request_id", chimw.GetReqID(r.Context())),
		zap.Error(err),
	)
}

func clearCookie(w http.ResponseWriter, name string) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})
}
