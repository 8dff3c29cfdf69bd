package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/whoami1432/voosh-authentication/internal/models"
	"github.com/whoami1432/voosh-authentication/internal/services"
)

type contextKey string

const (
	SessionIDKey contextKey = "sessionID"
	ProfileIDKey contextKey = "profileID"
	EmailKey     contextKey = "email"
)

// SessionCookieName is the cookie carrying the signed session token.
const SessionCookieName = "voosh_session"

// EnsureAuthenticated rejects requests without a valid signed session cookie
// backed by a live session record, and attaches the principal to the request
// context.
func EnsureAuthenticated(sessions services.SessionStore, secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(SessionCookieName)
			if err != nil || cookie.Value == "" {
				unauthorized(w)
				return
			}

			sid, err := ParseSessionToken(cookie.Value, secret)
			if err != nil {
				unauthorized(w)
				return
			}

			sess, err := sessions.Get(r.Context(), sid)
			if err != nil {
				unauthorized(w)
				return
			}

			ctx := context.WithValue(r.Context(), SessionIDKey, sess.ID)
			ctx = context.WithValue(ctx, ProfileIDKey, sess.ProfileID.Hex())
			ctx = context.WithValue(ctx, EmailKey, sess.Email)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// NewSessionToken signs a token carrying the session id.
func NewSessionToken(sessionID, secret string, ttl time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"sid": sessionID,
		"exp": time.Now().Add(ttl).Unix(),
		"iat": time.Now().Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// ParseSessionToken verifies the token signature and returns the session id.
func ParseSessionToken(tokenString, secret string) (string, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(secret), nil
	})
	if err != nil || !token.Valid {
		return "", jwt.ErrTokenUnverifiable
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", jwt.ErrTokenInvalidClaims
	}
	sid, ok := claims["sid"].(string)
	if !ok || sid == "" {
		return "", jwt.ErrTokenInvalidClaims
	}
	return sid, nil
}

// GetSessionID extracts the session id from the request context.
func GetSessionID(ctx context.Context) string {
	sid, _ := ctx.Value(SessionIDKey).(string)
	return sid
}

// GetProfileID extracts the authenticated principal's profile id.
func GetProfileID(ctx context.Context) string {
	id, _ := ctx.Value(ProfileIDKey).(string)
	return id
}

// GetEmail extracts the authenticated principal's email.
func GetEmail(ctx context.Context) string {
	email, _ := ctx.Value(EmailKey).(string)
	return email
}

func unauthorized(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	json.NewEncoder(w).Encode(models.MessageResponse{Message: "Unauthorized access."})
}
