// ABOUTME: Browser session tokens for the admin login flow
// ABOUTME: HS256 JWTs signed with a per-process secret, so sessions die with the process

package authgate

import (
	"crypto/rand"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// SessionCookieName is the name of the login session cookie.
const SessionCookieName = "push_notifier_session"

// SessionDuration is how long a login session lasts.
const SessionDuration = 12 * time.Hour

// Session errors
var (
	ErrInvalidSession = errors.New("invalid session")
	ErrExpiredSession = errors.New("session expired")
)

// SessionManager issues and verifies login session tokens. The signing secret
// is generated at construction and never persisted, which bounds every
// session's lifetime to the process.
type SessionManager struct {
	secret []byte
}

// NewSessionManager creates a SessionManager with a random signing secret.
func NewSessionManager() (*SessionManager, error) {
	secret := make([]byte, 32)
	if _, err := rand.Read(secret); err != nil {
		return nil, fmt.Errorf("generating session secret: %w", err)
	}
	return &SessionManager{secret: secret}, nil
}

// Issue creates a signed session token for the admin user.
func (m *SessionManager) Issue() (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub": "admin",
		"iat": now.Unix(),
		"exp": now.Add(SessionDuration).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.secret)
}

// Verify validates a session token.
func (m *SessionManager) Verify(tokenString string) error {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		// Validate the signing method is HS256
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return m.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return ErrExpiredSession
		}
		return fmt.Errorf("%w: %v", ErrInvalidSession, err)
	}
	if !token.Valid {
		return ErrInvalidSession
	}

	return nil
}

// LoggedIn reports whether the request carries a valid session cookie.
func (m *SessionManager) LoggedIn(r *http.Request) bool {
	cookie, err := r.Cookie(SessionCookieName)
	if err != nil {
		return false
	}
	return m.Verify(cookie.Value) == nil
}

// SetCookie issues a session and attaches it to the response.
func (m *SessionManager) SetCookie(w http.ResponseWriter, r *http.Request) error {
	token, err := m.Issue()
	if err != nil {
		return err
	}

	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    token,
		Path:     "/",
		Expires:  time.Now().Add(SessionDuration),
		HttpOnly: true,
		Secure:   r.TLS != nil,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

// ClearCookie expires the session cookie.
func (m *SessionManager) ClearCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})
}
