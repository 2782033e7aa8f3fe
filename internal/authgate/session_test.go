// ABOUTME: Tests for session token issuing and verification
// ABOUTME: Sessions are bound to the issuing process's secret

package authgate

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionManager_IssueAndVerify(t *testing.T) {
	m, err := NewSessionManager()
	require.NoError(t, err)

	token, err := m.Issue()
	require.NoError(t, err)
	assert.NoError(t, m.Verify(token))
}

func TestSessionManager_RejectsGarbage(t *testing.T) {
	m, err := NewSessionManager()
	require.NoError(t, err)

	assert.ErrorIs(t, m.Verify("not-a-jwt"), ErrInvalidSession)
}

func TestSessionManager_RejectsForeignSecret(t *testing.T) {
	a, err := NewSessionManager()
	require.NoError(t, err)
	b, err := NewSessionManager()
	require.NoError(t, err)

	token, err := a.Issue()
	require.NoError(t, err)

	// A restart regenerates the secret, invalidating old sessions.
	assert.Error(t, b.Verify(token))
}

func TestSessionManager_CookieRoundTrip(t *testing.T) {
	m, err := NewSessionManager()
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/login", nil)
	require.NoError(t, m.SetCookie(rec, req))

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, SessionCookieName, cookies[0].Name)
	assert.True(t, cookies[0].HttpOnly)

	authed := httptest.NewRequest(http.MethodGet, "/status", nil)
	authed.AddCookie(cookies[0])
	assert.True(t, m.LoggedIn(authed))

	anon := httptest.NewRequest(http.MethodGet, "/status", nil)
	assert.False(t, m.LoggedIn(anon))
}

func TestSessionManager_ClearCookie(t *testing.T) {
	m, err := NewSessionManager()
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	m.ClearCookie(rec)

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, SessionCookieName, cookies[0].Name)
	assert.Less(t, cookies[0].MaxAge, 0)
}
