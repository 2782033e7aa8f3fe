// ABOUTME: Tests for the HTTP sender
// ABOUTME: Exercises success, non-2xx responses, and unreachable destinations

package dispatch

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPSender_Send(t *testing.T) {
	var gotBody map[string]any
	var gotContentType string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotContentType = r.Header.Get("Content-Type")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	sender := NewHTTPSender(5 * time.Second)
	err := sender.Send(context.Background(), srv.URL, map[string]string{"text": "hello"})
	require.NoError(t, err)

	assert.Equal(t, "application/json", gotContentType)
	assert.Equal(t, "hello", gotBody["text"])
}

func TestHTTPSender_Non2xx(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "invalid_payload", http.StatusBadRequest)
	}))
	defer srv.Close()

	sender := NewHTTPSender(5 * time.Second)
	err := sender.Send(context.Background(), srv.URL, map[string]string{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 400")
	assert.Contains(t, err.Error(), "invalid_payload")
}

func TestHTTPSender_Unreachable(t *testing.T) {
	// Grab a port and close it so nothing is listening.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	sender := NewHTTPSender(time.Second)
	err := sender.Send(context.Background(), url, map[string]string{})
	assert.Error(t, err)
}

func TestHTTPSender_UnencodablePayload(t *testing.T) {
	sender := NewHTTPSender(time.Second)
	err := sender.Send(context.Background(), "http://127.0.0.1:1", func() {})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "encoding payload")
}

func TestNewHTTPSender_DefaultTimeout(t *testing.T) {
	sender := NewHTTPSender(0)
	assert.Equal(t, DefaultTimeout, sender.client.Timeout)
}
