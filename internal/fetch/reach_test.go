package fetch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReachable_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodHead, r.Method)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := NewClient(nil)
	assert.True(t, client.Reachable(context.Background(), server.URL))
}

func TestReachable_NotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	client := NewClient(nil)
	assert.False(t, client.Reachable(context.Background(), server.URL))
}

func TestReachable_FollowsRedirects(t *testing.T) {
	final := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer final.Close()

	redirecting := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, final.URL, http.StatusMovedPermanently)
	}))
	defer redirecting.Close()

	client := NewClient(nil)
	assert.True(t, client.Reachable(context.Background(), redirecting.URL))
}

func TestReachable_NetworkErrorIsFalse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {}))
	server.Close() // connection refused from here on

	client := NewClient(nil)
	assert.False(t, client.Reachable(context.Background(), server.URL))
}

func TestReachable_InvalidURL(t *testing.T) {
	client := NewClient(nil)
	assert.False(t, client.Reachable(context.Background(), "://bad"))
}
