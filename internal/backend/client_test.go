package backend

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/steemit/condenser/pkg/config"
)

type staticCreds struct {
	token string
}

func (s *staticCreds) Token() string { return s.token }

func newTestClient(t *testing.T, handler http.Handler, token string) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client, err := New(&config.BackendConfig{URL: srv.URL, Timeout: 5 * time.Second}, &staticCreds{token: token})
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	return client, srv
}

func TestLikePost(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/posts/7/like" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer tok123" {
			t.Errorf("Authorization = %q, want Bearer tok123", got)
		}
		w.Write([]byte(`{"liked": true, "like_count": 6}`))
	}), "tok123")

	result, err := client.LikePost(context.Background(), 7)
	if err != nil {
		t.Fatalf("LikePost() error: %v", err)
	}
	if !result.Liked || result.LikeCount != 6 {
		t.Errorf("LikePost() = %+v, want liked=true count=6", result)
	}
}

func TestAuthRequiredBeforeRequest(t *testing.T) {
	var hits int32
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
	}), "")

	_, err := client.LikePost(context.Background(), 1)
	if !errors.Is(err, ErrAuthRequired) {
		t.Fatalf("LikePost() error = %v, want ErrAuthRequired", err)
	}
	if atomic.LoadInt32(&hits) != 0 {
		t.Error("no request should be sent without a credential")
	}
}

func TestServerRejection(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusForbidden)
	}), "tok123")

	_, err := client.LikePost(context.Background(), 1)
	if err == nil {
		t.Fatal("expected error for 403 response")
	}
	if !IsRejected(err) {
		t.Errorf("IsRejected(%v) = false, want true", err)
	}

	var se *StatusError
	if !errors.As(err, &se) || se.Code != http.StatusForbidden {
		t.Errorf("expected StatusError with code 403, got %v", err)
	}
}

func TestNetworkFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close() // connection refused from here on

	client, err := New(&config.BackendConfig{URL: url, Timeout: time.Second}, &staticCreds{token: "tok"})
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}

	_, err = client.LikePost(context.Background(), 1)
	if err == nil {
		t.Fatal("expected network failure")
	}
	if IsRejected(err) {
		t.Error("network failure should not be classified as a rejection")
	}
}

func TestUnreadCount(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/notifications/count" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		w.Write([]byte(`{"unread_count": 4}`))
	}), "tok123")

	count, err := client.UnreadCount(context.Background())
	if err != nil {
		t.Fatalf("UnreadCount() error: %v", err)
	}
	if count != 4 {
		t.Errorf("UnreadCount() = %d, want 4", count)
	}
}

func TestListPostsWithoutToken(t *testing.T) {
	// The feed is readable anonymously: no Authorization header, no failure.
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "" {
			t.Errorf("Authorization = %q, want empty", got)
		}
		w.Write([]byte(`[{"id": 1, "title": "hello", "like_count": 2}]`))
	}), "")

	posts, err := client.ListPosts(context.Background(), 20, 0)
	if err != nil {
		t.Fatalf("ListPosts() error: %v", err)
	}
	if len(posts) != 1 || posts[0].LikeCount != 2 {
		t.Errorf("ListPosts() = %+v", posts)
	}
}
