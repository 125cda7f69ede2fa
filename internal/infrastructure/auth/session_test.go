package auth

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	repo "github.com/Lucafivan/Ship-Operation-Systems/internal/interface/repository"
	"github.com/Lucafivan/Ship-Operation-Systems/pkg/logger"

	"github.com/golang-jwt/jwt/v5"
)

func signedToken(t *testing.T, exp time.Time) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "operator@example.com",
		"exp": exp.Unix(),
	}).SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatalf("Failed to sign token: %v", err)
	}
	return token
}

func TestExpiry_ReadsExpClaim(t *testing.T) {
	exp := time.Date(2030, 1, 2, 3, 4, 5, 0, time.UTC)
	if got := Expiry(signedToken(t, exp)); !got.Equal(exp) {
		t.Errorf("Expected %v, got %v", exp, got)
	}
	if got := Expiry("not-a-jwt"); !got.IsZero() {
		t.Errorf("Expected zero time for garbage, got %v", got)
	}
	if got := Expiry(""); !got.IsZero() {
		t.Errorf("Expected zero time for empty token, got %v", got)
	}
}

func TestSession_LoginPersists(t *testing.T) {
	access := signedToken(t, time.Now().Add(time.Hour))
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/auth/login" {
			t.Errorf("Unexpected path %s", r.URL.Path)
		}
		var body map[string]string
		json.NewDecoder(r.Body).Decode(&body)
		if body["password"] != "secret" {
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte(`{"msg": "Bad credentials"}`))
			return
		}
		json.NewEncoder(w).Encode(map[string]string{
			"access_token":  access,
			"refresh_token": "refresh-1",
			"user_role":     "admin",
		})
	}))
	defer server.Close()

	store := repo.NewMemorySessionRepository()
	s := NewSession(server.URL, 5*time.Second, store, logger.NewNopLogger())

	if err := s.Login(context.Background(), "operator@example.com", "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("Expected ErrInvalidCredentials, got %v", err)
	}

	if err := s.Login(context.Background(), "operator@example.com", "secret"); err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	if s.UserRole() != "admin" || s.AccessToken() != access {
		t.Errorf("Unexpected session state role=%q", s.UserRole())
	}

	token, err := s.Token()
	if err != nil {
		t.Fatalf("Token failed: %v", err)
	}
	if token.Expiry.IsZero() || token.RefreshToken != "refresh-1" {
		t.Errorf("Unexpected token %+v", token)
	}

	// a second session restores what the first stored
	restored := NewSession(server.URL, 5*time.Second, store, logger.NewNopLogger())
	if err := restored.Restore(context.Background()); err != nil {
		t.Fatalf("Restore failed: %v", err)
	}
	if restored.AccessToken() != access || restored.Email() != "operator@example.com" {
		t.Errorf("Unexpected restored session email=%q", restored.Email())
	}
}

func TestSession_RestoreWithoutStoredSession(t *testing.T) {
	s := NewSession("http://unused", time.Second, repo.NewMemorySessionRepository(), logger.NewNopLogger())
	if err := s.Restore(context.Background()); !errors.Is(err, ErrNoSession) {
		t.Errorf("Expected ErrNoSession, got %v", err)
	}
	if _, err := s.Token(); !errors.Is(err, ErrNoSession) {
		t.Errorf("Expected ErrNoSession from Token, got %v", err)
	}
}

func TestSession_ConcurrentRefreshSharesOneCall(t *testing.T) {
	var hits atomic.Int32
	started := make(chan struct{})
	release := make(chan struct{})
	var once sync.Once

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/auth/login":
			json.NewEncoder(w).Encode(map[string]string{
				"access_token":  "access-1",
				"refresh_token": "refresh-1",
			})
		case "/auth/refresh":
			if got := r.Header.Get("Authorization"); got != "Bearer refresh-1" {
				t.Errorf("Expected refresh token as bearer, got %q", got)
			}
			hits.Add(1)
			once.Do(func() { close(started) })
			<-release
			json.NewEncoder(w).Encode(map[string]string{"access_token": "access-2"})
		}
	}))
	defer server.Close()

	s := NewSession(server.URL, 5*time.Second, nil, logger.NewNopLogger())
	if err := s.Login(context.Background(), "a@b.c", "pw"); err != nil {
		t.Fatalf("Login failed: %v", err)
	}

	var wg sync.WaitGroup
	errs := make(chan error, 5)
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs <- s.Refresh(context.Background())
		}()
	}

	<-started
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()
	close(errs)

	for err := range errs {
		if err != nil {
			t.Errorf("Refresh failed: %v", err)
		}
	}
	if n := hits.Load(); n != 1 {
		t.Errorf("Expected one refresh call, got %d", n)
	}
	if s.AccessToken() != "access-2" {
		t.Errorf("Expected access-2, got %q", s.AccessToken())
	}
}

func TestSession_CancelledCallerDoesNotFailSharedRefresh(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	var once sync.Once

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/auth/login":
			json.NewEncoder(w).Encode(map[string]string{
				"access_token":  "access-1",
				"refresh_token": "refresh-1",
			})
		case "/auth/refresh":
			once.Do(func() { close(started) })
			<-release
			json.NewEncoder(w).Encode(map[string]string{"access_token": "access-2"})
		}
	}))
	defer server.Close()
	defer func() {
		select {
		case <-release:
		default:
			close(release)
		}
	}()

	s := NewSession(server.URL, 5*time.Second, nil, logger.NewNopLogger())
	if err := s.Login(context.Background(), "a@b.c", "pw"); err != nil {
		t.Fatalf("Login failed: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	first := make(chan error, 1)
	go func() { first <- s.Refresh(ctx) }()
	<-started

	second := make(chan error, 1)
	go func() { second <- s.Refresh(context.Background()) }()
	time.Sleep(50 * time.Millisecond)

	cancel()
	if err := <-first; !errors.Is(err, context.Canceled) {
		t.Errorf("Expected the cancelled caller to stop with context.Canceled, got %v", err)
	}

	close(release)
	if err := <-second; err != nil {
		t.Fatalf("Expected the joined refresh to succeed, got %v", err)
	}
	if s.AccessToken() != "access-2" {
		t.Errorf("Expected access-2, got %q", s.AccessToken())
	}
}

func TestSession_RefreshWithoutRefreshToken(t *testing.T) {
	s := NewSession("http://unused", time.Second, nil, logger.NewNopLogger())
	if err := s.Refresh(context.Background()); !errors.Is(err, ErrNoRefreshToken) {
		t.Errorf("Expected ErrNoRefreshToken, got %v", err)
	}
}

func TestSession_ClearDeletesStoredSession(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"access_token": "a", "refresh_token": "r"})
	}))
	defer server.Close()

	store := repo.NewMemorySessionRepository()
	s := NewSession(server.URL, 5*time.Second, store, logger.NewNopLogger())
	if err := s.Login(context.Background(), "a@b.c", "pw"); err != nil {
		t.Fatalf("Login failed: %v", err)
	}

	if err := s.Logout(context.Background()); err != nil {
		t.Fatalf("Logout failed: %v", err)
	}
	if s.AccessToken() != "" {
		t.Error("Expected tokens to be cleared")
	}
	if _, err := store.Load(context.Background(), DefaultSessionName); err == nil {
		t.Error("Expected stored session to be deleted")
	}
}
