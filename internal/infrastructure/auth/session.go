package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/Lucafivan/Ship-Operation-Systems/internal/domain/entity"
	"github.com/Lucafivan/Ship-Operation-Systems/internal/domain/repository"
	"github.com/Lucafivan/Ship-Operation-Systems/pkg/logger"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/oauth2"
	"golang.org/x/sync/singleflight"
)

const DefaultSessionName = "default"

var (
	ErrNoSession          = errors.New("no active session")
	ErrNoRefreshToken     = errors.New("no refresh token")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// Session owns the backend access and refresh tokens. It is the only place the
// tokens are read or written.
type Session struct {
	mu       sync.RWMutex
	token    *oauth2.Token
	email    string
	userRole string

	refreshGroup singleflight.Group

	name       string
	baseURL    string
	httpClient *http.Client
	store      repository.SessionRepository
	logger     logger.Logger
}

var _ oauth2.TokenSource = (*Session)(nil)

// NewSession creates a new session. store may be nil to keep tokens in memory only.
func NewSession(baseURL string, timeout time.Duration, store repository.SessionRepository, logger logger.Logger) *Session {
	return &Session{
		name:       DefaultSessionName,
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		store:      store,
		logger:     logger,
	}
}

// Restore loads previously stored tokens
func (s *Session) Restore(ctx context.Context) error {
	if s.store == nil {
		return ErrNoSession
	}
	stored, err := s.store.Load(ctx, s.name)
	if err != nil {
		if errors.Is(err, repository.ErrSessionNotFound) {
			return ErrNoSession
		}
		return fmt.Errorf("failed to load session: %w", err)
	}

	s.mu.Lock()
	s.token = newToken(stored.AccessToken, stored.RefreshToken)
	s.email = stored.Email
	s.userRole = stored.UserRole
	s.mu.Unlock()

	s.logger.Info("Session restored", "email", stored.Email, "role", stored.UserRole)
	return nil
}

// Token returns a copy of the current token
func (s *Session) Token() (*oauth2.Token, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.token == nil || s.token.AccessToken == "" {
		return nil, ErrNoSession
	}
	t := *s.token
	return &t, nil
}

// AccessToken returns the current access token or an empty string
func (s *Session) AccessToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.token == nil {
		return ""
	}
	return s.token.AccessToken
}

func (s *Session) UserRole() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.userRole
}

func (s *Session) Email() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.email
}

// Login exchanges credentials for a token pair and stores it
func (s *Session) Login(ctx context.Context, email, password string) error {
	var resp entity.LoginResponse
	status, err := s.post(ctx, "/auth/login", "", map[string]string{
		"email":    email,
		"password": password,
	}, &resp)
	if err != nil {
		return err
	}
	if status == http.StatusUnauthorized {
		return ErrInvalidCredentials
	}
	if status != http.StatusOK {
		return fmt.Errorf("login returned status %d", status)
	}

	s.mu.Lock()
	s.token = newToken(resp.AccessToken, resp.RefreshToken)
	s.email = email
	s.userRole = resp.UserRole
	s.mu.Unlock()

	s.logger.Info("Logged in", "email", email, "role", resp.UserRole)
	return s.persist(ctx)
}

// Register creates a backend account. It does not log in.
func (s *Session) Register(ctx context.Context, username, email, password string) error {
	var resp struct {
		Msg string `json:"msg"`
	}
	status, err := s.post(ctx, "/auth/register", "", map[string]string{
		"username": username,
		"email":    email,
		"password": password,
	}, &resp)
	if err != nil {
		return err
	}
	if status != http.StatusCreated && status != http.StatusOK {
		if resp.Msg != "" {
			return fmt.Errorf("register returned status %d: %s", status, resp.Msg)
		}
		return fmt.Errorf("register returned status %d", status)
	}
	return nil
}

// Refresh obtains a new access token with the refresh token. Concurrent callers
// share a single backend call, which outlives any one caller giving up.
func (s *Session) Refresh(ctx context.Context) error {
	shared := context.WithoutCancel(ctx)
	ch := s.refreshGroup.DoChan("refresh", func() (interface{}, error) {
		return nil, s.refresh(shared)
	})

	select {
	case res := <-ch:
		if res.Shared {
			s.logger.Debug("Joined in-flight token refresh")
		}
		return res.Err
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *Session) refresh(ctx context.Context) error {
	s.mu.RLock()
	var refreshToken string
	if s.token != nil {
		refreshToken = s.token.RefreshToken
	}
	s.mu.RUnlock()

	if refreshToken == "" {
		return ErrNoRefreshToken
	}

	var resp struct {
		AccessToken string `json:"access_token"`
		Msg         string `json:"msg"`
	}
	status, err := s.post(ctx, "/auth/refresh", refreshToken, nil, &resp)
	if err != nil {
		return err
	}
	if status != http.StatusOK || resp.AccessToken == "" {
		return fmt.Errorf("refresh returned status %d", status)
	}

	s.mu.Lock()
	s.token = newToken(resp.AccessToken, refreshToken)
	s.mu.Unlock()

	s.logger.Info("Access token refreshed")
	return s.persist(ctx)
}

// Logout revokes the access token on the backend and clears the session
func (s *Session) Logout(ctx context.Context) error {
	if access := s.AccessToken(); access != "" {
		if _, err := s.post(ctx, "/auth/logout", access, nil, nil); err != nil {
			s.logger.Warn("Logout request failed", "error", err)
		}
	}
	return s.Clear(ctx)
}

// Clear forgets the tokens locally and in the store
func (s *Session) Clear(ctx context.Context) error {
	s.mu.Lock()
	s.token = nil
	s.userRole = ""
	s.mu.Unlock()

	if s.store == nil {
		return nil
	}
	if err := s.store.Delete(ctx, s.name); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

func (s *Session) persist(ctx context.Context) error {
	if s.store == nil {
		return nil
	}

	s.mu.RLock()
	stored := &entity.StoredSession{
		Name:      s.name,
		Email:     s.email,
		UserRole:  s.userRole,
		UpdatedAt: time.Now(),
	}
	if s.token != nil {
		stored.AccessToken = s.token.AccessToken
		stored.RefreshToken = s.token.RefreshToken
	}
	s.mu.RUnlock()

	if err := s.store.Save(ctx, stored); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

func (s *Session) post(ctx context.Context, path, bearer string, body, out interface{}) (int, error) {
	var payload []byte
	if body != nil {
		var err error
		if payload, err = json.Marshal(body); err != nil {
			return 0, fmt.Errorf("failed to marshal request: %w", err)
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return 0, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if out != nil {
		// error bodies share the {"msg": ...} shape, decoding is best effort
		json.NewDecoder(resp.Body).Decode(out)
	}
	return resp.StatusCode, nil
}

// newToken builds an oauth2 token, taking the expiry from the JWT exp claim
func newToken(access, refresh string) *oauth2.Token {
	return &oauth2.Token{
		AccessToken:  access,
		RefreshToken: refresh,
		TokenType:    "Bearer",
		Expiry:       Expiry(access),
	}
}

// Expiry reads the exp claim of a JWT without verifying it. The zero time is
// returned when the token carries no readable expiry.
func Expiry(token string) time.Time {
	if token == "" {
		return time.Time{}
	}
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return time.Time{}
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}
	}
	return exp.Time
}
