package client

import (
	"context"
	"net/http"
	"sync"

	"github.com/tonkonan/materrax/internal/models"
)

// AuthStore holds the signed-in user and their token.
type AuthStore struct {
	client *Client

	mu    sync.RWMutex
	user  *models.User
	token string
}

func (s *AuthStore) Login(ctx context.Context, email, password string) (*models.AuthResponse, error) {
	var resp models.AuthResponse
	input := models.LoginInput{Email: email, Password: password}
	if err := s.client.do(ctx, http.MethodPost, "/api/auth/login", input, &resp, "login failed"); err != nil {
		return nil, err
	}

	s.set(resp.User, resp.Token)
	return &resp, nil
}

func (s *AuthStore) Register(ctx context.Context, input models.RegisterInput) (*models.AuthResponse, error) {
	var resp models.AuthResponse
	if err := s.client.do(ctx, http.MethodPost, "/api/auth/register", input, &resp, "registration failed"); err != nil {
		return nil, err
	}

	s.set(resp.User, resp.Token)
	return &resp, nil
}

// Restore reinstates a previously saved session without contacting the API.
func (s *AuthStore) Restore(user *models.User, token string) {
	s.set(user, token)
}

func (s *AuthStore) Logout() {
	s.set(nil, "")
}

// Me refreshes the current user from the API.
func (s *AuthStore) Me(ctx context.Context) (*models.User, error) {
	var user models.User
	if err := s.client.do(ctx, http.MethodGet, "/api/auth/me", nil, &user, "failed to get user"); err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.user = &user
	s.mu.Unlock()

	return &user, nil
}

func (s *AuthStore) IsAuthenticated() bool {
	return s.Token() != ""
}

func (s *AuthStore) CurrentUser() *models.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user
}

// Role is empty when nobody is signed in.
func (s *AuthStore) Role() models.Role {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return ""
	}
	return s.user.Role
}

func (s *AuthStore) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

func (s *AuthStore) set(user *models.User, token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.user = user
	s.token = token
}
