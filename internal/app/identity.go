package service

import (
	"context"
	"errors"

	"github.com/axioma/trendboard/internal/adapters/identity"
	"github.com/axioma/trendboard/pkg/logger"
	"github.com/axioma/trendboard/pkg/metrics"
)

// Signup registers a user.
func (s *Service) Signup(ctx context.Context, username, password string) (identity.UserID, error) {
	store, err := s.identityStore()
	if err != nil {
		return "", err
	}
	id, err := store.Register(ctx, username, password)
	metrics.RecordIdentityOutcome("signup", outcome(err))
	if err != nil {
		return "", err
	}
	s.logger.Info(ctx, "user registered", logger.String("user_id", string(id)))
	return id, nil
}

// Login verifies a user's credentials.
func (s *Service) Login(ctx context.Context, username, password string) (identity.UserID, error) {
	store, err := s.identityStore()
	if err != nil {
		return "", err
	}
	id, err := store.Verify(ctx, username, password)
	metrics.RecordIdentityOutcome("login", outcome(err))
	if err != nil {
		return "", err
	}
	return id, nil
}

func (s *Service) identityStore() (identity.Store, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.started || s.identity == nil {
		return nil, ErrNotStarted
	}
	return s.identity, nil
}

func outcome(err error) string {
	switch {
	case err == nil:
		return "success"
	case errors.Is(err, identity.ErrDuplicateUsername):
		return "duplicate"
	case errors.Is(err, identity.ErrInvalidCredentials):
		return "invalid_credentials"
	case errors.Is(err, identity.ErrInvalidInput):
		return "invalid_input"
	default:
		return "error"
	}
}
