package service

import (
	"context"
	"strings"

	"github.com/Astemirdum/library-management/library/internal/errs"
	"github.com/Astemirdum/library-management/library/internal/model"
	"github.com/Astemirdum/library-management/pkg/auth"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", errors.Wrap(err, "bcrypt")
	}
	return string(hash), nil
}

func (s *Service) Register(ctx context.Context, req model.RegisterRequest) (model.AuthResponse, error) {
	hash, err := HashPassword(req.Password)
	if err != nil {
		return model.AuthResponse{}, err
	}
	user, err := s.repo.CreateUser(ctx, model.NewUser{
		Name:         strings.TrimSpace(req.Name),
		Email:        req.Email,
		PasswordHash: hash,
		Role:         auth.RoleStudent,
	})
	if err != nil {
		return model.AuthResponse{}, err
	}
	return s.openSession(ctx, user)
}

func (s *Service) Login(ctx context.Context, req model.LoginRequest) (model.AuthResponse, error) {
	user, err := s.repo.GetUserByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return model.AuthResponse{}, errs.ErrInvalidCredentials
		}
		return model.AuthResponse{}, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return model.AuthResponse{}, errs.ErrInvalidCredentials
	}
	return s.openSession(ctx, user)
}

func (s *Service) openSession(ctx context.Context, user model.User) (model.AuthResponse, error) {
	token, err := s.tokens.Issue(user.ID, user.Role)
	if err != nil {
		return model.AuthResponse{}, err
	}
	if err := s.repo.CreateSession(ctx, model.Session{
		ID:        token.SessionID.String(),
		UserID:    user.ID,
		ExpiresAt: token.ExpiresAt,
	}); err != nil {
		return model.AuthResponse{}, errors.Wrap(err, "CreateSession")
	}
	s.log.Debug("session opened", zap.Int("user_id", user.ID), zap.String("role", user.Role))
	return model.AuthResponse{Token: token.Value, ExpiresAt: token.ExpiresAt, User: user}, nil
}

func (s *Service) Logout(ctx context.Context, id auth.Identity) error {
	return s.repo.DeleteSession(ctx, id.SessionID)
}

func (s *Service) CurrentUser(ctx context.Context, id auth.Identity) (model.User, error) {
	return s.repo.GetUser(ctx, id.UserID)
}

// SessionRole backs the bearer middleware. Sessions cascade with their user.
func (s *Service) SessionRole(ctx context.Context, sessionID string, userID int) (string, bool, error) {
	return s.repo.SessionRole(ctx, sessionID, userID)
}
