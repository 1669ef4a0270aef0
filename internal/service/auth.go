package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Skotchmaster/ordermanagement/internal/apperr"
	"github.com/Skotchmaster/ordermanagement/internal/models"
	"github.com/Skotchmaster/ordermanagement/internal/repo"
	"github.com/Skotchmaster/ordermanagement/internal/transport"
	pkghash "github.com/Skotchmaster/ordermanagement/pkg/hash"
	"github.com/Skotchmaster/ordermanagement/pkg/logging"
	"github.com/Skotchmaster/ordermanagement/pkg/metrics"
	"github.com/Skotchmaster/ordermanagement/pkg/tokens"
)

type AuthService struct {
	Repo             *repo.GormRepo
	Signer           tokens.Signer
	RefreshTokenDays int
	Metrics          *metrics.Metrics

	Now             func() time.Time
	NewRefreshToken func() (string, error)
}

func NewAuthService(r *repo.GormRepo, signer tokens.Signer, refreshDays int, m *metrics.Metrics) *AuthService {
	return &AuthService{
		Repo:             r,
		Signer:           signer,
		RefreshTokenDays: refreshDays,
		Metrics:          m,
		Now:              time.Now,
		NewRefreshToken:  tokens.NewRefreshToken,
	}
}

func (s *AuthService) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}

func (s *AuthService) SignIn(ctx context.Context, req transport.SignInRequest) (*transport.AuthResult, error) {
	l := logging.FromContext(ctx).With("svc", "auth.sign_in", "username", req.Username)

	if strings.TrimSpace(req.Username) == "" || req.Password == "" {
		s.Metrics.Auth("sign_in_rejected")
		return nil, apperr.ErrInvalidCredentials
	}

	user, err := s.Repo.FindUserByUsername(ctx, req.Username)
	if errors.Is(err, apperr.ErrNotFound) {
		l.Warn("sign_in_failed", "reason", "unknown user")
		s.Metrics.Auth("sign_in_rejected")
		return nil, apperr.ErrInvalidCredentials
	}
	if err != nil {
		l.Error("sign_in_failed", "error", err)
		return nil, err
	}

	if !pkghash.CheckPassword(user.Password, req.Password) {
		l.Warn("sign_in_failed", "reason", "password mismatch")
		s.Metrics.Auth("sign_in_rejected")
		return nil, apperr.ErrInvalidCredentials
	}

	res, err := s.issue(ctx, s.Repo, user, s.now())
	if err != nil {
		l.Error("sign_in_failed", "error", err)
		return nil, err
	}

	s.Metrics.Auth("sign_in")
	l.Info("sign_in_success", "user_id", user.ID)
	return res, nil
}

// RefreshToken rotates a refresh token: the presented token is revoked and a
// new one issued in the same transaction.
func (s *AuthService) RefreshToken(ctx context.Context, req transport.RefreshTokenRequest) (*transport.AuthResult, error) {
	l := logging.FromContext(ctx).With("svc", "auth.refresh_token", "username", req.Username)

	if strings.TrimSpace(req.Username) == "" || strings.TrimSpace(req.RefreshToken) == "" {
		s.Metrics.Auth("refresh_rejected")
		return nil, apperr.ErrTokenNotFound
	}

	now := s.now()
	var res *transport.AuthResult
	err := s.Repo.Transaction(ctx, func(tx *repo.GormRepo) error {
		stored, err := tx.FindRefreshToken(ctx, req.Username, req.RefreshToken)
		if err != nil {
			return err
		}
		if !stored.IsActive(now) {
			return apperr.ErrTokenInvalid
		}

		user, err := tx.FindUser(ctx, stored.UserID)
		if errors.Is(err, apperr.ErrNotFound) {
			return apperr.ErrTokenInvalid
		}
		if err != nil {
			return err
		}

		if err := tx.RevokeRefreshToken(ctx, stored.ID, now); err != nil {
			return err
		}

		res, err = s.issue(ctx, tx, user, now)
		return err
	})
	if err != nil {
		if errors.Is(err, apperr.ErrTokenNotFound) || errors.Is(err, apperr.ErrTokenInvalid) {
			l.Warn("refresh_token_failed", "reason", err.Error())
			s.Metrics.Auth("refresh_rejected")
			return nil, err
		}
		l.Error("refresh_token_failed", "error", err)
		return nil, err
	}

	s.Metrics.Auth("refresh")
	l.Info("refresh_token_rotated")
	return res, nil
}

// SignOut revokes a live refresh token.
func (s *AuthService) SignOut(ctx context.Context, req transport.RefreshTokenRequest) error {
	l := logging.FromContext(ctx).With("svc", "auth.sign_out", "username", req.Username)

	if strings.TrimSpace(req.Username) == "" || strings.TrimSpace(req.RefreshToken) == "" {
		return apperr.ErrTokenNotFound
	}

	now := s.now()
	err := s.Repo.Transaction(ctx, func(tx *repo.GormRepo) error {
		stored, err := tx.FindRefreshToken(ctx, req.Username, req.RefreshToken)
		if err != nil {
			return err
		}
		if stored.IsExpired(now) {
			return apperr.ErrTokenInvalid
		}
		return tx.RevokeRefreshToken(ctx, stored.ID, now)
	})
	if err != nil {
		l.Warn("sign_out_failed", "error", err)
		return err
	}

	s.Metrics.Auth("sign_out")
	l.Info("sign_out_success")
	return nil
}

func (s *AuthService) issue(ctx context.Context, r *repo.GormRepo, user *models.User, now time.Time) (*transport.AuthResult, error) {
	jwtStr, _, err := s.Signer.NewAccessToken(user.ID, user.Username, now)
	if err != nil {
		return nil, fmt.Errorf("sign access token: %w", err)
	}

	newToken := s.NewRefreshToken
	if newToken == nil {
		newToken = tokens.NewRefreshToken
	}
	value, err := newToken()
	if err != nil {
		return nil, fmt.Errorf("generate refresh token: %w", err)
	}

	rt := &models.RefreshToken{
		UserID:     user.ID,
		Token:      value,
		CreatedOn:  now,
		Expiration: now.AddDate(0, 0, s.RefreshTokenDays),
	}
	if err := r.AddRefreshToken(ctx, rt); err != nil {
		return nil, err
	}

	return &transport.AuthResult{
		Token:                  jwtStr,
		RefreshToken:           rt.Token,
		RefreshTokenExpiration: rt.Expiration,
		Username:               user.Username,
		Email:                  user.Email,
	}, nil
}
