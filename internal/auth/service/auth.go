package service

import (
	"context"
	"strings"

	autherrors "escapedia/internal/auth/errors"
	"escapedia/internal/auth/validator"
	"escapedia/internal/session"
	"escapedia/pkg/client"
	"escapedia/pkg/logger"
	"escapedia/pkg/model"

	"golang.org/x/sync/errgroup"
)

type AuthAPI interface {
	Login(ctx context.Context, creds model.Credentials) (*client.Session, error)
	Register(ctx context.Context, reg model.Registration) (*client.Session, error)
	ForgotPassword(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, reset model.PasswordReset) error
}

type TrophyAPI interface {
	Mine(ctx context.Context) ([]model.Trophy, error)
}

type ReviewAPI interface {
	Mine(ctx context.Context) ([]model.Review, error)
}

// Profile is the signed-in user's page.
type Profile struct {
	User     *model.User
	Trophies []model.Trophy
	Reviews  []model.Review
}

type AuthService struct {
	auth      AuthAPI
	trophies  TrophyAPI
	reviews   ReviewAPI
	validator *validator.AuthValidator
	log       *logger.Logger
}

func NewAuthService(auth AuthAPI, trophies TrophyAPI, reviews ReviewAPI, v *validator.AuthValidator, log *logger.Logger) *AuthService {
	return &AuthService{
		auth:      auth,
		trophies:  trophies,
		reviews:   reviews,
		validator: v,
		log:       log,
	}
}

func (s *AuthService) Login(ctx context.Context, creds model.Credentials) (*client.Session, error) {
	if err := s.validator.Credentials(&creds); err != nil {
		return nil, err
	}
	return s.auth.Login(ctx, creds)
}

func (s *AuthService) Register(ctx context.Context, reg model.Registration) (*client.Session, error) {
	if err := s.validator.Registration(&reg); err != nil {
		return nil, err
	}
	return s.auth.Register(ctx, reg)
}

func (s *AuthService) ForgotPassword(ctx context.Context, email string) error {
	f := validator.Forgot{Email: email}
	if err := s.validator.Forgot(&f); err != nil {
		return err
	}
	return s.auth.ForgotPassword(ctx, f.Email)
}

// ResetPassword sends nothing unless the token is present and both passwords match.
func (s *AuthService) ResetPassword(ctx context.Context, reset model.PasswordReset) error {
	reset.Token = strings.TrimSpace(reset.Token)
	if reset.Token == "" {
		return autherrors.ErrInvalidResetToken
	}
	if err := s.validator.Reset(&reset); err != nil {
		return err
	}
	return s.auth.ResetPassword(ctx, reset)
}

// Profile loads trophies and reviews concurrently. Either list falls back to empty on failure.
func (s *AuthService) Profile(ctx context.Context, state session.State) (*Profile, error) {
	if !state.Authenticated() {
		return nil, autherrors.ErrNotAuthenticated
	}

	p := &Profile{User: state.User, Trophies: []model.Trophy{}, Reviews: []model.Review{}}

	var g errgroup.Group
	g.Go(func() error {
		trophies, err := s.trophies.Mine(ctx)
		if err != nil {
			s.log.Warn("Trophies unavailable", "user_id", state.User.ID, "error", err)
			return nil
		}
		if trophies != nil {
			p.Trophies = trophies
		}
		return nil
	})
	g.Go(func() error {
		reviews, err := s.reviews.Mine(ctx)
		if err != nil {
			s.log.Warn("Reviews unavailable", "user_id", state.User.ID, "error", err)
			return nil
		}
		if reviews != nil {
			p.Reviews = reviews
		}
		return nil
	})
	_ = g.Wait()

	return p, nil
}
