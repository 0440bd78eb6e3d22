package application

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/sirupsen/logrus"

	"github.com/wanderly/tours-api/internal/domain/entity"
	"github.com/wanderly/tours-api/internal/domain/repository"
	"github.com/wanderly/tours-api/pkg/helpers"
)

var (
	// One message for both bad email and bad password; callers never learn which.
	ErrIncorrectCredentials = errors.New("incorrect email or password")
	ErrUserNotFound         = errors.New("user not found")
	ErrNoUserWithEmail      = errors.New("there is no user with that email address")
	ErrEmailTaken           = errors.New("email already in use")
	ErrResetTokenInvalid    = errors.New("token is invalid or has expired")
	ErrWrongPassword        = errors.New("your current password is wrong")
	ErrEmailDelivery        = errors.New("there was an error sending the email, try again later")
)

// Notifier delivers the raw reset token to the user out-of-band.
type Notifier interface {
	SendPasswordReset(ctx context.Context, to, name, resetURL string, expiresIn time.Duration) error
}

// AuthService owns the credential lifecycle: signup, login, the password
// reset flow, and authenticated password change. Every success path that
// authenticates issues a fresh session token.
type AuthService struct {
	Users         repository.UserRepository
	Tokens        *helpers.TokenIssuer
	Hasher        helpers.Hasher
	Mail          Notifier
	Logger        *logrus.Logger
	ResetTokenTTL time.Duration
	ResetBaseURL  string
}

func NewAuthService(users repository.UserRepository, tokens *helpers.TokenIssuer, hasher helpers.Hasher, mail Notifier, logger *logrus.Logger, resetTTL time.Duration, resetBaseURL string) *AuthService {
	return &AuthService{
		Users:         users,
		Tokens:        tokens,
		Hasher:        hasher,
		Mail:          mail,
		Logger:        logger,
		ResetTokenTTL: resetTTL,
		ResetBaseURL:  resetBaseURL,
	}
}

type SignupInput struct {
	Name     string
	Email    string
	Password string
	Role     string
}

func (s *AuthService) Signup(ctx context.Context, in SignupInput) (*entity.User, string, error) {
	hash, err := s.Hasher.Hash(in.Password)
	if err != nil {
		return nil, "", err
	}
	role := in.Role
	if role == "" {
		role = entity.RoleUser
	}
	u := &entity.User{Name: in.Name, Email: in.Email, Password: hash, Role: role}
	if err := s.Users.Create(ctx, u); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, "", ErrEmailTaken
		}
		return nil, "", err
	}
	token, _, err := s.Tokens.Issue(u.ID)
	if err != nil {
		return nil, "", err
	}
	return u, token, nil
}

func (s *AuthService) Login(ctx context.Context, email, password string) (*entity.User, string, error) {
	u, err := s.Users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, "", ErrIncorrectCredentials
		}
		return nil, "", err
	}
	if !s.Hasher.Verify(u.Password, password) {
		return nil, "", ErrIncorrectCredentials
	}
	token, _, err := s.Tokens.Issue(u.ID)
	if err != nil {
		return nil, "", err
	}
	return u, token, nil
}

// ForgotPassword starts the reset flow: store the token digest and expiry,
// then mail the raw token. A failed send rolls the stored fields back —
// the one compensating action in the system.
func (s *AuthService) ForgotPassword(ctx context.Context, email string) error {
	u, err := s.Users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNoUserWithEmail
		}
		return err
	}

	raw, digest, err := s.Hasher.ResetToken()
	if err != nil {
		return err
	}
	expires := time.Now().Add(s.ResetTokenTTL)
	if err := s.Users.SetResetToken(ctx, u.ID, digest, expires); err != nil {
		return err
	}

	resetURL := s.ResetBaseURL + "/" + raw
	if err := s.Mail.SendPasswordReset(ctx, u.Email, u.Name, resetURL, s.ResetTokenTTL); err != nil {
		s.Logger.WithError(err).WithField("user_id", u.ID).Error("reset email dispatch failed, rolling back token")
		if clearErr := s.Users.ClearResetToken(ctx, u.ID); clearErr != nil {
			s.Logger.WithError(clearErr).WithField("user_id", u.ID).Error("reset token rollback failed")
		}
		return ErrEmailDelivery
	}
	return nil
}

// ResetPassword consumes a raw reset token exactly once: the matching user
// gets the new password, the stored digest is cleared by the same write,
// and a fresh session token is issued.
func (s *AuthService) ResetPassword(ctx context.Context, rawToken, newPassword string) (*entity.User, string, error) {
	digest := s.Hasher.HashToken(rawToken)
	u, err := s.Users.GetByResetTokenHash(ctx, digest, time.Now())
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, "", ErrResetTokenInvalid
		}
		return nil, "", err
	}

	hash, err := s.Hasher.Hash(newPassword)
	if err != nil {
		return nil, "", err
	}
	if err := s.Users.UpdatePassword(ctx, u.ID, hash); err != nil {
		return nil, "", err
	}
	token, _, err := s.Tokens.Issue(u.ID)
	if err != nil {
		return nil, "", err
	}
	return u, token, nil
}

// UpdatePassword changes the password of an authenticated user after
// verifying the current one, then reissues a session token (all tokens
// issued before this call become stale).
func (s *AuthService) UpdatePassword(ctx context.Context, userID, current, newPassword string) (*entity.User, string, error) {
	u, err := s.Users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, "", ErrUserNotFound
		}
		return nil, "", err
	}
	if !s.Hasher.Verify(u.Password, current) {
		return nil, "", ErrWrongPassword
	}

	hash, err := s.Hasher.Hash(newPassword)
	if err != nil {
		return nil, "", err
	}
	if err := s.Users.UpdatePassword(ctx, u.ID, hash); err != nil {
		return nil, "", err
	}
	token, _, err := s.Tokens.Issue(u.ID)
	if err != nil {
		return nil, "", err
	}
	return u, token, nil
}
