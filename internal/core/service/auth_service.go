package service

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/shopline/shop-api/internal/api/metrics"
	"github.com/shopline/shop-api/internal/core/domain"
	"github.com/shopline/shop-api/internal/core/ports"
)

const resetTokenTTL = time.Hour

// InputValidator validates tagged input structs, returning domain.ErrValidation.
type InputValidator interface {
	Struct(i any) error
}

// AuthOptions configures session and reset behaviour.
type AuthOptions struct {
	// SessionTTL bounds how long a login credential is trusted. Zero
	// issues non-expiring credentials.
	SessionTTL time.Duration
	// ResetCooldown is the minimum gap between forgot-password requests
	// for the same email. Zero disables throttling.
	ResetCooldown time.Duration
	// ResetURLBase is the page the reset link points at.
	ResetURLBase string
}

// AuthService implements registration, login and password recovery.
type AuthService struct {
	users    ports.UserRepository
	hasher   ports.PasswordHasher
	tokens   ports.TokenIssuer
	mailer   ports.Mailer
	throttle ports.Throttle
	validate InputValidator
	opts     AuthOptions
	log      zerolog.Logger
	now      func() time.Time
}

func NewAuthService(
	users ports.UserRepository,
	hasher ports.PasswordHasher,
	tokens ports.TokenIssuer,
	mailer ports.Mailer,
	throttle ports.Throttle,
	validate InputValidator,
	opts AuthOptions,
	log zerolog.Logger,
) *AuthService {
	return &AuthService{
		users:    users,
		hasher:   hasher,
		tokens:   tokens,
		mailer:   mailer,
		throttle: throttle,
		validate: validate,
		opts:     opts,
		log:      log,
		now:      time.Now,
	}
}

func (s *AuthService) Register(ctx context.Context, in ports.RegisterInput) (*domain.UserView, error) {
	in.Email = normalizeEmail(in.Email)
	if err := s.validate.Struct(in); err != nil {
		return nil, err
	}

	// The unique index is authoritative; this lookup only gives a clean
	// error before paying for the hash.
	if _, err := s.users.FindByEmail(ctx, in.Email); err == nil {
		return nil, domain.ErrUserExists
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		return nil, fmt.Errorf("register: %w", err)
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, fmt.Errorf("register: hash password: %w", err)
	}

	role := in.Role
	if role == "" {
		role = domain.RoleUser
	}

	created, err := s.users.Create(ctx, &domain.User{
		Name:         strings.TrimSpace(in.Name),
		Email:        in.Email,
		PasswordHash: hash,
		Role:         role,
		Cart:         []domain.CartLine{},
		CreatedAt:    s.now().UTC(),
	})
	if err != nil {
		if errors.Is(err, domain.ErrUserExists) {
			return nil, err
		}
		return nil, fmt.Errorf("register: %w", err)
	}

	metrics.UsersRegisteredTotal.WithLabelValues(role).Inc()
	s.log.Info().Str("user_id", created.ID).Str("role", role).Msg("user registered")

	view := created.View()
	return &view, nil
}

func (s *AuthService) Login(ctx context.Context, in ports.LoginInput) (string, error) {
	in.Email = normalizeEmail(in.Email)
	if err := s.validate.Struct(in); err != nil {
		return "", err
	}

	user, err := s.users.FindByEmail(ctx, in.Email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			metrics.LoginsTotal.WithLabelValues("unknown_email").Inc()
			return "", err
		}
		return "", fmt.Errorf("login: %w", err)
	}

	if !s.hasher.Verify(in.Password, user.PasswordHash) {
		metrics.LoginsTotal.WithLabelValues("bad_password").Inc()
		return "", domain.ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(ports.Claims{UserID: user.ID, Role: user.Role}, s.opts.SessionTTL)
	if err != nil {
		return "", fmt.Errorf("login: issue token: %w", err)
	}

	metrics.LoginsTotal.WithLabelValues("success").Inc()
	return token, nil
}

func (s *AuthService) ListUsers(ctx context.Context, requesterRole string) ([]domain.UserView, error) {
	if err := requireAdmin(requesterRole); err != nil {
		return nil, err
	}

	users, err := s.users.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}

	views := make([]domain.UserView, len(users))
	for i, u := range users {
		views[i] = u.View()
	}
	return views, nil
}

// ForgotPassword persists a one-hour reset credential and mails a link
// carrying it. The credential stays persisted when delivery fails.
func (s *AuthService) ForgotPassword(ctx context.Context, in ports.ForgotPasswordInput) error {
	in.Email = normalizeEmail(in.Email)
	if err := s.validate.Struct(in); err != nil {
		return err
	}

	user, err := s.users.FindByEmail(ctx, in.Email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return err
		}
		return fmt.Errorf("forgot password: %w", err)
	}

	if s.throttle != nil && s.opts.ResetCooldown > 0 {
		ok, err := s.throttle.Allow(ctx, "reset:"+user.ID, s.opts.ResetCooldown)
		if err != nil {
			s.log.Warn().Err(err).Str("user_id", user.ID).Msg("reset throttle check failed, continuing")
		} else if !ok {
			return fmt.Errorf("forgot password: %w", domain.ErrTooManyRequests)
		}
	}

	token, err := s.tokens.Issue(ports.Claims{UserID: user.ID, Purpose: ports.PurposeReset}, resetTokenTTL)
	if err != nil {
		return fmt.Errorf("forgot password: issue token: %w", err)
	}

	expires := s.now().Add(resetTokenTTL).UTC()
	if err := s.users.SetResetToken(ctx, user.ID, token, expires); err != nil {
		return fmt.Errorf("forgot password: %w", err)
	}

	link := s.resetLink(token)
	msg := ports.MailMessage{
		To:      user.Email,
		Subject: "Password reset",
		Text: fmt.Sprintf("You requested a password reset. Follow this link within one hour to choose a new password:\n\n%s\n\n"+
			"If you did not request a reset, ignore this email.", link),
		HTML: fmt.Sprintf(`<p>You requested a password reset.</p><p><a href="%s">Reset your password</a> within one hour.</p>`+
			`<p>If you did not request a reset, ignore this email.</p>`, link),
	}
	if err := s.mailer.Send(ctx, msg); err != nil {
		metrics.EmailsSentTotal.WithLabelValues("failed").Inc()
		s.log.Error().Err(err).Str("user_id", user.ID).Msg("reset email delivery failed")
		return fmt.Errorf("forgot password: %w: %v", domain.ErrEmailDelivery, err)
	}

	metrics.EmailsSentTotal.WithLabelValues("sent").Inc()
	s.log.Info().Str("user_id", user.ID).Msg("reset email sent")
	return nil
}

// ResetPassword consumes a reset credential. The token must match the
// one stored on the user and be unexpired.
func (s *AuthService) ResetPassword(ctx context.Context, in ports.ResetPasswordInput) error {
	if err := s.validate.Struct(in); err != nil {
		return err
	}

	claims, err := s.tokens.Verify(in.Token)
	if err != nil || claims.Purpose != ports.PurposeReset {
		return domain.ErrInvalidToken
	}

	user, err := s.users.FindByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return domain.ErrInvalidToken
		}
		return fmt.Errorf("reset password: %w", err)
	}
	if user.ResetPasswordToken == "" || user.ResetPasswordToken != in.Token || s.now().After(user.ResetPasswordExpires) {
		return domain.ErrInvalidToken
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return fmt.Errorf("reset password: hash password: %w", err)
	}
	if err := s.users.UpdatePassword(ctx, user.ID, hash); err != nil {
		return fmt.Errorf("reset password: %w", err)
	}

	s.log.Info().Str("user_id", user.ID).Msg("password reset")
	return nil
}

func (s *AuthService) resetLink(token string) string {
	base := s.opts.ResetURLBase
	sep := "?"
	if strings.Contains(base, "?") {
		sep = "&"
	}
	return base + sep + "token=" + url.QueryEscape(token)
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func requireAdmin(role string) error {
	if role != domain.RoleAdmin {
		return domain.ErrForbidden
	}
	return nil
}
