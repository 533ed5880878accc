package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/savoro/catering-auth/internal/core/domain"
	"github.com/savoro/catering-auth/internal/core/port"
	"github.com/savoro/catering-auth/internal/infra/config"
	"github.com/savoro/catering-auth/internal/infra/logger"
	"github.com/savoro/catering-auth/internal/infra/security"
	"github.com/savoro/catering-auth/internal/repository"
)

// LoginInput carries the credentials and request metadata for a login attempt.
type LoginInput struct {
	Email      string
	Password   string
	RememberMe bool
	IPAddress  string
}

// LoginResult bundles everything a successful authentication produced.
// RememberToken holds the raw token and is empty unless the caller opted in;
// it is never stored or logged in this form.
type LoginResult struct {
	Account       domain.Account
	Session       domain.Session
	RememberToken string
}

// AuthService coordinates login, session checks, logout, and remember-me
// redemption.
type AuthService struct {
	cfg      *config.AppConfig
	accounts port.AccountRepository
	sessions port.SessionStore
	remember port.RememberTokenStore
	limiter  *AttemptLimiter
	events   port.EventPublisher
	logger   *zap.Logger
	now      func() time.Time
}

// NewAuthService constructs an AuthService instance.
func NewAuthService(
	cfg *config.AppConfig,
	accounts port.AccountRepository,
	sessions port.SessionStore,
	remember port.RememberTokenStore,
	limiter *AttemptLimiter,
	events port.EventPublisher,
	log *zap.Logger,
) *AuthService {
	return &AuthService{
		cfg:      cfg,
		accounts: accounts,
		sessions: sessions,
		remember: remember,
		limiter:  limiter,
		events:   events,
		logger:   log,
		now:      time.Now,
	}
}

// WithClock overrides the time source. Intended for tests.
func (s *AuthService) WithClock(now func() time.Time) *AuthService {
	if now != nil {
		s.now = now
	}
	return s
}

// Login validates credentials and issues a session. Failed attempts count
// against the per-email throttle, and unknown emails are indistinguishable
// from wrong passwords in both the error and the timing of the throttle.
func (s *AuthService) Login(ctx context.Context, input LoginInput) (*LoginResult, error) {
	email := NormalizeEmail(input.Email)

	var violations []string
	if !ValidEmail(email) {
		violations = append(violations, "Valid email address is required")
	}
	if input.Password == "" {
		violations = append(violations, "Password is required")
	}
	if len(violations) > 0 {
		return nil, &ValidationError{Violations: violations}
	}

	if err := s.limiter.Allow(ctx, email); err != nil {
		return nil, err
	}

	now := s.now().UTC()

	account, err := s.accounts.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			s.auditLoginFailed(ctx, 0, email, "unknown_email", input.IPAddress, now)
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("lookup account: %w", err)
	}

	if !account.CanAuthenticate() {
		s.auditLoginFailed(ctx, account.ID, email, "account_suspended", input.IPAddress, now)
		return nil, ErrAccountSuspended
	}

	ok, err := security.VerifyPassword(input.Password, account.PasswordHash)
	if err != nil {
		return nil, fmt.Errorf("verify password: %w", err)
	}
	if !ok {
		s.auditLoginFailed(ctx, account.ID, email, "wrong_password", input.IPAddress, now)
		return nil, ErrInvalidCredentials
	}

	if err := s.accounts.UpdateLastLogin(ctx, account.ID, now); err != nil {
		return nil, fmt.Errorf("update last login: %w", err)
	}
	account.LastLogin = &now

	session, err := issueSession(ctx, s.sessions, *account, now, s.cfg.Session.TTL)
	if err != nil {
		return nil, err
	}

	result := &LoginResult{Account: *account, Session: session}

	if input.RememberMe {
		raw, err := s.issueRememberToken(ctx, account.ID, now)
		if err != nil {
			return nil, err
		}
		result.RememberToken = raw
	}

	if err := s.events.PublishLoginSucceeded(ctx, domain.LoginSucceededEvent{
		AccountID:  account.ID,
		Email:      email,
		RememberMe: input.RememberMe,
		IPAddress:  input.IPAddress,
		LoginAt:    now,
	}); err != nil {
		s.logger.Warn("publish login event failed", zap.Error(err))
	}

	s.logger.Info("login succeeded",
		zap.Int64("account_id", account.ID),
		zap.String("email", logger.MaskEmail(email)),
		zap.Bool("remember_me", input.RememberMe),
	)

	return result, nil
}

// CheckSession resolves the account behind a session identifier. A session
// whose account has since been suspended is torn down and reported as
// unauthenticated.
func (s *AuthService) CheckSession(ctx context.Context, sessionID string) (*domain.Account, *domain.Session, error) {
	if sessionID == "" {
		return nil, nil, ErrUnauthenticated
	}

	session, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil, ErrUnauthenticated
		}
		return nil, nil, fmt.Errorf("lookup session: %w", err)
	}

	if !session.Active(s.now().UTC()) {
		_ = s.sessions.Delete(ctx, sessionID)
		return nil, nil, ErrUnauthenticated
	}

	account, err := s.accounts.GetByID(ctx, session.AccountID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			_ = s.sessions.Delete(ctx, sessionID)
			return nil, nil, ErrUnauthenticated
		}
		return nil, nil, fmt.Errorf("lookup account: %w", err)
	}

	if !account.CanAuthenticate() {
		_ = s.sessions.Delete(ctx, sessionID)
		return nil, nil, ErrUnauthenticated
	}

	return account, session, nil
}

// Logout tears down the session and remember token. It is idempotent: absent
// or already-expired credentials still produce a successful logout.
func (s *AuthService) Logout(ctx context.Context, sessionID, rememberToken string) error {
	var accountID int64

	if sessionID != "" {
		if session, err := s.sessions.Get(ctx, sessionID); err == nil {
			accountID = session.AccountID
		}
		if err := s.sessions.Delete(ctx, sessionID); err != nil {
			s.logger.Warn("delete session failed", zap.Error(err))
		}
	}

	if rememberToken != "" {
		if err := s.remember.Delete(ctx, security.HashToken(rememberToken)); err != nil {
			s.logger.Warn("delete remember token failed", zap.Error(err))
		}
	}

	if accountID != 0 {
		if err := s.events.PublishLogout(ctx, domain.LogoutEvent{
			AccountID: accountID,
			SessionID: sessionID,
			LogoutAt:  s.now().UTC(),
		}); err != nil {
			s.logger.Warn("publish logout event failed", zap.Error(err))
		}
	}

	return nil
}

// RedeemRememberToken exchanges a raw remember-me token for a fresh session.
// Invalid, expired, and revoked tokens all surface as ErrUnauthenticated.
func (s *AuthService) RedeemRememberToken(ctx context.Context, raw string) (*LoginResult, error) {
	if raw == "" {
		return nil, ErrUnauthenticated
	}

	token, err := s.remember.Get(ctx, security.HashToken(raw))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUnauthenticated
		}
		return nil, fmt.Errorf("lookup remember token: %w", err)
	}

	now := s.now().UTC()
	if token.Expired(now) {
		_ = s.remember.Delete(ctx, token.TokenHash)
		return nil, ErrUnauthenticated
	}

	account, err := s.accounts.GetByID(ctx, token.AccountID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			_ = s.remember.Delete(ctx, token.TokenHash)
			return nil, ErrUnauthenticated
		}
		return nil, fmt.Errorf("lookup account: %w", err)
	}

	if !account.CanAuthenticate() {
		_ = s.remember.Delete(ctx, token.TokenHash)
		return nil, ErrUnauthenticated
	}

	if err := s.accounts.UpdateLastLogin(ctx, account.ID, now); err != nil {
		return nil, fmt.Errorf("update last login: %w", err)
	}
	account.LastLogin = &now

	session, err := issueSession(ctx, s.sessions, *account, now, s.cfg.Session.TTL)
	if err != nil {
		return nil, err
	}

	s.logger.Info("remember token redeemed", zap.Int64("account_id", account.ID))

	return &LoginResult{Account: *account, Session: session}, nil
}

func (s *AuthService) issueRememberToken(ctx context.Context, accountID int64, now time.Time) (string, error) {
	raw, err := security.GenerateSecureToken(security.SessionIDBytes)
	if err != nil {
		return "", fmt.Errorf("generate remember token: %w", err)
	}

	ttl := s.cfg.Session.RememberTTL
	token := domain.RememberToken{
		TokenHash: security.HashToken(raw),
		AccountID: accountID,
		CreatedAt: now,
		ExpiresAt: now.Add(ttl),
	}

	if err := s.remember.Put(ctx, token, ttl); err != nil {
		return "", fmt.Errorf("store remember token: %w", err)
	}

	return raw, nil
}

func (s *AuthService) auditLoginFailed(ctx context.Context, accountID int64, email, reason, ip string, at time.Time) {
	if err := s.events.PublishLoginFailed(ctx, domain.LoginFailedEvent{
		AccountID: accountID,
		Email:     email,
		Reason:    reason,
		IPAddress: ip,
		FailedAt:  at,
	}); err != nil {
		s.logger.Warn("publish login failed event failed", zap.Error(err))
	}
}

// issueSession mints an opaque identifier and stores the session. Shared by
// login, registration, and remember-me redemption so every path produces the
// same session shape.
func issueSession(ctx context.Context, store port.SessionStore, account domain.Account, now time.Time, ttl time.Duration) (domain.Session, error) {
	id, err := security.GenerateSessionID()
	if err != nil {
		return domain.Session{}, fmt.Errorf("generate session id: %w", err)
	}

	session := domain.Session{
		ID:          id,
		AccountID:   account.ID,
		Email:       account.Email,
		DisplayName: account.FullName(),
		LoginAt:     now,
		ExpiresAt:   now.Add(ttl),
	}

	if err := store.Put(ctx, session, ttl); err != nil {
		return domain.Session{}, fmt.Errorf("store session: %w", err)
	}

	return session, nil
}
