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

// RegistrationResult bundles the created account and its initial session.
type RegistrationResult struct {
	Account domain.Account
	Session domain.Session
}

// RegistrationService handles signup and email availability checks.
type RegistrationService struct {
	cfg       *config.AppConfig
	accounts  port.AccountRepository
	sessions  port.SessionStore
	validator *AccountValidator
	events    port.EventPublisher
	logger    *zap.Logger
	now       func() time.Time
}

// NewRegistrationService constructs a RegistrationService instance.
func NewRegistrationService(
	cfg *config.AppConfig,
	accounts port.AccountRepository,
	sessions port.SessionStore,
	validator *AccountValidator,
	events port.EventPublisher,
	log *zap.Logger,
) *RegistrationService {
	return &RegistrationService{
		cfg:       cfg,
		accounts:  accounts,
		sessions:  sessions,
		validator: validator,
		events:    events,
		logger:    log,
		now:       time.Now,
	}
}

// WithClock overrides the time source. Intended for tests.
func (s *RegistrationService) WithClock(now func() time.Time) *RegistrationService {
	if now != nil {
		s.now = now
	}
	return s
}

// Register validates the submission, creates the account, and logs the new
// customer in. The unique email index is the final authority on duplicates;
// the advisory pre-check only produces a friendlier early answer.
func (s *RegistrationService) Register(ctx context.Context, input RegistrationInput) (*RegistrationResult, error) {
	input.Email = NormalizeEmail(input.Email)
	input.Phone = NormalizePhone(input.Phone)

	if violations := s.validator.Validate(input); len(violations) > 0 {
		return nil, &ValidationError{Violations: violations}
	}

	taken, err := s.accounts.EmailExists(ctx, input.Email)
	if err != nil {
		return nil, fmt.Errorf("check email: %w", err)
	}
	if taken {
		return nil, ErrEmailTaken
	}

	hash, err := security.HashPassword(input.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	now := s.now().UTC()
	account := domain.Account{
		FirstName:     input.FirstName,
		LastName:      input.LastName,
		Email:         input.Email,
		Phone:         input.Phone,
		PasswordHash:  hash,
		EmailVerified: false,
		Status:        domain.AccountStatusActive,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	id, err := s.accounts.Create(ctx, account)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("create account: %w", err)
	}
	account.ID = id

	session, err := issueSession(ctx, s.sessions, account, now, s.cfg.Session.TTL)
	if err != nil {
		return nil, err
	}

	if err := s.events.PublishAccountRegistered(ctx, domain.AccountRegisteredEvent{
		AccountID:    account.ID,
		Email:        account.Email,
		Phone:        account.Phone,
		RegisteredAt: now,
	}); err != nil {
		s.logger.Warn("publish registration event failed", zap.Error(err))
	}

	s.logger.Info("account registered",
		zap.Int64("account_id", account.ID),
		zap.String("email", logger.MaskEmail(account.Email)),
	)

	return &RegistrationResult{Account: account, Session: session}, nil
}

// EmailExists reports whether an address is already registered. The answer is
// advisory; signup can still lose a race and must handle the duplicate error.
func (s *RegistrationService) EmailExists(ctx context.Context, email string) (bool, error) {
	email = NormalizeEmail(email)
	if !ValidEmail(email) {
		return false, &ValidationError{Violations: []string{"Valid email address is required"}}
	}

	taken, err := s.accounts.EmailExists(ctx, email)
	if err != nil {
		return false, fmt.Errorf("check email: %w", err)
	}

	return taken, nil
}
