package port

import (
	"context"
	"time"

	"github.com/savoro/catering-auth/internal/core/domain"
)

// AccountRepository exposes persistence behavior for customer accounts.
type AccountRepository interface {
	// Create inserts the account and returns the store-assigned identifier.
	// Returns repository.ErrDuplicateEmail when the email is already taken.
	Create(ctx context.Context, account domain.Account) (int64, error)
	GetByID(ctx context.Context, id int64) (*domain.Account, error)
	GetByEmail(ctx context.Context, email string) (*domain.Account, error)
	EmailExists(ctx context.Context, email string) (bool, error)
	UpdateLastLogin(ctx context.Context, id int64, at time.Time) error
}
