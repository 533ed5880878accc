package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	squirrel "github.com/Masterminds/squirrel"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/savoro/catering-auth/internal/core/domain"
	"github.com/savoro/catering-auth/internal/core/port"
	"github.com/savoro/catering-auth/internal/repository"
)

type pgExecutor interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

var accountColumns = []string{
	"id",
	"first_name",
	"last_name",
	"email",
	"phone",
	"password",
	"email_verified",
	"status",
	"created_at",
	"updated_at",
	"last_login",
}

// AccountRepository implements port.AccountRepository using PostgreSQL.
type AccountRepository struct {
	pool    *pgxpool.Pool
	exec    pgExecutor
	builder squirrel.StatementBuilderType
}

// NewAccountRepository wires a PostgreSQL-backed account repository.
func NewAccountRepository(pool *pgxpool.Pool) *AccountRepository {
	return &AccountRepository{
		pool:    pool,
		exec:    pool,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// WithExecutor returns a repository instance bound to the supplied executor.
// Used by tests and transactional callers.
func (r *AccountRepository) WithExecutor(exec pgExecutor) *AccountRepository {
	if exec == nil {
		return r
	}
	return &AccountRepository{
		pool:    r.pool,
		exec:    exec,
		builder: r.builder,
	}
}

// Create inserts a new account row and returns the generated identifier.
// A collision with the unique email index surfaces as ErrDuplicateEmail so
// callers can distinguish races from infrastructure failures.
func (r *AccountRepository) Create(ctx context.Context, account domain.Account) (int64, error) {
	stmt, args, err := r.builder.Insert("users").
		Columns(
			"first_name",
			"last_name",
			"email",
			"phone",
			"password",
			"email_verified",
			"status",
			"created_at",
			"updated_at",
		).
		Values(
			account.FirstName,
			account.LastName,
			account.Email,
			account.Phone,
			account.PasswordHash,
			account.EmailVerified,
			account.Status,
			account.CreatedAt,
			account.UpdatedAt,
		).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build insert account sql: %w", err)
	}

	var id int64
	if err := r.exec.QueryRow(ctx, stmt, args...).Scan(&id); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return 0, repository.ErrDuplicateEmail
		}
		return 0, fmt.Errorf("insert account: %w", err)
	}

	return id, nil
}

// GetByID retrieves an account by identifier.
func (r *AccountRepository) GetByID(ctx context.Context, id int64) (*domain.Account, error) {
	stmt, args, err := r.builder.
		Select(accountColumns...).
		From("users").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select account sql: %w", err)
	}

	return r.scanAccount(r.exec.QueryRow(ctx, stmt, args...))
}

// GetByEmail retrieves an account by its normalized email address.
func (r *AccountRepository) GetByEmail(ctx context.Context, email string) (*domain.Account, error) {
	stmt, args, err := r.builder.
		Select(accountColumns...).
		From("users").
		Where(squirrel.Eq{"email": email}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select account by email sql: %w", err)
	}

	return r.scanAccount(r.exec.QueryRow(ctx, stmt, args...))
}

// EmailExists reports whether an account with the given email is registered.
func (r *AccountRepository) EmailExists(ctx context.Context, email string) (bool, error) {
	stmt, args, err := r.builder.
		Select("COUNT(*)").
		From("users").
		Where(squirrel.Eq{"email": email}).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("build count accounts sql: %w", err)
	}

	var count int64
	if err := r.exec.QueryRow(ctx, stmt, args...).Scan(&count); err != nil {
		return false, fmt.Errorf("scan accounts count: %w", err)
	}

	return count > 0, nil
}

// UpdateLastLogin records the moment of a successful authentication.
func (r *AccountRepository) UpdateLastLogin(ctx context.Context, id int64, at time.Time) error {
	stmt, args, err := r.builder.Update("users").
		Set("last_login", at).
		Set("updated_at", at).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update last login sql: %w", err)
	}

	ct, err := r.exec.Exec(ctx, stmt, args...)
	if err != nil {
		return fmt.Errorf("update last login: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return repository.ErrNotFound
	}

	return nil
}

func (r *AccountRepository) scanAccount(row pgx.Row) (*domain.Account, error) {
	var (
		account   domain.Account
		lastLogin *time.Time
	)

	if err := row.Scan(
		&account.ID,
		&account.FirstName,
		&account.LastName,
		&account.Email,
		&account.Phone,
		&account.PasswordHash,
		&account.EmailVerified,
		&account.Status,
		&account.CreatedAt,
		&account.UpdatedAt,
		&lastLogin,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("scan account: %w", err)
	}

	account.LastLogin = lastLogin
	return &account, nil
}

var _ port.AccountRepository = (*AccountRepository)(nil)
