package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	squirrel "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/RutikKulkarni/ReferralNetworkHub-sub001/internal/core/domain"
	"github.com/RutikKulkarni/ReferralNetworkHub-sub001/internal/repository"
)

// AccountRepository implements port.AccountRepository using PostgreSQL.
type AccountRepository struct {
	exec    pgExecutor
	builder squirrel.StatementBuilderType
}

// NewAccountRepository wires a PostgreSQL-backed account repository.
func NewAccountRepository(exec pgExecutor) *AccountRepository {
	return &AccountRepository{
		exec:    exec,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// WithTx returns a repository instance operating within the supplied transaction.
func (r *AccountRepository) WithTx(tx pgx.Tx) *AccountRepository {
	if tx == nil {
		return r
	}
	return &AccountRepository{
		exec:    tx,
		builder: r.builder,
	}
}

var accountColumns = []string{
	"id",
	"email",
	"first_name",
	"last_name",
	"password_hash",
	"role",
	"company_name",
	"status",
	"blocked_reason",
	"blocked_at",
	"created_at",
	"updated_at",
}

// Create inserts a new account row. A unique violation on email maps to
// repository.ErrDuplicate.
func (r *AccountRepository) Create(ctx context.Context, account domain.Account) error {
	var companyValue any
	if account.CompanyName != nil && *account.CompanyName != "" {
		companyValue = *account.CompanyName
	}

	stmt, args, err := r.builder.Insert("auth.accounts").
		Columns(accountColumns...).
		Values(
			account.ID,
			account.Email,
			account.FirstName,
			account.LastName,
			account.PasswordHash,
			account.Role,
			companyValue,
			account.Status,
			account.BlockedReason,
			account.BlockedAt,
			account.CreatedAt,
			account.UpdatedAt,
		).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert account sql: %w", err)
	}

	if _, err := r.exec.Exec(ctx, stmt, args...); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
			return repository.ErrDuplicate
		}
		return fmt.Errorf("insert account: %w", err)
	}

	return nil
}

// GetByID retrieves an account by identifier.
func (r *AccountRepository) GetByID(ctx context.Context, id string) (*domain.Account, error) {
	return r.getBy(ctx, squirrel.Eq{"id": id})
}

// GetByEmail retrieves an account by its normalized email.
func (r *AccountRepository) GetByEmail(ctx context.Context, email string) (*domain.Account, error) {
	return r.getBy(ctx, squirrel.Eq{"email": email})
}

func (r *AccountRepository) getBy(ctx context.Context, pred squirrel.Eq) (*domain.Account, error) {
	stmt, args, err := r.builder.
		Select(accountColumns...).
		From("auth.accounts").
		Where(pred).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select account sql: %w", err)
	}

	row := r.exec.QueryRow(ctx, stmt, args...)

	var (
		account       domain.Account
		companyName   sql.NullString
		blockedReason sql.NullString
		blockedAt     sql.NullTime
	)

	if err := row.Scan(
		&account.ID,
		&account.Email,
		&account.FirstName,
		&account.LastName,
		&account.PasswordHash,
		&account.Role,
		&companyName,
		&account.Status,
		&blockedReason,
		&blockedAt,
		&account.CreatedAt,
		&account.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) || errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("scan account: %w", err)
	}

	if companyName.Valid {
		account.CompanyName = &companyName.String
	}
	if blockedReason.Valid {
		account.BlockedReason = &blockedReason.String
	}
	if blockedAt.Valid {
		t := blockedAt.Time
		account.BlockedAt = &t
	}

	return &account, nil
}

// UpdateNames updates the display names; nil fields are left untouched.
func (r *AccountRepository) UpdateNames(ctx context.Context, id string, firstName, lastName *string, at time.Time) error {
	update := r.builder.Update("auth.accounts").
		Set("updated_at", at).
		Where(squirrel.Eq{"id": id})

	if firstName != nil {
		update = update.Set("first_name", *firstName)
	}
	if lastName != nil {
		update = update.Set("last_name", *lastName)
	}

	stmt, args, err := update.ToSql()
	if err != nil {
		return fmt.Errorf("build update account names sql: %w", err)
	}

	tag, err := r.exec.Exec(ctx, stmt, args...)
	if err != nil {
		return fmt.Errorf("update account names: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}

	return nil
}

// UpdatePassword replaces the stored password hash.
func (r *AccountRepository) UpdatePassword(ctx context.Context, id string, passwordHash string, at time.Time) error {
	stmt, args, err := r.builder.Update("auth.accounts").
		Set("password_hash", passwordHash).
		Set("updated_at", at).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update password sql: %w", err)
	}

	tag, err := r.exec.Exec(ctx, stmt, args...)
	if err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}

	return nil
}

// SetBlocked transitions the account between active and blocked states.
func (r *AccountRepository) SetBlocked(ctx context.Context, id string, blocked bool, reason *string, at time.Time) error {
	status := domain.AccountStatusActive
	var reasonValue any
	var blockedAtValue any
	if blocked {
		status = domain.AccountStatusBlocked
		if reason != nil && *reason != "" {
			reasonValue = *reason
		}
		blockedAtValue = at
	}

	stmt, args, err := r.builder.Update("auth.accounts").
		Set("status", status).
		Set("blocked_reason", reasonValue).
		Set("blocked_at", blockedAtValue).
		Set("updated_at", at).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update blocked sql: %w", err)
	}

	tag, err := r.exec.Exec(ctx, stmt, args...)
	if err != nil {
		return fmt.Errorf("update blocked: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}

	return nil
}
