package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	squirrel "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"github.com/RutikKulkarni/ReferralNetworkHub-sub001/internal/core/domain"
	"github.com/RutikKulkarni/ReferralNetworkHub-sub001/internal/repository"
)

// ResetRequestRepository implements port.ResetRequestRepository using PostgreSQL.
type ResetRequestRepository struct {
	exec    pgExecutor
	builder squirrel.StatementBuilderType
}

// NewResetRequestRepository constructs a new reset request repository.
func NewResetRequestRepository(exec pgExecutor) *ResetRequestRepository {
	return &ResetRequestRepository{
		exec:    exec,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// WithTx returns a repository instance executing within the provided transaction.
func (r *ResetRequestRepository) WithTx(tx pgx.Tx) *ResetRequestRepository {
	if tx == nil {
		return r
	}
	return &ResetRequestRepository{
		exec:    tx,
		builder: r.builder,
	}
}

// Create inserts a new password reset request.
func (r *ResetRequestRepository) Create(ctx context.Context, request domain.PasswordResetRequest) error {
	stmt, args, err := r.builder.Insert("auth.password_reset_requests").
		Columns("id", "email", "token_hash", "created_at", "expires_at").
		Values(request.ID, request.Email, request.TokenHash, request.CreatedAt, request.ExpiresAt).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert reset request sql: %w", err)
	}

	if _, err := r.exec.Exec(ctx, stmt, args...); err != nil {
		return fmt.Errorf("insert reset request: %w", err)
	}

	return nil
}

// GetByHashAndEmail retrieves a reset request by exact (token hash, email) match.
func (r *ResetRequestRepository) GetByHashAndEmail(ctx context.Context, hash, email string) (*domain.PasswordResetRequest, error) {
	stmt, args, err := r.builder.
		Select("id", "email", "token_hash", "created_at", "expires_at").
		From("auth.password_reset_requests").
		Where(squirrel.Eq{"token_hash": hash, "email": email}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select reset request sql: %w", err)
	}

	row := r.exec.QueryRow(ctx, stmt, args...)

	var request domain.PasswordResetRequest
	if err := row.Scan(
		&request.ID,
		&request.Email,
		&request.TokenHash,
		&request.CreatedAt,
		&request.ExpiresAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) || errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("scan reset request: %w", err)
	}

	return &request, nil
}

// DeleteByID removes a redeemed request, enforcing single use.
func (r *ResetRequestRepository) DeleteByID(ctx context.Context, id string) error {
	stmt, args, err := r.builder.Delete("auth.password_reset_requests").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete reset request sql: %w", err)
	}

	if _, err := r.exec.Exec(ctx, stmt, args...); err != nil {
		return fmt.Errorf("delete reset request: %w", err)
	}

	return nil
}

// DeleteByEmail removes any live request for the email; a new request
// supersedes all prior ones.
func (r *ResetRequestRepository) DeleteByEmail(ctx context.Context, email string) error {
	stmt, args, err := r.builder.Delete("auth.password_reset_requests").
		Where(squirrel.Eq{"email": email}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete reset requests sql: %w", err)
	}

	if _, err := r.exec.Exec(ctx, stmt, args...); err != nil {
		return fmt.Errorf("delete reset requests: %w", err)
	}

	return nil
}

// DeleteExpired prunes requests past their validity window. Correctness does
// not depend on this running; age is re-checked at redemption time.
func (r *ResetRequestRepository) DeleteExpired(ctx context.Context, before time.Time) (int64, error) {
	stmt, args, err := r.builder.Delete("auth.password_reset_requests").
		Where(squirrel.LtOrEq{"expires_at": before}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build delete expired reset requests sql: %w", err)
	}

	tag, err := r.exec.Exec(ctx, stmt, args...)
	if err != nil {
		return 0, fmt.Errorf("delete expired reset requests: %w", err)
	}

	return tag.RowsAffected(), nil
}
