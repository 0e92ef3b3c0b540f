package repositories

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/signcircle/backend/internal/db"
)

// PostgresCredentialStore provides PostgreSQL-backed persistence for login
// credentials.
type PostgresCredentialStore struct {
	pool db.Pool
}

// NewPostgresCredentialStore constructs a credential store backed by PostgreSQL.
func NewPostgresCredentialStore(pool db.Pool) *PostgresCredentialStore {
	return &PostgresCredentialStore{pool: pool}
}

// Create persists a new credential record.
func (s *PostgresCredentialStore) Create(ctx context.Context, cred Credential) error {
	conn, err := s.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	_, err = conn.Exec(ctx, `
        INSERT INTO credentials (user_id, handle, email, password_hash, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6)
    `, cred.UserID, strings.ToLower(cred.Handle), strings.ToLower(cred.Email), cred.PasswordHash, cred.CreatedAt, cred.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrConflict
		}
		return fmt.Errorf("insert credential: %w", err)
	}

	return nil
}

// FindByHandle fetches a credential by its handle.
func (s *PostgresCredentialStore) FindByHandle(ctx context.Context, handle string) (Credential, error) {
	return s.findBy(ctx, "handle", strings.ToLower(handle))
}

// FindByEmail fetches a credential by its email address.
func (s *PostgresCredentialStore) FindByEmail(ctx context.Context, email string) (Credential, error) {
	return s.findBy(ctx, "email", strings.ToLower(email))
}

func (s *PostgresCredentialStore) findBy(ctx context.Context, column, value string) (Credential, error) {
	conn, err := s.pool.Acquire(ctx)
	if err != nil {
		return Credential{}, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	row := conn.QueryRow(ctx, fmt.Sprintf(`
        SELECT user_id, handle, email, password_hash, created_at, updated_at
        FROM credentials
        WHERE %s = $1
    `, column), value)

	var cred Credential
	if err := row.Scan(&cred.UserID, &cred.Handle, &cred.Email, &cred.PasswordHash, &cred.CreatedAt, &cred.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Credential{}, ErrNotFound
		}
		return Credential{}, fmt.Errorf("select credential by %s: %w", column, err)
	}

	return cred, nil
}

// UpdatePassword rotates the stored password hash for a member.
func (s *PostgresCredentialStore) UpdatePassword(ctx context.Context, userID, passwordHash string) error {
	conn, err := s.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	tag, err := conn.Exec(ctx, `
        UPDATE credentials
        SET password_hash = $2, updated_at = now()
        WHERE user_id = $1
    `, userID, passwordHash)
	if err != nil {
		return fmt.Errorf("update credential password: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}

var _ CredentialStore = (*PostgresCredentialStore)(nil)
