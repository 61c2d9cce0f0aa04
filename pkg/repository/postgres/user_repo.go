package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/avdeev21/accounts/pkg/auth"
)

// UserRepository implements auth.UserRepository backed by PostgreSQL (pgx).
// Emails are stored and matched exactly as given.
type UserRepository struct {
	pool *pgxpool.Pool
}

func NewUserRepository(pool *pgxpool.Pool) (*UserRepository, error) {
	repo := &UserRepository{pool: pool}
	if err := repo.ensureSchema(context.Background()); err != nil {
		return nil, err
	}
	return repo, nil
}

func (r *UserRepository) ensureSchema(ctx context.Context) error {
	_, err := r.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS users (
			id UUID PRIMARY KEY,
			email TEXT NOT NULL UNIQUE,
			password_hash TEXT NOT NULL DEFAULT '',
			token TEXT NOT NULL DEFAULT '',
			reset_token TEXT NOT NULL DEFAULT '',
			reset_sent_at TIMESTAMPTZ,
			created_at TIMESTAMPTZ NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL
		);
	`)
	return err
}

func (r *UserRepository) Create(ctx context.Context, user auth.User) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO users (id, email, password_hash, token, reset_token, reset_sent_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $7)
	`, user.ID, user.Email, user.PasswordHash, user.Token, user.ResetToken, user.ResetSentAt, user.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" { // unique_violation
			return auth.ErrUserAlreadyExists
		}
		return err
	}
	return nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (auth.User, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, email, password_hash, token, reset_token, reset_sent_at, created_at, updated_at
		FROM users WHERE email = $1
	`, email)
	var user auth.User
	if err := row.Scan(&user.ID, &user.Email, &user.PasswordHash, &user.Token,
		&user.ResetToken, &user.ResetSentAt, &user.CreatedAt, &user.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return auth.User{}, auth.ErrNotFound
		}
		return auth.User{}, err
	}
	user.CreatedAt = user.CreatedAt.UTC()
	user.UpdatedAt = user.UpdatedAt.UTC()
	return user, nil
}

// AssignToken writes the token only when none is stored yet. The CASE keeps
// the whole decision in one statement, so two concurrent first logins both
// read back the same canonical token.
func (r *UserRepository) AssignToken(ctx context.Context, id uuid.UUID, token string, now time.Time) (string, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE users
		SET token = CASE WHEN token = '' THEN $2 ELSE token END,
		    updated_at = $3
		WHERE id = $1
		RETURNING token
	`, id, token, now)
	var stored string
	if err := row.Scan(&stored); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", auth.ErrNotFound
		}
		return "", err
	}
	return stored, nil
}

func (r *UserRepository) SetResetToken(ctx context.Context, id uuid.UUID, token string, sentAt time.Time) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE users
		SET reset_token = $2, reset_sent_at = $3, updated_at = $3
		WHERE id = $1
	`, id, token, sentAt)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return auth.ErrNotFound
	}
	return nil
}

func (r *UserRepository) CompleteReset(ctx context.Context, id uuid.UUID, passwordHash string, now time.Time) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE users
		SET password_hash = $2, reset_token = '', reset_sent_at = NULL, updated_at = $3
		WHERE id = $1
	`, id, passwordHash, now)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return auth.ErrNotFound
	}
	return nil
}
