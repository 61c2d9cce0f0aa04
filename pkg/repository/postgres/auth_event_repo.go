package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/avdeev21/accounts/pkg/auth"
)

// AuthEventRepository implements auth.AuthEventRepository backed by
// PostgreSQL. The table is append-only; rows are never updated or deleted.
type AuthEventRepository struct {
	pool *pgxpool.Pool
}

func NewAuthEventRepository(pool *pgxpool.Pool) (*AuthEventRepository, error) {
	repo := &AuthEventRepository{pool: pool}
	if err := repo.ensureSchema(context.Background()); err != nil {
		return nil, err
	}
	return repo, nil
}

func (r *AuthEventRepository) ensureSchema(ctx context.Context) error {
	_, err := r.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS auth_events (
			id UUID PRIMARY KEY,
			ip_address INET,
			user_id UUID NOT NULL,
			success BOOLEAN NOT NULL,
			created_at TIMESTAMPTZ NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_auth_events_user_id ON auth_events (user_id);
	`)
	return err
}

func (r *AuthEventRepository) Record(ctx context.Context, event auth.AuthEvent) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO auth_events (id, ip_address, user_id, success, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`, event.ID, event.IPAddress, event.UserID, event.Success, event.CreatedAt)
	return err
}
