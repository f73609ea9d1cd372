package repo

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/BuzzLyutic/taskhub-api/internal/model"
)

func (r *PostgresRepo) CreateUser(ctx context.Context, u model.User) (model.User, error) {
	err := r.pool.QueryRow(ctx, `
		INSERT INTO users (username, email, password_hash)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`, u.Username, u.Email, u.PasswordHash).Scan(&u.ID, &u.CreatedAt)
	return u, r.mapError(err)
}

func (r *PostgresRepo) GetUser(ctx context.Context, id int64) (model.User, error) {
	return r.getUser(ctx, "id = $1", id)
}

func (r *PostgresRepo) GetUserByUsername(ctx context.Context, username string) (model.User, error) {
	return r.getUser(ctx, "username = $1", username)
}

func (r *PostgresRepo) getUser(ctx context.Context, cond string, arg any) (model.User, error) {
	var u model.User
	err := r.pool.QueryRow(ctx, `
		SELECT id, username, email, password_hash, created_at
		FROM users WHERE `+cond, arg).Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.CreatedAt)
	if err == pgx.ErrNoRows {
		return u, ErrorNotFound
	}
	return u, err
}

func (r *PostgresRepo) BlacklistToken(ctx context.Context, jti string, userID int64, expiresAt time.Time) error {
	cmd, err := r.pool.Exec(ctx, `
		INSERT INTO token_blacklist (jti, user_id, expires_at) VALUES ($1, $2, $3)
		ON CONFLICT (jti) DO NOTHING
	`, jti, userID, expiresAt)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrorConflict
	}
	return nil
}

func (r *PostgresRepo) IsBlacklisted(ctx context.Context, jti string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `
		SELECT EXISTS (SELECT 1 FROM token_blacklist WHERE jti = $1)
	`, jti).Scan(&exists)
	return exists, err
}

func (r *PostgresRepo) PurgeExpired(ctx context.Context, now time.Time) (int64, error) {
	cmd, err := r.pool.Exec(ctx, "DELETE FROM token_blacklist WHERE expires_at < $1", now)
	if err != nil {
		return 0, err
	}
	return cmd.RowsAffected(), nil
}
