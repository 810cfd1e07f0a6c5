package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/geocoder89/homage/internal/domain/token"
	"github.com/geocoder89/homage/internal/observability"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type TokensRepo struct {
	pool *pgxpool.Pool
	observer
}

func NewTokensRepo(pool *pgxpool.Pool, prom *observability.Prom) *TokensRepo {
	return &TokensRepo{pool: pool, observer: observer{prom: prom}}
}

const tokenColumns = `id, user_id, name, token, last_used_at, created_at`

func scanToken(row pgx.Row) (token.Token, error) {
	var t token.Token

	err := row.Scan(
		&t.ID,
		&t.UserID,
		&t.Name,
		&t.TokenHash,
		&t.LastUsedAt,
		&t.CreatedAt,
	)

	return t, err
}

func (r *TokensRepo) Create(ctx context.Context, t token.Token) (out token.Token, err error) {
	err = r.observe("tokens.create", func() error {
		out, err = scanToken(r.pool.QueryRow(ctx,
			`INSERT INTO personal_access_tokens (user_id, name, token, created_at)
			VALUES ($1, $2, $3, $4)
			RETURNING `+tokenColumns,
			t.UserID, t.Name, t.TokenHash, t.CreatedAt,
		))
		return err
	})

	return out, err
}

func (r *TokensRepo) GetByID(ctx context.Context, id int64) (token.Token, error) {
	return r.getOne(ctx, "tokens.get_by_id", `SELECT `+tokenColumns+` FROM personal_access_tokens WHERE id = $1`, id)
}

func (r *TokensRepo) GetByHash(ctx context.Context, hash string) (token.Token, error) {
	return r.getOne(ctx, "tokens.get_by_hash", `SELECT `+tokenColumns+` FROM personal_access_tokens WHERE token = $1`, hash)
}

func (r *TokensRepo) getOne(ctx context.Context, op, query string, arg any) (t token.Token, err error) {
	err = r.observe(op, func() error {
		t, err = scanToken(r.pool.QueryRow(ctx, query, arg))
		if errors.Is(err, pgx.ErrNoRows) {
			return nil
		}
		return err
	})

	if err != nil {
		return token.Token{}, err
	}

	if t.ID == 0 {
		return token.Token{}, token.ErrNotFound
	}

	return t, nil
}

func (r *TokensRepo) TouchLastUsed(ctx context.Context, id int64, at time.Time) error {
	return r.observe("tokens.touch_last_used", func() error {
		_, err := r.pool.Exec(ctx, `UPDATE personal_access_tokens SET last_used_at = $2 WHERE id = $1`, id, at)
		return err
	})
}

func (r *TokensRepo) DeleteAllForUser(ctx context.Context, userID int64) (n int64, err error) {
	err = r.observe("tokens.delete_all_for_user", func() error {
		tag, err := r.pool.Exec(ctx, `DELETE FROM personal_access_tokens WHERE user_id = $1`, userID)
		if err != nil {
			return err
		}
		n = tag.RowsAffected()
		return nil
	})

	return n, err
}
