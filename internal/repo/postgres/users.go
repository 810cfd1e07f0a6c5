package postgres

import (
	"context"
	"errors"

	"github.com/geocoder89/homage/internal/domain/user"
	"github.com/geocoder89/homage/internal/observability"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrEmailAlreadyUsed = errors.New("email already used")

type UsersRepo struct {
	pool *pgxpool.Pool
	observer
}

func NewUsersRepo(pool *pgxpool.Pool, prom *observability.Prom) *UsersRepo {
	return &UsersRepo{pool: pool, observer: observer{prom: prom}}
}

const userColumns = `id, name, email, password, created_at, updated_at`

func scanUser(row pgx.Row) (user.User, error) {
	var u user.User

	err := row.Scan(
		&u.ID,
		&u.Name,
		&u.Email,
		&u.PasswordHash,
		&u.CreatedAt,
		&u.UpdatedAt,
	)

	return u, err
}

func (r *UsersRepo) FindByEmail(ctx context.Context, email string) (u user.User, err error) {
	err = r.observe("users.find_by_email", func() error {
		u, err = scanUser(r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email))
		if errors.Is(err, pgx.ErrNoRows) {
			return nil
		}
		return err
	})

	if err != nil {
		return user.User{}, err
	}

	if u.ID == 0 {
		return user.User{}, user.ErrNotFound
	}

	return u, nil
}

func (r *UsersRepo) FindByID(ctx context.Context, id int64) (u user.User, err error) {
	err = r.observe("users.find_by_id", func() error {
		u, err = scanUser(r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id))
		if errors.Is(err, pgx.ErrNoRows) {
			return nil
		}
		return err
	})

	if err != nil {
		return user.User{}, err
	}

	if u.ID == 0 {
		return user.User{}, user.ErrNotFound
	}

	return u, nil
}

func (r *UsersRepo) Create(ctx context.Context, name, email, passwordHash string) (u user.User, err error) {
	err = r.observe("users.create", func() error {
		u, err = scanUser(r.pool.QueryRow(ctx,
			`INSERT INTO users (name, email, password, created_at, updated_at)
			VALUES ($1, $2, $3, NOW(), NOW())
			RETURNING `+userColumns,
			name, email, passwordHash,
		))
		return err
	})

	if err != nil {
		if IsUniqueViolation(err) {
			return user.User{}, ErrEmailAlreadyUsed
		}
		return user.User{}, err
	}

	return u, nil
}
