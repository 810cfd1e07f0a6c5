package postgres

import (
	"errors"

	"github.com/geocoder89/homage/internal/observability"
	"github.com/jackc/pgx/v5/pgconn"
)

// observer times every repository op, prom may be nil in tests.
type observer struct {
	prom *observability.Prom
}

func (o observer) observe(op string, fn func() error) error {
	return o.prom.ObserveDB(op, fn)
}

func IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError

	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return true
	}
	return false
}
