package observability

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
)

// ObserveDB times one logical repository op (users.find_by_email,
// tokens.get_by_id, roles.list, ...). Safe on a nil *Prom.
func (p *Prom) ObserveDB(op string, fn func() error) error {
	if p == nil {
		return fn()
	}

	start := time.Now()
	err := fn()

	status := "ok"
	if err != nil {
		status = "error"
		p.DbErrorsTotal.WithLabelValues(op, classifyDBErr(err)).Inc()
	}

	p.DbQueryDuration.WithLabelValues(op, status).Observe(time.Since(start).Seconds())

	return err
}

// classifyDBErr keeps the class label low-cardinality.
func classifyDBErr(err error) string {
	switch {
	case errors.Is(err, context.DeadlineExceeded), pgconn.Timeout(err):
		// request contexts carry 2-3s deadlines
		return "timeout"
	case errors.Is(err, context.Canceled):
		// client went away mid-query
		return "canceled"
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505":
			// users.email, personal_access_tokens.token
			return "unique_violation"
		case "23503":
			// token issued for a user deleted concurrently
			return "foreign_key_violation"
		case "22001":
			// name/code longer than the column allows
			return "value_too_long"
		case "42P01", "42703":
			// migrations not applied
			return "schema_mismatch"
		case "57014":
			return "query_canceled"
		case "53300":
			return "too_many_connections"
		default:
			return "pg_" + pgErr.Code
		}
	}

	var connErr *pgconn.ConnectError
	if errors.As(err, &connErr) {
		return "connection"
	}

	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "closed pool"):
		return "pool_closed"
	case strings.Contains(msg, "connection"):
		return "connection"
	default:
		return "unknown"
	}
}
