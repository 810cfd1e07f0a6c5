package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/geocoder89/homage/internal/domain/resource"
	"github.com/geocoder89/homage/internal/observability"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ResourcesRepo stores one resource kind (roles or teams). Both tables share
// a shape, only the table name differs.
type ResourcesRepo struct {
	pool *pgxpool.Pool
	kind resource.Kind
	observer
}

func NewResourcesRepo(pool *pgxpool.Pool, kind resource.Kind, prom *observability.Prom) *ResourcesRepo {
	return &ResourcesRepo{pool: pool, kind: kind, observer: observer{prom: prom}}
}

const resourceColumns = `id, name, code, created_by, updated_by, created_at, updated_at`

func scanResource(row pgx.Row) (resource.Resource, error) {
	var res resource.Resource

	err := row.Scan(
		&res.ID,
		&res.Name,
		&res.Code,
		&res.CreatedBy,
		&res.UpdatedBy,
		&res.CreatedAt,
		&res.UpdatedAt,
	)

	return res, err
}

func (r *ResourcesRepo) op(name string) string {
	return r.kind.Table + "." + name
}

func (r *ResourcesRepo) Create(ctx context.Context, req resource.CreateRequest, actor resource.Actor) (res resource.Resource, err error) {
	query := fmt.Sprintf(
		`INSERT INTO %s (name, code, created_by, updated_by, created_at, updated_at)
		VALUES ($1, $2, $3, $3, NOW(), NOW())
		RETURNING %s`,
		r.kind.Table, resourceColumns,
	)

	err = r.observe(r.op("create"), func() error {
		res, err = scanResource(r.pool.QueryRow(ctx, query, req.Name, req.Code, actor))
		return err
	})

	return res, err
}

func (r *ResourcesRepo) GetByID(ctx context.Context, id int64) (res resource.Resource, err error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE id = $1`, resourceColumns, r.kind.Table)

	err = r.observe(r.op("get"), func() error {
		res, err = scanResource(r.pool.QueryRow(ctx, query, id))
		if errors.Is(err, pgx.ErrNoRows) {
			return nil
		}
		return err
	})

	if err != nil {
		return resource.Resource{}, err
	}

	if res.ID == 0 {
		return resource.Resource{}, resource.ErrNotFound
	}

	return res, nil
}

func (r *ResourcesRepo) List(ctx context.Context, params resource.ListParams) ([]resource.Resource, int, error) {
	params = params.Normalize()

	total := 0
	err := r.observe(r.op("count"), func() error {
		return r.pool.QueryRow(ctx, fmt.Sprintf(`SELECT COUNT(*) FROM %s`, r.kind.Table)).Scan(&total)
	})

	if err != nil {
		return nil, 0, err
	}

	// SortBy and SortDir are allowlisted by Normalize; id keeps the order stable
	query := fmt.Sprintf(
		`SELECT %s FROM %s ORDER BY %s %s, id %s LIMIT $1 OFFSET $2`,
		resourceColumns, r.kind.Table, params.SortBy, params.SortDir, params.SortDir,
	)

	output := make([]resource.Resource, 0, params.PerPage)

	err = r.observe(r.op("list"), func() error {
		rows, err := r.pool.Query(ctx, query, params.PerPage, params.Offset())
		if err != nil {
			return err
		}
		defer rows.Close()

		for rows.Next() {
			res, err := scanResource(rows)
			if err != nil {
				return err
			}
			output = append(output, res)
		}

		return rows.Err()
	})

	if err != nil {
		return nil, 0, err
	}

	return output, total, nil
}

func (r *ResourcesRepo) Update(ctx context.Context, id int64, req resource.UpdateRequest, actor resource.Actor) (res resource.Resource, err error) {
	query := fmt.Sprintf(
		`UPDATE %s
			SET name = $2,
				updated_by = $3,
				updated_at = NOW()
		WHERE id = $1
		RETURNING %s`,
		r.kind.Table, resourceColumns,
	)

	err = r.observe(r.op("update"), func() error {
		res, err = scanResource(r.pool.QueryRow(ctx, query, id, req.Name, actor))
		if errors.Is(err, pgx.ErrNoRows) {
			return nil
		}
		return err
	})

	if err != nil {
		return resource.Resource{}, err
	}

	// if there are no rows matching the id
	if res.ID == 0 {
		return resource.Resource{}, resource.ErrNotFound
	}

	return res, nil
}

func (r *ResourcesRepo) Delete(ctx context.Context, id int64) error {
	var affected int64

	err := r.observe(r.op("delete"), func() error {
		tag, err := r.pool.Exec(ctx, fmt.Sprintf(`DELETE FROM %s WHERE id = $1`, r.kind.Table), id)
		if err != nil {
			return err
		}
		affected = tag.RowsAffected()
		return nil
	})

	if err != nil {
		return err
	}

	// if no rows were deleted as a result return a not found error
	if affected == 0 {
		return resource.ErrNotFound
	}

	return nil
}
