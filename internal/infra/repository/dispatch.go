package repository

import (
	"context"

	"rfq-market/internal/domain/dispatch"
	"rfq-market/internal/infra"
	"rfq-market/internal/infra/pg"
	"rfq-market/internal/infra/repository/converter"
	"rfq-market/internal/pkg/pgconv"
	"rfq-market/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const dispatchColumns = `id, batch_id, target_id, request, is_delivered, is_dead, error, delivered_at, killed_at, created_at, updated_at`

// DispatchRepository persists delivery records. Every statement runs through
// pg.WithRetry so serialization conflicts are invisible to callers: they see
// only the closed RepositoryError taxonomy.
type DispatchRepository struct {
	db         pg.DBTX
	maxRetries int
}

func NewDispatchRepository(db pg.DBTX, maxConflictRetries int) *DispatchRepository {
	return &DispatchRepository{
		db:         db,
		maxRetries: maxConflictRetries,
	}
}

func (r *DispatchRepository) Create(ctx context.Context, req *dispatch.Request) error {
	row, err := converter.DispatchToRow(req)
	if err != nil {
		return infra.WrapRepoErr("failed to encode dispatch request", err, infra.KindInvalidParams)
	}

	_, err = pg.WithRetry(ctx, r.maxRetries, func(ctx context.Context) (struct{}, error) {
		_, execErr := r.db.Exec(ctx, `
			INSERT INTO dispatch_requests (`+dispatchColumns+`)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
			row.ID, row.BatchID, row.TargetID, row.Request,
			row.IsDelivered, row.IsDead, row.Error,
			row.DeliveredAt, row.KilledAt, row.CreatedAt, row.UpdatedAt,
		)
		return struct{}{}, execErr
	})
	if err != nil {
		return infra.WrapRepoErr("failed to create dispatch request", err)
	}
	return nil
}

func (r *DispatchRepository) FindByID(ctx context.Context, id uuid.UUID) (*dispatch.Request, error) {
	row, err := pg.WithRetry(ctx, r.maxRetries, func(ctx context.Context) (converter.DispatchRow, error) {
		return r.scanOne(r.db.QueryRow(ctx, `
			SELECT `+dispatchColumns+`
			FROM dispatch_requests
			WHERE id = $1`, id))
	})
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("dispatch request not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find dispatch request", err)
	}
	return converter.DispatchRowToDomain(row)
}

func (r *DispatchRepository) ListByBatch(ctx context.Context, batchID uuid.UUID) ([]*dispatch.Request, error) {
	rows, err := pg.WithRetry(ctx, r.maxRetries, func(ctx context.Context) ([]converter.DispatchRow, error) {
		return r.queryAll(ctx, `
			SELECT `+dispatchColumns+`
			FROM dispatch_requests
			WHERE batch_id = $1
			ORDER BY created_at, id`, batchID)
	})
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list dispatch requests by batch", err)
	}
	return r.toDomain(rows)
}

// ListDeadByTarget returns the failed records for one target, the working set
// of a retry pass.
func (r *DispatchRepository) ListDeadByTarget(ctx context.Context, targetID uuid.UUID) ([]*dispatch.Request, error) {
	rows, err := pg.WithRetry(ctx, r.maxRetries, func(ctx context.Context) ([]converter.DispatchRow, error) {
		return r.queryAll(ctx, `
			SELECT `+dispatchColumns+`
			FROM dispatch_requests
			WHERE target_id = $1 AND is_dead = TRUE
			ORDER BY created_at, id`, targetID)
	})
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list dead dispatch requests", err)
	}
	return r.toDomain(rows)
}

func (r *DispatchRepository) List(ctx context.Context, filter queries.DispatchFilter, limit, offset int) ([]*dispatch.Request, error) {
	query := `
		SELECT ` + dispatchColumns + `
		FROM dispatch_requests
		WHERE ($1::uuid IS NULL OR batch_id = $1)
		  AND ($2::uuid IS NULL OR target_id = $2)
		  AND ($3::bool = FALSE OR is_dead = TRUE)
		ORDER BY created_at DESC, id
		LIMIT $4 OFFSET $5`

	rows, err := pg.WithRetry(ctx, r.maxRetries, func(ctx context.Context) ([]converter.DispatchRow, error) {
		return r.queryAll(ctx, query, filter.BatchID, filter.TargetID, filter.OnlyDead, limit, offset)
	})
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list dispatch requests", err)
	}
	return r.toDomain(rows)
}

// UpdateOutcome persists the mutable outcome fields of a record. Identity and
// spec columns are never touched after Create.
func (r *DispatchRepository) UpdateOutcome(ctx context.Context, req *dispatch.Request) error {
	row, err := converter.DispatchToRow(req)
	if err != nil {
		return infra.WrapRepoErr("failed to encode dispatch request", err, infra.KindInvalidParams)
	}

	tag, err := pg.WithRetry(ctx, r.maxRetries, func(ctx context.Context) (int64, error) {
		t, execErr := r.db.Exec(ctx, `
			UPDATE dispatch_requests
			SET is_delivered = $2, is_dead = $3, error = $4,
			    delivered_at = $5, killed_at = $6, updated_at = $7
			WHERE id = $1`,
			row.ID, row.IsDelivered, row.IsDead, row.Error,
			row.DeliveredAt, row.KilledAt, row.UpdatedAt,
		)
		if execErr != nil {
			return 0, execErr
		}
		return t.RowsAffected(), nil
	})
	if err != nil {
		return infra.WrapRepoErr("failed to update dispatch outcome", err)
	}
	if tag == 0 {
		return infra.WrapRepoErr("dispatch request not found", nil, infra.KindNotFound)
	}
	return nil
}

func (r *DispatchRepository) queryAll(ctx context.Context, query string, args ...any) ([]converter.DispatchRow, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []converter.DispatchRow
	for rows.Next() {
		row, scanErr := r.scanOne(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		result = append(result, row)
	}
	return result, rows.Err()
}

func (r *DispatchRepository) scanOne(s pgx.Row) (converter.DispatchRow, error) {
	var row converter.DispatchRow
	err := s.Scan(
		&row.ID, &row.BatchID, &row.TargetID, &row.Request,
		&row.IsDelivered, &row.IsDead, &row.Error,
		&row.DeliveredAt, &row.KilledAt, &row.CreatedAt, &row.UpdatedAt,
	)
	return row, err
}

func (r *DispatchRepository) toDomain(rows []converter.DispatchRow) ([]*dispatch.Request, error) {
	result := make([]*dispatch.Request, 0, len(rows))
	for _, row := range rows {
		req, err := converter.DispatchRowToDomain(row)
		if err != nil {
			return nil, infra.WrapRepoErr("failed to decode dispatch request", err, infra.KindDBFailure)
		}
		result = append(result, req)
	}
	return result, nil
}
