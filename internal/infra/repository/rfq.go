package repository

import (
	"context"

	"rfq-market/internal/domain/rfq"
	"rfq-market/internal/infra"
	"rfq-market/internal/infra/pg"
	"rfq-market/internal/pkg/pgconv"

	"github.com/google/uuid"
)

// RFQRepository issues single statements against the DBTX it is handed;
// conflict handling happens at the transaction level in the usecase layer.
type RFQRepository struct{}

func NewRFQRepository() *RFQRepository {
	return &RFQRepository{}
}

func (r *RFQRepository) Create(ctx context.Context, db pg.DBTX, entity *rfq.RFQ) error {
	_, err := db.Exec(ctx, `
		INSERT INTO rfqs (id, market_id, client_id, payload, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		entity.ID, entity.MarketID, entity.ClientID, entity.Payload, string(entity.Status), entity.CreatedAt,
	)
	if err != nil {
		if pg.IsRetryable(err) {
			return err
		}
		return infra.WrapRepoErr("failed to create rfq", err)
	}
	return nil
}

func (r *RFQRepository) FindByID(ctx context.Context, db pg.DBTX, id uuid.UUID) (*rfq.RFQ, error) {
	var entity rfq.RFQ
	var status string
	err := db.QueryRow(ctx, `
		SELECT id, market_id, client_id, payload, status, created_at
		FROM rfqs
		WHERE id = $1
		FOR UPDATE`, id,
	).Scan(&entity.ID, &entity.MarketID, &entity.ClientID, &entity.Payload, &status, &entity.CreatedAt)
	if err != nil {
		if pg.IsRetryable(err) {
			return nil, err
		}
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("rfq not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find rfq", err)
	}
	entity.Status = rfq.Status(status)
	return &entity, nil
}

func (r *RFQRepository) UpdateStatus(ctx context.Context, db pg.DBTX, id uuid.UUID, status rfq.Status) error {
	tag, err := db.Exec(ctx, `
		UPDATE rfqs SET status = $2 WHERE id = $1`,
		id, string(status),
	)
	if err != nil {
		if pg.IsRetryable(err) {
			return err
		}
		return infra.WrapRepoErr("failed to update rfq status", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("rfq not found", nil, infra.KindNotFound)
	}
	return nil
}
