package repository

import (
	"context"

	"rfq-market/internal/domain/decline"
	"rfq-market/internal/infra"
	"rfq-market/internal/infra/pg"
)

type DeclineRepository struct{}

func NewDeclineRepository() *DeclineRepository {
	return &DeclineRepository{}
}

func (r *DeclineRepository) Create(ctx context.Context, db pg.DBTX, entity *decline.Decline) error {
	_, err := db.Exec(ctx, `
		INSERT INTO declines (id, rfq_id, provider_id, reason, created_at)
		VALUES ($1, $2, $3, $4, $5)`,
		entity.ID, entity.RFQID, entity.ProviderID, entity.Reason, entity.CreatedAt,
	)
	if err != nil {
		if pg.IsRetryable(err) {
			return err
		}
		return infra.WrapRepoErr("failed to create decline", err)
	}
	return nil
}
