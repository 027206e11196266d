package repository

import (
	"context"

	"rfq-market/internal/domain/quote"
	"rfq-market/internal/infra"
	"rfq-market/internal/infra/pg"
	"rfq-market/internal/pkg/pgconv"

	"github.com/google/uuid"
)

type QuoteRepository struct{}

func NewQuoteRepository() *QuoteRepository {
	return &QuoteRepository{}
}

func (r *QuoteRepository) Create(ctx context.Context, db pg.DBTX, entity *quote.Quote) error {
	_, err := db.Exec(ctx, `
		INSERT INTO quotes (id, rfq_id, provider_id, payload, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		entity.ID, entity.RFQID, entity.ProviderID, entity.Payload, string(entity.Status), entity.CreatedAt, entity.UpdatedAt,
	)
	if err != nil {
		if pg.IsRetryable(err) {
			return err
		}
		return infra.WrapRepoErr("failed to create quote", err)
	}
	return nil
}

func (r *QuoteRepository) FindByID(ctx context.Context, db pg.DBTX, id uuid.UUID) (*quote.Quote, error) {
	var entity quote.Quote
	var status string
	err := db.QueryRow(ctx, `
		SELECT id, rfq_id, provider_id, payload, status, created_at, updated_at
		FROM quotes
		WHERE id = $1
		FOR UPDATE`, id,
	).Scan(&entity.ID, &entity.RFQID, &entity.ProviderID, &entity.Payload, &status, &entity.CreatedAt, &entity.UpdatedAt)
	if err != nil {
		if pg.IsRetryable(err) {
			return nil, err
		}
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("quote not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find quote", err)
	}
	entity.Status = quote.Status(status)
	return &entity, nil
}

func (r *QuoteRepository) UpdateStatus(ctx context.Context, db pg.DBTX, entity *quote.Quote) error {
	tag, err := db.Exec(ctx, `
		UPDATE quotes SET status = $2, updated_at = $3 WHERE id = $1`,
		entity.ID, string(entity.Status), entity.UpdatedAt,
	)
	if err != nil {
		if pg.IsRetryable(err) {
			return err
		}
		return infra.WrapRepoErr("failed to update quote status", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("quote not found", nil, infra.KindNotFound)
	}
	return nil
}
