package readstore

import (
	"context"

	"rfq-market/internal/infra"
	"rfq-market/internal/infra/pg"
	"rfq-market/internal/pkg/pgconv"
	"rfq-market/internal/usecase/queries"

	"github.com/google/uuid"
)

type RFQReadStore struct {
	db         pg.DBTX
	maxRetries int
}

func NewRFQReadStore(db pg.DBTX, maxConflictRetries int) *RFQReadStore {
	return &RFQReadStore{db: db, maxRetries: maxConflictRetries}
}

func (r *RFQReadStore) FindByID(ctx context.Context, id uuid.UUID) (*queries.RFQView, error) {
	view, err := pg.WithRetry(ctx, r.maxRetries, func(ctx context.Context) (queries.RFQView, error) {
		var v queries.RFQView
		err := r.db.QueryRow(ctx, `
			SELECT id, market_id, client_id, payload, status, created_at
			FROM rfqs
			WHERE id = $1`, id,
		).Scan(&v.ID, &v.MarketID, &v.ClientID, &v.Payload, &v.Status, &v.CreatedAt)
		return v, err
	})
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("rfq not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find rfq", err)
	}
	return &view, nil
}

func (r *RFQReadStore) ListByMarket(ctx context.Context, marketID uuid.UUID, limit, offset int) ([]queries.RFQView, error) {
	views, err := pg.WithRetry(ctx, r.maxRetries, func(ctx context.Context) ([]queries.RFQView, error) {
		rows, err := r.db.Query(ctx, `
			SELECT id, market_id, client_id, payload, status, created_at
			FROM rfqs
			WHERE market_id = $1
			ORDER BY created_at DESC, id
			LIMIT $2 OFFSET $3`, marketID, limit, offset)
		if err != nil {
			return nil, err
		}
		defer rows.Close()

		var result []queries.RFQView
		for rows.Next() {
			var v queries.RFQView
			if err := rows.Scan(&v.ID, &v.MarketID, &v.ClientID, &v.Payload, &v.Status, &v.CreatedAt); err != nil {
				return nil, err
			}
			result = append(result, v)
		}
		return result, rows.Err()
	})
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list rfqs by market", err)
	}
	return views, nil
}

func (r *RFQReadStore) ListQuotesByRFQ(ctx context.Context, rfqID uuid.UUID) ([]queries.QuoteView, error) {
	views, err := pg.WithRetry(ctx, r.maxRetries, func(ctx context.Context) ([]queries.QuoteView, error) {
		rows, err := r.db.Query(ctx, `
			SELECT id, rfq_id, provider_id, payload, status, created_at, updated_at
			FROM quotes
			WHERE rfq_id = $1
			ORDER BY created_at, id`, rfqID)
		if err != nil {
			return nil, err
		}
		defer rows.Close()

		var result []queries.QuoteView
		for rows.Next() {
			var v queries.QuoteView
			if err := rows.Scan(&v.ID, &v.RFQID, &v.ProviderID, &v.Payload, &v.Status, &v.CreatedAt, &v.UpdatedAt); err != nil {
				return nil, err
			}
			result = append(result, v)
		}
		return result, rows.Err()
	})
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list quotes by rfq", err)
	}
	return views, nil
}

func (r *RFQReadStore) ListDeclinesByRFQ(ctx context.Context, rfqID uuid.UUID) ([]queries.DeclineView, error) {
	views, err := pg.WithRetry(ctx, r.maxRetries, func(ctx context.Context) ([]queries.DeclineView, error) {
		rows, err := r.db.Query(ctx, `
			SELECT id, rfq_id, provider_id, reason, created_at
			FROM declines
			WHERE rfq_id = $1
			ORDER BY created_at, id`, rfqID)
		if err != nil {
			return nil, err
		}
		defer rows.Close()

		var result []queries.DeclineView
		for rows.Next() {
			var v queries.DeclineView
			if err := rows.Scan(&v.ID, &v.RFQID, &v.ProviderID, &v.Reason, &v.CreatedAt); err != nil {
				return nil, err
			}
			result = append(result, v)
		}
		return result, rows.Err()
	})
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list declines by rfq", err)
	}
	return views, nil
}
