package readstore

import (
	"context"

	"rfq-market/internal/infra"
	"rfq-market/internal/infra/pg"
	"rfq-market/internal/pkg/pgconv"
	"rfq-market/internal/usecase/queries"

	"github.com/google/uuid"
)

// OrgReadStore resolves client and provider organisations, the webhook
// targets of every dispatch.
type OrgReadStore struct {
	db         pg.DBTX
	maxRetries int
}

func NewOrgReadStore(db pg.DBTX, maxConflictRetries int) *OrgReadStore {
	return &OrgReadStore{db: db, maxRetries: maxConflictRetries}
}

func (r *OrgReadStore) FindClientByID(ctx context.Context, id uuid.UUID) (*queries.ClientView, error) {
	view, err := pg.WithRetry(ctx, r.maxRetries, func(ctx context.Context) (queries.ClientView, error) {
		var v queries.ClientView
		err := r.db.QueryRow(ctx, `
			SELECT id, name, webhook_url, is_active, created_at
			FROM clients
			WHERE id = $1`, id,
		).Scan(&v.ID, &v.Name, &v.WebhookURL, &v.IsActive, &v.CreatedAt)
		return v, err
	})
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("client not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find client", err)
	}
	return &view, nil
}

func (r *OrgReadStore) FindProviderByID(ctx context.Context, id uuid.UUID) (*queries.ProviderView, error) {
	view, err := pg.WithRetry(ctx, r.maxRetries, func(ctx context.Context) (queries.ProviderView, error) {
		var v queries.ProviderView
		err := r.db.QueryRow(ctx, `
			SELECT id, market_id, name, webhook_url, is_active, created_at
			FROM providers
			WHERE id = $1`, id,
		).Scan(&v.ID, &v.MarketID, &v.Name, &v.WebhookURL, &v.IsActive, &v.CreatedAt)
		return v, err
	})
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("provider not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find provider", err)
	}
	return &view, nil
}

// ListActiveProvidersByMarket returns the fan-out audience for a new RFQ.
func (r *OrgReadStore) ListActiveProvidersByMarket(ctx context.Context, marketID uuid.UUID) ([]queries.ProviderView, error) {
	views, err := pg.WithRetry(ctx, r.maxRetries, func(ctx context.Context) ([]queries.ProviderView, error) {
		rows, err := r.db.Query(ctx, `
			SELECT id, market_id, name, webhook_url, is_active, created_at
			FROM providers
			WHERE market_id = $1 AND is_active = TRUE
			ORDER BY created_at, id`, marketID)
		if err != nil {
			return nil, err
		}
		defer rows.Close()

		var result []queries.ProviderView
		for rows.Next() {
			var v queries.ProviderView
			if err := rows.Scan(&v.ID, &v.MarketID, &v.Name, &v.WebhookURL, &v.IsActive, &v.CreatedAt); err != nil {
				return nil, err
			}
			result = append(result, v)
		}
		return result, rows.Err()
	})
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list providers by market", err)
	}
	return views, nil
}
