package queries

import (
	"context"

	"rfq-market/internal/infra"
	"rfq-market/internal/pkg/errs"

	"github.com/google/uuid"
)

var ErrRFQNotFound = errs.New("rfq not found")

type RFQQueries interface {
	GetRFQ(ctx context.Context, id uuid.UUID) (*RFQView, error)
	ListByMarket(ctx context.Context, marketID uuid.UUID, limit, offset int) ([]RFQView, error)
	ListQuotes(ctx context.Context, rfqID uuid.UUID) ([]QuoteView, error)
	ListDeclines(ctx context.Context, rfqID uuid.UUID) ([]DeclineView, error)
}

type RFQReadStore interface {
	FindByID(ctx context.Context, id uuid.UUID) (*RFQView, error)
	ListByMarket(ctx context.Context, marketID uuid.UUID, limit, offset int) ([]RFQView, error)
	ListQuotesByRFQ(ctx context.Context, rfqID uuid.UUID) ([]QuoteView, error)
	ListDeclinesByRFQ(ctx context.Context, rfqID uuid.UUID) ([]DeclineView, error)
}

type rfqQueriesImpl struct {
	readStore RFQReadStore
}

func NewRFQQueries(readStore RFQReadStore) RFQQueries {
	return &rfqQueriesImpl{readStore: readStore}
}

func (q *rfqQueriesImpl) GetRFQ(ctx context.Context, id uuid.UUID) (*RFQView, error) {
	view, err := q.readStore.FindByID(ctx, id)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrRFQNotFound
		}
		return nil, err
	}
	return view, nil
}

func (q *rfqQueriesImpl) ListByMarket(ctx context.Context, marketID uuid.UUID, limit, offset int) ([]RFQView, error) {
	return q.readStore.ListByMarket(ctx, marketID, limit, offset)
}

func (q *rfqQueriesImpl) ListQuotes(ctx context.Context, rfqID uuid.UUID) ([]QuoteView, error) {
	return q.readStore.ListQuotesByRFQ(ctx, rfqID)
}

func (q *rfqQueriesImpl) ListDeclines(ctx context.Context, rfqID uuid.UUID) ([]DeclineView, error) {
	return q.readStore.ListDeclinesByRFQ(ctx, rfqID)
}
