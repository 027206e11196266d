package queries

import (
	"context"

	"rfq-market/internal/domain/dispatch"

	"github.com/google/uuid"
)

// DispatchFilter narrows delivery record listings. Nil fields match
// everything.
type DispatchFilter struct {
	BatchID  *uuid.UUID
	TargetID *uuid.UUID
	OnlyDead bool
}

type DispatchReadStore interface {
	List(ctx context.Context, filter DispatchFilter, limit, offset int) ([]*dispatch.Request, error)
}

type DispatchQueries interface {
	List(ctx context.Context, filter DispatchFilter, limit, offset int) ([]*dispatch.Request, error)
}

type dispatchQueriesImpl struct {
	readStore DispatchReadStore
}

func NewDispatchQueries(readStore DispatchReadStore) DispatchQueries {
	return &dispatchQueriesImpl{readStore: readStore}
}

func (q *dispatchQueriesImpl) List(ctx context.Context, filter DispatchFilter, limit, offset int) ([]*dispatch.Request, error) {
	return q.readStore.List(ctx, filter, limit, offset)
}
