package commands

import (
	"context"
	"log/slog"

	"rfq-market/internal/domain/dispatch"
	"rfq-market/internal/domain/rfq"
	reqdto "rfq-market/internal/handler/dto/request"
	"rfq-market/internal/infra"
	"rfq-market/internal/infra/pg"
	"rfq-market/internal/pkg/clock"
	"rfq-market/internal/pkg/errs"
	"rfq-market/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

var (
	ErrClientNotFound   = errs.New("client not found")
	ErrClientInactive   = errs.New("client inactive")
	ErrNoOrgMembership  = errs.New("user has no organisation")
	ErrDomainValidation = errs.New("domain validation error")
)

type CreateRFQResult struct {
	RFQ             *queries.RFQView
	DispatchBatchID uuid.UUID
}

type RFQRepository interface {
	Create(ctx context.Context, db pg.DBTX, entity *rfq.RFQ) error
	FindByID(ctx context.Context, db pg.DBTX, id uuid.UUID) (*rfq.RFQ, error)
	UpdateStatus(ctx context.Context, db pg.DBTX, id uuid.UUID, status rfq.Status) error
}

type OrgReadStore interface {
	FindClientByID(ctx context.Context, id uuid.UUID) (*queries.ClientView, error)
	FindProviderByID(ctx context.Context, id uuid.UUID) (*queries.ProviderView, error)
	ListActiveProvidersByMarket(ctx context.Context, marketID uuid.UUID) ([]queries.ProviderView, error)
}

type RFQCommands interface {
	Create(ctx context.Context, req reqdto.CreateRFQRequest, actor *queries.AuthorizedUserView) (*CreateRFQResult, error)
}

type rfqCommandsImpl struct {
	rfqRepo    RFQRepository
	orgs       OrgReadStore
	notifier   *EventNotifier
	db         pg.Beginner
	maxRetries int
	clock      clock.Clock
}

func NewRFQCommands(
	rfqRepo RFQRepository,
	orgs OrgReadStore,
	notifier *EventNotifier,
	db pg.Beginner,
	maxConflictRetries int,
	clk clock.Clock,
) RFQCommands {
	return &rfqCommandsImpl{
		rfqRepo:    rfqRepo,
		orgs:       orgs,
		notifier:   notifier,
		db:         db,
		maxRetries: maxConflictRetries,
		clock:      clk,
	}
}

// Create raises an RFQ on behalf of the actor's client organisation and fans
// the rfq.created event out to every active provider in the market. The RFQ
// itself is committed before any webhook goes out; a dispatch scheduling
// failure does not roll it back.
func (c *rfqCommandsImpl) Create(ctx context.Context, req reqdto.CreateRFQRequest, actor *queries.AuthorizedUserView) (*CreateRFQResult, error) {
	if actor.OrgID == nil {
		return nil, ErrNoOrgMembership
	}

	client, err := c.orgs.FindClientByID(ctx, *actor.OrgID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrClientNotFound
		}
		return nil, err
	}
	if !client.IsActive {
		return nil, ErrClientInactive
	}

	entity, err := rfq.New(req.MarketID, client.ID, req.Payload, c.clock.Now())
	if err != nil {
		return nil, errs.Mark(err, ErrDomainValidation)
	}

	_, err = pg.RunInTxWithRetry(ctx, c.db, c.maxRetries, func(tx pgx.Tx) (struct{}, error) {
		return struct{}{}, c.rfqRepo.Create(ctx, tx, entity)
	})
	if err != nil {
		return nil, err
	}

	view := &queries.RFQView{
		ID:        entity.ID,
		MarketID:  entity.MarketID,
		ClientID:  entity.ClientID,
		Payload:   entity.Payload,
		Status:    string(entity.Status),
		CreatedAt: entity.CreatedAt,
	}

	providers, err := c.orgs.ListActiveProvidersByMarket(ctx, entity.MarketID)
	if err != nil {
		slog.Error("failed to resolve rfq fan-out audience",
			"rfq_id", entity.ID,
			"error", err.Error())
		return &CreateRFQResult{RFQ: view}, nil
	}

	recipients := make([]EventTarget, 0, len(providers))
	for _, p := range providers {
		recipients = append(recipients, EventTarget{ID: p.ID, URL: p.WebhookURL})
	}

	batchID, err := c.notifier.Notify(ctx, entity.ID,
		EventTarget{ID: client.ID, URL: client.WebhookURL},
		recipients,
		dispatch.EventRFQCreated,
		view,
	)
	if err != nil {
		slog.Error("failed to schedule rfq dispatch batch",
			"rfq_id", entity.ID,
			"error", err.Error())
		return &CreateRFQResult{RFQ: view}, nil
	}

	return &CreateRFQResult{RFQ: view, DispatchBatchID: batchID}, nil
}
