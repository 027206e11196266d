package commands

import (
	"context"
	"log/slog"

	"rfq-market/internal/domain/dispatch"
	"rfq-market/internal/domain/quote"
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
	ErrRFQNotFound         = errs.New("rfq not found")
	ErrRFQClosed           = errs.New("rfq is closed")
	ErrQuoteNotFound       = errs.New("quote not found")
	ErrProviderNotFound    = errs.New("provider not found")
	ErrProviderInactive    = errs.New("provider inactive")
	ErrMarketMismatch      = errs.New("provider does not serve this market")
	ErrNotRFQOwner         = errs.New("actor does not own the rfq")
	ErrNotQuoteOwner       = errs.New("actor does not own the quote")
	ErrInvalidStatusChange = errs.New("invalid quote status change")
)

type QuoteResult struct {
	Quote           *queries.QuoteView
	DispatchBatchID uuid.UUID
}

type QuoteRepository interface {
	Create(ctx context.Context, db pg.DBTX, entity *quote.Quote) error
	FindByID(ctx context.Context, db pg.DBTX, id uuid.UUID) (*quote.Quote, error)
	UpdateStatus(ctx context.Context, db pg.DBTX, entity *quote.Quote) error
}

type QuoteCommands interface {
	Create(ctx context.Context, req reqdto.CreateQuoteRequest, actor *queries.AuthorizedUserView) (*QuoteResult, error)
	Accept(ctx context.Context, quoteID uuid.UUID, actor *queries.AuthorizedUserView) (*QuoteResult, error)
	Reject(ctx context.Context, quoteID uuid.UUID, actor *queries.AuthorizedUserView) (*QuoteResult, error)
	Complete(ctx context.Context, quoteID uuid.UUID, actor *queries.AuthorizedUserView) (*QuoteResult, error)
}

type quoteCommandsImpl struct {
	quoteRepo  QuoteRepository
	rfqRepo    RFQRepository
	orgs       OrgReadStore
	notifier   *EventNotifier
	db         pg.Beginner
	maxRetries int
	clock      clock.Clock
}

func NewQuoteCommands(
	quoteRepo QuoteRepository,
	rfqRepo RFQRepository,
	orgs OrgReadStore,
	notifier *EventNotifier,
	db pg.Beginner,
	maxConflictRetries int,
	clk clock.Clock,
) QuoteCommands {
	return &quoteCommandsImpl{
		quoteRepo:  quoteRepo,
		rfqRepo:    rfqRepo,
		orgs:       orgs,
		notifier:   notifier,
		db:         db,
		maxRetries: maxConflictRetries,
		clock:      clk,
	}
}

// Create submits a quote against an open RFQ and notifies the RFQ's client.
func (c *quoteCommandsImpl) Create(ctx context.Context, req reqdto.CreateQuoteRequest, actor *queries.AuthorizedUserView) (*QuoteResult, error) {
	if actor.OrgID == nil {
		return nil, ErrNoOrgMembership
	}

	provider, err := c.orgs.FindProviderByID(ctx, *actor.OrgID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrProviderNotFound
		}
		return nil, err
	}
	if !provider.IsActive {
		return nil, ErrProviderInactive
	}

	type txResult struct {
		entity   *quote.Quote
		clientID uuid.UUID
	}

	result, err := pg.RunInTxWithRetry(ctx, c.db, c.maxRetries, func(tx pgx.Tx) (txResult, error) {
		rfqEntity, err := c.rfqRepo.FindByID(ctx, tx, req.RFQID)
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return txResult{}, ErrRFQNotFound
			}
			return txResult{}, err
		}
		if !rfqEntity.IsOpen() {
			return txResult{}, ErrRFQClosed
		}
		if rfqEntity.MarketID != provider.MarketID {
			return txResult{}, ErrMarketMismatch
		}

		entity, err := quote.New(rfqEntity.ID, provider.ID, req.Payload, c.clock.Now())
		if err != nil {
			return txResult{}, errs.Mark(err, ErrDomainValidation)
		}
		if err := c.quoteRepo.Create(ctx, tx, entity); err != nil {
			return txResult{}, err
		}
		return txResult{entity: entity, clientID: rfqEntity.ClientID}, nil
	})
	if err != nil {
		return nil, err
	}

	view := toQuoteView(result.entity)
	batchID := c.notifyQuoteEvent(ctx, dispatch.EventQuoteCreated, view,
		EventTarget{ID: provider.ID, URL: provider.WebhookURL}, result.clientID)
	return &QuoteResult{Quote: view, DispatchBatchID: batchID}, nil
}

func (c *quoteCommandsImpl) Accept(ctx context.Context, quoteID uuid.UUID, actor *queries.AuthorizedUserView) (*QuoteResult, error) {
	return c.clientTransition(ctx, quoteID, actor, quote.StatusAccepted, dispatch.EventQuoteAccepted)
}

func (c *quoteCommandsImpl) Reject(ctx context.Context, quoteID uuid.UUID, actor *queries.AuthorizedUserView) (*QuoteResult, error) {
	return c.clientTransition(ctx, quoteID, actor, quote.StatusRejected, dispatch.EventQuoteRejected)
}

// clientTransition covers the decisions only the RFQ's client can make.
// Accepting a quote also closes its RFQ in the same transaction.
func (c *quoteCommandsImpl) clientTransition(ctx context.Context, quoteID uuid.UUID, actor *queries.AuthorizedUserView, next quote.Status, eventKind string) (*QuoteResult, error) {
	if actor.OrgID == nil {
		return nil, ErrNoOrgMembership
	}
	clientID := *actor.OrgID

	entity, err := pg.RunInTxWithRetry(ctx, c.db, c.maxRetries, func(tx pgx.Tx) (*quote.Quote, error) {
		entity, err := c.quoteRepo.FindByID(ctx, tx, quoteID)
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return nil, ErrQuoteNotFound
			}
			return nil, err
		}

		rfqEntity, err := c.rfqRepo.FindByID(ctx, tx, entity.RFQID)
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return nil, ErrRFQNotFound
			}
			return nil, err
		}
		if rfqEntity.ClientID != clientID {
			return nil, ErrNotRFQOwner
		}

		if err := entity.Transition(next, c.clock.Now()); err != nil {
			return nil, errs.Mark(err, ErrInvalidStatusChange)
		}
		if err := c.quoteRepo.UpdateStatus(ctx, tx, entity); err != nil {
			return nil, err
		}

		if next == quote.StatusAccepted {
			rfqEntity.Close()
			if err := c.rfqRepo.UpdateStatus(ctx, tx, rfqEntity.ID, rfqEntity.Status); err != nil {
				return nil, err
			}
		}
		return entity, nil
	})
	if err != nil {
		return nil, err
	}

	client, err := c.orgs.FindClientByID(ctx, clientID)
	if err != nil {
		return nil, err
	}

	view := toQuoteView(entity)
	batchID := c.notifyQuoteEvent(ctx, eventKind, view,
		EventTarget{ID: client.ID, URL: client.WebhookURL}, uuid.Nil)
	return &QuoteResult{Quote: view, DispatchBatchID: batchID}, nil
}

// Complete is the provider closing out its accepted quote.
func (c *quoteCommandsImpl) Complete(ctx context.Context, quoteID uuid.UUID, actor *queries.AuthorizedUserView) (*QuoteResult, error) {
	if actor.OrgID == nil {
		return nil, ErrNoOrgMembership
	}
	providerID := *actor.OrgID

	type txResult struct {
		entity   *quote.Quote
		clientID uuid.UUID
	}

	result, err := pg.RunInTxWithRetry(ctx, c.db, c.maxRetries, func(tx pgx.Tx) (txResult, error) {
		entity, err := c.quoteRepo.FindByID(ctx, tx, quoteID)
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return txResult{}, ErrQuoteNotFound
			}
			return txResult{}, err
		}
		if entity.ProviderID != providerID {
			return txResult{}, ErrNotQuoteOwner
		}

		rfqEntity, err := c.rfqRepo.FindByID(ctx, tx, entity.RFQID)
		if err != nil {
			return txResult{}, err
		}

		if err := entity.Transition(quote.StatusCompleted, c.clock.Now()); err != nil {
			return txResult{}, errs.Mark(err, ErrInvalidStatusChange)
		}
		if err := c.quoteRepo.UpdateStatus(ctx, tx, entity); err != nil {
			return txResult{}, err
		}
		return txResult{entity: entity, clientID: rfqEntity.ClientID}, nil
	})
	if err != nil {
		return nil, err
	}

	provider, err := c.orgs.FindProviderByID(ctx, providerID)
	if err != nil {
		return nil, err
	}

	view := toQuoteView(result.entity)
	batchID := c.notifyQuoteEvent(ctx, dispatch.EventQuoteCompleted, view,
		EventTarget{ID: provider.ID, URL: provider.WebhookURL}, result.clientID)
	return &QuoteResult{Quote: view, DispatchBatchID: batchID}, nil
}

// notifyQuoteEvent routes a quote lifecycle event to its audience: client
// decisions go to the quote's provider, provider actions go to the RFQ's
// client. Scheduling failures are logged, never surfaced.
func (c *quoteCommandsImpl) notifyQuoteEvent(ctx context.Context, eventKind string, view *queries.QuoteView, owner EventTarget, clientID uuid.UUID) uuid.UUID {
	var recipients []EventTarget

	switch eventKind {
	case dispatch.EventQuoteAccepted, dispatch.EventQuoteRejected:
		provider, err := c.orgs.FindProviderByID(ctx, view.ProviderID)
		if err != nil {
			slog.Error("failed to resolve quote event recipient",
				"quote_id", view.ID, "error", err.Error())
			return uuid.Nil
		}
		recipients = []EventTarget{{ID: provider.ID, URL: provider.WebhookURL}}
	default:
		client, err := c.orgs.FindClientByID(ctx, clientID)
		if err != nil {
			slog.Error("failed to resolve quote event recipient",
				"quote_id", view.ID, "error", err.Error())
			return uuid.Nil
		}
		recipients = []EventTarget{{ID: client.ID, URL: client.WebhookURL}}
	}

	batchID, err := c.notifier.Notify(ctx, view.ID, owner, recipients, eventKind, view)
	if err != nil {
		slog.Error("failed to schedule quote dispatch batch",
			"quote_id", view.ID, "event", eventKind, "error", err.Error())
		return uuid.Nil
	}
	return batchID
}

func toQuoteView(entity *quote.Quote) *queries.QuoteView {
	return &queries.QuoteView{
		ID:         entity.ID,
		RFQID:      entity.RFQID,
		ProviderID: entity.ProviderID,
		Payload:    entity.Payload,
		Status:     string(entity.Status),
		CreatedAt:  entity.CreatedAt,
		UpdatedAt:  entity.UpdatedAt,
	}
}
