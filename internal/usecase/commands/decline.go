package commands

import (
	"context"
	"log/slog"

	"rfq-market/internal/domain/decline"
	"rfq-market/internal/domain/dispatch"
	reqdto "rfq-market/internal/handler/dto/request"
	"rfq-market/internal/infra"
	"rfq-market/internal/infra/pg"
	"rfq-market/internal/pkg/clock"
	"rfq-market/internal/pkg/errs"
	"rfq-market/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type DeclineResult struct {
	Decline         *queries.DeclineView
	DispatchBatchID uuid.UUID
}

type DeclineRepository interface {
	Create(ctx context.Context, db pg.DBTX, entity *decline.Decline) error
}

type DeclineCommands interface {
	Create(ctx context.Context, req reqdto.CreateDeclineRequest, actor *queries.AuthorizedUserView) (*DeclineResult, error)
}

type declineCommandsImpl struct {
	declineRepo DeclineRepository
	rfqRepo     RFQRepository
	orgs        OrgReadStore
	notifier    *EventNotifier
	db          pg.Beginner
	maxRetries  int
	clock       clock.Clock
}

func NewDeclineCommands(
	declineRepo DeclineRepository,
	rfqRepo RFQRepository,
	orgs OrgReadStore,
	notifier *EventNotifier,
	db pg.Beginner,
	maxConflictRetries int,
	clk clock.Clock,
) DeclineCommands {
	return &declineCommandsImpl{
		declineRepo: declineRepo,
		rfqRepo:     rfqRepo,
		orgs:        orgs,
		notifier:    notifier,
		db:          db,
		maxRetries:  maxConflictRetries,
		clock:       clk,
	}
}

// Create records a provider passing on an RFQ and notifies the RFQ's client.
func (c *declineCommandsImpl) Create(ctx context.Context, req reqdto.CreateDeclineRequest, actor *queries.AuthorizedUserView) (*DeclineResult, error) {
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
		entity   *decline.Decline
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

		entity, err := decline.New(rfqEntity.ID, provider.ID, req.Reason, c.clock.Now())
		if err != nil {
			return txResult{}, errs.Mark(err, ErrDomainValidation)
		}
		if err := c.declineRepo.Create(ctx, tx, entity); err != nil {
			return txResult{}, err
		}
		return txResult{entity: entity, clientID: rfqEntity.ClientID}, nil
	})
	if err != nil {
		return nil, err
	}

	view := &queries.DeclineView{
		ID:         result.entity.ID,
		RFQID:      result.entity.RFQID,
		ProviderID: result.entity.ProviderID,
		Reason:     result.entity.Reason,
		CreatedAt:  result.entity.CreatedAt,
	}

	client, err := c.orgs.FindClientByID(ctx, result.clientID)
	if err != nil {
		slog.Error("failed to resolve decline event recipient",
			"decline_id", view.ID, "error", err.Error())
		return &DeclineResult{Decline: view}, nil
	}

	batchID, err := c.notifier.Notify(ctx, view.ID,
		EventTarget{ID: provider.ID, URL: provider.WebhookURL},
		[]EventTarget{{ID: client.ID, URL: client.WebhookURL}},
		dispatch.EventDeclineCreated,
		view,
	)
	if err != nil {
		slog.Error("failed to schedule decline dispatch batch",
			"decline_id", view.ID, "error", err.Error())
		return &DeclineResult{Decline: view}, nil
	}

	return &DeclineResult{Decline: view, DispatchBatchID: batchID}, nil
}
