package dispatch

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"rfq-market/internal/domain/dispatch"
	"rfq-market/internal/infra"
	"rfq-market/internal/pkg/clock"
	"rfq-market/internal/pkg/errs"

	"github.com/google/uuid"
)

var (
	ErrInvalidBatchID  = errs.New("invalid dispatch batch id")
	ErrBatchNotFound   = errs.New("dispatch batch not found")
	ErrRequestNotFound = errs.New("dispatch request not found")
)

// TargetRequest pairs one recipient with the fully-resolved call to make.
type TargetRequest struct {
	TargetID uuid.UUID
	Spec     dispatch.RequestSpec
}

// FailureHandler is invoked with a record that has just been marked dead,
// before the outcome is persisted. It runs on the delivery goroutine.
type FailureHandler func(ctx context.Context, rec *dispatch.Request)

type Repository interface {
	Create(ctx context.Context, req *dispatch.Request) error
	FindByID(ctx context.Context, id uuid.UUID) (*dispatch.Request, error)
	ListByBatch(ctx context.Context, batchID uuid.UUID) ([]*dispatch.Request, error)
	ListDeadByTarget(ctx context.Context, targetID uuid.UUID) ([]*dispatch.Request, error)
	UpdateOutcome(ctx context.Context, req *dispatch.Request) error
}

// Sender performs one outbound call. A nil return means delivered.
type Sender interface {
	Send(ctx context.Context, spec dispatch.RequestSpec) *dispatch.Failure
}

// UseCase is the engine surface exposed to the handler layer.
type UseCase interface {
	SendBatch(ctx context.Context, batchID uuid.UUID, targets []TargetRequest, onFail FailureHandler) ([]*dispatch.Request, error)
	RetryForTarget(ctx context.Context, targetID uuid.UUID, onFail FailureHandler) ([]*dispatch.Request, error)
	GetBatch(ctx context.Context, batchID uuid.UUID) ([]*dispatch.Request, error)
	GetRequest(ctx context.Context, id uuid.UUID) (*dispatch.Request, error)
}

var _ UseCase = (*Engine)(nil)

// Engine fans webhook events out to their targets. Deliveries are
// fire-and-forget: SendBatch returns as soon as every record is persisted,
// and each attempt runs on its own goroutine detached from the caller's
// cancellation.
type Engine struct {
	repo   Repository
	sender Sender
	clock  clock.Clock

	wg sync.WaitGroup
}

func NewEngine(repo Repository, sender Sender, clk clock.Clock) *Engine {
	return &Engine{
		repo:   repo,
		sender: sender,
		clock:  clk,
	}
}

// SendBatch persists one delivery record per target under the caller's batch
// id, then schedules the sends. Records are written with the optimistic
// delivered outcome before any call goes out; only a failed attempt mutates
// them afterwards.
//
// Persistence completes for the whole batch before the first HTTP attempt: a
// persistence error aborts the call and no send is made, so a successful
// return guarantees the batch is durably observable with one record per
// target.
func (e *Engine) SendBatch(ctx context.Context, batchID uuid.UUID, targets []TargetRequest, onFail FailureHandler) ([]*dispatch.Request, error) {
	if batchID == uuid.Nil {
		return nil, ErrInvalidBatchID
	}

	now := e.clock.Now()
	recs := make([]*dispatch.Request, 0, len(targets))
	for _, t := range targets {
		rec, err := dispatch.New(batchID, t.TargetID, t.Spec, now)
		if err != nil {
			return nil, err
		}
		if err := e.repo.Create(ctx, rec); err != nil {
			return nil, errs.Wrap(err, "failed to persist delivery record")
		}
		recs = append(recs, rec)
	}

	detached := context.WithoutCancel(ctx)
	for _, rec := range recs {
		e.wg.Add(1)
		go func(rec *dispatch.Request) {
			defer e.wg.Done()
			e.send(detached, rec, onFail)
		}(rec)
	}

	slog.Info("dispatch batch scheduled",
		"batch_id", batchID,
		"targets", len(recs))
	return recs, nil
}

// RetryForTarget re-attempts every dead record held against a target and
// returns the records it selected. A successful retry performs no mutation:
// the record keeps its dead outcome and drops out of the next retry pass
// only if a later attempt is recorded. A failed retry overwrites the
// captured failure.
func (e *Engine) RetryForTarget(ctx context.Context, targetID uuid.UUID, onFail FailureHandler) ([]*dispatch.Request, error) {
	recs, err := e.repo.ListDeadByTarget(ctx, targetID)
	if err != nil {
		return nil, errs.Wrap(err, "failed to load dead delivery records")
	}
	if len(recs) == 0 {
		return []*dispatch.Request{}, nil
	}

	detached := context.WithoutCancel(ctx)
	for _, rec := range recs {
		e.wg.Add(1)
		go func(rec *dispatch.Request) {
			defer e.wg.Done()
			e.send(detached, rec, onFail)
		}(rec)
	}

	slog.Info("dispatch retry scheduled",
		"target_id", targetID,
		"records", len(recs))
	return recs, nil
}

// GetBatch returns every record belonging to a batch.
func (e *Engine) GetBatch(ctx context.Context, batchID uuid.UUID) ([]*dispatch.Request, error) {
	if batchID == uuid.Nil {
		return nil, ErrInvalidBatchID
	}

	recs, err := e.repo.ListByBatch(ctx, batchID)
	if err != nil {
		return nil, err
	}
	if len(recs) == 0 {
		return nil, ErrBatchNotFound
	}
	return recs, nil
}

func (e *Engine) GetRequest(ctx context.Context, id uuid.UUID) (*dispatch.Request, error) {
	rec, err := e.repo.FindByID(ctx, id)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrRequestNotFound
		}
		return nil, err
	}
	return rec, nil
}

// Wait blocks until every in-flight delivery goroutine has settled. The
// shutdown hook calls it so records are not left half-written.
func (e *Engine) Wait() {
	e.wg.Wait()
}

// send runs one delivery attempt. Outcome persistence failures are logged
// and swallowed: the attempt already happened and there is no caller left to
// hand the error to.
func (e *Engine) send(ctx context.Context, rec *dispatch.Request, onFail FailureHandler) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("panic during webhook delivery",
				"request_id", rec.ID,
				"batch_id", rec.BatchID,
				"panic", r)
		}
	}()

	start := time.Now()
	failure := e.sender.Send(ctx, rec.Spec)
	latency := time.Since(start)

	if failure == nil {
		slog.Debug("webhook delivered",
			"request_id", rec.ID,
			"target_id", rec.TargetID,
			"latency_ms", latency.Milliseconds())
		return
	}

	rec.MarkDead(*failure, e.clock.Now())

	// Failure notifications must not notify about themselves.
	if onFail != nil && rec.Spec.EventKind != dispatch.EventDeliveryFailed {
		e.invokeFailureHandler(ctx, rec, onFail)
	}

	if err := e.repo.UpdateOutcome(ctx, rec); err != nil {
		slog.Error("failed to persist delivery outcome",
			"request_id", rec.ID,
			"error", err.Error())
	}

	slog.Warn("webhook delivery failed",
		"request_id", rec.ID,
		"target_id", rec.TargetID,
		"status_code", failure.StatusCode,
		"latency_ms", latency.Milliseconds())
}

// invokeFailureHandler recovers a handler panic locally so the outcome write
// that follows always runs.
func (e *Engine) invokeFailureHandler(ctx context.Context, rec *dispatch.Request, onFail FailureHandler) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("panic in delivery failure handler",
				"request_id", rec.ID,
				"batch_id", rec.BatchID,
				"panic", r)
		}
	}()
	onFail(ctx, rec)
}
