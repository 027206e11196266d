package commands

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"rfq-market/internal/domain/dispatch"
	"rfq-market/internal/pkg/clock"
	"rfq-market/internal/pkg/errs"
	usecasedispatch "rfq-market/internal/usecase/dispatch"

	"github.com/google/uuid"
)

// DispatchEngine is the slice of the dispatch engine the command layer
// needs: scheduling batches.
type DispatchEngine interface {
	SendBatch(ctx context.Context, batchID uuid.UUID, targets []usecasedispatch.TargetRequest, onFail usecasedispatch.FailureHandler) ([]*dispatch.Request, error)
}

// EventTarget is one webhook recipient resolved from an organisation.
type EventTarget struct {
	ID  uuid.UUID
	URL string
}

type eventEnvelope struct {
	Event      string    `json:"event"`
	OccurredAt time.Time `json:"occurred_at"`
	Data       any       `json:"data"`
}

type deliveryFailedData struct {
	RequestID  uuid.UUID        `json:"request_id"`
	BatchID    uuid.UUID        `json:"batch_id"`
	TargetID   uuid.UUID        `json:"target_id"`
	Event      string           `json:"event"`
	Error      dispatch.Failure `json:"error"`
}

// EventNotifier turns a marketplace event into a dispatch batch. Every
// command goes through it so fan-out, the delivery-failed follow-up and the
// envelope format stay uniform.
type EventNotifier struct {
	engine  DispatchEngine
	clock   clock.Clock
	timeout time.Duration
}

func NewEventNotifier(engine DispatchEngine, clk clock.Clock, requestTimeout time.Duration) *EventNotifier {
	return &EventNotifier{
		engine:  engine,
		clock:   clk,
		timeout: requestTimeout,
	}
}

// Notify dispatches one event to every recipient under the originating
// entity's id as the batch id, so batch status queries work off the business
// key directly. The owner is the organisation that initiated the event; it
// receives a delivery.failed notification whenever a recipient cannot be
// reached.
func (n *EventNotifier) Notify(ctx context.Context, batchID uuid.UUID, owner EventTarget, recipients []EventTarget, kind string, data any) (uuid.UUID, error) {
	if len(recipients) == 0 {
		return uuid.Nil, nil
	}

	body, err := json.Marshal(eventEnvelope{
		Event:      kind,
		OccurredAt: n.clock.Now(),
		Data:       data,
	})
	if err != nil {
		return uuid.Nil, errs.Wrap(err, "failed to encode event payload")
	}

	targets := make([]usecasedispatch.TargetRequest, 0, len(recipients))
	for _, r := range recipients {
		targets = append(targets, usecasedispatch.TargetRequest{
			TargetID: r.ID,
			Spec: dispatch.RequestSpec{
				Method:    http.MethodPost,
				URL:       r.URL,
				Headers:   map[string]string{"X-Market-Event": kind},
				Body:      body,
				Timeout:   n.timeout,
				EventKind: kind,
			},
		})
	}

	if _, err := n.engine.SendBatch(ctx, batchID, targets, n.failureHandler(owner)); err != nil {
		return uuid.Nil, err
	}
	return batchID, nil
}

// failureHandler notifies the owner that one of its deliveries died. The
// follow-up batch is keyed by the dead record's id and carries
// EventDeliveryFailed, so it gets no failure handler of its own.
func (n *EventNotifier) failureHandler(owner EventTarget) usecasedispatch.FailureHandler {
	if owner.URL == "" {
		return nil
	}
	return func(ctx context.Context, rec *dispatch.Request) {
		body, err := json.Marshal(eventEnvelope{
			Event:      dispatch.EventDeliveryFailed,
			OccurredAt: n.clock.Now(),
			Data: deliveryFailedData{
				RequestID: rec.ID,
				BatchID:   rec.BatchID,
				TargetID:  rec.TargetID,
				Event:     rec.Spec.EventKind,
				Error:     rec.Failure,
			},
		})
		if err != nil {
			slog.Error("failed to encode delivery failure notification", "error", err.Error())
			return
		}

		_, err = n.engine.SendBatch(ctx, rec.ID, []usecasedispatch.TargetRequest{{
			TargetID: owner.ID,
			Spec: dispatch.RequestSpec{
				Method:    http.MethodPost,
				URL:       owner.URL,
				Headers:   map[string]string{"X-Market-Event": dispatch.EventDeliveryFailed},
				Body:      body,
				Timeout:   n.timeout,
				EventKind: dispatch.EventDeliveryFailed,
			},
		}}, nil)
		if err != nil {
			slog.Error("failed to dispatch delivery failure notification",
				"owner_id", owner.ID,
				"request_id", rec.ID,
				"error", err.Error())
		}
	}
}
