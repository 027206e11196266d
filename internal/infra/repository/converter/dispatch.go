package converter

import (
	"encoding/json"

	"rfq-market/internal/domain/dispatch"
	"rfq-market/internal/pkg/errs"
	"rfq-market/internal/pkg/pgconv"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

// DispatchRow mirrors the dispatch_requests table. Spec and failure payloads
// are stored as jsonb.
type DispatchRow struct {
	ID          uuid.UUID
	BatchID     uuid.UUID
	TargetID    uuid.UUID
	Request     []byte
	IsDelivered bool
	IsDead      bool
	Error       []byte
	DeliveredAt pgtype.Timestamptz
	KilledAt    pgtype.Timestamptz
	CreatedAt   pgtype.Timestamptz
	UpdatedAt   pgtype.Timestamptz
}

func DispatchToRow(req *dispatch.Request) (DispatchRow, error) {
	spec, err := json.Marshal(req.Spec)
	if err != nil {
		return DispatchRow{}, errs.Wrap(err, "failed to marshal request spec")
	}
	failure, err := json.Marshal(req.Failure)
	if err != nil {
		return DispatchRow{}, errs.Wrap(err, "failed to marshal failure")
	}

	return DispatchRow{
		ID:          req.ID,
		BatchID:     req.BatchID,
		TargetID:    req.TargetID,
		Request:     spec,
		IsDelivered: req.IsDelivered,
		IsDead:      req.IsDead,
		Error:       failure,
		DeliveredAt: pgconv.TimePtrToPgtype(req.DeliveredAt),
		KilledAt:    pgconv.TimePtrToPgtype(req.KilledAt),
		CreatedAt:   pgconv.TimeToPgtype(req.CreatedAt),
		UpdatedAt:   pgconv.TimeToPgtype(req.UpdatedAt),
	}, nil
}

func DispatchRowToDomain(row DispatchRow) (*dispatch.Request, error) {
	var spec dispatch.RequestSpec
	if err := json.Unmarshal(row.Request, &spec); err != nil {
		return nil, errs.Wrap(err, "failed to unmarshal request spec")
	}

	var failure dispatch.Failure
	if len(row.Error) > 0 {
		if err := json.Unmarshal(row.Error, &failure); err != nil {
			return nil, errs.Wrap(err, "failed to unmarshal failure")
		}
	}

	return &dispatch.Request{
		ID:          row.ID,
		BatchID:     row.BatchID,
		TargetID:    row.TargetID,
		Spec:        spec,
		IsDelivered: row.IsDelivered,
		IsDead:      row.IsDead,
		Failure:     failure,
		DeliveredAt: pgconv.TimePtrFromPgtype(row.DeliveredAt),
		KilledAt:    pgconv.TimePtrFromPgtype(row.KilledAt),
		CreatedAt:   pgconv.TimeFromPgtype(row.CreatedAt),
		UpdatedAt:   pgconv.TimeFromPgtype(row.UpdatedAt),
	}, nil
}
