package response

import (
	"time"

	"rfq-market/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jinzhu/copier"
)

type DeclineResponse struct {
	ID              uuid.UUID  `json:"id"`
	RFQID           uuid.UUID  `json:"rfq_id"`
	ProviderID      uuid.UUID  `json:"provider_id"`
	Reason          string     `json:"reason"`
	CreatedAt       time.Time  `json:"created_at"`
	DispatchBatchID *uuid.UUID `json:"dispatch_batch_id,omitempty"`
}

func FromDeclineView(v *queries.DeclineView) *DeclineResponse {
	var resp DeclineResponse
	_ = copier.Copy(&resp, v)
	return &resp
}

func FromDeclineViews(views []queries.DeclineView) []DeclineResponse {
	result := make([]DeclineResponse, 0, len(views))
	for i := range views {
		result = append(result, *FromDeclineView(&views[i]))
	}
	return result
}
