package request

import "github.com/google/uuid"

type CreateDeclineRequest struct {
	RFQID  uuid.UUID `json:"rfq_id" binding:"required"`
	Reason string    `json:"reason"`
}
