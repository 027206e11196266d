package request

import "github.com/google/uuid"

// ListDispatchesQuery filters the admin listing of delivery records.
type ListDispatchesQuery struct {
	BatchID  *uuid.UUID `form:"batch_id"`
	TargetID *uuid.UUID `form:"target_id"`
	OnlyDead bool       `form:"only_dead"`
	Limit    int        `form:"limit,default=50" binding:"omitempty,min=1,max=200"`
	Offset   int        `form:"offset,default=0" binding:"omitempty,min=0"`
}
