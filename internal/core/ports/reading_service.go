package ports

import (
	"context"

	"github.com/signaltracker/tracker-api/internal/core/authz"
	"github.com/signaltracker/tracker-api/internal/core/domain"
)

// CreateReadingInput carries all data needed to record a reading. An
// IdempotencyKey, when supplied, makes retried uploads return the reading
// created by the first attempt.
type CreateReadingInput struct {
	DeviceID       int64
	CellTowerID    int64
	Latitude       string
	Longitude      string
	SignalType     string
	SignalValue    *int
	IdempotencyKey string
}

// ReadingPatch is a sparse update. Only location and signal fields are
// mutable; the device and tower associations are fixed at creation.
type ReadingPatch struct {
	Latitude    *string
	Longitude   *string
	SignalType  *string
	SignalValue *int
}

func (p ReadingPatch) Empty() bool {
	return p.Latitude == nil && p.Longitude == nil && p.SignalType == nil && p.SignalValue == nil
}

// ReadingResult pairs a reading with whether it was created by this call or
// replayed from a matching idempotency key.
type ReadingResult struct {
	Reading        *domain.Reading
	AlreadyExisted bool
}

// ReadingService defines the resource operations for readings.
type ReadingService interface {
	Create(ctx context.Context, caller authz.Caller, in CreateReadingInput) (*ReadingResult, error)
	Get(ctx context.Context, caller authz.Caller, id int64) (*domain.Reading, error)
	List(ctx context.Context, caller authz.Caller) ([]*domain.Reading, error)
	Patch(ctx context.Context, caller authz.Caller, id int64, patch ReadingPatch) (*domain.Reading, error)
	Delete(ctx context.Context, caller authz.Caller, id int64) error
}
