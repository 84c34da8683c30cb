package event

import (
	"context"

	"github.com/google/uuid"
)

// Repository defines storage for office events.
type Repository interface {
	Create(ctx context.Context, ev *OfficeEvent) error
	GetByID(ctx context.Context, id uuid.UUID) (*OfficeEvent, error)
	List(ctx context.Context, limit, offset int) ([]*OfficeEvent, int, error)
}

// Recorder is the write-only surface other domains use to append events.
type Recorder interface {
	Record(ctx context.Context, clazz string, eventType int16, comment, reference string, userID int64) error
}
