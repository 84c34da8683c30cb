package event

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// Service records and lists office events.
type Service struct {
	events Repository
	logger zerolog.Logger
	now    func() time.Time
}

func NewService(events Repository, logger zerolog.Logger) *Service {
	return &Service{events: events, logger: logger, now: time.Now}
}

// Record appends an event to the feed. Failures are logged and returned to
// the caller; transactional callers propagate the error so the whole unit of
// work rolls back, fire-and-forget callers may drop it.
func (s *Service) Record(ctx context.Context, clazz string, eventType int16, comment, reference string, userID int64) error {
	ev := &OfficeEvent{
		Date:      s.now(),
		Clazz:     clazz,
		Type:      eventType,
		Comment:   comment,
		Reference: reference,
		UserID:    userID,
	}
	if err := s.events.Create(ctx, ev); err != nil {
		s.logger.Error().Err(err).Str("clazz", clazz).Msg("failed to record office event")
		return err
	}
	return nil
}

func (s *Service) List(ctx context.Context, limit, offset int) ([]*OfficeEvent, int, error) {
	return s.events.List(ctx, limit, offset)
}
