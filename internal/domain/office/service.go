package office

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
)

// ErrSequencePolicy signals a rejected invoice sequence override. Moving the
// pointer at or below an already issued number would let the allocator hand
// out duplicate invoice numbers.
var ErrSequencePolicy = errors.New("invoice sequence cannot be moved at or below an issued number")

// Service manages practice configuration.
type Service struct {
	repo   Repository
	issued IssuedNumberSource
	logger zerolog.Logger
}

func NewService(repo Repository, issued IssuedNumberSource, logger zerolog.Logger) *Service {
	return &Service{repo: repo, issued: issued, logger: logger}
}

func (s *Service) GetSettings(ctx context.Context) (*Settings, error) {
	return s.repo.GetSettings(ctx)
}

// UpdateSettings saves the office settings. A blank incoming sequence keeps
// the stored pointer untouched; a non-blank one must be a positive integer
// strictly greater than every invoice number issued so far.
func (s *Service) UpdateSettings(ctx context.Context, in *Settings) (*Settings, error) {
	current, err := s.repo.GetSettings(ctx)
	if err != nil {
		return nil, err
	}

	incoming := strings.TrimSpace(in.InvoiceStartSequence)
	if incoming == "" {
		in.InvoiceStartSequence = current.InvoiceStartSequence
	} else {
		start, err := strconv.ParseInt(incoming, 10, 64)
		if err != nil || start <= 0 {
			return nil, fmt.Errorf("%w: %q is not a positive integer", ErrSequencePolicy, incoming)
		}
		highest, err := s.issued.HighestNumber(ctx)
		if err != nil {
			return nil, err
		}
		if start <= highest {
			return nil, fmt.Errorf("%w: %d already issued", ErrSequencePolicy, highest)
		}
		in.InvoiceStartSequence = incoming
	}

	if err := s.repo.SaveSettings(ctx, in); err != nil {
		return nil, err
	}
	s.logger.Info().Str("invoice_start_sequence", in.InvoiceStartSequence).
		Msg("office settings updated")
	return in, nil
}

func (s *Service) GetTherapistSettings(ctx context.Context, userID int64) (*TherapistSettings, error) {
	return s.repo.GetTherapistSettings(ctx, userID)
}

func (s *Service) UpdateTherapistSettings(ctx context.Context, userID int64, in *TherapistSettings) (*TherapistSettings, error) {
	in.UserID = userID
	if err := s.repo.SaveTherapistSettings(ctx, in); err != nil {
		return nil, err
	}
	return in, nil
}
