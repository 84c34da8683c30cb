package office

import "context"

// Repository defines storage for the office settings singleton and the
// per-therapist settings rows.
type Repository interface {
	GetSettings(ctx context.Context) (*Settings, error)
	SaveSettings(ctx context.Context, settings *Settings) error

	// GetSequenceForUpdate reads the current sequence pointer while holding
	// a row lock, so concurrent allocators serialize on the singleton row.
	GetSequenceForUpdate(ctx context.Context) (string, error)
	SetSequence(ctx context.Context, value string) error

	GetTherapistSettings(ctx context.Context, userID int64) (*TherapistSettings, error)
	SaveTherapistSettings(ctx context.Context, settings *TherapistSettings) error
}

// IssuedNumberSource reports the highest invoice number issued so far, used to
// validate sequence pointer overrides. Zero means nothing was issued yet.
type IssuedNumberSource interface {
	HighestNumber(ctx context.Context) (int64, error)
}
