package report

import (
	"context"
	"fmt"
	"time"

	apperrors "zeko/internal/errors"
	"zeko/internal/models"
)

// BookingFilter narrows FetchBookings. Zero value means every booking.
type BookingFilter struct {
	From      *time.Time
	To        *time.Time
	PaidOnly  bool
	ConcertID *models.ID
}

// RecordSource supplies the raw collections a report is computed from.
// A nil concertID means "all concerts".
type RecordSource interface {
	FetchBookings(ctx context.Context, filter BookingFilter) ([]models.Booking, error)
	FetchTickets(ctx context.Context, concertID *models.ID) ([]models.Ticket, error)
	FetchConcerts(ctx context.Context, concertID *models.ID) ([]models.Concert, error)
	CountUsers(ctx context.Context, concertID *models.ID) (int64, error)
	CountConcerts(ctx context.Context, concertID *models.ID) (int64, error)
}

// Scope is the authenticated identity and the concert it is limited to.
type Scope struct {
	Identity  string     `json:"identity"`
	ConcertID *models.ID `json:"concert_id,omitempty"`
}

// IsAll reports whether the scope covers every concert
func (s Scope) IsAll() bool {
	return s.ConcertID == nil
}

// SourceError reports which collection the record source failed to deliver.
// It matches apperrors.ErrSourceUnavailable with errors.Is.
type SourceError struct {
	Collection string
	Err        error
}

func (e *SourceError) Error() string {
	return fmt.Sprintf("%s: %s: %v", apperrors.ErrSourceUnavailable, e.Collection, e.Err)
}

func (e *SourceError) Unwrap() []error {
	return []error{apperrors.ErrSourceUnavailable, e.Err}
}

func sourceErr(collection string, err error) error {
	if err == nil {
		return nil
	}
	return &SourceError{Collection: collection, Err: err}
}
