package repository

import (
	"context"

	"zeko/internal/models"
	"zeko/internal/report"
)

// RecordSource отдает движку отчетов коллекции из хранилищ
type RecordSource struct {
	repos *Repositories
}

var _ report.RecordSource = (*RecordSource)(nil)

func NewRecordSource(repos *Repositories) *RecordSource {
	return &RecordSource{repos: repos}
}

func (s *RecordSource) FetchBookings(ctx context.Context, filter report.BookingFilter) ([]models.Booking, error) {
	return s.repos.Bookings.Fetch(ctx, filter)
}

func (s *RecordSource) FetchTickets(ctx context.Context, concertID *models.ID) ([]models.Ticket, error) {
	return s.repos.Tickets.List(ctx, concertID)
}

func (s *RecordSource) FetchConcerts(ctx context.Context, concertID *models.ID) ([]models.Concert, error) {
	return s.repos.Concerts.List(ctx, concertID)
}

func (s *RecordSource) CountUsers(ctx context.Context, concertID *models.ID) (int64, error) {
	return s.repos.Users.Count(ctx, concertID)
}

func (s *RecordSource) CountConcerts(ctx context.Context, concertID *models.ID) (int64, error) {
	return s.repos.Concerts.Count(ctx, concertID)
}
