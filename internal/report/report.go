package report

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"zeko/internal/models"
)

// Report is an immutable sales snapshot. It is rebuilt on every request.
type Report struct {
	Scope               Scope           `json:"scope"`
	ReferenceDate       string          `json:"reference_date"`
	TotalUsers          int64           `json:"total_users"`
	TotalConcerts       int64           `json:"total_concerts"`
	BookingsTotal       int64           `json:"bookings_total"`
	TicketsPaidCount    int64           `json:"tickets_paid_count"`
	BookingsUnpaidCount int64           `json:"bookings_unpaid_count"`
	TicketsSold         int64           `json:"tickets_sold"`
	Revenue             decimal.Decimal `json:"revenue"`
	PerTicketStats      []ConcertStats  `json:"per_ticket_stats"`
	Weekly              WeeklyBucket    `json:"weekly"`
}

// Counts are the cardinalities supplied directly by the record source
type Counts struct {
	Users    int64
	Concerts int64
}

// Assemble copies the computed parts into a Report
func Assemble(ref time.Time, scope Scope, counts Counts, totals Totals, perTicket []ConcertStats, weekly WeeklyBucket) Report {
	return Report{
		Scope:               scope,
		ReferenceDate:       ref.Format(time.DateOnly),
		TotalUsers:          counts.Users,
		TotalConcerts:       counts.Concerts,
		BookingsTotal:       totals.Bookings,
		TicketsPaidCount:    totals.Paid,
		BookingsUnpaidCount: totals.Unpaid,
		TicketsSold:         totals.TicketsSold,
		Revenue:             totals.Revenue,
		PerTicketStats:      perTicket,
		Weekly:              weekly,
	}
}

// Generate fetches every collection the report needs concurrently and computes
// the report once all of them have arrived. Any fetch failure aborts the report
// with a *SourceError.
func Generate(ctx context.Context, src RecordSource, ref time.Time, scope Scope) (Report, error) {
	weekStart, weekEnd := WeekBounds(ref)

	var (
		bookings     []models.Booking
		weekBookings []models.Booking
		tickets      []models.Ticket
		concerts     []models.Concert
		counts       Counts
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		bookings, err = src.FetchBookings(gctx, BookingFilter{ConcertID: scope.ConcertID})
		return sourceErr("bookings", err)
	})
	g.Go(func() error {
		var err error
		weekBookings, err = src.FetchBookings(gctx, BookingFilter{
			From:      &weekStart,
			To:        &weekEnd,
			ConcertID: scope.ConcertID,
		})
		return sourceErr("weekly bookings", err)
	})
	g.Go(func() error {
		var err error
		tickets, err = src.FetchTickets(gctx, scope.ConcertID)
		return sourceErr("tickets", err)
	})
	g.Go(func() error {
		var err error
		concerts, err = src.FetchConcerts(gctx, scope.ConcertID)
		return sourceErr("concerts", err)
	})
	g.Go(func() error {
		var err error
		counts.Users, err = src.CountUsers(gctx, scope.ConcertID)
		return sourceErr("users", err)
	})
	g.Go(func() error {
		var err error
		counts.Concerts, err = src.CountConcerts(gctx, scope.ConcertID)
		return sourceErr("concert count", err)
	})
	if err := g.Wait(); err != nil {
		return Report{}, err
	}

	catalog := BuildCatalog(tickets, concerts)
	classified := ClassifyAll(bookings)
	totals := Summarize(classified)
	perTicket := AggregateTickets(catalog, tickets, Paid(classified))
	weekly := BucketWeek(ref, ClassifyAll(weekBookings))

	return Assemble(ref, scope, counts, totals, perTicket, weekly), nil
}
