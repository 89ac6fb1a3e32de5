package report

import (
	"github.com/shopspring/decimal"

	"zeko/internal/models"
)

// ClassifiedBooking is a booking with its status and numeric fields
// normalized. Total is zero when TotalValid is false.
type ClassifiedBooking struct {
	Booking    models.Booking
	Paid       bool
	Total      decimal.Decimal
	TotalValid bool
	Items      []ClassifiedItem
}

type ClassifiedItem struct {
	TicketID models.ID
	Quantity int64
}

// Classify never fails: malformed totals and quantities degrade to zero.
func Classify(b models.Booking) ClassifiedBooking {
	total, ok := b.Total.Decimal()
	cb := ClassifiedBooking{
		Booking:    b,
		Paid:       b.Status,
		Total:      total,
		TotalValid: ok,
		Items:      make([]ClassifiedItem, 0, len(b.LineItems)),
	}
	for _, li := range b.LineItems {
		cb.Items = append(cb.Items, ClassifiedItem{
			TicketID: li.TicketID,
			Quantity: li.Quantity.Int(),
		})
	}
	return cb
}

func ClassifyAll(bookings []models.Booking) []ClassifiedBooking {
	out := make([]ClassifiedBooking, 0, len(bookings))
	for _, b := range bookings {
		out = append(out, Classify(b))
	}
	return out
}

// Paid filters the paid bookings preserving order
func Paid(bookings []ClassifiedBooking) []ClassifiedBooking {
	out := make([]ClassifiedBooking, 0, len(bookings))
	for _, b := range bookings {
		if b.Paid {
			out = append(out, b)
		}
	}
	return out
}

// Totals are the booking-level counters of a report
type Totals struct {
	Bookings    int64
	Paid        int64
	Unpaid      int64
	TicketsSold int64
	Revenue     decimal.Decimal
}

// Summarize counts every booking; only paid bookings with a valid total add revenue.
func Summarize(bookings []ClassifiedBooking) Totals {
	t := Totals{Revenue: decimal.Zero}
	for _, b := range bookings {
		t.Bookings++
		if !b.Paid {
			t.Unpaid++
			continue
		}
		t.Paid++
		if b.TotalValid {
			t.Revenue = t.Revenue.Add(b.Total)
		}
		for _, item := range b.Items {
			t.TicketsSold += item.Quantity
		}
	}
	return t
}
