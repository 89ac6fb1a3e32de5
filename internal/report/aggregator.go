package report

import (
	"strings"

	"github.com/shopspring/decimal"

	"zeko/internal/models"
)

// TicketStat is the price and sold/available/remaining counter of one ticket
// of one concert. QuantityRemaining is not clamped: overselling shows up as a
// negative value. An unparsable price is reported as zero.
type TicketStat struct {
	ConcertName       string          `json:"concert_name"`
	TicketName        string          `json:"ticket_name"`
	Price             decimal.Decimal `json:"price"`
	QuantitySold      int64           `json:"quantity_sold"`
	QuantityAvailable int64           `json:"quantity_available"`
	QuantityRemaining int64           `json:"quantity_remaining"`
}

// ConcertStats groups ticket stats of one concert
type ConcertStats struct {
	ConcertName string       `json:"concert_name"`
	Tickets     []TicketStat `json:"tickets"`
}

type cellKey struct {
	concert string
	ticket  string
}

// AggregateTickets produces a cell for every catalog ticket and adds the sold
// quantities of paid bookings into it. Cells are keyed by concert and ticket
// names, so catalog rows with equal trimmed names share one cell. Sales that
// point at no cell are dropped.
func AggregateTickets(catalog *Catalog, tickets []models.Ticket, paid []ClassifiedBooking) []ConcertStats {
	groups := make([]ConcertStats, 0)
	groupIdx := make(map[string]int)
	cellIdx := make(map[cellKey]int)

	for _, t := range tickets {
		concert := catalog.ConcertName(t.ConcertID)
		key := cellKey{concert: concert, ticket: strings.TrimSpace(t.TicketName)}

		gi, ok := groupIdx[concert]
		if !ok {
			gi = len(groups)
			groupIdx[concert] = gi
			groups = append(groups, ConcertStats{ConcertName: concert, Tickets: make([]TicketStat, 0)})
		}

		// ошибка разбора дает decimal.Zero
		price, _ := t.Price.Decimal()

		if ci, ok := cellIdx[key]; ok {
			groups[gi].Tickets[ci].Price = price
			groups[gi].Tickets[ci].QuantityAvailable = t.AvailableQuantity
			continue
		}
		cellIdx[key] = len(groups[gi].Tickets)
		groups[gi].Tickets = append(groups[gi].Tickets, TicketStat{
			ConcertName:       concert,
			TicketName:        key.ticket,
			Price:             price,
			QuantityAvailable: t.AvailableQuantity,
		})
	}

	for _, b := range paid {
		if !b.Paid {
			continue
		}
		concert := catalog.ConcertName(b.Booking.ConcertID)
		gi, ok := groupIdx[concert]
		if !ok {
			continue
		}
		for _, item := range b.Items {
			ci, ok := cellIdx[cellKey{concert: concert, ticket: catalog.TicketName(item.TicketID)}]
			if !ok {
				continue
			}
			groups[gi].Tickets[ci].QuantitySold += item.Quantity
		}
	}

	for gi := range groups {
		for ci := range groups[gi].Tickets {
			cell := &groups[gi].Tickets[ci]
			cell.QuantityRemaining = cell.QuantityAvailable - cell.QuantitySold
		}
	}

	return groups
}
