package report

import (
	"strings"

	"zeko/internal/models"
)

const (
	UnknownTicket  = "Unknown Ticket"
	UnknownConcert = "Unknown Concert"
)

// Catalog indexes the ticket and concert catalogs by canonical id.
// Lookups never fail: missing ids resolve to the Unknown* sentinels.
type Catalog struct {
	tickets  map[string]models.Ticket
	concerts map[string]string
}

// BuildCatalog builds the lookup maps; a later entry with the same id wins.
func BuildCatalog(tickets []models.Ticket, concerts []models.Concert) *Catalog {
	c := &Catalog{
		tickets:  make(map[string]models.Ticket, len(tickets)),
		concerts: make(map[string]string, len(concerts)),
	}
	for _, t := range tickets {
		t.TicketName = strings.TrimSpace(t.TicketName)
		c.tickets[t.ID.Canonical()] = t
	}
	for _, cn := range concerts {
		c.concerts[cn.ID.Canonical()] = strings.TrimSpace(cn.ConcertName)
	}
	return c
}

// Ticket returns the catalog entry, or a sentinel with zero availability.
func (c *Catalog) Ticket(id models.ID) models.Ticket {
	if t, ok := c.tickets[id.Canonical()]; ok {
		return t
	}
	return models.Ticket{ID: id, TicketName: UnknownTicket}
}

func (c *Catalog) TicketName(id models.ID) string {
	return c.Ticket(id).TicketName
}

func (c *Catalog) ConcertName(id models.ID) string {
	if name, ok := c.concerts[id.Canonical()]; ok {
		return name
	}
	return UnknownConcert
}
