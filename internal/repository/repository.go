package repository

import (
	"context"

	"zeko/internal/database"
	"zeko/internal/models"
	"zeko/internal/search"
)

// ConcertCatalog читает каталог концертов из Postgres или из индекса Elasticsearch
type ConcertCatalog interface {
	List(ctx context.Context, concertID *models.ID) ([]models.Concert, error)
	Count(ctx context.Context, concertID *models.ID) (int64, error)
}

type Repositories struct {
	Bookings       *BookingRepository
	Tickets        *TicketRepository
	Concerts       ConcertCatalog
	ConcertStore   *ConcertRepository
	Users          *UserRepository
	Clients        *ClientRepository
	ReportRequests *ReportRequestRepository
}

func NewRepositories(db *database.DB) *Repositories {
	concerts := NewConcertRepository(db)
	return &Repositories{
		Bookings:       NewBookingRepository(db),
		Tickets:        NewTicketRepository(db),
		Concerts:       concerts,
		ConcertStore:   concerts,
		Users:          NewUserRepository(db),
		Clients:        NewClientRepository(db),
		ReportRequests: NewReportRequestRepository(db),
	}
}

func NewRepositoriesWithElasticsearch(db *database.DB, es *search.ElasticsearchClient) *Repositories {
	repos := NewRepositories(db)
	repos.Concerts = NewConcertElasticsearchRepository(es)
	return repos
}
