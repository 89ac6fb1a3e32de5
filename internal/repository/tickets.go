package repository

import (
	"context"

	"zeko/internal/database"
	"zeko/internal/models"
)

type TicketRepository struct {
	db *database.DB
}

func NewTicketRepository(db *database.DB) *TicketRepository {
	return &TicketRepository{db: db}
}

func (r *TicketRepository) Create(ctx context.Context, ticket *models.Ticket) error {
	query := `
		INSERT INTO tickets (concert_id, ticket_name, price, quantity)
		VALUES ($1, $2, $3, $4)
		RETURNING id`

	return r.db.QueryRowContext(ctx, query,
		ticket.ConcertID,
		ticket.TicketName,
		ticket.Price,
		ticket.AvailableQuantity,
	).Scan(&ticket.ID)
}

// List возвращает каталог билетов в порядке добавления
func (r *TicketRepository) List(ctx context.Context, concertID *models.ID) ([]models.Ticket, error) {
	query := `
		SELECT id, concert_id, ticket_name, price, quantity
		FROM tickets`
	var args []any
	if concertID != nil {
		query += " WHERE concert_id = $1"
		args = append(args, *concertID)
	}
	query += " ORDER BY id ASC"

	rows, err := r.db.QueryWithRetry(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tickets := make([]models.Ticket, 0)
	for rows.Next() {
		var ticket models.Ticket
		err := rows.Scan(
			&ticket.ID,
			&ticket.ConcertID,
			&ticket.TicketName,
			&ticket.Price,
			&ticket.AvailableQuantity,
		)
		if err != nil {
			return nil, err
		}
		tickets = append(tickets, ticket)
	}

	return tickets, rows.Err()
}
