package repository

import (
	"context"
	"fmt"

	"zeko/internal/database"
	"zeko/internal/models"
	"zeko/internal/report"
)

type BookingRepository struct {
	db *database.DB
}

func NewBookingRepository(db *database.DB) *BookingRepository {
	return &BookingRepository{db: db}
}

func (r *BookingRepository) Create(ctx context.Context, booking *models.Booking) error {
	query := `
		INSERT INTO bookings (concert_id, user_id, status, total, tickets, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id`

	return r.db.QueryRowContext(ctx, query,
		booking.ConcertID,
		booking.UserID,
		booking.Status,
		booking.Total,
		booking.LineItems,
		booking.CreatedAt,
	).Scan(&booking.ID)
}

// Fetch возвращает бронирования по фильтру в порядке создания
func (r *BookingRepository) Fetch(ctx context.Context, filter report.BookingFilter) ([]models.Booking, error) {
	var args []any
	argIndex := 1

	query := `
		SELECT id, concert_id, user_id, status, total, tickets, created_at
		FROM bookings
		WHERE 1=1`

	if filter.ConcertID != nil {
		query += fmt.Sprintf(" AND concert_id = $%d", argIndex)
		args = append(args, *filter.ConcertID)
		argIndex++
	}

	if filter.From != nil {
		query += fmt.Sprintf(" AND created_at >= $%d", argIndex)
		args = append(args, *filter.From)
		argIndex++
	}

	if filter.To != nil {
		query += fmt.Sprintf(" AND created_at <= $%d", argIndex)
		args = append(args, *filter.To)
		argIndex++
	}

	if filter.PaidOnly {
		query += " AND status = TRUE"
	}

	query += " ORDER BY created_at ASC, id ASC"

	rows, err := r.db.QueryWithRetry(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	bookings := make([]models.Booking, 0)
	for rows.Next() {
		var booking models.Booking
		err := rows.Scan(
			&booking.ID,
			&booking.ConcertID,
			&booking.UserID,
			&booking.Status,
			&booking.Total,
			&booking.LineItems,
			&booking.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		bookings = append(bookings, booking)
	}

	return bookings, rows.Err()
}
