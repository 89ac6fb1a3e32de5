package repository

import (
	"context"

	"zeko/internal/database"
	"zeko/internal/models"
)

type ConcertRepository struct {
	db *database.DB
}

func NewConcertRepository(db *database.DB) *ConcertRepository {
	return &ConcertRepository{db: db}
}

func (r *ConcertRepository) Create(ctx context.Context, concert *models.Concert) error {
	query := `
		INSERT INTO concerts (concert_name)
		VALUES ($1)
		RETURNING id, created_at`

	return r.db.QueryRowContext(ctx, query, concert.ConcertName).Scan(&concert.ID, &concert.CreatedAt)
}

func (r *ConcertRepository) List(ctx context.Context, concertID *models.ID) ([]models.Concert, error) {
	query := `
		SELECT id, concert_name, created_at
		FROM concerts`
	var args []any
	if concertID != nil {
		query += " WHERE id = $1"
		args = append(args, *concertID)
	}
	query += " ORDER BY id ASC"

	rows, err := r.db.QueryWithRetry(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	concerts := make([]models.Concert, 0)
	for rows.Next() {
		var concert models.Concert
		if err := rows.Scan(&concert.ID, &concert.ConcertName, &concert.CreatedAt); err != nil {
			return nil, err
		}
		concerts = append(concerts, concert)
	}

	return concerts, rows.Err()
}

func (r *ConcertRepository) Count(ctx context.Context, concertID *models.ID) (int64, error) {
	query := `SELECT COUNT(*) FROM concerts`
	var args []any
	if concertID != nil {
		query += " WHERE id = $1"
		args = append(args, *concertID)
	}

	var count int64
	err := r.db.QueryRowContext(ctx, query, args...).Scan(&count)
	return count, err
}
