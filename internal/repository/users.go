package repository

import (
	"context"

	"zeko/internal/database"
	"zeko/internal/models"
)

type UserRepository struct {
	db *database.DB
}

func NewUserRepository(db *database.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO users (email, first_name, surname)
		VALUES ($1, $2, $3)
		RETURNING user_id, registered_at`

	return r.db.QueryRowContext(ctx, query,
		user.Email,
		user.FirstName,
		user.Surname,
	).Scan(&user.UserID, &user.RegisteredAt)
}

// Count возвращает число пользователей; для одного концерта считаются
// только покупатели, у которых есть бронирования этого концерта.
func (r *UserRepository) Count(ctx context.Context, concertID *models.ID) (int64, error) {
	query := `SELECT COUNT(*) FROM users`
	var args []any
	if concertID != nil {
		query = `
			SELECT COUNT(DISTINCT user_id)
			FROM bookings
			WHERE concert_id = $1 AND user_id IS NOT NULL`
		args = append(args, *concertID)
	}

	var count int64
	err := r.db.QueryRowContext(ctx, query, args...).Scan(&count)
	return count, err
}
