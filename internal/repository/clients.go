package repository

import (
	"context"
	"database/sql"

	"zeko/internal/database"
	"zeko/internal/models"
)

type ClientRepository struct {
	db *database.DB
}

func NewClientRepository(db *database.DB) *ClientRepository {
	return &ClientRepository{db: db}
}

func (r *ClientRepository) GetByEmail(ctx context.Context, email string) (*models.Client, error) {
	client := &models.Client{}
	query := `
		SELECT client_id, email, password_hash, concert_id, is_active, created_at
		FROM clients
		WHERE email = $1`

	err := r.db.QueryRowContext(ctx, query, email).Scan(
		&client.ClientID,
		&client.Email,
		&client.PasswordHash,
		&client.ConcertID,
		&client.IsActive,
		&client.CreatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}

	return client, err
}

// Upsert создает клиента или обновляет пароль и концерт существующего
func (r *ClientRepository) Upsert(ctx context.Context, client *models.Client) error {
	query := `
		INSERT INTO clients (email, password_hash, concert_id, is_active)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (email) DO UPDATE
		SET password_hash = EXCLUDED.password_hash,
		    concert_id = EXCLUDED.concert_id,
		    is_active = EXCLUDED.is_active
		RETURNING client_id, created_at`

	return r.db.QueryRowContext(ctx, query,
		client.Email,
		client.PasswordHash,
		client.ConcertID,
		client.IsActive,
	).Scan(&client.ClientID, &client.CreatedAt)
}
