package repository

import (
	"context"

	"zeko/internal/database"
	"zeko/internal/models"
)

type ReportRequestRepository struct {
	db *database.DB
}

func NewReportRequestRepository(db *database.DB) *ReportRequestRepository {
	return &ReportRequestRepository{db: db}
}

func (r *ReportRequestRepository) Create(ctx context.Context, req *models.ReportRequest) error {
	query := `
		INSERT INTO report_requests (request_id, identity, concert_id, week_start, bookings_total, revenue)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at`

	return r.db.QueryRowContext(ctx, query,
		req.RequestID,
		req.Identity,
		req.ConcertID,
		req.WeekStart,
		req.BookingsTotal,
		req.Revenue,
	).Scan(&req.ID, &req.CreatedAt)
}
