package service

import (
	"context"
	"fmt"
	"strings"

	"zeko/internal/models"
)

// ReportRequestStore сохраняет журнал запрошенных отчетов
type ReportRequestStore interface {
	Create(ctx context.Context, req *models.ReportRequest) error
}

// AuditService записывает события report.generated в журнал
type AuditService struct {
	store ReportRequestStore
}

func NewAuditService(store ReportRequestStore) *AuditService {
	return &AuditService{store: store}
}

func (s *AuditService) RecordReport(ctx context.Context, event models.ReportGeneratedEvent) error {
	if strings.TrimSpace(event.Identity) == "" {
		return fmt.Errorf("report event without identity")
	}

	req := &models.ReportRequest{
		RequestID:     event.RequestID,
		Identity:      event.Identity,
		ConcertID:     event.ConcertID,
		WeekStart:     event.WeekStart,
		BookingsTotal: event.BookingsTotal,
		Revenue:       event.Revenue,
	}

	if err := s.store.Create(ctx, req); err != nil {
		return fmt.Errorf("failed to record report request: %w", err)
	}
	return nil
}
