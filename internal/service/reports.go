package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	apperrors "zeko/internal/errors"
	"zeko/internal/logger"
	"zeko/internal/metrics"
	"zeko/internal/models"
	"zeko/internal/report"
)

// Week navigation values accepted by Generate
const (
	WeekCurrent  = ""
	WeekPrevious = "prev"
	WeekNext     = "next"
)

// EventPublisher публикует доменные события в шину
type EventPublisher interface {
	Publish(subject string, data interface{}) error
}

type ReportService struct {
	source    report.RecordSource
	publisher EventPublisher
	loc       *time.Location
	now       func() time.Time
}

// NewReportService создает сервис отчетов. publisher может быть nil,
// тогда события о сформированных отчетах не публикуются.
func NewReportService(source report.RecordSource, publisher EventPublisher, loc *time.Location) *ReportService {
	if loc == nil {
		loc = time.UTC
	}
	return &ReportService{
		source:    source,
		publisher: publisher,
		loc:       loc,
		now:       time.Now,
	}
}

// ReferenceDate разбирает дату YYYY-MM-DD в зоне отчетов и сдвигает ее на неделю
// назад или вперед. Пустая дата означает сегодня.
func (s *ReportService) ReferenceDate(date, week string) (time.Time, error) {
	var ref time.Time
	date = strings.TrimSpace(date)
	if date == "" {
		ref = s.now().In(s.loc)
	} else {
		parsed, err := time.ParseInLocation(time.DateOnly, date, s.loc)
		if err != nil {
			return time.Time{}, fmt.Errorf("%w: %q", apperrors.ErrInvalidDate, date)
		}
		ref = parsed
	}

	switch strings.ToLower(strings.TrimSpace(week)) {
	case WeekCurrent, "current":
		return ref, nil
	case WeekPrevious, "previous":
		return report.PreviousWeek(ref), nil
	case WeekNext:
		return report.NextWeek(ref), nil
	default:
		return time.Time{}, fmt.Errorf("%w: unknown week %q", apperrors.ErrInvalidDate, week)
	}
}

// Generate собирает отчет для области видимости клиента
func (s *ReportService) Generate(ctx context.Context, scope report.Scope, date, week string) (*report.Report, error) {
	start := time.Now()
	scopeLabel := metrics.ScopeLabel(scope.IsAll())
	log := logger.WithContext(ctx)

	ref, err := s.ReferenceDate(date, week)
	if err != nil {
		metrics.RecordReportGeneration(scopeLabel, metrics.OutcomeInvalidDate, time.Since(start), 0)
		return nil, err
	}

	rep, err := report.Generate(ctx, s.source, ref, scope)
	if err != nil {
		outcome := metrics.OutcomeError
		var srcErr *report.SourceError
		if errors.As(err, &srcErr) {
			outcome = metrics.OutcomeSourceUnavailable
			metrics.RecordSourceError(srcErr.Collection)
		}
		metrics.RecordReportGeneration(scopeLabel, outcome, time.Since(start), 0)
		log.Error("Failed to generate report",
			"error", err,
			"reference_date", ref.Format(time.DateOnly))
		return nil, fmt.Errorf("failed to generate report: %w", err)
	}

	metrics.RecordReportGeneration(scopeLabel, metrics.OutcomeSuccess, time.Since(start), int(rep.BookingsTotal))
	log.Debug("Report generated",
		"reference_date", rep.ReferenceDate,
		"bookings_total", rep.BookingsTotal,
		"revenue", rep.Revenue.String(),
		"duration_ms", time.Since(start).Milliseconds())

	s.publishGenerated(ctx, &rep)

	return &rep, nil
}

func (s *ReportService) publishGenerated(ctx context.Context, rep *report.Report) {
	if s.publisher == nil {
		return
	}

	eventData := models.ReportGeneratedEvent{
		RequestID:     logger.RequestIDFromContext(ctx),
		Identity:      rep.Scope.Identity,
		ConcertID:     rep.Scope.ConcertID,
		ReferenceDate: rep.ReferenceDate,
		WeekStart:     rep.Weekly.WeekStart,
		WeekEnd:       rep.Weekly.WeekEnd,
		BookingsTotal: rep.BookingsTotal,
		Revenue:       rep.Revenue.String(),
		Timestamp:     s.now(),
	}

	err := s.publisher.Publish(models.EventReportGenerated, eventData)
	metrics.RecordPublish(models.EventReportGenerated, err)
	if err != nil {
		// Логируем ошибку, но не ломаем ответ
		logger.WithContext(ctx).Error("Failed to publish report generated event",
			"error", err,
			"event_type", models.EventReportGenerated)
	}
}
