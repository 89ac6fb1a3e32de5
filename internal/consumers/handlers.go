package consumers

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/nats-io/stan.go"

	"zeko/internal/metrics"
	"zeko/internal/models"
	"zeko/internal/service"
)

type Handlers struct {
	audit   *service.AuditService
	timeout time.Duration
}

func NewHandlers(audit *service.AuditService) *Handlers {
	return &Handlers{
		audit:   audit,
		timeout: 10 * time.Second,
	}
}

// HandleReportGenerated пишет сформированный отчет в журнал report_requests.
// Сообщение подтверждается только после успешной записи, иначе NATS
// Streaming повторит доставку после AckWait.
func (h *Handlers) HandleReportGenerated(m *stan.Msg) {
	ctx, cancel := context.WithTimeout(context.Background(), h.timeout)
	defer cancel()

	err := h.processReportGenerated(ctx, m.Data)
	metrics.RecordConsume(models.EventReportGenerated, err)
	if err != nil {
		slog.Error("Failed to process report generated event",
			"error", err,
			"sequence", m.Sequence,
			"redelivered", m.Redelivered)
		if !isPoison(err) {
			return
		}
	}

	if err := m.Ack(); err != nil {
		slog.Error("Failed to ack message", "sequence", m.Sequence, "error", err)
	}
}

// poisonError отмечает сообщения, которые бессмысленно доставлять повторно
type poisonError struct {
	err error
}

func (e *poisonError) Error() string { return e.err.Error() }
func (e *poisonError) Unwrap() error { return e.err }

func isPoison(err error) bool {
	_, ok := err.(*poisonError)
	return ok
}

func (h *Handlers) processReportGenerated(ctx context.Context, data []byte) error {
	var event models.ReportGeneratedEvent
	if err := json.Unmarshal(data, &event); err != nil {
		return &poisonError{err: fmt.Errorf("failed to unmarshal report generated event: %w", err)}
	}

	slog.Info("Processing report generated event",
		"request_id", event.RequestID,
		"identity", event.Identity,
		"reference_date", event.ReferenceDate)

	if event.Identity == "" {
		return &poisonError{err: fmt.Errorf("report generated event without identity")}
	}

	return h.audit.RecordReport(ctx, event)
}
