package models

import "time"

// NATS Event Types
const (
	EventReportGenerated = "report.generated"
)

// ReportGeneratedEvent is published after a report has been assembled
type ReportGeneratedEvent struct {
	RequestID     string    `json:"request_id"`
	Identity      string    `json:"identity"`
	ConcertID     *ID       `json:"concert_id,omitempty"`
	ReferenceDate string    `json:"reference_date"`
	WeekStart     time.Time `json:"week_start"`
	WeekEnd       time.Time `json:"week_end"`
	BookingsTotal int64     `json:"bookings_total"`
	Revenue       string    `json:"revenue"`
	Timestamp     time.Time `json:"timestamp"`
}
