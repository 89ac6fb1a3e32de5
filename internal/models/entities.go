package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// User represents an end customer who books tickets
type User struct {
	UserID       int64     `json:"user_id" db:"user_id"`
	Email        string    `json:"email" db:"email"`
	FirstName    string    `json:"first_name" db:"first_name"`
	Surname      string    `json:"surname" db:"surname"`
	RegisteredAt time.Time `json:"registered_at" db:"registered_at"`
}

// Client represents an organiser account allowed to read sales reports.
// ConcertID == nil means the client sees every concert.
type Client struct {
	ClientID     int64     `json:"client_id" db:"client_id"`
	Email        string    `json:"email" db:"email"`
	PasswordHash string    `json:"-" db:"password_hash"`
	ConcertID    *ID       `json:"concert_id" db:"concert_id"`
	IsActive     bool      `json:"is_active" db:"is_active"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}

// Concert represents a concert catalog entry
type Concert struct {
	ID          ID        `json:"id" db:"id"`
	ConcertName string    `json:"concert_name" db:"concert_name"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}

// Ticket represents a ticket catalog entry of a concert
type Ticket struct {
	ID                ID        `json:"id" db:"id"`
	ConcertID         ID        `json:"concert_id" db:"concert_id"`
	TicketName        string    `json:"ticket_name" db:"ticket_name"`
	Price             RawNumber `json:"price" db:"price"`
	AvailableQuantity int64     `json:"quantity" db:"quantity"`
}

// Booking represents a purchase of zero or more tickets of one concert
type Booking struct {
	ID        ID        `json:"id" db:"id"`
	Status    bool      `json:"status" db:"status"`
	ConcertID ID        `json:"concertid" db:"concert_id"`
	UserID    *int64    `json:"user_id,omitempty" db:"user_id"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	Total     RawNumber `json:"total" db:"total"`
	LineItems LineItems `json:"tickets" db:"tickets"`
}

// LineItem is one (ticket, quantity) pair of a booking
type LineItem struct {
	TicketID ID        `json:"ticket_id"`
	Quantity RawNumber `json:"quantity"`
}

// LineItems is stored as a JSONB array in bookings.tickets
type LineItems []LineItem

// Scan implements sql.Scanner
func (li *LineItems) Scan(src any) error {
	var data []byte
	switch v := src.(type) {
	case nil:
		*li = nil
		return nil
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("unsupported line items type %T", src)
	}
	return json.Unmarshal(data, li)
}

// Value implements driver.Valuer
func (li LineItems) Value() (driver.Value, error) {
	if li == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(li)
}

// ReportRequest is an audit record of a generated report
type ReportRequest struct {
	ID            int64     `json:"id" db:"id"`
	RequestID     string    `json:"request_id" db:"request_id"`
	Identity      string    `json:"identity" db:"identity"`
	ConcertID     *ID       `json:"concert_id" db:"concert_id"`
	WeekStart     time.Time `json:"week_start" db:"week_start"`
	BookingsTotal int64     `json:"bookings_total" db:"bookings_total"`
	Revenue       string    `json:"revenue" db:"revenue"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"`
}
