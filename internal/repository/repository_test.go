package repository

import (
	"context"
	"database/sql/driver"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"zeko/internal/database"
	"zeko/internal/models"
	"zeko/internal/report"
)

func newMockRepos(t *testing.T) (*Repositories, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })
	return NewRepositories(database.Wrap(sqlDB)), mock
}

func TestBookingFetchWithFilter(t *testing.T) {
	repos, mock := newMockRepos(t)

	from := time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 0, 7).Add(-time.Nanosecond)
	concert := models.ID("6")
	created := from.Add(80 * time.Hour)

	rows := sqlmock.NewRows([]string{"id", "concert_id", "user_id", "status", "total", "tickets", "created_at"}).
		AddRow(int64(100), int64(6), nil, true, "25000", []byte(`[{"ticket_id":1,"quantity":"25"}]`), created).
		AddRow(int64(101), int64(6), int64(3), false, nil, []byte(`[]`), created)

	mock.ExpectQuery(`SELECT id, concert_id, user_id, status, total, tickets, created_at\s+FROM bookings\s+WHERE 1=1 AND concert_id = \$1 AND created_at >= \$2 AND created_at <= \$3 ORDER BY`).
		WithArgs("6", from, to).
		WillReturnRows(rows)

	bookings, err := repos.Bookings.Fetch(context.Background(), report.BookingFilter{
		From:      &from,
		To:        &to,
		ConcertID: &concert,
	})
	require.NoError(t, err)
	require.Len(t, bookings, 2)

	assert.Equal(t, "100", bookings[0].ID.Canonical())
	assert.True(t, bookings[0].Status)
	assert.Nil(t, bookings[0].UserID)
	require.Len(t, bookings[0].LineItems, 1)
	assert.Equal(t, int64(25), bookings[0].LineItems[0].Quantity.Int())

	assert.False(t, bookings[1].Total.IsPresent())
	require.NotNil(t, bookings[1].UserID)
	assert.Equal(t, int64(3), *bookings[1].UserID)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBookingFetchPaidOnly(t *testing.T) {
	repos, mock := newMockRepos(t)

	mock.ExpectQuery(`WHERE 1=1 AND status = TRUE ORDER BY`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "concert_id", "user_id", "status", "total", "tickets", "created_at"}))

	bookings, err := repos.Bookings.Fetch(context.Background(), report.BookingFilter{PaidOnly: true})
	require.NoError(t, err)
	assert.NotNil(t, bookings)
	assert.Empty(t, bookings)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTicketList(t *testing.T) {
	repos, mock := newMockRepos(t)

	mock.ExpectQuery(`SELECT id, concert_id, ticket_name, price, quantity\s+FROM tickets WHERE concert_id = \$1 ORDER BY id ASC`).
		WithArgs("6").
		WillReturnRows(sqlmock.NewRows([]string{"id", "concert_id", "ticket_name", "price", "quantity"}).
			AddRow(int64(1), int64(6), " VIP ", "1000", int64(100)))

	concert := models.ID("6")
	tickets, err := repos.Tickets.List(context.Background(), &concert)
	require.NoError(t, err)
	require.Len(t, tickets, 1)
	assert.Equal(t, " VIP ", tickets[0].TicketName)
	assert.Equal(t, int64(100), tickets[0].AvailableQuantity)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRecordSourceCounts(t *testing.T) {
	repos, mock := newMockRepos(t)
	src := NewRecordSource(repos)

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM users`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(int64(42)))
	mock.ExpectQuery(`SELECT COUNT\(DISTINCT user_id\)`).
		WithArgs("13").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(int64(7)))
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM concerts WHERE id = \$1`).
		WithArgs("13").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(int64(1)))

	users, err := src.CountUsers(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, int64(42), users)

	concert := models.ID("13")
	users, err = src.CountUsers(context.Background(), &concert)
	require.NoError(t, err)
	assert.Equal(t, int64(7), users)

	concerts, err := src.CountConcerts(context.Background(), &concert)
	require.NoError(t, err)
	assert.Equal(t, int64(1), concerts)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestClientGetByEmail(t *testing.T) {
	repos, mock := newMockRepos(t)
	now := time.Now()

	mock.ExpectQuery(`FROM clients\s+WHERE email = \$1`).
		WithArgs("mazzika@zeko.com").
		WillReturnRows(sqlmock.NewRows([]string{"client_id", "email", "password_hash", "concert_id", "is_active", "created_at"}).
			AddRow(int64(1), "mazzika@zeko.com", "hash", int64(6), true, now))
	mock.ExpectQuery(`FROM clients\s+WHERE email = \$1`).
		WithArgs("nobody@zeko.com").
		WillReturnRows(sqlmock.NewRows([]string{"client_id", "email", "password_hash", "concert_id", "is_active", "created_at"}))

	client, err := repos.Clients.GetByEmail(context.Background(), "mazzika@zeko.com")
	require.NoError(t, err)
	require.NotNil(t, client)
	require.NotNil(t, client.ConcertID)
	assert.Equal(t, "6", client.ConcertID.Canonical())

	client, err = repos.Clients.GetByEmail(context.Background(), "nobody@zeko.com")
	require.NoError(t, err)
	assert.Nil(t, client)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReportRequestCreate(t *testing.T) {
	repos, mock := newMockRepos(t)
	weekStart := time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`INSERT INTO report_requests`).
		WithArgs("req-1", "admin@zeko.com", nil, weekStart, int64(3), "25000").
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(int64(1), time.Now()))

	req := &models.ReportRequest{
		RequestID:     "req-1",
		Identity:      "admin@zeko.com",
		WeekStart:     weekStart,
		BookingsTotal: 3,
		Revenue:       "25000",
	}
	require.NoError(t, repos.ReportRequests.Create(context.Background(), req))
	assert.Equal(t, int64(1), req.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// sqlmock compares driver values, make sure the ID valuer is canonical
func TestIDValuer(t *testing.T) {
	v, err := models.ID(" 06 ").Value()
	require.NoError(t, err)
	assert.Equal(t, driver.Value("6"), v)
}
