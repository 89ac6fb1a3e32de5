package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"zeko/internal/database"
	"zeko/internal/middleware"
	"zeko/internal/models"
	"zeko/internal/report"
	"zeko/internal/service"
)

type fakeSource struct {
	bookings []models.Booking
	tickets  []models.Ticket
	concerts []models.Concert
	err      error
}

func matches(id models.ID, scope *models.ID) bool {
	return scope == nil || id.Canonical() == scope.Canonical()
}

func (s *fakeSource) FetchBookings(_ context.Context, f report.BookingFilter) ([]models.Booking, error) {
	if s.err != nil {
		return nil, s.err
	}
	var out []models.Booking
	for _, b := range s.bookings {
		if !matches(b.ConcertID, f.ConcertID) {
			continue
		}
		if f.From != nil && b.CreatedAt.Before(*f.From) {
			continue
		}
		if f.To != nil && b.CreatedAt.After(*f.To) {
			continue
		}
		out = append(out, b)
	}
	return out, nil
}

func (s *fakeSource) FetchTickets(_ context.Context, concertID *models.ID) ([]models.Ticket, error) {
	var out []models.Ticket
	for _, t := range s.tickets {
		if matches(t.ConcertID, concertID) {
			out = append(out, t)
		}
	}
	return out, nil
}

func (s *fakeSource) FetchConcerts(_ context.Context, concertID *models.ID) ([]models.Concert, error) {
	var out []models.Concert
	for _, c := range s.concerts {
		if matches(c.ID, concertID) {
			out = append(out, c)
		}
	}
	return out, nil
}

func (s *fakeSource) CountUsers(context.Context, *models.ID) (int64, error) {
	return 3, nil
}

func (s *fakeSource) CountConcerts(ctx context.Context, concertID *models.ID) (int64, error) {
	concerts, _ := s.FetchConcerts(ctx, concertID)
	return int64(len(concerts)), nil
}

type fakeHealth struct {
	status string
}

func (f fakeHealth) HealthCheck(context.Context) database.HealthCheck {
	return database.HealthCheck{Status: f.status}
}

func newSource() *fakeSource {
	thursday := time.Date(2024, 6, 13, 15, 0, 0, 0, time.UTC)
	return &fakeSource{
		concerts: []models.Concert{
			{ID: "6", ConcertName: "Mazzika"},
			{ID: "13", ConcertName: "Yatch Festival"},
		},
		tickets: []models.Ticket{
			{ID: "1", ConcertID: "6", TicketName: "VIP", Price: models.NumberFromString("1000"), AvailableQuantity: 100},
			{ID: "3", ConcertID: "13", TicketName: "Deck", AvailableQuantity: 40},
		},
		bookings: []models.Booking{
			{
				ID: "100", Status: true, ConcertID: "6", CreatedAt: thursday,
				Total:     models.NumberFromString("25000"),
				LineItems: models.LineItems{{TicketID: "1", Quantity: models.NumberFromString("25")}},
			},
			{
				ID: "101", Status: true, ConcertID: "13", CreatedAt: thursday,
				Total:     models.NumberFromInt(800),
				LineItems: models.LineItems{{TicketID: "3", Quantity: models.NumberFromInt(2)}},
			},
		},
	}
}

func withScope(scope report.Scope) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request = c.Request.WithContext(middleware.ContextWithScope(c.Request.Context(), scope))
		c.Next()
	}
}

func setupRouter(src report.RecordSource, scope *report.Scope) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()

	services := service.NewServicesWithSource(src, nil, nil, time.UTC)
	h := NewHandlers(services, fakeHealth{status: "healthy"}, 5*time.Second)

	r.GET("/health", h.Health)

	api := r.Group("/api")
	if scope != nil {
		api.Use(withScope(*scope))
	}
	{
		reports := api.Group("/reports")
		{
			reports.GET("", h.GetReport)
			reports.GET("/weekly", h.GetWeeklyReport)
			reports.GET("/tickets", h.GetTicketStats)
		}
	}

	return r
}

func get(r *gin.Engine, path string) *httptest.ResponseRecorder {
	req, _ := http.NewRequest(http.MethodGet, path, nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func concertID(id string) *models.ID {
	v := models.ID(id)
	return &v
}

func TestGetReportAdmin(t *testing.T) {
	r := setupRouter(newSource(), &report.Scope{Identity: "admin@zeko.com"})

	w := get(r, "/api/reports?date=2024-06-13")
	require.Equal(t, http.StatusOK, w.Code)

	var response struct {
		ReferenceDate    string `json:"reference_date"`
		TotalConcerts    int64  `json:"total_concerts"`
		BookingsTotal    int64  `json:"bookings_total"`
		TicketsPaidCount int64  `json:"tickets_paid_count"`
		Revenue          string `json:"revenue"`
		Weekly           struct {
			WeekStart time.Time `json:"week_start"`
			Days      []struct {
				Date         string `json:"date"`
				SalesTotal   string `json:"sales_total"`
				BookingCount int64  `json:"booking_count"`
			} `json:"days"`
		} `json:"weekly"`
		Navigation WeekNavigation `json:"navigation"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))

	assert.Equal(t, "2024-06-13", response.ReferenceDate)
	assert.Equal(t, int64(2), response.TotalConcerts)
	assert.Equal(t, int64(2), response.BookingsTotal)
	assert.Equal(t, int64(2), response.TicketsPaidCount)
	assert.Equal(t, "25800", response.Revenue)
	require.Len(t, response.Weekly.Days, 7)
	assert.Equal(t, "2024-06-10", response.Weekly.Days[0].Date)
	assert.Equal(t, int64(2), response.Weekly.Days[3].BookingCount)
	assert.Equal(t, "25800", response.Weekly.Days[3].SalesTotal)
	assert.Equal(t, WeekNavigation{PreviousWeek: "2024-06-03", NextWeek: "2024-06-17"}, response.Navigation)
}

func TestGetReportScopedClient(t *testing.T) {
	r := setupRouter(newSource(), &report.Scope{Identity: "mazzika@zeko.com", ConcertID: concertID("6")})

	w := get(r, "/api/reports?date=2024-06-13")
	require.Equal(t, http.StatusOK, w.Code)

	var response struct {
		Scope          report.Scope          `json:"scope"`
		TotalConcerts  int64                 `json:"total_concerts"`
		Revenue        string                `json:"revenue"`
		PerTicketStats []report.ConcertStats `json:"per_ticket_stats"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))

	assert.Equal(t, "mazzika@zeko.com", response.Scope.Identity)
	assert.Equal(t, int64(1), response.TotalConcerts)
	assert.Equal(t, "25000", response.Revenue)
	require.Len(t, response.PerTicketStats, 1)
	assert.Equal(t, "Mazzika", response.PerTicketStats[0].ConcertName)
}

func TestGetWeeklyReportNavigation(t *testing.T) {
	r := setupRouter(newSource(), &report.Scope{Identity: "admin@zeko.com"})

	w := get(r, "/api/reports/weekly?date=2024-06-13&week=next")
	require.Equal(t, http.StatusOK, w.Code)

	var response WeeklyResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))

	assert.Equal(t, "2024-06-20", response.ReferenceDate)
	assert.Equal(t, "2024-06-17", response.Weekly.Days[0].Date)
	assert.True(t, response.Weekly.TotalSales.IsZero())
	assert.Equal(t, "2024-06-10", response.Navigation.PreviousWeek)
}

func TestGetTicketStats(t *testing.T) {
	r := setupRouter(newSource(), &report.Scope{Identity: "admin@zeko.com"})

	w := get(r, "/api/reports/tickets")
	require.Equal(t, http.StatusOK, w.Code)

	var response TicketStatsResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))

	assert.Equal(t, int64(27), response.TicketsSold)
	require.Len(t, response.PerTicketStats, 2)
	vip := response.PerTicketStats[0].Tickets[0]
	assert.Equal(t, "VIP", vip.TicketName)
	assert.Equal(t, int64(25), vip.QuantitySold)
	assert.Equal(t, int64(75), vip.QuantityRemaining)
	assert.Equal(t, "1000", vip.Price.String())
	assert.Contains(t, w.Body.String(), `"price":"1000"`)
}

func TestGetReportErrors(t *testing.T) {
	failing := newSource()
	failing.err = errors.New("connection refused")

	tests := []struct {
		name   string
		src    *fakeSource
		scope  *report.Scope
		path   string
		status int
	}{
		{name: "bad date", src: newSource(), scope: &report.Scope{Identity: "a"}, path: "/api/reports?date=13.06.2024", status: http.StatusBadRequest},
		{name: "bad week", src: newSource(), scope: &report.Scope{Identity: "a"}, path: "/api/reports?week=later", status: http.StatusBadRequest},
		{name: "source unavailable", src: failing, scope: &report.Scope{Identity: "a"}, path: "/api/reports", status: http.StatusServiceUnavailable},
		{name: "no scope", src: newSource(), scope: nil, path: "/api/reports/tickets", status: http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := setupRouter(tt.src, tt.scope)
			w := get(r, tt.path)
			assert.Equal(t, tt.status, w.Code)

			var response models.ErrorResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
			assert.NotEmpty(t, response.Error)
		})
	}
}

func TestHealth(t *testing.T) {
	r := setupRouter(newSource(), nil)

	w := get(r, "/health")
	require.Equal(t, http.StatusOK, w.Code)

	var response models.HealthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, "ok", response.Status)
	assert.Equal(t, "healthy", response.Database)
}

func TestHealthDegraded(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := NewHandlers(nil, fakeHealth{status: "unhealthy"}, 0)
	r.GET("/health", h.Health)

	w := get(r, "/health")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}
