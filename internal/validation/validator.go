package validation

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"zeko/internal/logger"
)

// APIValidator проверяет, что развернутый API отдает отчеты в ожидаемом виде
type APIValidator struct {
	baseURL  string
	email    string
	password string
	client   *http.Client
}

// NewAPIValidator создает новый валидатор
func NewAPIValidator(baseURL, email, password string) *APIValidator {
	return &APIValidator{
		baseURL:  baseURL,
		email:    email,
		password: password,
		client:   &http.Client{Timeout: 30 * time.Second},
	}
}

type weeklyShape struct {
	WeekStart time.Time `json:"week_start"`
	WeekEnd   time.Time `json:"week_end"`
	Days      []struct {
		DayIndex int    `json:"day_index"`
		Date     string `json:"date"`
	} `json:"days"`
}

type reportShape struct {
	ReferenceDate  string          `json:"reference_date"`
	BookingsTotal  *int64          `json:"bookings_total"`
	Revenue        *string         `json:"revenue"`
	PerTicketStats []any           `json:"per_ticket_stats"`
	Weekly         weeklyShape     `json:"weekly"`
	Navigation     map[string]any  `json:"navigation"`
	Scope          json.RawMessage `json:"scope"`
}

// ValidateAll проверяет все endpoints
func (v *APIValidator) ValidateAll() error {
	slog.Info("Начинаю валидацию API отчетов...", "base_url", v.baseURL)

	if err := v.validateHealth(); err != nil {
		return fmt.Errorf("health validation failed: %w", err)
	}

	if err := v.validateAuth(); err != nil {
		return fmt.Errorf("auth validation failed: %w", err)
	}

	if err := v.validateReports(); err != nil {
		return fmt.Errorf("reports validation failed: %w", err)
	}

	slog.Info("✅ Все endpoints прошли валидацию успешно!")
	return nil
}

func (v *APIValidator) validateHealth() error {
	resp, err := v.makeRequest("/health", false)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("GET /health: expected 200, got %d", resp.StatusCode)
	}
	return nil
}

func (v *APIValidator) validateAuth() error {
	resp, err := v.makeRequest("/api/reports", false)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusUnauthorized {
		return fmt.Errorf("GET /api/reports without credentials: expected 401, got %d", resp.StatusCode)
	}
	return nil
}

func (v *APIValidator) validateReports() error {
	slog.Info("Проверяю Reports endpoints...")

	var rep reportShape
	if err := v.getJSON("/api/reports?date=2024-06-13", &rep); err != nil {
		return err
	}
	if rep.ReferenceDate != "2024-06-13" {
		return fmt.Errorf("GET /api/reports: expected reference_date 2024-06-13, got %q", rep.ReferenceDate)
	}
	if rep.BookingsTotal == nil || rep.Revenue == nil {
		return fmt.Errorf("GET /api/reports: bookings_total and revenue are required")
	}
	if rep.PerTicketStats == nil {
		return fmt.Errorf("GET /api/reports: per_ticket_stats must be a list")
	}
	if err := checkWeek(rep.Weekly, "2024-06-10"); err != nil {
		return fmt.Errorf("GET /api/reports: %w", err)
	}

	var weekly struct {
		Weekly weeklyShape `json:"weekly"`
	}
	if err := v.getJSON("/api/reports/weekly?date=2024-06-13&week=prev", &weekly); err != nil {
		return err
	}
	if err := checkWeek(weekly.Weekly, "2024-06-03"); err != nil {
		return fmt.Errorf("GET /api/reports/weekly: %w", err)
	}

	var tickets struct {
		PerTicketStats []any `json:"per_ticket_stats"`
	}
	if err := v.getJSON("/api/reports/tickets", &tickets); err != nil {
		return err
	}
	if tickets.PerTicketStats == nil {
		return fmt.Errorf("GET /api/reports/tickets: per_ticket_stats must be a list")
	}

	resp, err := v.makeRequest("/api/reports?date=13.06.2024", true)
	if err != nil {
		return err
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		return fmt.Errorf("GET /api/reports with bad date: expected 400, got %d", resp.StatusCode)
	}

	slog.Info("✅ Reports endpoints валидны")
	return nil
}

func checkWeek(w weeklyShape, monday string) error {
	if len(w.Days) != 7 {
		return fmt.Errorf("expected 7 days, got %d", len(w.Days))
	}
	if w.Days[0].Date != monday {
		return fmt.Errorf("expected week to start on %s, got %s", monday, w.Days[0].Date)
	}
	for i, d := range w.Days {
		if d.DayIndex != i {
			return fmt.Errorf("day %d has index %d", i, d.DayIndex)
		}
	}
	if !w.WeekEnd.After(w.WeekStart) {
		return fmt.Errorf("week_end %s is not after week_start %s", w.WeekEnd, w.WeekStart)
	}
	return nil
}

func (v *APIValidator) getJSON(path string, out any) error {
	resp, err := v.makeRequest(path, true)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("GET %s: expected 200, got %d", path, resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("GET %s: failed to decode response: %w", path, err)
	}
	return nil
}

func (v *APIValidator) makeRequest(path string, withAuth bool) (*http.Response, error) {
	req, err := http.NewRequest(http.MethodGet, v.baseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	if withAuth {
		req.SetBasicAuth(v.email, v.password)
	}

	resp, err := v.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to make request: %w", err)
	}
	return resp, nil
}

// RunValidation запускает валидацию API
func RunValidation() {
	baseURL := getEnv("VALIDATE_URL", "http://localhost:8081")
	email := getEnv("VALIDATE_EMAIL", "admin@zeko.com")
	password := getEnv("VALIDATE_PASSWORD", "admin")

	validator := NewAPIValidator(baseURL, email, password)
	if err := validator.ValidateAll(); err != nil {
		logger.Fatal("❌ Валидация не пройдена", "error", err)
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
