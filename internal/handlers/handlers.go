package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"zeko/internal/database"
	apperrors "zeko/internal/errors"
	"zeko/internal/logger"
	"zeko/internal/middleware"
	"zeko/internal/models"
	"zeko/internal/report"
	"zeko/internal/service"

	"github.com/gin-gonic/gin"
)

const (
	serviceName    = "zeko-reports-api"
	serviceVersion = "1.0.0"
)

// HealthChecker проверяет доступность хранилища
type HealthChecker interface {
	HealthCheck(ctx context.Context) database.HealthCheck
}

type Handlers struct {
	services       *service.Services
	health         HealthChecker
	requestTimeout time.Duration
}

func NewHandlers(services *service.Services, health HealthChecker, requestTimeout time.Duration) *Handlers {
	return &Handlers{
		services:       services,
		health:         health,
		requestTimeout: requestTimeout,
	}
}

// WeekNavigation - даты для перехода на соседние недели
type WeekNavigation struct {
	PreviousWeek string `json:"previous_week"`
	NextWeek     string `json:"next_week"`
}

type ReportResponse struct {
	*report.Report
	Navigation WeekNavigation `json:"navigation"`
}

type WeeklyResponse struct {
	Scope         report.Scope        `json:"scope"`
	ReferenceDate string              `json:"reference_date"`
	Weekly        report.WeeklyBucket `json:"weekly"`
	Navigation    WeekNavigation      `json:"navigation"`
}

type TicketStatsResponse struct {
	Scope          report.Scope          `json:"scope"`
	ReferenceDate  string                `json:"reference_date"`
	TicketsSold    int64                 `json:"tickets_sold"`
	PerTicketStats []report.ConcertStats `json:"per_ticket_stats"`
}

func navigation(rep *report.Report) WeekNavigation {
	return WeekNavigation{
		PreviousWeek: report.PreviousWeek(rep.Weekly.WeekStart).Format(time.DateOnly),
		NextWeek:     report.NextWeek(rep.Weekly.WeekStart).Format(time.DateOnly),
	}
}

// generate собирает отчет для клиента из контекста запроса
func (h *Handlers) generate(c *gin.Context) (*report.Report, bool) {
	scope, ok := middleware.ScopeFromContext(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, models.ErrorResponse{Error: "Unauthorized"})
		return nil, false
	}

	ctx := c.Request.Context()
	if h.requestTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.requestTimeout)
		defer cancel()
	}

	rep, err := h.services.Reports.Generate(ctx, scope, c.Query("date"), c.Query("week"))
	if err != nil {
		h.handleServiceError(c, err)
		return nil, false
	}
	return rep, true
}

func (h *Handlers) handleServiceError(c *gin.Context, err error) {
	_ = c.Error(err)

	switch {
	case errors.Is(err, apperrors.ErrInvalidDate):
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: err.Error()})
	case errors.Is(err, apperrors.ErrSourceUnavailable):
		c.JSON(http.StatusServiceUnavailable, models.ErrorResponse{Error: "Sales data is temporarily unavailable"})
	case errors.Is(err, context.DeadlineExceeded):
		c.JSON(http.StatusGatewayTimeout, models.ErrorResponse{Error: "Report generation timed out"})
	default:
		logger.WithContext(c.Request.Context()).Error("Failed to generate report", "error", err)
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to generate report"})
	}
}

// GetReport - GET /api/reports
// Полный отчет о продажах за неделю, содержащую date
func (h *Handlers) GetReport(c *gin.Context) {
	rep, ok := h.generate(c)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, ReportResponse{
		Report:     rep,
		Navigation: navigation(rep),
	})
}

// GetWeeklyReport - GET /api/reports/weekly
// Только недельный тренд продаж
func (h *Handlers) GetWeeklyReport(c *gin.Context) {
	rep, ok := h.generate(c)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, WeeklyResponse{
		Scope:         rep.Scope,
		ReferenceDate: rep.ReferenceDate,
		Weekly:        rep.Weekly,
		Navigation:    navigation(rep),
	})
}

// GetTicketStats - GET /api/reports/tickets
// Продажи по типам билетов
func (h *Handlers) GetTicketStats(c *gin.Context) {
	rep, ok := h.generate(c)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, TicketStatsResponse{
		Scope:          rep.Scope,
		ReferenceDate:  rep.ReferenceDate,
		TicketsSold:    rep.TicketsSold,
		PerTicketStats: rep.PerTicketStats,
	})
}

// Health - GET /health
func (h *Handlers) Health(c *gin.Context) {
	response := models.HealthResponse{
		Status:  "ok",
		Service: serviceName,
		Version: serviceVersion,
	}

	if h.health != nil {
		check := h.health.HealthCheck(c.Request.Context())
		response.Database = check.Status
		if check.Status != "healthy" {
			response.Status = "degraded"
			c.JSON(http.StatusServiceUnavailable, response)
			return
		}
	}

	c.JSON(http.StatusOK, response)
}
