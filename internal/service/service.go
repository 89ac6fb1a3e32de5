package service

import (
	"time"

	"zeko/internal/report"
	"zeko/internal/repository"
)

type Services struct {
	Reports *ReportService
	Audit   *AuditService
}

// NewServices собирает сервисы поверх репозиториев. publisher может быть nil.
func NewServices(repos *repository.Repositories, publisher EventPublisher, loc *time.Location) *Services {
	return NewServicesWithSource(repository.NewRecordSource(repos), repos.ReportRequests, publisher, loc)
}

func NewServicesWithSource(source report.RecordSource, audit ReportRequestStore, publisher EventPublisher, loc *time.Location) *Services {
	return &Services{
		Reports: NewReportService(source, publisher, loc),
		Audit:   NewAuditService(audit),
	}
}
