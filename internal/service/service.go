package service

import (
	"go.uber.org/zap"

	"school-calendar/config"
	"school-calendar/internal/repository"
)

// Service 所有 Service 的聚合入口
type Service struct {
	Semester   SemesterService
	Calendar   CalendarService
	Annotation AnnotationService
	Export     ExportService
}

// NewService 创建 Service 聚合
// cache 为 nil 时校历结果不缓存；clock 为 nil 时使用系统时钟
func NewService(
	cfg *config.Config,
	repo *repository.Repository,
	cache ViewCache,
	clock Clock,
	logger *zap.Logger,
) *Service {
	if clock == nil {
		clock = RealClock{}
	}
	loc := cfg.Calendar.Location()

	semesterSvc := NewSemesterService(repo, cache, clock, loc, logger)
	calendarSvc := NewCalendarService(repo, semesterSvc, cache, CalendarOptions{
		Clock:    clock,
		Location: loc,
		CacheTTL: cfg.Calendar.CacheTTL,
	}, logger)

	return &Service{
		Semester:   semesterSvc,
		Calendar:   calendarSvc,
		Annotation: NewAnnotationService(repo, cache, logger),
		Export:     NewExportService(calendarSvc, logger),
	}
}
