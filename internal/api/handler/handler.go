package handler

import "school-calendar/internal/service"

// Handler 所有 Handler 的聚合入口
type Handler struct {
	Semester   *SemesterHandler
	Calendar   *CalendarHandler
	Annotation *AnnotationHandler
	Export     *ExportHandler
}

// NewHandler 创建 Handler 聚合
func NewHandler(svc *service.Service, maxUploadBytes int64) *Handler {
	return &Handler{
		Semester:   NewSemesterHandler(svc.Semester),
		Calendar:   NewCalendarHandler(svc.Calendar),
		Annotation: NewAnnotationHandler(svc.Annotation, maxUploadBytes),
		Export:     NewExportHandler(svc.Export),
	}
}
