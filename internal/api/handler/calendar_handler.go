package handler

import (
	"github.com/gin-gonic/gin"

	"school-calendar/internal/dto"
	"school-calendar/internal/service"
	"school-calendar/pkg/response"
)

// CalendarHandler 校历模块 HTTP 处理器
type CalendarHandler struct {
	calendarSvc service.CalendarService
}

// NewCalendarHandler 创建 CalendarHandler
func NewCalendarHandler(calendarSvc service.CalendarService) *CalendarHandler {
	return &CalendarHandler{calendarSvc: calendarSvc}
}

// GetSemesterCalendar 学期视图
// GET /api/v1/calendar/semester?semester_id=xxx
// GET /api/v1/calendar/semester?start_date=2024-08-26&end_date=2025-01-19&name=xxx
func (h *CalendarHandler) GetSemesterCalendar(c *gin.Context) {
	var q dto.CalendarQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.calendarSvc.SemesterView(c.Request.Context(), &q)
	if err != nil {
		handleSemesterError(c, err)
		return
	}

	response.OK(c, result)
}

// GetMonthCalendar 月视图
// GET /api/v1/calendar/month?year=2024&month=10[&semester_id=xxx]
func (h *CalendarHandler) GetMonthCalendar(c *gin.Context) {
	var q dto.MonthQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.calendarSvc.MonthView(c.Request.Context(), &q)
	if err != nil {
		handleSemesterError(c, err)
		return
	}

	response.OK(c, result)
}

// GetMonthLayouts 学期各月布局估算
// GET /api/v1/calendar/layouts?semester_id=xxx
func (h *CalendarHandler) GetMonthLayouts(c *gin.Context) {
	var q dto.CalendarQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	layouts, err := h.calendarSvc.MonthLayouts(c.Request.Context(), &q)
	if err != nil {
		handleSemesterError(c, err)
		return
	}

	response.OK(c, gin.H{"list": layouts})
}
