package handler

import (
	"bytes"
	"errors"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	"school-calendar/internal/dto"
	"school-calendar/internal/service"
	"school-calendar/pkg/response"
)

const (
	contentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	contentTypeICS  = "text/calendar; charset=utf-8"
)

// ExportHandler 导出模块 HTTP 处理器
type ExportHandler struct {
	exportSvc service.ExportService
}

// NewExportHandler 创建 ExportHandler
func NewExportHandler(exportSvc service.ExportService) *ExportHandler {
	return &ExportHandler{exportSvc: exportSvc}
}

// ExportSemesterXLSX 导出学期校历 Excel
// GET /api/v1/export/semester.xlsx?semester_id=xxx
func (h *ExportHandler) ExportSemesterXLSX(c *gin.Context) {
	var q dto.CalendarQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	buf, filename, err := h.exportSvc.ExportSemesterXLSX(c.Request.Context(), &q)
	if err != nil {
		h.handleExportError(c, err)
		return
	}

	writeAttachment(c, buf, filename, contentTypeXLSX)
}

// ExportSemesterICS 导出学期周次 iCalendar
// GET /api/v1/export/semester.ics?semester_id=xxx
func (h *ExportHandler) ExportSemesterICS(c *gin.Context) {
	var q dto.CalendarQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	buf, filename, err := h.exportSvc.ExportSemesterICS(c.Request.Context(), &q)
	if err != nil {
		h.handleExportError(c, err)
		return
	}

	writeAttachment(c, buf, filename, contentTypeICS)
}

func (h *ExportHandler) handleExportError(c *gin.Context, err error) {
	if errors.Is(err, service.ErrExportGenerateFail) {
		response.Error(c, http.StatusInternalServerError, 16101, "生成导出文件失败")
		return
	}
	handleSemesterError(c, err)
}

// writeAttachment 设置下载响应头并写入文件内容
func writeAttachment(c *gin.Context, buf *bytes.Buffer, filename, contentType string) {
	encodedFilename := url.PathEscape(filename)
	c.Header("Content-Description", "File Transfer")
	c.Header("Content-Disposition", "attachment; filename*=UTF-8''"+encodedFilename)
	c.Data(http.StatusOK, contentType, buf.Bytes())
}
