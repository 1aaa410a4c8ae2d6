package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"school-calendar/internal/dto"
	"school-calendar/internal/service"
	"school-calendar/pkg/response"
)

// AnnotationHandler 日历标注模块 HTTP 处理器
type AnnotationHandler struct {
	annotationSvc  service.AnnotationService
	maxUploadBytes int64
}

// NewAnnotationHandler 创建 AnnotationHandler
func NewAnnotationHandler(annotationSvc service.AnnotationService, maxUploadBytes int64) *AnnotationHandler {
	return &AnnotationHandler{annotationSvc: annotationSvc, maxUploadBytes: maxUploadBytes}
}

// ListAnnotations 查询区间内的标注
// GET /api/v1/annotations?from=2024-09-01&to=2024-09-30
func (h *AnnotationHandler) ListAnnotations(c *gin.Context) {
	var q dto.AnnotationRangeQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	list, err := h.annotationSvc.ListRange(c.Request.Context(), &q)
	if err != nil {
		h.handleAnnotationError(c, err)
		return
	}

	response.OK(c, gin.H{"list": list})
}

// ImportICS 导入农历/节假日 ICS 文件
// POST /api/v1/annotations/import?kind=holiday  (multipart/form-data, 字段 file)
func (h *AnnotationHandler) ImportICS(c *gin.Context) {
	kind := c.DefaultQuery("kind", "holiday")

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		response.BadRequest(c, 17005, "请上传 ICS 文件")
		return
	}
	if h.maxUploadBytes > 0 && fileHeader.Size > h.maxUploadBytes {
		response.Error(c, http.StatusRequestEntityTooLarge, 17006, "ICS 文件过大")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		response.BadRequest(c, 17005, "读取上传文件失败")
		return
	}
	defer file.Close()

	result, err := h.annotationSvc.ImportICS(c.Request.Context(), kind, file, callerID)
	if err != nil {
		h.handleAnnotationError(c, err)
		return
	}

	response.OK(c, result)
}

func (h *AnnotationHandler) handleAnnotationError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrAnnotationKindInvalid):
		response.BadRequest(c, 17001, "标注类型无效")
	case errors.Is(err, service.ErrAnnotationParseFailed):
		response.ErrorWithDetails(c, http.StatusBadRequest, 17002, "ICS 格式解析失败", err.Error())
	case errors.Is(err, service.ErrAnnotationNoEvents):
		response.BadRequest(c, 17003, "ICS 中没有可导入的全天事件")
	case errors.Is(err, service.ErrAnnotationRangeInvalid):
		response.BadRequest(c, 17004, "查询区间无效")
	default:
		response.InternalError(c)
	}
}
