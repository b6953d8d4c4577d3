package handler

import (
	"errors"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	"nexus-lab/backend/internal/service"
	"nexus-lab/backend/pkg/response"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ExportHandler 导出模块 HTTP 处理器
type ExportHandler struct {
	exportSvc service.ExportService
}

// NewExportHandler 创建 ExportHandler
func NewExportHandler(exportSvc service.ExportService) *ExportHandler {
	return &ExportHandler{exportSvc: exportSvc}
}

// ExportReservations 导出预约台账
// GET /api/v1/export/reservations
func (h *ExportHandler) ExportReservations(c *gin.Context) {
	buf, filename, err := h.exportSvc.ExportReservations(c.Request.Context())
	if err != nil {
		h.handleExportError(c, err)
		return
	}

	writeXLSX(c, filename, buf.Bytes())
}

// ExportAttendance 导出指定日期区间的考勤表
// GET /api/v1/export/attendance?from=2026-09-01&to=2026-09-30
func (h *ExportHandler) ExportAttendance(c *gin.Context) {
	from := c.Query("from")
	to := c.Query("to")
	if from == "" || to == "" {
		response.BadRequest(c, 10001, "from 与 to 不能为空")
		return
	}

	buf, filename, err := h.exportSvc.ExportAttendance(c.Request.Context(), from, to)
	if err != nil {
		h.handleExportError(c, err)
		return
	}

	writeXLSX(c, filename, buf.Bytes())
}

// writeXLSX 设置下载响应头并写出 Excel 内容
func writeXLSX(c *gin.Context, filename string, data []byte) {
	encodedFilename := url.QueryEscape(filename)
	c.Header("Content-Description", "File Transfer")
	c.Header("Content-Disposition", "attachment; filename*=UTF-8''"+encodedFilename)
	c.Header("Content-Type", xlsxContentType)
	c.Data(http.StatusOK, xlsxContentType, data)
}

// handleExportError 统一处理导出模块业务错误
func (h *ExportHandler) handleExportError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrExportNoReservations):
		response.NotFound(c, 17001, "暂无预约可导出")
	case errors.Is(err, service.ErrExportNoRecords):
		response.NotFound(c, 17002, "该日期区间内无考勤记录")
	case errors.Is(err, service.ErrInvalidDate):
		response.BadRequest(c, 13002, "日期格式非法：须为 YYYY-MM-DD")
	case errors.Is(err, service.ErrInvalidDateRange):
		response.BadRequest(c, 15002, "有效期非法：起始日期须不晚于结束日期")
	default:
		response.InternalError(c)
	}
}
