package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"nexus-lab/backend/internal/dto"
	"nexus-lab/backend/internal/service"
	"nexus-lab/backend/pkg/response"
)

// OccupancyHandler 占用模块 HTTP 处理器
type OccupancyHandler struct {
	occupancySvc service.OccupancyService
}

// NewOccupancyHandler 创建 OccupancyHandler
func NewOccupancyHandler(occupancySvc service.OccupancyService) *OccupancyHandler {
	return &OccupancyHandler{occupancySvc: occupancySvc}
}

// GetOccupancy 查询单间教室在指定日期时段的占用状态
// GET /api/v1/classrooms/:id/occupancy?date=2026-09-01&start=08:00&end=10:00
func (h *OccupancyHandler) GetOccupancy(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "教室ID不能为空")
		return
	}

	var req dto.OccupancyQueryRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	window := service.TimeWindow{Start: req.Start, End: req.End}
	status, err := h.occupancySvc.Resolve(c.Request.Context(), id, req.Date, window)
	if err != nil {
		h.handleOccupancyError(c, err)
		return
	}

	response.OK(c, status.Response())
}

// ListStatus 教室看板：全部教室附带指定时刻的占用状态
// GET /api/v1/occupancy/status?date=2026-09-01&start=08:00&end=08:01
func (h *OccupancyHandler) ListStatus(c *gin.Context) {
	var req dto.OccupancyQueryRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	window := service.TimeWindow{Start: req.Start, End: req.End}
	list, err := h.occupancySvc.ListClassroomStatus(c.Request.Context(), req.Date, window)
	if err != nil {
		h.handleOccupancyError(c, err)
		return
	}

	response.OK(c, gin.H{"list": list})
}

// FindAvailable 搜索在全部日期时段均空闲的教室
// GET /api/v1/occupancy/availability?dates=2026-09-01&dates=2026-09-08&start=08:00&end=10:00
func (h *OccupancyHandler) FindAvailable(c *gin.Context) {
	var req dto.AvailabilityRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	window := service.TimeWindow{Start: req.Start, End: req.End}
	classrooms, err := h.occupancySvc.FindAvailable(c.Request.Context(), req.Dates, window)
	if err != nil {
		h.handleOccupancyError(c, err)
		return
	}

	response.OK(c, gin.H{"list": classrooms})
}

// handleOccupancyError 统一处理占用模块业务错误
func (h *OccupancyHandler) handleOccupancyError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrClassroomNotFound):
		response.NotFound(c, 12001, "教室不存在")
	case errors.Is(err, service.ErrInvalidTimeWindow):
		response.BadRequest(c, 13001, "时间窗口非法：格式须为 HH:MM 且开始早于结束")
	case errors.Is(err, service.ErrInvalidDate):
		response.BadRequest(c, 13002, "日期格式非法：须为 YYYY-MM-DD")
	case errors.Is(err, service.ErrEmptyDateSet):
		response.BadRequest(c, 13003, "日期集合不能为空")
	default:
		response.InternalError(c)
	}
}
