package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"nexus-lab/backend/internal/dto"
	"nexus-lab/backend/internal/service"
	pkgerrors "nexus-lab/backend/pkg/errors"
	"nexus-lab/backend/pkg/response"
)

// AttendanceHandler 考勤模块 HTTP 处理器
type AttendanceHandler struct {
	attendanceSvc service.AttendanceService
}

// NewAttendanceHandler 创建 AttendanceHandler
func NewAttendanceHandler(attendanceSvc service.AttendanceService) *AttendanceHandler {
	return &AttendanceHandler{attendanceSvc: attendanceSvc}
}

// RegisterEntry 进入登记
// POST /api/v1/attendance/entry
func (h *AttendanceHandler) RegisterEntry(c *gin.Context) {
	var req dto.RegisterEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	record, err := h.attendanceSvc.RegisterEntry(c.Request.Context(), &req, callerID)
	if err != nil {
		h.handleAttendanceError(c, err)
		return
	}

	response.Created(c, record)
}

// RegisterExit 离开登记
// POST /api/v1/attendance/:id/exit
func (h *AttendanceHandler) RegisterExit(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "考勤记录ID不能为空")
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	record, err := h.attendanceSvc.RegisterExit(c.Request.Context(), id, callerID)
	if err != nil {
		h.handleAttendanceError(c, err)
		return
	}

	response.OK(c, record)
}

// GetDailySchedule 教师当日课表（场次 + 考勤记录，按开始时间升序）
// GET /api/v1/attendance/daily?date=2026-09-01
func (h *AttendanceHandler) GetDailySchedule(c *gin.Context) {
	var req dto.DailyScheduleRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	items, err := h.attendanceSvc.GetDailySchedule(c.Request.Context(), callerID, req.Date)
	if err != nil {
		h.handleAttendanceError(c, err)
		return
	}

	response.OK(c, gin.H{"list": items})
}

// handleAttendanceError 统一处理考勤模块业务错误
func (h *AttendanceHandler) handleAttendanceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrSessionNotFound):
		response.NotFound(c, 15001, "课程场次不存在")
	case errors.Is(err, service.ErrAttendanceNotFound):
		response.NotFound(c, 16001, "考勤记录不存在")
	case errors.Is(err, service.ErrSessionNotOnDate):
		response.BadRequest(c, 16002, "课程场次在该日期不生效")
	case errors.Is(err, service.ErrAttendanceAlreadyOpen):
		response.Conflict(c, 16003, "该场次当日已有未关闭的考勤记录")
	case errors.Is(err, service.ErrAttendanceClosed):
		response.BadRequest(c, 16004, "考勤记录已关闭，不可重复登记离开")
	case errors.Is(err, service.ErrNotSessionTeacher):
		response.Forbidden(c, 16005, "只能登记本人负责场次的考勤")
	case errors.Is(err, service.ErrInvalidDate):
		response.BadRequest(c, 13002, "日期格式非法：须为 YYYY-MM-DD")
	case errors.Is(err, pkgerrors.ErrOptimisticLock):
		response.Conflict(c, 16006, "考勤记录已被其他操作修改，请刷新后重试")
	default:
		response.InternalError(c)
	}
}
