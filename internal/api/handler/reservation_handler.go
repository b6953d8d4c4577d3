package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"nexus-lab/backend/internal/dto"
	"nexus-lab/backend/internal/service"
	pkgerrors "nexus-lab/backend/pkg/errors"
	"nexus-lab/backend/pkg/response"
)

// ReservationHandler 预约模块 HTTP 处理器
type ReservationHandler struct {
	reservationSvc service.ReservationService
}

// NewReservationHandler 创建 ReservationHandler
func NewReservationHandler(reservationSvc service.ReservationService) *ReservationHandler {
	return &ReservationHandler{reservationSvc: reservationSvc}
}

// CreateReservation 创建预约（全部日期无冲突才落库）
// POST /api/v1/reservations
func (h *ReservationHandler) CreateReservation(c *gin.Context) {
	var req dto.CreateReservationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	reservation, err := h.reservationSvc.Create(c.Request.Context(), &req, callerID)
	if err != nil {
		h.handleReservationError(c, err)
		return
	}

	response.Created(c, reservation)
}

// ExtendReservation 为既有预约追加日期
// POST /api/v1/reservations/:id/dates
func (h *ReservationHandler) ExtendReservation(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "预约ID不能为空")
		return
	}

	var req dto.ExtendReservationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	reservation, err := h.reservationSvc.Extend(c.Request.Context(), id, &req, callerID)
	if err != nil {
		h.handleReservationError(c, err)
		return
	}

	response.OK(c, reservation)
}

// ListReservations 预约列表
// GET /api/v1/reservations
func (h *ReservationHandler) ListReservations(c *gin.Context) {
	reservations, err := h.reservationSvc.List(c.Request.Context())
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, gin.H{"list": reservations})
}

// UpdateReservationStatus 审批流状态变更
// PATCH /api/v1/reservations/:id/status
func (h *ReservationHandler) UpdateReservationStatus(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "预约ID不能为空")
		return
	}

	var req dto.UpdateReservationStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	reservation, err := h.reservationSvc.UpdateStatus(c.Request.Context(), id, &req, callerID)
	if err != nil {
		h.handleReservationError(c, err)
		return
	}

	response.OK(c, reservation)
}

// handleReservationError 统一处理预约模块业务错误
// 占用冲突属于确定性业务结果，以 409 响应并携带冲突日期与占用方详情
func (h *ReservationHandler) handleReservationError(c *gin.Context, err error) {
	var conflict *service.ConflictError
	if errors.As(err, &conflict) {
		response.ErrorWithData(c, 409, 14001, conflict.Error(), conflict.Detail())
		return
	}

	switch {
	case errors.Is(err, service.ErrReservationNotFound):
		response.NotFound(c, 14002, "预约不存在")
	case errors.Is(err, service.ErrClassroomNotFound):
		response.NotFound(c, 12001, "教室不存在")
	case errors.Is(err, service.ErrReservationInactive):
		response.BadRequest(c, 14003, "预约已取消或已拒绝，不可追加日期")
	case errors.Is(err, service.ErrPastDate):
		response.BadRequest(c, 14004, "预约日期不能早于今天")
	case errors.Is(err, service.ErrInvalidStatusChange):
		response.BadRequest(c, 14005, "非法的状态变更")
	case errors.Is(err, service.ErrInvalidTimeWindow):
		response.BadRequest(c, 13001, "时间窗口非法：格式须为 HH:MM 且开始早于结束")
	case errors.Is(err, service.ErrInvalidDate):
		response.BadRequest(c, 13002, "日期格式非法：须为 YYYY-MM-DD")
	case errors.Is(err, service.ErrEmptyDateSet):
		response.BadRequest(c, 13003, "日期集合不能为空")
	case errors.Is(err, pkgerrors.ErrOptimisticLock):
		response.Conflict(c, 14006, "预约已被其他操作修改，请刷新后重试")
	default:
		response.InternalError(c)
	}
}
