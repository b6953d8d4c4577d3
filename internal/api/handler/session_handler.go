package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"nexus-lab/backend/internal/dto"
	"nexus-lab/backend/internal/service"
	"nexus-lab/backend/pkg/response"
)

// SessionHandler 课程场次模块 HTTP 处理器
type SessionHandler struct {
	sessionSvc service.SessionService
}

// NewSessionHandler 创建 SessionHandler
func NewSessionHandler(sessionSvc service.SessionService) *SessionHandler {
	return &SessionHandler{sessionSvc: sessionSvc}
}

// CreateSession 创建固定课程场次
// POST /api/v1/sessions
func (h *SessionHandler) CreateSession(c *gin.Context) {
	var req dto.CreateSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	session, err := h.sessionSvc.Create(c.Request.Context(), &req, callerID)
	if err != nil {
		h.handleSessionError(c, err)
		return
	}

	response.Created(c, session)
}

// ListSessions 场次列表
// GET /api/v1/sessions?classroom_id=xxx
func (h *SessionHandler) ListSessions(c *gin.Context) {
	var req dto.SessionListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	sessions, err := h.sessionSvc.List(c.Request.Context(), &req)
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, gin.H{"list": sessions})
}

// DeleteSession 删除课程场次
// DELETE /api/v1/sessions/:id
func (h *SessionHandler) DeleteSession(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "场次ID不能为空")
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	if err := h.sessionSvc.Delete(c.Request.Context(), id, callerID); err != nil {
		h.handleSessionError(c, err)
		return
	}

	response.OK(c, nil)
}

// ImportICS 从 iCalendar 订阅地址导入课程场次
// POST /api/v1/sessions/import-ics
func (h *SessionHandler) ImportICS(c *gin.Context) {
	var req dto.ImportICSRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	result, err := h.sessionSvc.ImportICS(c.Request.Context(), &req, callerID)
	if err != nil {
		h.handleSessionError(c, err)
		return
	}

	response.Created(c, result)
}

// handleSessionError 统一处理课程场次模块业务错误
func (h *SessionHandler) handleSessionError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrSessionNotFound):
		response.NotFound(c, 15001, "课程场次不存在")
	case errors.Is(err, service.ErrClassroomNotFound):
		response.NotFound(c, 12001, "教室不存在")
	case errors.Is(err, service.ErrInvalidTimeWindow):
		response.BadRequest(c, 13001, "时间窗口非法：格式须为 HH:MM 且开始早于结束")
	case errors.Is(err, service.ErrInvalidDate):
		response.BadRequest(c, 13002, "日期格式非法：须为 YYYY-MM-DD")
	case errors.Is(err, service.ErrInvalidDateRange):
		response.BadRequest(c, 15002, "有效期非法：起始日期须不晚于结束日期")
	case errors.Is(err, service.ErrICSImportDisabled):
		response.Forbidden(c, 15003, "ICS 导入功能未启用")
	case errors.Is(err, service.ErrICSNoSessions):
		response.BadRequest(c, 15004, "ICS 内容中未解析出任何课程场次")
	default:
		response.InternalError(c)
	}
}
