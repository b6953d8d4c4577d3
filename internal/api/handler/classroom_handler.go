package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"nexus-lab/backend/internal/dto"
	"nexus-lab/backend/internal/service"
	"nexus-lab/backend/pkg/response"
)

// ClassroomHandler 教室模块 HTTP 处理器
type ClassroomHandler struct {
	classroomSvc service.ClassroomService
}

// NewClassroomHandler 创建 ClassroomHandler
func NewClassroomHandler(classroomSvc service.ClassroomService) *ClassroomHandler {
	return &ClassroomHandler{classroomSvc: classroomSvc}
}

// ListClassrooms 获取教室列表（按教室编号升序）
// GET /api/v1/classrooms
func (h *ClassroomHandler) ListClassrooms(c *gin.Context) {
	var req dto.ClassroomListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	classrooms, err := h.classroomSvc.List(c.Request.Context(), &req)
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, gin.H{"list": classrooms})
}

// GetClassroom 获取教室详情
// GET /api/v1/classrooms/:id
func (h *ClassroomHandler) GetClassroom(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "教室ID不能为空")
		return
	}

	classroom, err := h.classroomSvc.GetByID(c.Request.Context(), id)
	if err != nil {
		h.handleClassroomError(c, err)
		return
	}

	response.OK(c, classroom)
}

// CreateClassroom 创建教室
// POST /api/v1/classrooms
func (h *ClassroomHandler) CreateClassroom(c *gin.Context) {
	var req dto.CreateClassroomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	classroom, err := h.classroomSvc.Create(c.Request.Context(), &req, callerID)
	if err != nil {
		h.handleClassroomError(c, err)
		return
	}

	response.Created(c, classroom)
}

// UpdateClassroom 更新教室
// PUT /api/v1/classrooms/:id
func (h *ClassroomHandler) UpdateClassroom(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "教室ID不能为空")
		return
	}

	var req dto.UpdateClassroomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	classroom, err := h.classroomSvc.Update(c.Request.Context(), id, &req, callerID)
	if err != nil {
		h.handleClassroomError(c, err)
		return
	}

	response.OK(c, classroom)
}

// DeleteClassroom 删除教室（软删除）
// DELETE /api/v1/classrooms/:id
func (h *ClassroomHandler) DeleteClassroom(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "教室ID不能为空")
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	if err := h.classroomSvc.Delete(c.Request.Context(), id, callerID); err != nil {
		h.handleClassroomError(c, err)
		return
	}

	response.OK(c, nil)
}

// handleClassroomError 统一处理教室模块业务错误
func (h *ClassroomHandler) handleClassroomError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrClassroomNotFound):
		response.NotFound(c, 12001, "教室不存在")
	default:
		response.InternalError(c)
	}
}
