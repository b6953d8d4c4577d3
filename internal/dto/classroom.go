package dto

// ── 教室模块 DTO ──

// CreateClassroomRequest 创建教室请求
type CreateClassroomRequest struct {
	Code     string `json:"code"     binding:"required,min=2,max=20"`
	Name     string `json:"name"     binding:"required,min=2,max=100"`
	Capacity int    `json:"capacity" binding:"omitempty,min=0"`
	Building string `json:"building" binding:"omitempty,max=100"`
}

// UpdateClassroomRequest 更新教室请求
type UpdateClassroomRequest struct {
	Code     *string `json:"code"     binding:"omitempty,min=2,max=20"`
	Name     *string `json:"name"     binding:"omitempty,min=2,max=100"`
	Capacity *int    `json:"capacity" binding:"omitempty,min=0"`
	Building *string `json:"building" binding:"omitempty,max=100"`
	IsActive *bool   `json:"is_active"`
}

// ClassroomListRequest 教室列表查询参数
type ClassroomListRequest struct {
	IncludeInactive bool `form:"include_inactive"`
}

// ClassroomResponse 教室信息响应
type ClassroomResponse struct {
	ID        string `json:"id"`
	Code      string `json:"code"`
	Name      string `json:"name"`
	Capacity  int    `json:"capacity"`
	Building  string `json:"building,omitempty"`
	IsActive  bool   `json:"is_active"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

// ClassroomStatusResponse 教室看板条目：教室 + 指定时刻的占用状态
type ClassroomStatusResponse struct {
	Classroom ClassroomResponse `json:"classroom"`
	Occupancy OccupancyResponse `json:"occupancy"`
}
