package dto

// ── 预约模块 DTO ──

// CreateReservationRequest 创建预约请求
type CreateReservationRequest struct {
	ClassroomID string   `json:"classroom_id" binding:"required,uuid"`
	Dates       []string `json:"dates"        binding:"required,min=1"`
	StartTime   string   `json:"start_time"   binding:"required"`
	EndTime     string   `json:"end_time"     binding:"required"`
	Observation string   `json:"observation"  binding:"omitempty,max=500"`
}

// ExtendReservationRequest 追加日期请求
type ExtendReservationRequest struct {
	Dates []string `json:"dates" binding:"required,min=1"`
}

// UpdateReservationStatusRequest 生命周期状态变更请求（审批流）
type UpdateReservationStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=confirmed rejected cancelled"`
}

// ReservationResponse 预约响应（含申请人与教室的展示字段）
type ReservationResponse struct {
	ID            string   `json:"id"`
	RequesterID   string   `json:"requester_id"`
	RequesterName string   `json:"requester_name,omitempty"`
	ClassroomID   string   `json:"classroom_id"`
	ClassroomCode string   `json:"classroom_code,omitempty"`
	ClassroomName string   `json:"classroom_name,omitempty"`
	Dates         []string `json:"dates"`
	StartTime     string   `json:"start_time"`
	EndTime       string   `json:"end_time"`
	Status        string   `json:"status"`
	Observation   string   `json:"observation,omitempty"`
	CreatedAt     string   `json:"created_at"`
	UpdatedAt     string   `json:"updated_at"`
}

// ConflictDetail 冲突响应详情：冲突日期与占用方
type ConflictDetail struct {
	Date      string            `json:"date"`
	Occupancy OccupancyResponse `json:"occupancy"`
}
