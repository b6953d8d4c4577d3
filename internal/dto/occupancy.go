package dto

// ── 占用模块 DTO ──

// OccupancyQueryRequest 单教室占用查询参数
type OccupancyQueryRequest struct {
	Date  string `form:"date"  binding:"required"` // ISO 日期 2006-01-02
	Start string `form:"start" binding:"required"` // HH:MM
	End   string `form:"end"   binding:"required"`
}

// AvailabilityRequest 可用教室搜索参数
type AvailabilityRequest struct {
	Dates []string `form:"dates" binding:"required,min=1"`
	Start string   `form:"start" binding:"required"`
	End   string   `form:"end"   binding:"required"`
}

// SessionBrief 占用来源：固定课程场次摘要
type SessionBrief struct {
	ID          string `json:"id"`
	SubjectName string `json:"subject_name,omitempty"`
	TeacherName string `json:"teacher_name,omitempty"`
	DayOfWeek   int    `json:"day_of_week"`
	StartTime   string `json:"start_time"`
	EndTime     string `json:"end_time"`
}

// ReservationBrief 占用来源：预约摘要
type ReservationBrief struct {
	ID            string `json:"id"`
	RequesterName string `json:"requester_name,omitempty"`
	StartTime     string `json:"start_time"`
	EndTime       string `json:"end_time"`
	Status        string `json:"status"`
}

// OccupancyResponse 占用状态响应（带标签的变体：kind 决定哪个载荷非空）
type OccupancyResponse struct {
	Kind        string            `json:"kind"` // free | class | reservation
	Session     *SessionBrief     `json:"session,omitempty"`
	Reservation *ReservationBrief `json:"reservation,omitempty"`
}
