package dto

// ── 考勤模块 DTO ──

// RegisterEntryRequest 进入登记请求
type RegisterEntryRequest struct {
	SessionID string `json:"session_id" binding:"required,uuid"`
	Date      string `json:"date"       binding:"required"` // ISO 日期
}

// DailyScheduleRequest 当日课表查询参数
type DailyScheduleRequest struct {
	Date string `form:"date" binding:"required"`
}

// AttendanceResponse 考勤记录响应
type AttendanceResponse struct {
	ID        string  `json:"id"`
	SessionID string  `json:"session_id"`
	Date      string  `json:"date"`
	EntryAt   string  `json:"entry_at"`
	ExitAt    *string `json:"exit_at,omitempty"`
	State     string  `json:"state"` // open | closed
}

// DailyScheduleItemResponse 当日课表条目：场次 + 对应考勤记录（可为空）
type DailyScheduleItemResponse struct {
	Session    SessionResponse     `json:"session"`
	Attendance *AttendanceResponse `json:"attendance"`
}
