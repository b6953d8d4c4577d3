package dto

// ── 课程场次模块 DTO ──

// CreateSessionRequest 创建固定课程场次请求
type CreateSessionRequest struct {
	ClassroomID string `json:"classroom_id" binding:"required,uuid"`
	SubjectID   string `json:"subject_id"   binding:"required,uuid"`
	TeacherID   string `json:"teacher_id"   binding:"required,uuid"`
	DayOfWeek   int    `json:"day_of_week"  binding:"required,min=1,max=7"`
	StartTime   string `json:"start_time"   binding:"required"`
	EndTime     string `json:"end_time"     binding:"required"`
	StartDate   string `json:"start_date"   binding:"required"` // ISO 日期
	EndDate     string `json:"end_date"     binding:"required"`
}

// SessionListRequest 场次列表查询参数
type SessionListRequest struct {
	ClassroomID string `form:"classroom_id" binding:"omitempty,uuid"`
}

// ImportICSRequest ICS 课表导入请求
type ImportICSRequest struct {
	ClassroomID string `json:"classroom_id" binding:"required,uuid"`
	SubjectID   string `json:"subject_id"   binding:"required,uuid"`
	TeacherID   string `json:"teacher_id"   binding:"required,uuid"`
	ICSURL      string `json:"ics_url"      binding:"required,url"`
	StartDate   string `json:"start_date"   binding:"required"` // 有效期起
	EndDate     string `json:"end_date"     binding:"required"` // 有效期止
}

// ImportICSResponse ICS 导入结果
type ImportICSResponse struct {
	Imported int               `json:"imported"`
	Sessions []SessionResponse `json:"sessions"`
}

// SessionResponse 课程场次响应
type SessionResponse struct {
	ID            string `json:"id"`
	ClassroomID   string `json:"classroom_id"`
	ClassroomCode string `json:"classroom_code,omitempty"`
	SubjectID     string `json:"subject_id"`
	SubjectName   string `json:"subject_name,omitempty"`
	TeacherID     string `json:"teacher_id"`
	TeacherName   string `json:"teacher_name,omitempty"`
	DayOfWeek     int    `json:"day_of_week"`
	StartTime     string `json:"start_time"`
	EndTime       string `json:"end_time"`
	StartDate     string `json:"start_date"`
	EndDate       string `json:"end_date"`
	Source        string `json:"source"`
}
