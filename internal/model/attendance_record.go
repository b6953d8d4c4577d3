package model

import "time"

// 考勤记录状态
const (
	AttendanceOpen   = "open"
	AttendanceClosed = "closed"
)

// AttendanceRecord 教师考勤记录表 — 对应 attendance_records
// 绑定某个课程场次在某一天的进出登记；同一 (session, date) 至多一条 open 记录
type AttendanceRecord struct {
	AttendanceID string     `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"attendance_id"`
	SessionID    string     `gorm:"type:uuid;not null"                             json:"session_id"`
	SessionDate  time.Time  `gorm:"type:date;not null"                             json:"session_date"`
	EntryAt      time.Time  `gorm:"not null"                                       json:"entry_at"`
	ExitAt       *time.Time `json:"exit_at,omitempty"`
	State        string     `gorm:"type:varchar(10);not null;default:'open'"       json:"state"` // open | closed
	VersionedModel

	// 关联
	Session *ScheduleSession `gorm:"foreignKey:SessionID;references:SessionID" json:"session,omitempty"`
}

// TableName 指定表名
func (AttendanceRecord) TableName() string { return "attendance_records" }
