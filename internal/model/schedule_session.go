package model

import "time"

// ScheduleSession 固定课程场次表 — 对应 schedule_sessions
// 由排课管理维护；占用判定与考勤对其只读
type ScheduleSession struct {
	SessionID   string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"session_id"`
	ClassroomID string    `gorm:"type:uuid;not null"                             json:"classroom_id"`
	SubjectID   string    `gorm:"type:uuid;not null"                             json:"subject_id"`
	TeacherID   string    `gorm:"type:uuid;not null"                             json:"teacher_id"`
	DayOfWeek   int       `gorm:"type:smallint;not null"                         json:"day_of_week"` // 1=周一 … 7=周日
	StartTime   ClockTime `gorm:"type:time;not null"                             json:"start_time"`  // HH:MM，回读时裁剪秒位
	EndTime     ClockTime `gorm:"type:time;not null"                             json:"end_time"`
	StartDate   time.Time `gorm:"type:date;not null"                             json:"start_date"` // 有效期起
	EndDate     time.Time `gorm:"type:date;not null"                             json:"end_date"`   // 有效期止（含）
	Source      string    `gorm:"type:varchar(20);not null;default:'manual'"     json:"source"`     // manual | ics
	VersionedModel

	// 关联
	Classroom *Classroom `gorm:"foreignKey:ClassroomID;references:ClassroomID" json:"classroom,omitempty"`
	Subject   *Subject   `gorm:"foreignKey:SubjectID;references:SubjectID"     json:"subject,omitempty"`
	Teacher   *User      `gorm:"foreignKey:TeacherID;references:UserID"        json:"teacher,omitempty"`
}

// TableName 指定表名
func (ScheduleSession) TableName() string { return "schedule_sessions" }

// MatchesDate 判断场次在指定日期是否生效（星期匹配且处于有效期内）
// 日期按部署时区的本地日历比较，全系统保持一致
func (s *ScheduleSession) MatchesDate(date time.Time) bool {
	iso := int(date.Weekday())
	if iso == 0 {
		iso = 7
	}
	if iso != s.DayOfWeek {
		return false
	}
	d := date.Format("2006-01-02")
	return d >= s.StartDate.Format("2006-01-02") && d <= s.EndDate.Format("2006-01-02")
}
