package model

// Classroom 教室表 — 对应 classrooms
type Classroom struct {
	ClassroomID string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"classroom_id"`
	Code        string `gorm:"type:varchar(20);not null"                      json:"code"` // 如 A-101
	Name        string `gorm:"type:varchar(100);not null"                     json:"name"`
	Capacity    int    `gorm:"not null;default:0"                             json:"capacity"`
	Building    string `gorm:"type:varchar(100)"                              json:"building,omitempty"`
	IsActive    bool   `gorm:"not null;default:true"                          json:"is_active"`
	SoftDeleteModel
}

// TableName 指定表名
func (Classroom) TableName() string { return "classrooms" }

// Subject 科目表 — 对应 subjects
type Subject struct {
	SubjectID string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"subject_id"`
	Name      string `gorm:"type:varchar(100);not null"                     json:"name"`
	SoftDeleteModel
}

// TableName 指定表名
func (Subject) TableName() string { return "subjects" }
