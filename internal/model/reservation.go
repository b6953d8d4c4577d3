package model

// 预约生命周期状态
const (
	ReservationPending   = "pending"
	ReservationConfirmed = "confirmed"
	ReservationRejected  = "rejected"
	ReservationCancelled = "cancelled"
)

// Reservation 临时预约表 — 对应 reservations
// 日期集合为非连续的 ISO 日期列表；生命周期字段仅由本引擎写入
type Reservation struct {
	ReservationID string   `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"reservation_id"`
	RequesterID   string   `gorm:"type:uuid;not null"                             json:"requester_id"`
	ClassroomID   string   `gorm:"type:uuid;not null"                             json:"classroom_id"`
	Dates         DateList `gorm:"type:text[];not null"                           json:"dates"`
	StartTime     ClockTime `gorm:"type:time;not null"                            json:"start_time"` // HH:MM，回读时裁剪秒位
	EndTime       ClockTime `gorm:"type:time;not null"                            json:"end_time"`
	Status        string   `gorm:"type:varchar(20);not null;default:'pending'"    json:"status"` // pending | confirmed | rejected | cancelled
	Observation   string   `gorm:"type:varchar(500)"                              json:"observation,omitempty"`
	VersionedModel

	// 关联
	Requester *User      `gorm:"foreignKey:RequesterID;references:UserID"      json:"requester,omitempty"`
	Classroom *Classroom `gorm:"foreignKey:ClassroomID;references:ClassroomID" json:"classroom,omitempty"`
}

// TableName 指定表名
func (Reservation) TableName() string { return "reservations" }

// IsActive 预约是否仍占用教室（pending 与 confirmed 均计入占用）
func (r *Reservation) IsActive() bool {
	return r.Status == ReservationPending || r.Status == ReservationConfirmed
}
