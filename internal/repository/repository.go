package repository

import "gorm.io/gorm"

// Repository 所有 Repository 的聚合入口
type Repository struct {
	User            UserRepository
	Classroom       ClassroomRepository
	ScheduleSession ScheduleSessionRepository
	Reservation     ReservationRepository
	Attendance      AttendanceRepository
}

// NewRepository 创建 Repository 聚合
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		User:            NewUserRepo(db),
		Classroom:       NewClassroomRepo(db),
		ScheduleSession: NewScheduleSessionRepo(db),
		Reservation:     NewReservationRepo(db),
		Attendance:      NewAttendanceRepo(db),
	}
}
