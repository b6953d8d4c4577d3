package handler

import "nexus-lab/backend/internal/service"

// Handler 所有 Handler 的聚合入口
type Handler struct {
	Auth        *AuthHandler
	Classroom   *ClassroomHandler
	Occupancy   *OccupancyHandler
	Reservation *ReservationHandler
	Session     *SessionHandler
	Attendance  *AttendanceHandler
	Export      *ExportHandler
}

// NewHandler 创建 Handler 聚合
func NewHandler(svc *service.Service) *Handler {
	return &Handler{
		Auth:        NewAuthHandler(svc.Auth),
		Classroom:   NewClassroomHandler(svc.Classroom),
		Occupancy:   NewOccupancyHandler(svc.Occupancy),
		Reservation: NewReservationHandler(svc.Reservation),
		Session:     NewSessionHandler(svc.Session),
		Attendance:  NewAttendanceHandler(svc.Attendance),
		Export:      NewExportHandler(svc.Export),
	}
}
