package service

import (
	"go.uber.org/zap"

	"nexus-lab/backend/config"
	"nexus-lab/backend/internal/repository"
	"nexus-lab/backend/pkg/jwt"
	"nexus-lab/backend/pkg/redis"
)

// Service 业务层聚合入口
type Service struct {
	Auth        AuthService
	Classroom   ClassroomService
	Occupancy   OccupancyService
	Reservation ReservationService
	Attendance  AttendanceService
	Session     SessionService
	Export      ExportService
}

// NewService 创建全部业务服务
//
// 依赖关系：ReservationService 复用 OccupancyService 的占用判定，
// 确保预约冲突检测与占用查询走同一条解析路径。
func NewService(cfg *config.Config, repo *repository.Repository, jwtMgr *jwt.Manager, rdb *redis.Client, logger *zap.Logger) *Service {
	occupancy := NewOccupancyService(repo, logger)
	return &Service{
		Auth:        NewAuthService(cfg, repo, jwtMgr, rdb, logger),
		Classroom:   NewClassroomService(repo, logger),
		Occupancy:   occupancy,
		Reservation: NewReservationService(repo, occupancy, logger),
		Attendance:  NewAttendanceService(repo, logger),
		Session:     NewSessionService(cfg, repo, logger),
		Export:      NewExportService(repo, logger),
	}
}
