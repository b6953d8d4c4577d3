package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"nexus-lab/backend/internal/dto"
	"nexus-lab/backend/internal/model"
	"nexus-lab/backend/internal/repository"
)

// ── 占用模块业务错误 ──

var (
	ErrClassroomNotFound = errors.New("教室不存在")
)

// ── 占用状态变体 ──

// OccupancyKind 占用来源标签
type OccupancyKind string

const (
	OccupancyFree        OccupancyKind = "free"
	OccupancyClass       OccupancyKind = "class"
	OccupancyReservation OccupancyKind = "reservation"
)

// OccupancyStatus 教室在某日期时段的占用状态
// 带标签的变体：Kind 决定哪个载荷非空，调用方按 Kind 穷举分派
type OccupancyStatus struct {
	Kind        OccupancyKind
	Session     *model.ScheduleSession
	Reservation *model.Reservation
}

// FreeStatus 空闲
func FreeStatus() OccupancyStatus {
	return OccupancyStatus{Kind: OccupancyFree}
}

// ClassStatus 被固定课程占用
func ClassStatus(s *model.ScheduleSession) OccupancyStatus {
	return OccupancyStatus{Kind: OccupancyClass, Session: s}
}

// ReservationStatus 被预约占用
func ReservationStatus(r *model.Reservation) OccupancyStatus {
	return OccupancyStatus{Kind: OccupancyReservation, Reservation: r}
}

// IsFree 是否空闲
func (o OccupancyStatus) IsFree() bool { return o.Kind == OccupancyFree }

// Response 转为占用状态响应
func (o OccupancyStatus) Response() dto.OccupancyResponse { return toOccupancyResponse(o) }

// ── 冲突错误 ──

// ConflictError 占用冲突：携带冲突日期与占用实体
// 属于确定性的业务结果而非异常，调用方应将其作为正常分支处理
type ConflictError struct {
	Date      string
	Occupancy OccupancyStatus
}

func (e *ConflictError) Error() string {
	switch e.Occupancy.Kind {
	case OccupancyClass:
		return fmt.Sprintf("日期 %s 与固定课程冲突", e.Date)
	case OccupancyReservation:
		return fmt.Sprintf("日期 %s 与已有预约冲突", e.Date)
	default:
		return fmt.Sprintf("日期 %s 存在占用冲突", e.Date)
	}
}

// Detail 转为响应详情，供 Handler 层写入 409 响应体
func (e *ConflictError) Detail() dto.ConflictDetail {
	return dto.ConflictDetail{
		Date:      e.Date,
		Occupancy: toOccupancyResponse(e.Occupancy),
	}
}

// OccupancyService 占用判定业务接口
// 只读、无副作用，可并发调用；不跨调用缓存，始终反映最新已提交状态
type OccupancyService interface {
	// Resolve 判定教室在指定日期时段的占用状态
	Resolve(ctx context.Context, classroomID, date string, window TimeWindow) (OccupancyStatus, error)
	// ResolveExcluding 同 Resolve，但忽略指定预约自身（预约不与自己冲突）
	ResolveExcluding(ctx context.Context, classroomID, date string, window TimeWindow, excludeReservationID string) (OccupancyStatus, error)
	// FindAvailable 搜索在全部日期时段均空闲的教室，按教室编号升序
	FindAvailable(ctx context.Context, dates []string, window TimeWindow) ([]dto.ClassroomResponse, error)
	// ListClassroomStatus 教室看板：每间教室附带指定时刻的占用状态
	ListClassroomStatus(ctx context.Context, date string, window TimeWindow) ([]dto.ClassroomStatusResponse, error)
}

type occupancyService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewOccupancyService 创建 OccupancyService 实例
func NewOccupancyService(repo *repository.Repository, logger *zap.Logger) OccupancyService {
	return &occupancyService{repo: repo, logger: logger}
}

// ════════════════════════════════════════════════════════════
// Resolve — 占用判定
// ════════════════════════════════════════════════════════════
//
// 判定顺序：固定课程优先于预约。
//   1. 取该教室当日生效的课程场次（按开始时间升序），第一个时段重叠者即占用方；
//      多场次同时重叠说明上游排课数据有瑕疵，此处取最早者而不报错
//   2. 取该教室占用中的预约（pending | confirmed），日期集合含当日且时段重叠者即占用方
//   3. 否则空闲

func (s *occupancyService) Resolve(ctx context.Context, classroomID, date string, window TimeWindow) (OccupancyStatus, error) {
	return s.ResolveExcluding(ctx, classroomID, date, window, "")
}

func (s *occupancyService) ResolveExcluding(ctx context.Context, classroomID, date string, window TimeWindow, excludeReservationID string) (OccupancyStatus, error) {
	if err := window.Validate(); err != nil {
		return OccupancyStatus{}, err
	}
	day, err := ParseDate(date)
	if err != nil {
		return OccupancyStatus{}, err
	}

	sessions, err := s.repo.ScheduleSession.ListForClassroomAndDate(ctx, classroomID, day)
	if err != nil {
		s.logger.Error("查询课程场次失败", zap.String("classroom_id", classroomID), zap.Error(err))
		return OccupancyStatus{}, err
	}
	for i := range sessions {
		if window.Overlaps(string(sessions[i].StartTime), string(sessions[i].EndTime)) {
			return ClassStatus(&sessions[i]), nil
		}
	}

	reservations, err := s.repo.Reservation.ListActiveForClassroom(ctx, classroomID)
	if err != nil {
		s.logger.Error("查询预约失败", zap.String("classroom_id", classroomID), zap.Error(err))
		return OccupancyStatus{}, err
	}
	for i := range reservations {
		r := &reservations[i]
		if r.ReservationID == excludeReservationID {
			continue
		}
		if r.Dates.Contains(date) && window.Overlaps(string(r.StartTime), string(r.EndTime)) {
			return ReservationStatus(r), nil
		}
	}

	return FreeStatus(), nil
}

// ════════════════════════════════════════════════════════════
// FindAvailable — 可用教室搜索
// ════════════════════════════════════════════════════════════

func (s *occupancyService) FindAvailable(ctx context.Context, dates []string, window TimeWindow) ([]dto.ClassroomResponse, error) {
	if err := window.Validate(); err != nil {
		return nil, err
	}
	normalized, err := ExpandDates(dates)
	if err != nil {
		return nil, err
	}

	classrooms, err := s.repo.Classroom.List(ctx, false)
	if err != nil {
		s.logger.Error("查询教室列表失败", zap.Error(err))
		return nil, err
	}

	result := make([]dto.ClassroomResponse, 0, len(classrooms))
	for i := range classrooms {
		free := true
		for _, date := range normalized {
			status, err := s.Resolve(ctx, classrooms[i].ClassroomID, date, window)
			if err != nil {
				return nil, err
			}
			if !status.IsFree() {
				free = false
				break // 单间教室遇到首个冲突即短路
			}
		}
		if free {
			result = append(result, toClassroomResponse(&classrooms[i]))
		}
	}

	return result, nil
}

// ════════════════════════════════════════════════════════════
// ListClassroomStatus — 教室看板
// ════════════════════════════════════════════════════════════

func (s *occupancyService) ListClassroomStatus(ctx context.Context, date string, window TimeWindow) ([]dto.ClassroomStatusResponse, error) {
	classrooms, err := s.repo.Classroom.List(ctx, false)
	if err != nil {
		s.logger.Error("查询教室列表失败", zap.Error(err))
		return nil, err
	}

	result := make([]dto.ClassroomStatusResponse, 0, len(classrooms))
	for i := range classrooms {
		status, err := s.Resolve(ctx, classrooms[i].ClassroomID, date, window)
		if err != nil {
			return nil, err
		}
		result = append(result, dto.ClassroomStatusResponse{
			Classroom: toClassroomResponse(&classrooms[i]),
			Occupancy: toOccupancyResponse(status),
		})
	}

	return result, nil
}

// ── 内部辅助方法 ──

// toOccupancyResponse 将占用状态变体转为响应（按 Kind 穷举分派）
func toOccupancyResponse(status OccupancyStatus) dto.OccupancyResponse {
	switch status.Kind {
	case OccupancyClass:
		brief := &dto.SessionBrief{
			ID:        status.Session.SessionID,
			DayOfWeek: status.Session.DayOfWeek,
			StartTime: string(status.Session.StartTime),
			EndTime:   string(status.Session.EndTime),
		}
		if status.Session.Subject != nil {
			brief.SubjectName = status.Session.Subject.Name
		}
		if status.Session.Teacher != nil {
			brief.TeacherName = status.Session.Teacher.Name
		}
		return dto.OccupancyResponse{Kind: string(OccupancyClass), Session: brief}
	case OccupancyReservation:
		brief := &dto.ReservationBrief{
			ID:        status.Reservation.ReservationID,
			StartTime: string(status.Reservation.StartTime),
			EndTime:   string(status.Reservation.EndTime),
			Status:    status.Reservation.Status,
		}
		if status.Reservation.Requester != nil {
			brief.RequesterName = status.Reservation.Requester.Name
		}
		return dto.OccupancyResponse{Kind: string(OccupancyReservation), Reservation: brief}
	default:
		return dto.OccupancyResponse{Kind: string(OccupancyFree)}
	}
}

func toClassroomResponse(c *model.Classroom) dto.ClassroomResponse {
	return dto.ClassroomResponse{
		ID:        c.ClassroomID,
		Code:      c.Code,
		Name:      c.Name,
		Capacity:  c.Capacity,
		Building:  c.Building,
		IsActive:  c.IsActive,
		CreatedAt: c.CreatedAt.Format("2006-01-02T15:04:05Z"),
		UpdatedAt: c.UpdatedAt.Format("2006-01-02T15:04:05Z"),
	}
}
