package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"nexus-lab/backend/internal/dto"
	"nexus-lab/backend/internal/model"
	"nexus-lab/backend/internal/repository"
)

// ── 考勤模块业务错误 ──

var (
	ErrSessionNotFound       = errors.New("课程场次不存在")
	ErrSessionNotOnDate      = errors.New("课程场次在该日期不生效")
	ErrAttendanceNotFound    = errors.New("考勤记录不存在")
	ErrAttendanceAlreadyOpen = errors.New("该场次当日已有未关闭的考勤记录")
	ErrAttendanceClosed      = errors.New("考勤记录已关闭，不可重复登记离开")
	ErrNotSessionTeacher     = errors.New("只能登记本人负责场次的考勤")
)

// AttendanceService 教师考勤业务接口
//
// (场次, 日期) 状态机：
//   无记录 → RegisterEntry → open → RegisterExit → closed
// 同一 (场次, 日期) 至多一条 open 记录；离开时间恒不早于进入时间。
type AttendanceService interface {
	// RegisterEntry 进入登记，创建 open 记录
	RegisterEntry(ctx context.Context, req *dto.RegisterEntryRequest, callerID string) (*dto.AttendanceResponse, error)
	// RegisterExit 离开登记，open → closed
	RegisterExit(ctx context.Context, attendanceID string, callerID string) (*dto.AttendanceResponse, error)
	// GetDailySchedule 教师当日课表：每个生效场次附带考勤记录（可为空），按开始时间升序
	GetDailySchedule(ctx context.Context, teacherID, date string) ([]dto.DailyScheduleItemResponse, error)
}

type attendanceService struct {
	repo   *repository.Repository
	locks  *keyedMutex // (场次, 日期) 级串行化点
	logger *zap.Logger
}

// NewAttendanceService 创建 AttendanceService 实例
func NewAttendanceService(repo *repository.Repository, logger *zap.Logger) AttendanceService {
	return &attendanceService{
		repo:   repo,
		locks:  newKeyedMutex(),
		logger: logger,
	}
}

// ════════════════════════════════════════════════════════════
// RegisterEntry — 进入登记
// ════════════════════════════════════════════════════════════

func (s *attendanceService) RegisterEntry(ctx context.Context, req *dto.RegisterEntryRequest, callerID string) (*dto.AttendanceResponse, error) {
	day, err := ParseDate(req.Date)
	if err != nil {
		return nil, err
	}

	session, err := s.repo.ScheduleSession.GetByID(ctx, req.SessionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSessionNotFound
		}
		s.logger.Error("查询课程场次失败", zap.String("session_id", req.SessionID), zap.Error(err))
		return nil, err
	}
	if session.TeacherID != callerID {
		return nil, ErrNotSessionTeacher
	}
	if !session.MatchesDate(day) {
		return nil, ErrSessionNotOnDate
	}

	mu := s.locks.Get(req.SessionID + ":" + req.Date)
	mu.Lock()
	defer mu.Unlock()

	if _, err := s.repo.Attendance.FindOpen(ctx, req.SessionID, day); err == nil {
		return nil, ErrAttendanceAlreadyOpen
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		s.logger.Error("查询考勤记录失败", zap.Error(err))
		return nil, err
	}

	record := &model.AttendanceRecord{
		SessionID:   req.SessionID,
		SessionDate: day,
		EntryAt:     time.Now(),
		State:       model.AttendanceOpen,
	}
	record.CreatedBy = &callerID
	record.UpdatedBy = &callerID

	if err := s.repo.Attendance.Insert(ctx, record); err != nil {
		s.logger.Error("创建考勤记录失败", zap.Error(err))
		return nil, err
	}

	resp := toAttendanceResponse(record)
	return &resp, nil
}

// ════════════════════════════════════════════════════════════
// RegisterExit — 离开登记
// ════════════════════════════════════════════════════════════

func (s *attendanceService) RegisterExit(ctx context.Context, attendanceID string, callerID string) (*dto.AttendanceResponse, error) {
	record, err := s.repo.Attendance.GetByID(ctx, attendanceID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAttendanceNotFound
		}
		s.logger.Error("查询考勤记录失败", zap.String("attendance_id", attendanceID), zap.Error(err))
		return nil, err
	}

	mu := s.locks.Get(record.SessionID + ":" + record.SessionDate.Format("2006-01-02"))
	mu.Lock()
	defer mu.Unlock()

	// 锁内重读，令并发的重复离开得到"已关闭"而非乐观锁冲突
	record, err = s.repo.Attendance.GetByID(ctx, attendanceID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAttendanceNotFound
		}
		s.logger.Error("查询考勤记录失败", zap.String("attendance_id", attendanceID), zap.Error(err))
		return nil, err
	}
	if record.State == model.AttendanceClosed {
		return nil, ErrAttendanceClosed
	}
	if record.Session != nil && record.Session.TeacherID != callerID {
		return nil, ErrNotSessionTeacher
	}

	exitAt := time.Now()
	if exitAt.Before(record.EntryAt) {
		// 时钟回拨时夹取为进入时间，保证离开 ≥ 进入
		exitAt = record.EntryAt
	}

	record.UpdatedBy = &callerID
	if err := s.repo.Attendance.Close(ctx, record, exitAt); err != nil {
		s.logger.Error("关闭考勤记录失败", zap.String("attendance_id", attendanceID), zap.Error(err))
		return nil, err
	}

	resp := toAttendanceResponse(record)
	return &resp, nil
}

// ════════════════════════════════════════════════════════════
// GetDailySchedule — 教师当日课表
// ════════════════════════════════════════════════════════════

func (s *attendanceService) GetDailySchedule(ctx context.Context, teacherID, date string) ([]dto.DailyScheduleItemResponse, error) {
	day, err := ParseDate(date)
	if err != nil {
		return nil, err
	}

	sessions, err := s.repo.ScheduleSession.ListForTeacherAndDate(ctx, teacherID, day)
	if err != nil {
		s.logger.Error("查询教师当日场次失败", zap.String("teacher_id", teacherID), zap.Error(err))
		return nil, err
	}

	result := make([]dto.DailyScheduleItemResponse, 0, len(sessions))
	for i := range sessions {
		item := dto.DailyScheduleItemResponse{
			Session: toSessionResponse(&sessions[i]),
		}
		record, err := s.repo.Attendance.FindForSessionAndDate(ctx, sessions[i].SessionID, day)
		if err != nil {
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				s.logger.Error("查询场次考勤失败", zap.String("session_id", sessions[i].SessionID), zap.Error(err))
				return nil, err
			}
			// 无记录时 Attendance 为空
		} else {
			resp := toAttendanceResponse(record)
			item.Attendance = &resp
		}
		result = append(result, item)
	}

	return result, nil
}

// ── 内部辅助方法 ──

// toAttendanceResponse 转换考勤记录为响应
func toAttendanceResponse(r *model.AttendanceRecord) dto.AttendanceResponse {
	resp := dto.AttendanceResponse{
		ID:        r.AttendanceID,
		SessionID: r.SessionID,
		Date:      r.SessionDate.Format("2006-01-02"),
		EntryAt:   r.EntryAt.Format(time.RFC3339),
		State:     r.State,
	}
	if r.ExitAt != nil {
		e := r.ExitAt.Format(time.RFC3339)
		resp.ExitAt = &e
	}
	return resp
}
