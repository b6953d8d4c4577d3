package service

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"nexus-lab/backend/config"
	"nexus-lab/backend/internal/dto"
	"nexus-lab/backend/internal/model"
	"nexus-lab/backend/internal/repository"
)

// ── 课程场次模块业务错误 ──

var (
	ErrInvalidDateRange  = errors.New("有效期非法：起始日期须不晚于结束日期")
	ErrICSImportDisabled = errors.New("ICS 导入功能未启用")
	ErrICSNoSessions     = errors.New("ICS 内容中未解析出任何课程场次")
)

// SessionService 固定课程场次管理接口（排课管理侧）
type SessionService interface {
	Create(ctx context.Context, req *dto.CreateSessionRequest, callerID string) (*dto.SessionResponse, error)
	List(ctx context.Context, req *dto.SessionListRequest) ([]dto.SessionResponse, error)
	Delete(ctx context.Context, id string, callerID string) error
	// ImportICS 从 iCalendar 订阅地址导入课程场次
	ImportICS(ctx context.Context, req *dto.ImportICSRequest, callerID string) (*dto.ImportICSResponse, error)
}

type sessionService struct {
	cfg    *config.Config
	repo   *repository.Repository
	logger *zap.Logger
}

// NewSessionService 创建 SessionService 实例
func NewSessionService(cfg *config.Config, repo *repository.Repository, logger *zap.Logger) SessionService {
	return &sessionService{cfg: cfg, repo: repo, logger: logger}
}

// ────────────────────── Create ──────────────────────

func (s *sessionService) Create(ctx context.Context, req *dto.CreateSessionRequest, callerID string) (*dto.SessionResponse, error) {
	window := TimeWindow{Start: req.StartTime, End: req.EndTime}
	if err := window.Validate(); err != nil {
		return nil, err
	}
	startDate, err := ParseDate(req.StartDate)
	if err != nil {
		return nil, err
	}
	endDate, err := ParseDate(req.EndDate)
	if err != nil {
		return nil, err
	}
	if startDate.After(endDate) {
		return nil, ErrInvalidDateRange
	}

	if _, err := s.repo.Classroom.GetByID(ctx, req.ClassroomID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrClassroomNotFound
		}
		return nil, err
	}

	session := &model.ScheduleSession{
		ClassroomID: req.ClassroomID,
		SubjectID:   req.SubjectID,
		TeacherID:   req.TeacherID,
		DayOfWeek:   req.DayOfWeek,
		StartTime:   model.ClockTime(req.StartTime),
		EndTime:     model.ClockTime(req.EndTime),
		StartDate:   startDate,
		EndDate:     endDate,
		Source:      "manual",
	}
	session.CreatedBy = &callerID
	session.UpdatedBy = &callerID

	if err := s.repo.ScheduleSession.Create(ctx, session); err != nil {
		s.logger.Error("创建课程场次失败", zap.Error(err))
		return nil, err
	}

	created, err := s.repo.ScheduleSession.GetByID(ctx, session.SessionID)
	if err != nil {
		return nil, err
	}
	resp := toSessionResponse(created)
	return &resp, nil
}

// ────────────────────── List ──────────────────────

func (s *sessionService) List(ctx context.Context, req *dto.SessionListRequest) ([]dto.SessionResponse, error) {
	sessions, err := s.repo.ScheduleSession.List(ctx, req.ClassroomID)
	if err != nil {
		s.logger.Error("查询课程场次列表失败", zap.Error(err))
		return nil, err
	}

	result := make([]dto.SessionResponse, 0, len(sessions))
	for i := range sessions {
		result = append(result, toSessionResponse(&sessions[i]))
	}
	return result, nil
}

// ────────────────────── Delete ──────────────────────

func (s *sessionService) Delete(ctx context.Context, id string, callerID string) error {
	if _, err := s.repo.ScheduleSession.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrSessionNotFound
		}
		s.logger.Error("查询课程场次失败", zap.String("session_id", id), zap.Error(err))
		return err
	}

	if err := s.repo.ScheduleSession.Delete(ctx, id, callerID); err != nil {
		s.logger.Error("删除课程场次失败", zap.String("session_id", id), zap.Error(err))
		return err
	}
	return nil
}

// ────────────────────── ImportICS ──────────────────────

func (s *sessionService) ImportICS(ctx context.Context, req *dto.ImportICSRequest, callerID string) (*dto.ImportICSResponse, error) {
	if !s.cfg.Feature.ICSImportEnabled {
		return nil, ErrICSImportDisabled
	}

	startDate, err := ParseDate(req.StartDate)
	if err != nil {
		return nil, err
	}
	endDate, err := ParseDate(req.EndDate)
	if err != nil {
		return nil, err
	}
	if startDate.After(endDate) {
		return nil, ErrInvalidDateRange
	}

	body, err := FetchICSContent(req.ICSURL)
	if err != nil {
		s.logger.Error("获取 ICS 内容失败", zap.String("url", req.ICSURL), zap.Error(err))
		return nil, err
	}
	defer body.Close()

	sessions, err := ParseICS(body, icsImportTarget{
		ClassroomID: req.ClassroomID,
		SubjectID:   req.SubjectID,
		TeacherID:   req.TeacherID,
		StartDate:   startDate,
		EndDate:     endDate,
	})
	if err != nil {
		s.logger.Error("解析 ICS 失败", zap.Error(err))
		return nil, err
	}
	if len(sessions) == 0 {
		return nil, ErrICSNoSessions
	}

	for i := range sessions {
		sessions[i].CreatedBy = &callerID
		sessions[i].UpdatedBy = &callerID
	}
	if err := s.repo.ScheduleSession.BatchCreate(ctx, sessions); err != nil {
		s.logger.Error("批量创建课程场次失败", zap.Error(err))
		return nil, err
	}

	resp := &dto.ImportICSResponse{Imported: len(sessions)}
	resp.Sessions = make([]dto.SessionResponse, 0, len(sessions))
	for i := range sessions {
		resp.Sessions = append(resp.Sessions, toSessionResponse(&sessions[i]))
	}

	s.logger.Info("ICS 课表导入完成",
		zap.String("classroom_id", req.ClassroomID),
		zap.Int("imported", len(sessions)),
	)
	return resp, nil
}

// ── 内部辅助方法 ──

// toSessionResponse 转换课程场次为响应
func toSessionResponse(session *model.ScheduleSession) dto.SessionResponse {
	resp := dto.SessionResponse{
		ID:          session.SessionID,
		ClassroomID: session.ClassroomID,
		SubjectID:   session.SubjectID,
		TeacherID:   session.TeacherID,
		DayOfWeek:   session.DayOfWeek,
		StartTime:   string(session.StartTime),
		EndTime:     string(session.EndTime),
		StartDate:   session.StartDate.Format("2006-01-02"),
		EndDate:     session.EndDate.Format("2006-01-02"),
		Source:      session.Source,
	}
	if session.Classroom != nil {
		resp.ClassroomCode = session.Classroom.Code
	}
	if session.Subject != nil {
		resp.SubjectName = session.Subject.Name
	}
	if session.Teacher != nil {
		resp.TeacherName = session.Teacher.Name
	}
	return resp
}
