package service

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"nexus-lab/backend/internal/dto"
	"nexus-lab/backend/internal/model"
	"nexus-lab/backend/internal/repository"
)

// ClassroomService 教室目录管理接口（行政侧 CRUD）
type ClassroomService interface {
	Create(ctx context.Context, req *dto.CreateClassroomRequest, callerID string) (*dto.ClassroomResponse, error)
	GetByID(ctx context.Context, id string) (*dto.ClassroomResponse, error)
	List(ctx context.Context, req *dto.ClassroomListRequest) ([]dto.ClassroomResponse, error)
	Update(ctx context.Context, id string, req *dto.UpdateClassroomRequest, callerID string) (*dto.ClassroomResponse, error)
	Delete(ctx context.Context, id string, callerID string) error
}

type classroomService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewClassroomService 创建 ClassroomService 实例
func NewClassroomService(repo *repository.Repository, logger *zap.Logger) ClassroomService {
	return &classroomService{repo: repo, logger: logger}
}

// ────────────────────── Create ──────────────────────

func (s *classroomService) Create(ctx context.Context, req *dto.CreateClassroomRequest, callerID string) (*dto.ClassroomResponse, error) {
	classroom := &model.Classroom{
		Code:     req.Code,
		Name:     req.Name,
		Capacity: req.Capacity,
		Building: req.Building,
		IsActive: true,
	}
	classroom.CreatedBy = &callerID
	classroom.UpdatedBy = &callerID

	if err := s.repo.Classroom.Create(ctx, classroom); err != nil {
		s.logger.Error("创建教室失败", zap.Error(err))
		return nil, err
	}

	resp := toClassroomResponse(classroom)
	return &resp, nil
}

// ────────────────────── GetByID ──────────────────────

func (s *classroomService) GetByID(ctx context.Context, id string) (*dto.ClassroomResponse, error) {
	classroom, err := s.repo.Classroom.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrClassroomNotFound
		}
		s.logger.Error("查询教室失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	resp := toClassroomResponse(classroom)
	return &resp, nil
}

// ────────────────────── List ──────────────────────

func (s *classroomService) List(ctx context.Context, req *dto.ClassroomListRequest) ([]dto.ClassroomResponse, error) {
	classrooms, err := s.repo.Classroom.List(ctx, req.IncludeInactive)
	if err != nil {
		s.logger.Error("查询教室列表失败", zap.Error(err))
		return nil, err
	}

	result := make([]dto.ClassroomResponse, 0, len(classrooms))
	for i := range classrooms {
		result = append(result, toClassroomResponse(&classrooms[i]))
	}
	return result, nil
}

// ────────────────────── Update ──────────────────────

func (s *classroomService) Update(ctx context.Context, id string, req *dto.UpdateClassroomRequest, callerID string) (*dto.ClassroomResponse, error) {
	classroom, err := s.repo.Classroom.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrClassroomNotFound
		}
		s.logger.Error("查询教室失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	if req.Code != nil {
		classroom.Code = *req.Code
	}
	if req.Name != nil {
		classroom.Name = *req.Name
	}
	if req.Capacity != nil {
		classroom.Capacity = *req.Capacity
	}
	if req.Building != nil {
		classroom.Building = *req.Building
	}
	if req.IsActive != nil {
		classroom.IsActive = *req.IsActive
	}
	classroom.UpdatedBy = &callerID

	if err := s.repo.Classroom.Update(ctx, classroom); err != nil {
		s.logger.Error("更新教室失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	resp := toClassroomResponse(classroom)
	return &resp, nil
}

// ────────────────────── Delete ──────────────────────

func (s *classroomService) Delete(ctx context.Context, id string, callerID string) error {
	if _, err := s.repo.Classroom.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrClassroomNotFound
		}
		s.logger.Error("查询教室失败", zap.String("id", id), zap.Error(err))
		return err
	}

	if err := s.repo.Classroom.Delete(ctx, id, callerID); err != nil {
		s.logger.Error("删除教室失败", zap.String("id", id), zap.Error(err))
		return err
	}
	return nil
}
